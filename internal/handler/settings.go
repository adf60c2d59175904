package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
	"github.com/set-night/pagecast/internal/middleware"
	tg "github.com/set-night/pagecast/internal/telegram"
)

func (h *Handler) handleConfig(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}

	cfg := h.configs.Get(ctx, userID)
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, formatConfig(cfg), nil); err != nil {
		slog.Error("send config", "error", err)
	}
}

func (h *Handler) handleMaxLen(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	n, ok := intArg(update.Message.Text)
	if !ok {
		tg.SendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Usage: /maxlen <%d-%d>",
			config.MinMaxContentLength, config.MaxMaxContentLength), nil)
		return
	}
	h.applyUpdate(ctx, b, update.Message.Chat.ID, domain.ConfigUpdate{MaxContentLength: &n}, "maxlen")
}

func (h *Handler) handleExpiration(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	n, ok := intArg(update.Message.Text)
	if !ok {
		tg.SendText(ctx, b, update.Message.Chat.ID, fmt.Sprintf("⚠️ Usage: /expiration <%d-%d seconds>",
			config.MinCacheExpiration, config.MaxCacheExpiration), nil)
		return
	}
	h.applyUpdate(ctx, b, update.Message.Chat.ID, domain.ConfigUpdate{CacheExpiration: &n}, "expiration")
}

func (h *Handler) handleCaching(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		tg.SendText(ctx, b, chatID, "⚠️ Usage: /caching on|off", nil)
		return
	}

	var enable bool
	switch strings.ToLower(args[0]) {
	case "on", "true", "yes", "1":
		enable = true
	case "off", "false", "no", "0":
		enable = false
	default:
		tg.SendText(ctx, b, chatID, "⚠️ Usage: /caching on|off", nil)
		return
	}
	h.applyUpdate(ctx, b, chatID, domain.ConfigUpdate{EnableCaching: &enable}, "caching")
}

// applyUpdate stores upd for the caller and replies with the resulting settings.
func (h *Handler) applyUpdate(ctx context.Context, b *bot.Bot, chatID int64, upd domain.ConfigUpdate, where string) {
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}

	cfg, err := h.configs.Update(ctx, userID, upd)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "config "+where)
		return
	}
	if err := tg.SendLongMessage(ctx, b, chatID, "✅ Saved.\n\n"+formatConfig(cfg), nil); err != nil {
		slog.Error("send config", "error", err)
	}
}
