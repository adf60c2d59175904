package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/pagecast/internal/telegram"
)

const helpText = "👋 *Pagecast*\n\n" +
	"Send me a link and I will read the page, summarize it and narrate the summary.\n\n" +
	"📋 *Commands:*\n" +
	"/history \\[n] — Your latest analyses\n" +
	"/show <id> — Show one analysis\n" +
	"/delete <id> — Delete one analysis\n" +
	"/config — Current AI settings\n" +
	"/model — Choose the AI model\n" +
	"/prompt — Choose the prompt\n" +
	"/lang — Choose the language\n" +
	"/maxlen <n> — Page text sent to the model (1000–50000)\n" +
	"/caching on|off — Reuse recent analyses\n" +
	"/expiration <s> — Cache expiration (300–86400)\n" +
	"/models, /prompts, /voices — Catalogs\n" +
	"/forget — Delete all your data\n" +
	"/status — Service status"

func (h *Handler) handleStart(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	_, err := b.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:    update.Message.Chat.ID,
		Text:      helpText,
		ParseMode: models.ParseModeMarkdownV1,
	})
	if err != nil {
		slog.Error("send help", "error", err)
	}
}

func (h *Handler) handleHelp(ctx context.Context, b *bot.Bot, update *models.Update) {
	h.handleStart(ctx, b, update)
}

func (h *Handler) handleStatus(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	storeStatus := "✅ reachable"
	if err := h.store.Ping(ctx); err != nil {
		slog.Error("store ping failed", "error", err)
		storeStatus = "❌ unreachable"
	}

	text := "🩺 Status\n\n" +
		"Store (" + h.cfg.StoreDriver + "): " + storeStatus + "\n" +
		"Analysis provider: " + keyStatus(h.cfg.OpenRouterKey) + "\n" +
		"Speech provider: " + keyStatus(h.cfg.ElevenLabsKey)
	tg.SendText(ctx, b, update.Message.Chat.ID, text, nil)
}

func keyStatus(key string) string {
	if key == "" {
		return "⚠️ not configured"
	}
	return "✅ configured"
}
