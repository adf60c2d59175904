package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pagecast/internal/catalog"
	"github.com/set-night/pagecast/internal/domain"
	"github.com/set-night/pagecast/internal/middleware"
	tg "github.com/set-night/pagecast/internal/telegram"
)

func (h *Handler) handleModels(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	current := ""
	if userID := middleware.GetUserID(ctx); userID != "" {
		current = h.configs.Get(ctx, userID).Model.Key
	}
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, formatModels(catalog.Models(), current), nil); err != nil {
		slog.Error("send models", "error", err)
	}
}

func (h *Handler) handleModel(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	// "/model <key>" sets the model directly
	if args := commandArgs(update.Message.Text); len(args) == 1 {
		key := args[0]
		h.applyUpdate(ctx, b, chatID, domain.ConfigUpdate{ModelID: &key}, "model")
		return
	}

	cfg := h.configs.Get(ctx, userID)
	tg.SendText(ctx, b, chatID, "🤖 Choose the AI model:", modelKeyboard(cfg.Model.Key))
}

func modelKeyboard(selected string) *models.InlineKeyboardMarkup {
	list := catalog.Models()
	choices := make([]tg.Choice, 0, len(list))
	for _, m := range list {
		choices = append(choices, tg.Choice{Value: m.Key, Label: m.Name})
	}
	return tg.ChoiceKeyboard(choices, selected, cbModel, 1)
}

func (h *Handler) handleModelSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	key := strings.TrimPrefix(cq.Data, cbModel)
	h.selectSetting(ctx, b, cq, domain.ConfigUpdate{ModelID: &key}, func(cfg domain.ResolvedConfig) (string, *models.InlineKeyboardMarkup) {
		return "🤖 Model set to " + cfg.Model.Name + ".", modelKeyboard(cfg.Model.Key)
	})
}

// selectSetting applies a keyboard choice and redraws the keyboard with the new selection.
func (h *Handler) selectSetting(ctx context.Context, b *bot.Bot, cq *models.CallbackQuery, upd domain.ConfigUpdate,
	render func(domain.ResolvedConfig) (string, *models.InlineKeyboardMarkup)) {
	msg, ok := callbackChat(cq)
	userID := middleware.GetUserID(ctx)
	if !ok || userID == "" {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})
		return
	}

	cfg, err := h.configs.Update(ctx, userID, upd)
	if err != nil {
		b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{
			CallbackQueryID: cq.ID,
			Text:            userMessage(err),
			ShowAlert:       true,
		})
		if !isUserError(err) {
			slog.Error("update config", "error", err, "user_id", userID)
			h.opsLogger.LogError(err, "config callback")
		}
		return
	}

	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID, Text: "✅ Saved"})
	text, kb := render(cfg)
	if err := tg.EditMessage(ctx, b, msg.Chat.ID, msg.ID, text, kb); err != nil {
		slog.Debug("edit settings message", "error", err)
	}
}
