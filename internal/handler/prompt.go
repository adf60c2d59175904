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

var languageNames = map[string]string{
	"en": "🇬🇧 English",
	"pl": "🇵🇱 Polski",
}

func (h *Handler) handlePrompts(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	current := ""
	if userID := middleware.GetUserID(ctx); userID != "" {
		current = h.configs.Get(ctx, userID).Prompt.ID
	}
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, formatPrompts(catalog.Prompts(), current), nil); err != nil {
		slog.Error("send prompts", "error", err)
	}
}

func (h *Handler) handlePrompt(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	if args := commandArgs(update.Message.Text); len(args) == 1 {
		id := args[0]
		h.applyUpdate(ctx, b, chatID, domain.ConfigUpdate{PromptID: &id}, "prompt")
		return
	}

	cfg := h.configs.Get(ctx, userID)
	tg.SendText(ctx, b, chatID, "📝 Choose the prompt:", promptKeyboard(cfg.Prompt.ID))
}

func promptKeyboard(selected string) *models.InlineKeyboardMarkup {
	list := catalog.Prompts()
	choices := make([]tg.Choice, 0, len(list))
	for _, p := range list {
		choices = append(choices, tg.Choice{Value: p.ID, Label: p.Name})
	}
	return tg.ChoiceKeyboard(choices, selected, cbPrompt, 1)
}

func (h *Handler) handlePromptSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	id := strings.TrimPrefix(cq.Data, cbPrompt)
	h.selectSetting(ctx, b, cq, domain.ConfigUpdate{PromptID: &id}, func(cfg domain.ResolvedConfig) (string, *models.InlineKeyboardMarkup) {
		return "📝 Prompt set to " + cfg.Prompt.Name + " (" + cfg.Language + ").", promptKeyboard(cfg.Prompt.ID)
	})
}

func (h *Handler) handleLang(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	if args := commandArgs(update.Message.Text); len(args) == 1 {
		lang := strings.ToLower(args[0])
		h.applyUpdate(ctx, b, chatID, domain.ConfigUpdate{Language: &lang}, "lang")
		return
	}

	cfg := h.configs.Get(ctx, userID)
	tg.SendText(ctx, b, chatID, "🌐 Choose the analysis language:", languageKeyboard(cfg.Language))
}

func languageKeyboard(selected string) *models.InlineKeyboardMarkup {
	langs := catalog.Languages()
	choices := make([]tg.Choice, 0, len(langs))
	for _, l := range langs {
		label, ok := languageNames[l]
		if !ok {
			label = l
		}
		choices = append(choices, tg.Choice{Value: l, Label: label})
	}
	return tg.ChoiceKeyboard(choices, selected, cbLang, 2)
}

func (h *Handler) handleLangSelect(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	lang := strings.TrimPrefix(cq.Data, cbLang)
	h.selectSetting(ctx, b, cq, domain.ConfigUpdate{Language: &lang}, func(cfg domain.ResolvedConfig) (string, *models.InlineKeyboardMarkup) {
		return "🌐 Language set to " + cfg.Language + ", prompt " + cfg.Prompt.Name + ".", languageKeyboard(cfg.Language)
	})
}
