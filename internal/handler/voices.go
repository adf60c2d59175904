package handler

import (
	"context"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	tg "github.com/set-night/pagecast/internal/telegram"
)

func (h *Handler) handleVoices(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	voices := h.narration.ListVoices(ctx)
	if err := tg.SendLongMessage(ctx, b, update.Message.Chat.ID, formatVoices(voices), nil); err != nil {
		slog.Error("send voices", "error", err)
	}
}
