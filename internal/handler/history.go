package handler

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pagecast/internal/middleware"
	tg "github.com/set-night/pagecast/internal/telegram"
)

func (h *Handler) handleHistory(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	limit := 0
	if args := commandArgs(update.Message.Text); len(args) > 0 {
		n, err := strconv.Atoi(args[0])
		if err != nil {
			tg.SendText(ctx, b, chatID, "⚠️ Usage: /history [n]", nil)
			return
		}
		limit = n
	}

	records, err := h.analysis.History(ctx, userID, limit)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "history")
		return
	}
	if err := tg.SendLongMessage(ctx, b, chatID, formatHistory(records), nil); err != nil {
		slog.Error("send history", "error", err)
	}
}

func (h *Handler) handleShow(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		tg.SendText(ctx, b, chatID, "⚠️ Usage: /show <id>", nil)
		return
	}

	rec, err := h.analysis.Get(ctx, args[0], userID)
	if err != nil {
		h.replyError(ctx, b, chatID, err, "show")
		return
	}
	if err := tg.SendLongMessage(ctx, b, chatID, formatAnalysis(rec, false), nil); err != nil {
		slog.Error("send analysis", "error", err, "analysis_id", rec.ID)
	}
	h.sendNarration(ctx, b, chatID, rec, nil)
}

func (h *Handler) handleDelete(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := update.Message.Chat.ID

	args := commandArgs(update.Message.Text)
	if len(args) != 1 {
		tg.SendText(ctx, b, chatID, "⚠️ Usage: /delete <id>", nil)
		return
	}

	if err := h.analysis.Delete(ctx, args[0], userID); err != nil {
		h.replyError(ctx, b, chatID, err, "delete")
		return
	}
	tg.SendText(ctx, b, chatID, "🗑 Analysis deleted.", nil)
}

func (h *Handler) handleForget(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil {
		return
	}

	kb := tg.InlineKeyboard(tg.ButtonRow(
		tg.InlineButton("🗑 Yes, delete everything", cbForget+"yes"),
		tg.InlineButton("Cancel", cbForget+"no"),
	))
	tg.SendText(ctx, b, update.Message.Chat.ID,
		"⚠️ This deletes all your analyses and settings. Continue?", kb)
}

func (h *Handler) handleForgetConfirm(ctx context.Context, b *bot.Bot, update *models.Update) {
	cq := update.CallbackQuery
	if cq == nil {
		return
	}
	b.AnswerCallbackQuery(ctx, &bot.AnswerCallbackQueryParams{CallbackQueryID: cq.ID})

	msg, ok := callbackChat(cq)
	userID := middleware.GetUserID(ctx)
	if !ok || userID == "" {
		return
	}

	if cq.Data != cbForget+"yes" {
		tg.EditMessage(ctx, b, msg.Chat.ID, msg.ID, "👍 Nothing was deleted.", nil)
		return
	}

	n, err := h.analysis.Forget(ctx, userID)
	if err != nil {
		h.replyError(ctx, b, msg.Chat.ID, err, "forget")
		return
	}
	slog.Info("user data deleted", "user_id", userID, "analyses", n)
	tg.EditMessage(ctx, b, msg.Chat.ID, msg.ID,
		fmt.Sprintf("🗑 Deleted %d analyses and your settings.", n), nil)
}

// callbackChat returns the chat and message a callback query was sent from.
func callbackChat(cq *models.CallbackQuery) (*models.Message, bool) {
	if cq == nil || cq.Message.Message == nil {
		return nil, false
	}
	return cq.Message.Message, true
}

// intArg parses the single numeric argument of a settings command.
func intArg(text string) (int, bool) {
	args := commandArgs(text)
	if len(args) != 1 {
		return 0, false
	}
	n, err := strconv.Atoi(args[0])
	return n, err == nil
}
