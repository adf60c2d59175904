package handler

import (
	"context"
	"log/slog"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
	"github.com/set-night/pagecast/internal/middleware"
	tg "github.com/set-night/pagecast/internal/telegram"
)

// HandleText analyzes the link in a plain message. It is installed as the
// bot's default handler, so unknown commands land here too.
func (h *Handler) HandleText(ctx context.Context, b *bot.Bot, update *models.Update) {
	msg := update.Message
	if msg == nil || msg.Text == "" {
		return
	}
	userID := middleware.GetUserID(ctx)
	if userID == "" {
		return
	}
	chatID := msg.Chat.ID

	text := strings.TrimSpace(msg.Text)
	if strings.HasPrefix(text, "/") {
		tg.SendText(ctx, b, chatID, "🤷 Unknown command. See /help.", nil)
		return
	}

	link := findURL(text)
	if link == "" {
		tg.SendText(ctx, b, chatID, "🔗 Send me a link (http or https) and I will summarize and narrate it.", nil)
		return
	}

	ctx, cancel := context.WithTimeout(ctx, config.AnalysisTimeout)
	defer cancel()

	stopTyping := tg.StartAction(ctx, b, chatID, models.ChatActionTyping)
	outcome, err := h.analysis.Analyze(ctx, link, userID)
	stopTyping()
	if err != nil {
		h.replyError(ctx, b, chatID, err, "analyze "+link)
		return
	}

	rec := outcome.Record
	replyTo := msg.ID
	if err := tg.SendLongMessage(ctx, b, chatID, formatAnalysis(rec, outcome.Cached), &replyTo); err != nil {
		slog.Error("send analysis", "error", err, "analysis_id", rec.ID)
	}
	h.sendNarration(ctx, b, chatID, rec, &replyTo)

	if !outcome.Cached {
		h.opsLogger.LogAnalysis(userID, rec)
	}
}

// sendNarration uploads the stored audio of rec. A missing file is logged and skipped.
func (h *Handler) sendNarration(ctx context.Context, b *bot.Bot, chatID int64, rec *domain.AnalysisRecord, replyTo *int) {
	f, err := h.audio.Open(rec.Audio.AudioID)
	if err != nil {
		slog.Warn("narration file unavailable", "error", err, "audio_id", rec.Audio.AudioID)
		return
	}
	defer f.Close()

	stopUpload := tg.StartAction(ctx, b, chatID, models.ChatActionUploadVoice)
	defer stopUpload()

	err = tg.SendAudio(ctx, b, chatID, tg.Audio{
		Filename: rec.Audio.AudioID + config.AudioFileExt,
		Data:     f,
		Title:    tg.Truncate(rec.URL, 64),
		Duration: rec.Audio.Duration,
	}, replyTo)
	if err != nil {
		slog.Error("send narration", "error", err, "analysis_id", rec.ID)
	}
}
