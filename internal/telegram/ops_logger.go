package telegram

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
)

// OpsLogger mirrors operational events into topics of a Telegram log chat.
// It does nothing when LOG_TELEGRAM_CHAT_ID is unset.
type OpsLogger struct {
	bot *bot.Bot
	cfg *config.Config
}

func NewOpsLogger(b *bot.Bot, cfg *config.Config) *OpsLogger {
	return &OpsLogger{bot: b, cfg: cfg}
}

type LogType string

const (
	LogTypeError    LogType = "error"
	LogTypeAnalysis LogType = "analysis"
)

func (l *OpsLogger) Log(logType LogType, message string) {
	if l == nil || l.cfg.LogTelegramChatID == 0 {
		return
	}

	topicID := l.getTopicID(logType)
	if topicID == 0 {
		return
	}

	message = Truncate(message, config.MaxTelegramMessageLen)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	_, err := l.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID:          l.cfg.LogTelegramChatID,
		Text:            message,
		ParseMode:       models.ParseModeMarkdownV1,
		MessageThreadID: topicID,
	})
	if err != nil {
		slog.Error("failed to send telegram log", "type", logType, "error", err)
	}
}

func (l *OpsLogger) LogError(err error, where string) {
	msg := fmt.Sprintf("❌ *Error*\n\n*Context:* %s\n*Kind:* %s\n*Error:* `%s`\n*Time:* %s",
		EscapeMarkdown(where), domain.KindOf(err), err.Error(), time.Now().Format("2006-01-02 15:04:05"))
	l.Log(LogTypeError, msg)
}

func (l *OpsLogger) LogAnalysis(userID string, rec *domain.AnalysisRecord) {
	msg := fmt.Sprintf("📰 *Analysis*\n\n*User:* `%s`\n*URL:* %s\n*Model:* %s\n*Parse:* %s\n*Tokens:* %d/%d\n*Cost:* $%s",
		userID, EscapeMarkdown(rec.URL), EscapeMarkdown(rec.Usage.ModelID), rec.Usage.ParseMode,
		rec.Usage.PromptTokens, rec.Usage.CompletionTokens, rec.Usage.Cost.StringFixed(6))
	l.Log(LogTypeAnalysis, msg)
}

func (l *OpsLogger) getTopicID(logType LogType) int {
	switch logType {
	case LogTypeError:
		return l.cfg.LogTopicError
	case LogTypeAnalysis:
		return l.cfg.LogTopicAnalysis
	default:
		return 0
	}
}
