package handler

import (
	"context"
	"errors"
	"log/slog"

	"github.com/go-telegram/bot"
	"github.com/set-night/pagecast/internal/domain"
	tg "github.com/set-night/pagecast/internal/telegram"
)

// userMessage maps an error to the text shown to the user.
func userMessage(err error) string {
	var de *domain.Error
	if !errors.As(err, &de) {
		if domain.KindOf(err) == domain.KindNotFound {
			return "🔍 Not found."
		}
		return "❌ Something went wrong. Please try again later."
	}

	switch de.Kind {
	case domain.KindValidation:
		return "⚠️ " + de.Msg
	case domain.KindNotFound:
		return "🔍 " + de.Msg
	case domain.KindConfig:
		return "🛠 This feature is not configured on the server."
	case domain.KindFetch:
		switch de.Sub {
		case domain.SubTimeout:
			return "⏱ The page took too long to respond."
		case domain.SubNotFound:
			return "🔍 The page was not found (404)."
		case domain.SubForbidden:
			return "🚫 Access to the page is forbidden (403)."
		default:
			return "🌐 Could not fetch the page."
		}
	case domain.KindProvider:
		switch de.Sub {
		case domain.SubUnauthorized:
			return "🔑 The analysis provider rejected our credentials."
		case domain.SubRateLimited:
			return "⏳ The analysis provider is rate limiting us. Try again in a minute."
		case domain.SubModelNotFound:
			return "🤖 " + de.Msg + ". Pick another one with /model."
		default:
			return "🤖 The analysis provider failed. Please try again later."
		}
	case domain.KindSynthesis:
		switch de.Sub {
		case domain.SubUnauthorized:
			return "🔑 The speech provider rejected our credentials."
		case domain.SubRateLimited:
			return "⏳ The speech provider is rate limiting us. Try again in a minute."
		case domain.SubInvalidInput:
			return "🔇 The summary could not be narrated."
		default:
			return "🔇 Speech synthesis failed. Please try again later."
		}
	}
	return "❌ Something went wrong. Please try again later."
}

// isUserError reports whether err is caused by the request rather than the system.
func isUserError(err error) bool {
	switch domain.KindOf(err) {
	case domain.KindValidation, domain.KindNotFound:
		return true
	case domain.KindFetch:
		return domain.SubOf(err) != domain.SubOther
	}
	return false
}

// replyError tells the user what went wrong and logs system failures.
func (h *Handler) replyError(ctx context.Context, b *bot.Bot, chatID int64, err error, where string) {
	if !isUserError(err) {
		slog.Error("request failed", "where", where, "error", err, "chat_id", chatID)
		h.opsLogger.LogError(err, where)
	}
	tg.SendText(ctx, b, chatID, userMessage(err), nil)
}
