package middleware

import (
	"context"
	"strconv"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

type ctxKey string

const UserIDKey ctxKey = "user_id"

// GetUserID returns the caller's id placed in ctx by Identity, or "".
func GetUserID(ctx context.Context) string {
	id, _ := ctx.Value(UserIDKey).(string)
	return id
}

// WithUserID returns ctx carrying userID.
func WithUserID(ctx context.Context, userID string) context.Context {
	return context.WithValue(ctx, UserIDKey, userID)
}

// Identity stores the Telegram sender id as the pipeline's opaque user id.
// Updates without a sender pass through without one.
func Identity() bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			var from *models.User
			if update.Message != nil {
				from = update.Message.From
			} else if update.CallbackQuery != nil {
				from = &update.CallbackQuery.From
			}

			if from != nil && !from.IsBot {
				ctx = WithUserID(ctx, strconv.FormatInt(from.ID, 10))
			}

			next(ctx, b, update)
		}
	}
}
