package middleware

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"golang.org/x/time/rate"
)

// limiterIdleTTL is how long a chat's bucket survives without traffic. A bucket
// idle this long has refilled, so dropping it does not change what Allow returns.
const limiterIdleTTL = 10 * time.Minute

type chatBucket struct {
	lim      *rate.Limiter
	lastSeen time.Time
}

// ChatLimiter hands out one token bucket per chat and drops buckets of chats
// that have gone quiet.
type ChatLimiter struct {
	mu        sync.Mutex
	limiters  map[int64]*chatBucket
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

// NewChatLimiter allows perMinute messages per chat with bursts of the same size.
func NewChatLimiter(perMinute int) *ChatLimiter {
	if perMinute < 1 {
		perMinute = 1
	}
	return &ChatLimiter{
		limiters:  make(map[int64]*chatBucket),
		limit:     rate.Every(time.Minute / time.Duration(perMinute)),
		burst:     perMinute,
		idleTTL:   limiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (l *ChatLimiter) Allow(chatID int64) bool {
	now := l.now()

	l.mu.Lock()
	if now.Sub(l.lastSweep) >= l.idleTTL {
		l.evictIdle(now)
	}
	b, ok := l.limiters[chatID]
	if !ok {
		b = &chatBucket{lim: rate.NewLimiter(l.limit, l.burst)}
		l.limiters[chatID] = b
	}
	b.lastSeen = now
	l.mu.Unlock()

	return b.lim.AllowN(now, 1)
}

// evictIdle must be called with l.mu held.
func (l *ChatLimiter) evictIdle(now time.Time) {
	for id, b := range l.limiters {
		if now.Sub(b.lastSeen) >= l.idleTTL {
			delete(l.limiters, id)
		}
	}
	l.lastSweep = now
}

// RateLimit returns middleware that enforces per-chat message limits.
func RateLimit(limiter *ChatLimiter) bot.Middleware {
	return func(next bot.HandlerFunc) bot.HandlerFunc {
		return func(ctx context.Context, b *bot.Bot, update *models.Update) {
			// Only rate limit messages (not callbacks or other updates)
			if update.Message == nil {
				next(ctx, b, update)
				return
			}

			chatID := update.Message.Chat.ID
			if !limiter.Allow(chatID) {
				slog.Debug("rate limited", "chat_id", chatID)
				b.SendMessage(ctx, &bot.SendMessageParams{
					ChatID: chatID,
					Text:   "⏳ Too many requests. Please wait a moment.",
				})
				return
			}

			next(ctx, b, update)
		}
	}
}
