package middleware

import (
	"context"
	"testing"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func TestChatLimiter_Allow(t *testing.T) {
	l := NewChatLimiter(3)

	for i := 0; i < 3; i++ {
		assert.True(t, l.Allow(1), "request %d", i)
	}
	assert.False(t, l.Allow(1))

	// Chats have independent buckets.
	assert.True(t, l.Allow(2))
}

func TestChatLimiter_EvictsIdleChats(t *testing.T) {
	l := NewChatLimiter(2)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
	assert.True(t, l.Allow(2))
	assert.Len(t, l.limiters, 2)

	// Chat 2 stays active, chat 1 goes quiet past the idle window.
	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.Allow(2))
	clock = clock.Add(limiterIdleTTL / 2)
	assert.True(t, l.Allow(2))

	assert.Len(t, l.limiters, 1)
	assert.NotContains(t, l.limiters, int64(1))

	// A returning chat starts with a full bucket.
	assert.True(t, l.Allow(1))
	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
}

func TestChatLimiter_SweepsOnlyAfterIdleWindow(t *testing.T) {
	l := NewChatLimiter(1)
	clock := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return clock }
	l.lastSweep = clock

	for id := int64(1); id <= 50; id++ {
		l.Allow(id)
	}
	clock = clock.Add(limiterIdleTTL - time.Second)
	l.Allow(100)
	assert.Len(t, l.limiters, 51)

	clock = clock.Add(time.Second)
	l.Allow(100)
	assert.Len(t, l.limiters, 1)
}

func TestNewChatLimiter_MinimumRate(t *testing.T) {
	l := NewChatLimiter(0)

	assert.True(t, l.Allow(1))
	assert.False(t, l.Allow(1))
}

func TestRateLimit_PassesCallbacks(t *testing.T) {
	l := NewChatLimiter(1)
	calls := 0
	h := RateLimit(l)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls++
	})

	for i := 0; i < 5; i++ {
		h(context.Background(), nil, &models.Update{CallbackQuery: &models.CallbackQuery{ID: "cb"}})
	}
	assert.Equal(t, 5, calls)
}

func TestRateLimit_AllowsWithinBudget(t *testing.T) {
	l := NewChatLimiter(2)
	calls := 0
	h := RateLimit(l)(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		calls++
	})

	update := &models.Update{Message: &models.Message{Chat: models.Chat{ID: 10}}}
	h(context.Background(), nil, update)
	h(context.Background(), nil, update)
	assert.Equal(t, 2, calls)
}
