package middleware

import (
	"context"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	"github.com/stretchr/testify/assert"
)

func runIdentity(update *models.Update) string {
	var got string
	h := Identity()(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		got = GetUserID(ctx)
	})
	h(context.Background(), nil, update)
	return got
}

func TestIdentity(t *testing.T) {
	tests := []struct {
		name   string
		update *models.Update
		want   string
	}{
		{
			name:   "message sender",
			update: &models.Update{Message: &models.Message{From: &models.User{ID: 42}}},
			want:   "42",
		},
		{
			name:   "callback sender",
			update: &models.Update{CallbackQuery: &models.CallbackQuery{From: models.User{ID: 7}}},
			want:   "7",
		},
		{
			name:   "bot sender",
			update: &models.Update{Message: &models.Message{From: &models.User{ID: 9, IsBot: true}}},
			want:   "",
		},
		{
			name:   "no sender",
			update: &models.Update{Message: &models.Message{}},
			want:   "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, runIdentity(tt.update))
		})
	}
}

func TestGetUserID_Empty(t *testing.T) {
	assert.Equal(t, "", GetUserID(context.Background()))
	assert.Equal(t, "u1", GetUserID(WithUserID(context.Background(), "u1")))
}

func TestRecover(t *testing.T) {
	h := Recover()(func(ctx context.Context, b *bot.Bot, update *models.Update) {
		panic("boom")
	})

	assert.NotPanics(t, func() {
		h(context.Background(), nil, &models.Update{ID: 1})
	})
}
