package telegram

import (
	"context"
	"fmt"
	"io"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Audio describes a narration file to upload.
type Audio struct {
	Filename string
	Data     io.Reader
	Title    string
	Duration int // seconds
	Caption  string
}

// SendAudio uploads an audio file, replying to replyToID when it is set.
func SendAudio(ctx context.Context, b *bot.Bot, chatID int64, audio Audio, replyToID *int) error {
	params := &bot.SendAudioParams{
		ChatID:    chatID,
		Audio:     &models.InputFileUpload{Filename: audio.Filename, Data: audio.Data},
		Title:     audio.Title,
		Duration:  audio.Duration,
		Caption:   audio.Caption,
		Performer: "Pagecast",
	}
	if replyToID != nil {
		params.ReplyParameters = &models.ReplyParameters{MessageID: *replyToID}
	}

	if _, err := b.SendAudio(ctx, params); err != nil {
		return fmt.Errorf("send audio: %w", err)
	}
	return nil
}
