package handler

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/service"
	"github.com/set-night/pagecast/internal/telegram"
)

// Pinger reports whether the storage backend is reachable.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Handler holds all dependencies needed by command and callback handlers.
type Handler struct {
	bot       *bot.Bot
	cfg       *config.Config
	analysis  *service.AnalysisService
	configs   *service.ConfigResolver
	narration *service.NarrationService
	audio     *service.AudioStore
	store     Pinger
	opsLogger *telegram.OpsLogger
}

// Deps contains all dependencies required to construct a Handler.
type Deps struct {
	Bot       *bot.Bot
	Cfg       *config.Config
	Analysis  *service.AnalysisService
	Configs   *service.ConfigResolver
	Narration *service.NarrationService
	Audio     *service.AudioStore
	Store     Pinger
	OpsLogger *telegram.OpsLogger
}

// New creates a new Handler from the provided dependencies.
func New(deps Deps) *Handler {
	return &Handler{
		bot:       deps.Bot,
		cfg:       deps.Cfg,
		analysis:  deps.Analysis,
		configs:   deps.Configs,
		narration: deps.Narration,
		audio:     deps.Audio,
		store:     deps.Store,
		opsLogger: deps.OpsLogger,
	}
}
