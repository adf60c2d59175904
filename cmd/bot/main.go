package main

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	pagecast "github.com/set-night/pagecast"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/handler"
	"github.com/set-night/pagecast/internal/middleware"
	"github.com/set-night/pagecast/internal/repository"
	"github.com/set-night/pagecast/internal/service"
	"github.com/set-night/pagecast/internal/telegram"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	// Setup structured logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.SlogLevel(),
	}))
	slog.SetDefault(logger)

	// Setup context with graceful shutdown
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := openStore(ctx, cfg)
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.StoreDriver, "error", err)
		os.Exit(1)
	}
	defer func() {
		closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := store.Close(closeCtx); err != nil {
			slog.Error("failed to close store", "error", err)
		}
	}()

	// Initialize services
	configs := service.NewConfigResolver(store)
	audio := service.NewAudioStore(cfg.AudioDir, cfg.AudioURLPrefix)
	openRouter := service.NewOpenRouterService(service.OpenRouterConfig{
		APIKey:  cfg.OpenRouterKey,
		BaseURL: cfg.OpenRouterBaseURL,
		Referer: cfg.OpenRouterReferer,
		Title:   cfg.OpenRouterTitle,
		Timeout: config.RequestTimeout,
	})
	narration := service.NewNarrationService(service.ElevenLabsConfig{
		APIKey:  cfg.ElevenLabsKey,
		BaseURL: cfg.ElevenLabsBaseURL,
		VoiceID: cfg.ElevenLabsVoiceID,
		ModelID: cfg.ElevenLabsModelID,
		Timeout: config.RequestTimeout,
	}, audio)
	analysis := service.NewAnalysisService(service.AnalysisDeps{
		Store:             store,
		Configs:           configs,
		Extractor:         service.NewExtractor(cfg.FetchTimeout, cfg.FetchMaxBytes),
		Analyzer:          openRouter,
		Narrator:          narration,
		UseUserExpiration: cfg.CacheUseUserExpiration,
	})

	// Handler pointer for use in default handler closure
	var h *handler.Handler

	// Create bot
	opts := []bot.Option{
		bot.WithMiddlewares(
			middleware.Recover(),
			middleware.Identity(),
			middleware.Logging(),
			middleware.RateLimit(middleware.NewChatLimiter(cfg.RateLimitPerMinute)),
		),
		bot.WithDefaultHandler(func(ctx context.Context, b *bot.Bot, update *models.Update) {
			if h == nil {
				return
			}
			h.HandleText(ctx, b, update)
		}),
		bot.WithWorkers(8),
	}

	b, err := bot.New(cfg.BotToken, opts...)
	if err != nil {
		slog.Error("failed to create bot", "error", err)
		os.Exit(1)
	}

	// Get bot info
	me, err := b.GetMe(ctx)
	if err != nil {
		slog.Error("failed to get bot info", "error", err)
		os.Exit(1)
	}

	slog.Info("bot info retrieved", "id", me.ID, "username", me.Username)

	// Initialize handler
	h = handler.New(handler.Deps{
		Bot:       b,
		Cfg:       cfg,
		Analysis:  analysis,
		Configs:   configs,
		Narration: narration,
		Audio:     audio,
		Store:     store,
		OpsLogger: telegram.NewOpsLogger(b, cfg),
	})

	// Register all handlers
	h.Register()

	// Start bot
	slog.Info("starting bot", "username", me.Username, "id", me.ID, "store", cfg.StoreDriver)
	b.Start(ctx)

	// Graceful shutdown
	slog.Info("bot stopped gracefully")
}

// openStore connects the backend selected by STORE_DRIVER. The postgres
// backend also applies the embedded migrations.
func openStore(ctx context.Context, cfg *config.Config) (service.Store, error) {
	switch cfg.StoreDriver {
	case config.StoreDriverMongo:
		return repository.NewMongoStore(ctx, cfg.MongoURI, cfg.MongoDatabase)
	case config.StoreDriverPostgres:
		pool, err := repository.NewPool(ctx, cfg.DatabaseURL, repository.PoolOptions{
			MaxConns: cfg.DBMaxConns,
			MinConns: cfg.DBMinConns,
		})
		if err != nil {
			return nil, fmt.Errorf("connect to database: %w", err)
		}

		migrationsFS, err := fs.Sub(pagecast.MigrationsFS, "migrations")
		if err != nil {
			pool.Close()
			return nil, fmt.Errorf("load embedded migrations: %w", err)
		}
		if err := repository.RunMigrations(cfg.DatabaseURL, migrationsFS); err != nil {
			pool.Close()
			return nil, fmt.Errorf("run migrations: %w", err)
		}
		return repository.NewPostgresStore(pool), nil
	default:
		return nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
