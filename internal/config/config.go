package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StoreDriverPostgres = "postgres"
	StoreDriverMongo    = "mongo"
)

type Config struct {
	// Core
	BotToken string `env:"BOT_TOKEN,required"`
	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Storage
	StoreDriver   string `env:"STORE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string `env:"DATABASE_URL"`
	DBMaxConns    int32  `env:"DB_MAX_CONNS" envDefault:"20"`
	DBMinConns    int32  `env:"DB_MIN_CONNS" envDefault:"2"`
	MongoURI      string `env:"MONGO_URI"`
	MongoDatabase string `env:"MONGO_DATABASE" envDefault:"pagecast"`

	// Analysis provider: OpenRouter. The key is checked on first use, not here.
	OpenRouterKey     string `env:"OPENROUTER_API_KEY"`
	OpenRouterBaseURL string `env:"OPENROUTER_BASE_URL" envDefault:"https://openrouter.ai/api/v1"`
	OpenRouterReferer string `env:"OPENROUTER_REFERER" envDefault:"https://github.com/set-night/pagecast"`
	OpenRouterTitle   string `env:"OPENROUTER_TITLE" envDefault:"Pagecast"`

	// Narration provider: ElevenLabs
	ElevenLabsKey     string `env:"ELEVENLABS_API_KEY"`
	ElevenLabsBaseURL string `env:"ELEVENLABS_BASE_URL" envDefault:"https://api.elevenlabs.io"`
	ElevenLabsVoiceID string `env:"ELEVENLABS_VOICE_ID" envDefault:"21m00Tcm4TlvDq8ikWAM"`
	ElevenLabsModelID string `env:"ELEVENLABS_MODEL_ID" envDefault:"eleven_multilingual_v2"`

	// Audio artifacts
	AudioDir       string `env:"AUDIO_DIR" envDefault:"uploads/audio"`
	AudioURLPrefix string `env:"AUDIO_URL_PREFIX" envDefault:"/audio"`

	// Page fetching
	FetchTimeout  time.Duration `env:"FETCH_TIMEOUT" envDefault:"30s"`
	FetchMaxBytes int64         `env:"FETCH_MAX_BYTES" envDefault:"10485760"`

	// Cache freshness: false keeps the fixed 24h window.
	CacheUseUserExpiration bool `env:"CACHE_USE_USER_EXPIRATION" envDefault:"false"`

	// Bot behavior
	RateLimitPerMinute int     `env:"RATE_LIMIT_PER_MINUTE" envDefault:"6"`
	AdminIDs           []int64 `env:"ADMIN_IDS" envSeparator:","`

	// Telegram logging
	LogTelegramChatID int64 `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int   `env:"LOG_TOPIC_ERROR"`
	LogTopicAnalysis  int   `env:"LOG_TOPIC_ANALYSIS"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.StoreDriver {
	case StoreDriverPostgres:
		if c.DatabaseURL == "" {
			return fmt.Errorf("DATABASE_URL is required for store driver %q", c.StoreDriver)
		}
		if c.DBMaxConns < 1 || c.DBMinConns < 0 || c.DBMinConns > c.DBMaxConns {
			return fmt.Errorf("DB_MIN_CONNS=%d and DB_MAX_CONNS=%d must satisfy 0 <= min <= max, max >= 1", c.DBMinConns, c.DBMaxConns)
		}
	case StoreDriverMongo:
		if c.MongoURI == "" {
			return fmt.Errorf("MONGO_URI is required for store driver %q", c.StoreDriver)
		}
	default:
		return fmt.Errorf("unknown STORE_DRIVER %q", c.StoreDriver)
	}
	if c.FetchTimeout <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT must be positive")
	}
	if c.FetchMaxBytes <= 0 {
		return fmt.Errorf("FETCH_MAX_BYTES must be positive")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog.Level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) IsAdmin(telegramID int64) bool {
	for _, id := range c.AdminIDs {
		if id == telegramID {
			return true
		}
	}
	return false
}
