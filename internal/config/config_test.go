package config

import (
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// chdirTemp moves into an empty directory so a developer's .env is not read.
func chdirTemp(t *testing.T) {
	t.Helper()
	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })
}

// unsetenv removes keys for the rest of the test. t.Setenv registers the restore.
func unsetenv(t *testing.T, keys ...string) {
	t.Helper()
	for _, k := range keys {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoad_Defaults(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("DATABASE_URL", "postgres://localhost/pagecast")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StoreDriverPostgres, cfg.StoreDriver)
	assert.Equal(t, "https://openrouter.ai/api/v1", cfg.OpenRouterBaseURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, int64(10485760), cfg.FetchMaxBytes)
	assert.False(t, cfg.CacheUseUserExpiration)
	assert.Equal(t, 6, cfg.RateLimitPerMinute)
	assert.Equal(t, int32(20), cfg.DBMaxConns)
	assert.Equal(t, int32(2), cfg.DBMinConns)
	assert.Equal(t, slog.LevelInfo, cfg.SlogLevel())
}

func TestLoad_Mongo(t *testing.T) {
	chdirTemp(t)
	t.Setenv("BOT_TOKEN", "123:abc")
	t.Setenv("STORE_DRIVER", "mongo")
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")
	t.Setenv("ADMIN_IDS", "1,2")
	t.Setenv("LOG_LEVEL", "DEBUG")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "pagecast", cfg.MongoDatabase)
	assert.True(t, cfg.IsAdmin(2))
	assert.False(t, cfg.IsAdmin(3))
	assert.Equal(t, slog.LevelDebug, cfg.SlogLevel())
}

func TestLoad_Errors(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"missing token", map[string]string{"DATABASE_URL": "postgres://x"}},
		{"postgres without url", map[string]string{"BOT_TOKEN": "t"}},
		{"mongo without uri", map[string]string{"BOT_TOKEN": "t", "STORE_DRIVER": "mongo"}},
		{"unknown driver", map[string]string{"BOT_TOKEN": "t", "STORE_DRIVER": "sqlite"}},
		{"pool min above max", map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "postgres://x", "DB_MAX_CONNS": "4", "DB_MIN_CONNS": "5"}},
		{"pool without conns", map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "postgres://x", "DB_MAX_CONNS": "0"}},
		{"bad timeout", map[string]string{"BOT_TOKEN": "t", "DATABASE_URL": "postgres://x", "FETCH_TIMEOUT": "0s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			chdirTemp(t)
			unsetenv(t, "BOT_TOKEN", "DATABASE_URL", "STORE_DRIVER", "MONGO_URI", "DB_MAX_CONNS", "DB_MIN_CONNS")
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			assert.Error(t, err)
		})
	}
}
