package repository

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/set-night/pagecast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newTestPostgresStore connects to PAGECAST_TEST_DATABASE_URL and applies the
// migrations. Tests that need it are skipped when the variable is unset.
func newTestPostgresStore(t *testing.T) *PostgresStore {
	t.Helper()
	databaseURL := os.Getenv("PAGECAST_TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("PAGECAST_TEST_DATABASE_URL not set")
	}

	ctx := context.Background()
	require.NoError(t, RunMigrations(databaseURL, os.DirFS("../../migrations")))
	pool, err := NewPool(ctx, databaseURL, PoolOptions{MaxConns: 4})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	return NewPostgresStore(pool)
}

// testUserID returns a user id unique to this run and removes its rows afterwards.
func testUserID(t *testing.T, s *PostgresStore) string {
	t.Helper()
	userID := "test-" + uuid.NewString()
	t.Cleanup(func() {
		ctx := context.Background()
		_, _ = s.DeleteUserAnalyses(ctx, userID)
		_ = s.DeleteConfig(ctx, userID)
	})
	return userID
}

func testConfigDefaults() domain.UserAIConfig {
	return domain.UserAIConfig{
		ModelID:          "deepseek-chat",
		PromptID:         "analysis-en",
		Language:         "en",
		MaxContentLength: 8000,
		EnableCaching:    true,
		CacheExpiration:  3600,
	}
}

func newTestAnalysis(userID, url string) *domain.AnalysisRecord {
	return &domain.AnalysisRecord{
		URL:    url,
		UserID: userID,
		Analysis: domain.AnalysisResult{
			Summary:   "summary",
			KeyPoints: []string{"one"},
			Sentiment: domain.SentimentNeutral,
			WordCount: 1,
		},
		Audio: domain.AudioResult{AudioURL: "/audio/a.mp3", AudioID: "a", Duration: 1},
		Usage: domain.Usage{
			ModelID:   "deepseek-chat",
			PromptID:  "analysis-en",
			Cost:      decimal.RequireFromString("0.000123456789"),
			ParseMode: domain.ParseStructured,
		},
	}
}

func TestPostgresStore_UpdateConfig_PartialUpsert(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	userID := testUserID(t, s)

	lang := "pl"
	created, err := s.UpdateConfig(ctx, userID, domain.ConfigUpdate{Language: &lang}, testConfigDefaults())
	require.NoError(t, err)
	assert.Equal(t, "pl", created.Language)
	assert.Equal(t, "deepseek-chat", created.ModelID)
	assert.Equal(t, 8000, created.MaxContentLength)
	assert.Equal(t, 3600, created.CacheExpiration)

	model := "qwen-7b"
	other := testConfigDefaults()
	other.Language = "en"
	other.CacheExpiration = 600
	updated, err := s.UpdateConfig(ctx, userID, domain.ConfigUpdate{ModelID: &model}, other)
	require.NoError(t, err)
	assert.Equal(t, "qwen-7b", updated.ModelID)
	assert.Equal(t, "pl", updated.Language, "existing fields keep their stored value, not the defaults")
	assert.Equal(t, 3600, updated.CacheExpiration)
	assert.Equal(t, created.CreatedAt, updated.CreatedAt)

	got, err := s.GetConfig(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, updated.ModelID, got.ModelID)
	assert.Equal(t, updated.Language, got.Language)
}

func TestPostgresStore_CreateConfig_KeepsExistingRow(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	userID := testUserID(t, s)

	first := testConfigDefaults()
	first.UserID = userID
	_, err := s.CreateConfig(ctx, first)
	require.NoError(t, err)

	second := first
	second.Language = "pl"
	got, err := s.CreateConfig(ctx, second)
	require.NoError(t, err)
	assert.Equal(t, "en", got.Language)

	require.NoError(t, s.DeleteConfig(ctx, userID))
	assert.ErrorIs(t, s.DeleteConfig(ctx, userID), domain.ErrConfigNotFound)
}

func TestPostgresStore_DeleteAnalysis_OwnerScoped(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	owner := testUserID(t, s)
	intruder := testUserID(t, s)

	rec := newTestAnalysis(owner, "https://example.com/")
	require.NoError(t, s.InsertAnalysis(ctx, rec))
	require.NotEmpty(t, rec.ID)

	assert.ErrorIs(t, s.DeleteAnalysis(ctx, rec.ID, intruder), domain.ErrAnalysisNotFound)
	_, err := s.GetAnalysis(ctx, rec.ID, intruder)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)

	assert.ErrorIs(t, s.DeleteAnalysis(ctx, "not-a-uuid", owner), domain.ErrAnalysisNotFound)

	got, err := s.GetAnalysis(ctx, rec.ID, owner)
	require.NoError(t, err)
	assert.True(t, got.Usage.Cost.Equal(rec.Usage.Cost))

	require.NoError(t, s.DeleteAnalysis(ctx, rec.ID, owner))
	assert.ErrorIs(t, s.DeleteAnalysis(ctx, rec.ID, owner), domain.ErrAnalysisNotFound)
}

func TestPostgresStore_LatestAnalysisAndHistoryOrder(t *testing.T) {
	s := newTestPostgresStore(t)
	ctx := context.Background()
	userID := testUserID(t, s)

	older := newTestAnalysis(userID, "https://example.com/")
	require.NoError(t, s.InsertAnalysis(ctx, older))
	time.Sleep(10 * time.Millisecond)
	newer := newTestAnalysis(userID, "https://example.com/")
	require.NoError(t, s.InsertAnalysis(ctx, newer))

	latest, err := s.LatestAnalysis(ctx, "https://example.com/", userID)
	require.NoError(t, err)
	assert.Equal(t, newer.ID, latest.ID)

	_, err = s.LatestAnalysis(ctx, "https://other.example.com/", userID)
	assert.ErrorIs(t, err, domain.ErrAnalysisNotFound)

	history, err := s.ListAnalyses(ctx, userID, 10)
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, newer.ID, history[0].ID)
	assert.Equal(t, older.ID, history[1].ID)

	n, err := s.DeleteUserAnalyses(ctx, userID)
	require.NoError(t, err)
	assert.Equal(t, int64(2), n)
}
