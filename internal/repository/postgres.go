package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/set-night/pagecast/internal/domain"
)

// PostgresStore persists analyses and per-user AI configs in postgres.
type PostgresStore struct {
	db *pgxpool.Pool
}

func NewPostgresStore(db *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.db.Ping(ctx)
}

const analysisColumns = `id::text, user_id, url, summary, key_points, sentiment, word_count,
	audio_url, audio_id, audio_duration, model_id, prompt_id, prompt_tokens, completion_tokens,
	cost, parse_mode, analyzed_at, created_at, updated_at`

func scanAnalysis(row pgx.Row) (*domain.AnalysisRecord, error) {
	var (
		rec       domain.AnalysisRecord
		sentiment string
		parseMode string
	)
	err := row.Scan(
		&rec.ID, &rec.UserID, &rec.URL,
		&rec.Analysis.Summary, &rec.Analysis.KeyPoints, &sentiment, &rec.Analysis.WordCount,
		&rec.Audio.AudioURL, &rec.Audio.AudioID, &rec.Audio.Duration,
		&rec.Usage.ModelID, &rec.Usage.PromptID, &rec.Usage.PromptTokens, &rec.Usage.CompletionTokens,
		&rec.Usage.Cost, &parseMode, &rec.Timestamp, &rec.CreatedAt, &rec.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Analysis.Sentiment = domain.Sentiment(sentiment)
	rec.Usage.ParseMode = domain.ParseMode(parseMode)
	if rec.Analysis.KeyPoints == nil {
		rec.Analysis.KeyPoints = []string{}
	}
	return &rec, nil
}

func (s *PostgresStore) LatestAnalysis(ctx context.Context, url, userID string) (*domain.AnalysisRecord, error) {
	row := s.db.QueryRow(ctx, `SELECT `+analysisColumns+`
		FROM analyses WHERE url = $1 AND user_id = $2
		ORDER BY created_at DESC LIMIT 1`, url, userID)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get latest analysis: %w", err)
	}
	return rec, nil
}

// InsertAnalysis stores rec as a new row and fills in its ID and timestamps.
func (s *PostgresStore) InsertAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	id := uuid.New()
	now := time.Now().UTC()
	if rec.Timestamp.IsZero() {
		rec.Timestamp = now
	}
	keyPoints := rec.Analysis.KeyPoints
	if keyPoints == nil {
		keyPoints = []string{}
	}

	_, err := s.db.Exec(ctx, `INSERT INTO analyses (
			id, user_id, url, summary, key_points, sentiment, word_count,
			audio_url, audio_id, audio_duration, model_id, prompt_id,
			prompt_tokens, completion_tokens, cost, parse_mode, analyzed_at, created_at, updated_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18, $18)`,
		id.String(), rec.UserID, rec.URL,
		rec.Analysis.Summary, keyPoints, string(rec.Analysis.Sentiment), rec.Analysis.WordCount,
		rec.Audio.AudioURL, rec.Audio.AudioID, rec.Audio.Duration,
		rec.Usage.ModelID, rec.Usage.PromptID, rec.Usage.PromptTokens, rec.Usage.CompletionTokens,
		rec.Usage.Cost, string(rec.Usage.ParseMode), rec.Timestamp, now,
	)
	if err != nil {
		return fmt.Errorf("insert analysis: %w", err)
	}

	rec.ID = id.String()
	rec.CreatedAt = now
	rec.UpdatedAt = now
	return nil
}

func (s *PostgresStore) ListAnalyses(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	rows, err := s.db.Query(ctx, `SELECT `+analysisColumns+`
		FROM analyses WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	defer rows.Close()

	records := make([]domain.AnalysisRecord, 0, limit)
	for rows.Next() {
		rec, err := scanAnalysis(rows)
		if err != nil {
			return nil, fmt.Errorf("scan analysis: %w", err)
		}
		records = append(records, *rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}

func (s *PostgresStore) GetAnalysis(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, domain.ErrAnalysisNotFound
	}
	row := s.db.QueryRow(ctx, `SELECT `+analysisColumns+`
		FROM analyses WHERE id = $1 AND user_id = $2`, id, userID)
	rec, err := scanAnalysis(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAnalysisNotFound
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return rec, nil
}

// DeleteAnalysis removes a record only when userID owns it.
func (s *PostgresStore) DeleteAnalysis(ctx context.Context, id, userID string) error {
	if _, err := uuid.Parse(id); err != nil {
		return domain.ErrAnalysisNotFound
	}
	tag, err := s.db.Exec(ctx, `DELETE FROM analyses WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("delete analysis: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrAnalysisNotFound
	}
	return nil
}

func (s *PostgresStore) DeleteUserAnalyses(ctx context.Context, userID string) (int64, error) {
	tag, err := s.db.Exec(ctx, `DELETE FROM analyses WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user analyses: %w", err)
	}
	return tag.RowsAffected(), nil
}

const configColumns = `user_id, model_id, prompt_id, language, max_content_length,
	enable_caching, cache_expiration, created_at, updated_at`

func scanConfig(row pgx.Row) (*domain.UserAIConfig, error) {
	var c domain.UserAIConfig
	if err := row.Scan(
		&c.UserID, &c.ModelID, &c.PromptID, &c.Language, &c.MaxContentLength,
		&c.EnableCaching, &c.CacheExpiration, &c.CreatedAt, &c.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *PostgresStore) GetConfig(ctx context.Context, userID string) (*domain.UserAIConfig, error) {
	row := s.db.QueryRow(ctx, `SELECT `+configColumns+` FROM user_ai_configs WHERE user_id = $1`, userID)
	c, err := scanConfig(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrConfigNotFound
		}
		return nil, fmt.Errorf("get ai config: %w", err)
	}
	return c, nil
}

// CreateConfig inserts cfg unless a row already exists, and returns the stored row.
// Two first requests racing for the same user both end up reading the same row.
func (s *PostgresStore) CreateConfig(ctx context.Context, cfg domain.UserAIConfig) (*domain.UserAIConfig, error) {
	_, err := s.db.Exec(ctx, `INSERT INTO user_ai_configs (
			user_id, model_id, prompt_id, language, max_content_length, enable_caching, cache_expiration
		) VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (user_id) DO NOTHING`,
		cfg.UserID, cfg.ModelID, cfg.PromptID, cfg.Language,
		cfg.MaxContentLength, cfg.EnableCaching, cfg.CacheExpiration,
	)
	if err != nil {
		return nil, fmt.Errorf("create ai config: %w", err)
	}
	return s.GetConfig(ctx, cfg.UserID)
}

// UpdateConfig upserts the fields set in upd. Fields left nil keep their stored
// value, or take the value from defaults when the row is new.
func (s *PostgresStore) UpdateConfig(ctx context.Context, userID string, upd domain.ConfigUpdate, defaults domain.UserAIConfig) (*domain.UserAIConfig, error) {
	row := s.db.QueryRow(ctx, `INSERT INTO user_ai_configs AS c (
			user_id, model_id, prompt_id, language, max_content_length, enable_caching, cache_expiration
		) VALUES (
			$1,
			COALESCE($2::text, $8::text),
			COALESCE($3::text, $9::text),
			COALESCE($4::text, $10::text),
			COALESCE($5::int, $11::int),
			COALESCE($6::boolean, $12::boolean),
			COALESCE($7::int, $13::int)
		)
		ON CONFLICT (user_id) DO UPDATE SET
			model_id           = COALESCE($2::text, c.model_id),
			prompt_id          = COALESCE($3::text, c.prompt_id),
			language           = COALESCE($4::text, c.language),
			max_content_length = COALESCE($5::int, c.max_content_length),
			enable_caching     = COALESCE($6::boolean, c.enable_caching),
			cache_expiration   = COALESCE($7::int, c.cache_expiration),
			updated_at         = now()
		RETURNING `+configColumns,
		userID,
		upd.ModelID, upd.PromptID, upd.Language, upd.MaxContentLength, upd.EnableCaching, upd.CacheExpiration,
		defaults.ModelID, defaults.PromptID, defaults.Language, defaults.MaxContentLength,
		defaults.EnableCaching, defaults.CacheExpiration,
	)
	c, err := scanConfig(row)
	if err != nil {
		return nil, fmt.Errorf("upsert ai config: %w", err)
	}
	return c, nil
}

func (s *PostgresStore) DeleteConfig(ctx context.Context, userID string) error {
	tag, err := s.db.Exec(ctx, `DELETE FROM user_ai_configs WHERE user_id = $1`, userID)
	if err != nil {
		return fmt.Errorf("delete ai config: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrConfigNotFound
	}
	return nil
}

func (s *PostgresStore) Close(context.Context) error {
	s.db.Close()
	return nil
}
