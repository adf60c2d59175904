package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
)

type ContentExtractor interface {
	Extract(ctx context.Context, url string) (*domain.WebContent, error)
}

type ContentAnalyzer interface {
	Analyze(ctx context.Context, content domain.WebContent, cfg domain.ResolvedConfig) (*ProviderAnalysis, error)
}

type Narrator interface {
	Synthesize(ctx context.Context, text string) (*domain.AudioResult, error)
}

// UserConfigs is the part of ConfigResolver the pipeline depends on.
type UserConfigs interface {
	Get(ctx context.Context, userID string) domain.ResolvedConfig
	Delete(ctx context.Context, userID string) error
}

// AnalysisService runs the fetch, analyze, narrate and persist pipeline and
// serves the user's stored analyses.
type AnalysisService struct {
	store     AnalysisStore
	configs   UserConfigs
	extractor ContentExtractor
	analyzer  ContentAnalyzer
	narrator  Narrator

	useUserExpiration bool
	now               func() time.Time
}

type AnalysisDeps struct {
	Store     AnalysisStore
	Configs   UserConfigs
	Extractor ContentExtractor
	Analyzer  ContentAnalyzer
	Narrator  Narrator

	// UseUserExpiration replaces the fixed freshness window with the user's
	// cacheExpiration setting.
	UseUserExpiration bool
}

func NewAnalysisService(deps AnalysisDeps) *AnalysisService {
	return &AnalysisService{
		store:             deps.Store,
		configs:           deps.Configs,
		extractor:         deps.Extractor,
		analyzer:          deps.Analyzer,
		narrator:          deps.Narrator,
		useUserExpiration: deps.UseUserExpiration,
		now:               time.Now,
	}
}

// Outcome is the result of Analyze. Cached is true when Record was reused.
type Outcome struct {
	Record *domain.AnalysisRecord
	Cached bool
}

// Analyze returns a fresh cached record for (url, userID) when one exists and
// otherwise runs the full pipeline. A failing stage aborts the run and nothing
// is stored. Concurrent misses for the same pair may both run and both store.
func (s *AnalysisService) Analyze(ctx context.Context, rawURL, userID string) (*Outcome, error) {
	target, err := NormalizeURL(rawURL)
	if err != nil {
		return nil, err
	}

	cfg := s.configs.Get(ctx, userID)

	// Caching off skips the read only; the fresh result is still stored for history.
	if cfg.EnableCaching {
		if rec := s.cached(ctx, target, userID, s.freshness(cfg)); rec != nil {
			slog.Info("analysis cache hit", "url", target, "user_id", userID, "analysis_id", rec.ID)
			return &Outcome{Record: rec, Cached: true}, nil
		}
	}

	content, err := s.extractor.Extract(ctx, target)
	if err != nil {
		return nil, err
	}

	analysis, err := s.analyzer.Analyze(ctx, *content, cfg)
	if err != nil {
		return nil, err
	}
	slog.Info("analysis parsed",
		"url", target,
		"model", cfg.Model.Key,
		"parse_mode", analysis.Mode,
		"prompt_tokens", analysis.PromptTokens,
		"completion_tokens", analysis.CompletionTokens,
	)

	audio, err := s.narrator.Synthesize(ctx, analysis.Result.Summary)
	if err != nil {
		return nil, err
	}

	rec := &domain.AnalysisRecord{
		URL:      target,
		UserID:   userID,
		Analysis: analysis.Result,
		Audio:    *audio,
		Usage: domain.Usage{
			ModelID:          cfg.Model.Key,
			PromptID:         cfg.Prompt.ID,
			PromptTokens:     analysis.PromptTokens,
			CompletionTokens: analysis.CompletionTokens,
			Cost:             CalculateCost(cfg.Model, analysis.PromptTokens, analysis.CompletionTokens),
			ParseMode:        analysis.Mode,
		},
		Timestamp: s.now().UTC(),
	}
	if err := s.store.InsertAnalysis(ctx, rec); err != nil {
		return nil, fmt.Errorf("save analysis: %w", err)
	}
	return &Outcome{Record: rec}, nil
}

func (s *AnalysisService) freshness(cfg domain.ResolvedConfig) time.Duration {
	if s.useUserExpiration {
		return cfg.CacheTTL()
	}
	return config.CacheFreshness
}

// cached returns the newest record younger than window, or nil. A failed
// lookup is logged and treated as a miss.
func (s *AnalysisService) cached(ctx context.Context, url, userID string, window time.Duration) *domain.AnalysisRecord {
	rec, err := s.store.LatestAnalysis(ctx, url, userID)
	if err != nil {
		if !errors.Is(err, domain.ErrAnalysisNotFound) {
			slog.Warn("cache lookup failed", "error", err, "url", url, "user_id", userID)
		}
		return nil
	}
	if s.now().Sub(rec.CreatedAt) >= window {
		return nil
	}
	return rec
}

// History lists the user's newest records. limit 0 means the default.
func (s *AnalysisService) History(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	if limit == 0 {
		limit = config.DefaultHistoryLimit
	}
	if limit < 0 || limit > config.MaxHistoryLimit {
		return nil, domain.NewValidationError("limit must be between 1 and %d", config.MaxHistoryLimit)
	}
	records, err := s.store.ListAnalyses(ctx, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("list analyses: %w", err)
	}
	return records, nil
}

func (s *AnalysisService) Get(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error) {
	rec, err := s.store.GetAnalysis(ctx, id, userID)
	if err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return nil, domain.NewNotFoundError("analysis not found")
		}
		return nil, fmt.Errorf("get analysis: %w", err)
	}
	return rec, nil
}

// Delete removes a record owned by userID. Records of other users are reported
// as not found.
func (s *AnalysisService) Delete(ctx context.Context, id, userID string) error {
	if err := s.store.DeleteAnalysis(ctx, id, userID); err != nil {
		if errors.Is(err, domain.ErrAnalysisNotFound) {
			return domain.NewNotFoundError("analysis not found")
		}
		return fmt.Errorf("delete analysis: %w", err)
	}
	return nil
}

// Forget removes every record and the stored config of userID.
func (s *AnalysisService) Forget(ctx context.Context, userID string) (int64, error) {
	n, err := s.store.DeleteUserAnalyses(ctx, userID)
	if err != nil {
		return 0, fmt.Errorf("delete user analyses: %w", err)
	}
	if err := s.configs.Delete(ctx, userID); err != nil {
		return n, err
	}
	return n, nil
}
