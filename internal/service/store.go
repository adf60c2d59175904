package service

import (
	"context"

	"github.com/set-night/pagecast/internal/domain"
)

// AnalysisStore is the persistence contract for analysis records.
// Implementations return domain.ErrAnalysisNotFound for missing or foreign rows.
type AnalysisStore interface {
	LatestAnalysis(ctx context.Context, url, userID string) (*domain.AnalysisRecord, error)
	InsertAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error
	ListAnalyses(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error)
	GetAnalysis(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error)
	DeleteAnalysis(ctx context.Context, id, userID string) error
	DeleteUserAnalyses(ctx context.Context, userID string) (int64, error)
}

// ConfigStore persists UserAIConfig rows keyed by user id.
type ConfigStore interface {
	GetConfig(ctx context.Context, userID string) (*domain.UserAIConfig, error)
	CreateConfig(ctx context.Context, cfg domain.UserAIConfig) (*domain.UserAIConfig, error)
	UpdateConfig(ctx context.Context, userID string, upd domain.ConfigUpdate, defaults domain.UserAIConfig) (*domain.UserAIConfig, error)
	DeleteConfig(ctx context.Context, userID string) error
}

// Store is everything the bot needs from a backend.
type Store interface {
	AnalysisStore
	ConfigStore
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}
