package service

import (
	"context"
	"sync"
	"time"

	"github.com/set-night/pagecast/internal/domain"
)

type analysisStoreMock struct {
	LatestAnalysisFunc     func(ctx context.Context, url, userID string) (*domain.AnalysisRecord, error)
	InsertAnalysisFunc     func(ctx context.Context, rec *domain.AnalysisRecord) error
	ListAnalysesFunc       func(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error)
	GetAnalysisFunc        func(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error)
	DeleteAnalysisFunc     func(ctx context.Context, id, userID string) error
	DeleteUserAnalysesFunc func(ctx context.Context, userID string) (int64, error)
}

func (m *analysisStoreMock) LatestAnalysis(ctx context.Context, url, userID string) (*domain.AnalysisRecord, error) {
	if m.LatestAnalysisFunc != nil {
		return m.LatestAnalysisFunc(ctx, url, userID)
	}
	return nil, domain.ErrAnalysisNotFound
}

func (m *analysisStoreMock) InsertAnalysis(ctx context.Context, rec *domain.AnalysisRecord) error {
	if m.InsertAnalysisFunc != nil {
		return m.InsertAnalysisFunc(ctx, rec)
	}
	rec.ID = "generated"
	rec.CreatedAt = time.Now()
	rec.UpdatedAt = rec.CreatedAt
	return nil
}

func (m *analysisStoreMock) ListAnalyses(ctx context.Context, userID string, limit int) ([]domain.AnalysisRecord, error) {
	if m.ListAnalysesFunc != nil {
		return m.ListAnalysesFunc(ctx, userID, limit)
	}
	return []domain.AnalysisRecord{}, nil
}

func (m *analysisStoreMock) GetAnalysis(ctx context.Context, id, userID string) (*domain.AnalysisRecord, error) {
	if m.GetAnalysisFunc != nil {
		return m.GetAnalysisFunc(ctx, id, userID)
	}
	return nil, domain.ErrAnalysisNotFound
}

func (m *analysisStoreMock) DeleteAnalysis(ctx context.Context, id, userID string) error {
	if m.DeleteAnalysisFunc != nil {
		return m.DeleteAnalysisFunc(ctx, id, userID)
	}
	return nil
}

func (m *analysisStoreMock) DeleteUserAnalyses(ctx context.Context, userID string) (int64, error) {
	if m.DeleteUserAnalysesFunc != nil {
		return m.DeleteUserAnalysesFunc(ctx, userID)
	}
	return 0, nil
}

// memConfigStore is an in-memory ConfigStore with the upsert semantics of the real stores.
type memConfigStore struct {
	mu      sync.Mutex
	configs map[string]domain.UserAIConfig

	// failGet makes every read fail as if the backend were down.
	failGet error
	updates int
}

func newMemConfigStore() *memConfigStore {
	return &memConfigStore{configs: make(map[string]domain.UserAIConfig)}
}

func (s *memConfigStore) GetConfig(_ context.Context, userID string) (*domain.UserAIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failGet != nil {
		return nil, s.failGet
	}
	c, ok := s.configs[userID]
	if !ok {
		return nil, domain.ErrConfigNotFound
	}
	return &c, nil
}

func (s *memConfigStore) CreateConfig(_ context.Context, cfg domain.UserAIConfig) (*domain.UserAIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[cfg.UserID]; !ok {
		cfg.CreatedAt = time.Now()
		cfg.UpdatedAt = cfg.CreatedAt
		s.configs[cfg.UserID] = cfg
	}
	c := s.configs[cfg.UserID]
	return &c, nil
}

func (s *memConfigStore) UpdateConfig(_ context.Context, userID string, upd domain.ConfigUpdate, defaults domain.UserAIConfig) (*domain.UserAIConfig, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updates++

	c, ok := s.configs[userID]
	if !ok {
		c = defaults
		c.UserID = userID
		c.CreatedAt = time.Now()
	}
	if upd.ModelID != nil {
		c.ModelID = *upd.ModelID
	}
	if upd.PromptID != nil {
		c.PromptID = *upd.PromptID
	}
	if upd.Language != nil {
		c.Language = *upd.Language
	}
	if upd.MaxContentLength != nil {
		c.MaxContentLength = *upd.MaxContentLength
	}
	if upd.EnableCaching != nil {
		c.EnableCaching = *upd.EnableCaching
	}
	if upd.CacheExpiration != nil {
		c.CacheExpiration = *upd.CacheExpiration
	}
	c.UpdatedAt = time.Now()
	s.configs[userID] = c
	return &c, nil
}

func (s *memConfigStore) DeleteConfig(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.configs[userID]; !ok {
		return domain.ErrConfigNotFound
	}
	delete(s.configs, userID)
	return nil
}

type userConfigsMock struct {
	GetFunc    func(ctx context.Context, userID string) domain.ResolvedConfig
	DeleteFunc func(ctx context.Context, userID string) error
}

func (m *userConfigsMock) Get(ctx context.Context, userID string) domain.ResolvedConfig {
	if m.GetFunc != nil {
		return m.GetFunc(ctx, userID)
	}
	return DefaultConfig()
}

func (m *userConfigsMock) Delete(ctx context.Context, userID string) error {
	if m.DeleteFunc != nil {
		return m.DeleteFunc(ctx, userID)
	}
	return nil
}

type extractorMock struct {
	ExtractFunc func(ctx context.Context, url string) (*domain.WebContent, error)
	calls       int
}

func (m *extractorMock) Extract(ctx context.Context, url string) (*domain.WebContent, error) {
	m.calls++
	if m.ExtractFunc != nil {
		return m.ExtractFunc(ctx, url)
	}
	return &domain.WebContent{Title: "Title", Content: "some page text here", URL: url}, nil
}

type analyzerMock struct {
	AnalyzeFunc func(ctx context.Context, content domain.WebContent, cfg domain.ResolvedConfig) (*ProviderAnalysis, error)
	calls       int
}

func (m *analyzerMock) Analyze(ctx context.Context, content domain.WebContent, cfg domain.ResolvedConfig) (*ProviderAnalysis, error) {
	m.calls++
	if m.AnalyzeFunc != nil {
		return m.AnalyzeFunc(ctx, content, cfg)
	}
	return &ProviderAnalysis{
		Result: domain.AnalysisResult{
			Summary:   "A summary.",
			KeyPoints: []string{"one", "two"},
			Sentiment: domain.SentimentPositive,
			WordCount: 4,
		},
		Mode:             domain.ParseStructured,
		PromptTokens:     1000,
		CompletionTokens: 200,
	}, nil
}

type narratorMock struct {
	SynthesizeFunc func(ctx context.Context, text string) (*domain.AudioResult, error)
	calls          int
}

func (m *narratorMock) Synthesize(ctx context.Context, text string) (*domain.AudioResult, error) {
	m.calls++
	if m.SynthesizeFunc != nil {
		return m.SynthesizeFunc(ctx, text)
	}
	return &domain.AudioResult{AudioURL: "/audio/a.mp3", AudioID: "a", Duration: 1}, nil
}
