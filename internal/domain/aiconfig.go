package domain

import "time"

// UserAIConfig is the stored per-user AI preference row.
type UserAIConfig struct {
	UserID           string
	ModelID          string
	PromptID         string
	Language         string
	MaxContentLength int
	EnableCaching    bool
	CacheExpiration  int // seconds
	CreatedAt        time.Time
	UpdatedAt        time.Time
}

// ConfigUpdate is a partial update; nil fields are left untouched.
type ConfigUpdate struct {
	ModelID          *string
	PromptID         *string
	Language         *string
	MaxContentLength *int
	EnableCaching    *bool
	CacheExpiration  *int
}

func (u ConfigUpdate) IsEmpty() bool {
	return u.ModelID == nil && u.PromptID == nil && u.Language == nil &&
		u.MaxContentLength == nil && u.EnableCaching == nil && u.CacheExpiration == nil
}

// ResolvedConfig is a UserAIConfig with catalog entries looked up.
type ResolvedConfig struct {
	Model            AIModel
	Prompt           PromptTemplate
	Language         string
	MaxContentLength int
	EnableCaching    bool
	CacheExpiration  int
}

func (c ResolvedConfig) CacheTTL() time.Duration {
	return time.Duration(c.CacheExpiration) * time.Second
}
