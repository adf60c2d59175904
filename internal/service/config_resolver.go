package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/set-night/pagecast/internal/catalog"
	"github.com/set-night/pagecast/internal/config"
	"github.com/set-night/pagecast/internal/domain"
)

// ConfigResolver turns stored per-user preferences into a ResolvedConfig.
// One instance is built in main and shared by all handlers.
type ConfigResolver struct {
	store ConfigStore
}

func NewConfigResolver(store ConfigStore) *ConfigResolver {
	return &ConfigResolver{store: store}
}

// DefaultUserConfig is the row created for a user seen for the first time.
func DefaultUserConfig(userID string) domain.UserAIConfig {
	return domain.UserAIConfig{
		UserID:           userID,
		ModelID:          catalog.DefaultModelKey,
		PromptID:         catalog.DefaultPromptID,
		Language:         config.DefaultLanguage,
		MaxContentLength: config.DefaultMaxContentLength,
		EnableCaching:    config.DefaultEnableCaching,
		CacheExpiration:  config.DefaultCacheExpiration,
	}
}

// DefaultConfig is the in-process configuration used when the store is unavailable.
func DefaultConfig() domain.ResolvedConfig {
	prompt := catalog.DefaultPrompt()
	return domain.ResolvedConfig{
		Model:            catalog.DefaultModel(),
		Prompt:           prompt,
		Language:         prompt.Language,
		MaxContentLength: config.DefaultMaxContentLength,
		EnableCaching:    config.DefaultEnableCaching,
		CacheExpiration:  config.DefaultCacheExpiration,
	}
}

// Resolve loads the user's config, creating it with defaults on first access.
// Store failures are returned as PersistenceDegraded.
func (r *ConfigResolver) Resolve(ctx context.Context, userID string) (domain.ResolvedConfig, error) {
	stored, err := r.store.GetConfig(ctx, userID)
	if errors.Is(err, domain.ErrConfigNotFound) {
		stored, err = r.store.CreateConfig(ctx, DefaultUserConfig(userID))
	}
	if err != nil {
		return domain.ResolvedConfig{}, domain.NewPersistenceDegraded("config store unavailable", err)
	}
	return resolve(*stored), nil
}

// Get resolves the user's config and falls back to DefaultConfig when the
// store cannot be read. It never fails.
func (r *ConfigResolver) Get(ctx context.Context, userID string) domain.ResolvedConfig {
	cfg, err := r.Resolve(ctx, userID)
	if err != nil {
		slog.Warn("failed to resolve user config, using defaults", "error", err, "user_id", userID)
		return DefaultConfig()
	}
	return cfg
}

func resolve(stored domain.UserAIConfig) domain.ResolvedConfig {
	key, ok := catalog.MigrateModelKey(stored.ModelID)
	if !ok {
		slog.Warn("unknown stored model, using default",
			"model_id", stored.ModelID,
			"user_id", stored.UserID,
		)
		key = catalog.DefaultModelKey
	}
	model, err := catalog.Model(key)
	if err != nil {
		model = catalog.DefaultModel()
	}

	prompt, err := catalog.Prompt(stored.PromptID)
	if err != nil {
		slog.Warn("unknown stored prompt, using default",
			"prompt_id", stored.PromptID,
			"user_id", stored.UserID,
		)
		prompt = catalog.DefaultPrompt()
	}

	return domain.ResolvedConfig{
		Model:            model,
		Prompt:           prompt,
		Language:         prompt.Language,
		MaxContentLength: stored.MaxContentLength,
		EnableCaching:    stored.EnableCaching,
		CacheExpiration:  stored.CacheExpiration,
	}
}

// Update validates upd against the catalogs and bounds, then upserts it.
// A prompt always brings its own language; a language on its own selects the
// first prompt written in it. Nothing is stored when validation fails.
func (r *ConfigResolver) Update(ctx context.Context, userID string, upd domain.ConfigUpdate) (domain.ResolvedConfig, error) {
	upd, err := normalizeUpdate(upd)
	if err != nil {
		return domain.ResolvedConfig{}, err
	}

	stored, err := r.store.UpdateConfig(ctx, userID, upd, DefaultUserConfig(userID))
	if err != nil {
		return domain.ResolvedConfig{}, fmt.Errorf("update ai config: %w", err)
	}
	return resolve(*stored), nil
}

func normalizeUpdate(upd domain.ConfigUpdate) (domain.ConfigUpdate, error) {
	if upd.IsEmpty() {
		return upd, domain.NewValidationError("no configuration fields to update")
	}

	if upd.ModelID != nil {
		if _, err := catalog.FindModel(*upd.ModelID); err != nil {
			return upd, err
		}
	}

	switch {
	case upd.PromptID != nil:
		prompt, err := catalog.FindPrompt(*upd.PromptID)
		if err != nil {
			return upd, err
		}
		lang := prompt.Language
		upd.Language = &lang
	case upd.Language != nil:
		if !catalog.IsLanguage(*upd.Language) {
			return upd, domain.NewValidationError("language must be one of: %s",
				strings.Join(catalog.Languages(), ", "))
		}
		prompts := catalog.PromptsByLanguage(*upd.Language)
		if len(prompts) == 0 {
			return upd, domain.NewValidationError("no prompt available for language %q", *upd.Language)
		}
		id := prompts[0].ID
		upd.PromptID = &id
	}

	if v := upd.MaxContentLength; v != nil && (*v < config.MinMaxContentLength || *v > config.MaxMaxContentLength) {
		return upd, domain.NewValidationError("max content length must be between %d and %d",
			config.MinMaxContentLength, config.MaxMaxContentLength)
	}
	if v := upd.CacheExpiration; v != nil && (*v < config.MinCacheExpiration || *v > config.MaxCacheExpiration) {
		return upd, domain.NewValidationError("cache expiration must be between %d and %d seconds",
			config.MinCacheExpiration, config.MaxCacheExpiration)
	}
	return upd, nil
}

// Delete removes the user's stored config. A missing row is not an error.
func (r *ConfigResolver) Delete(ctx context.Context, userID string) error {
	if err := r.store.DeleteConfig(ctx, userID); err != nil && !errors.Is(err, domain.ErrConfigNotFound) {
		return fmt.Errorf("delete ai config: %w", err)
	}
	return nil
}
