// Package catalog holds the closed, immutable sets of analysis models and
// prompt templates, and formats prompt templates with runtime variables.
package catalog

import (
	"sort"
	"strings"

	"github.com/set-night/pagecast/internal/domain"
	"github.com/shopspring/decimal"
)

const (
	DefaultModelKey = "deepseek-chat"
	FallbackModel   = "qwen-7b"
)

var modelOrder = []string{"llama-3-70b", "mistral-7b", "deepseek-chat", "qwen-7b"}

var models = map[string]domain.AIModel{
	"llama-3-70b": {
		Key:             "llama-3-70b",
		ID:              "meta-llama/llama-3-70b-instruct",
		Name:            "Llama 3 70B",
		Provider:        "Meta",
		MaxTokens:       8000,
		Temperature:     0.3,
		Description:     "Large multilingual model with good Polish support",
		PromptPrice:     decimal.RequireFromString("0.30"),
		CompletionPrice: decimal.RequireFromString("0.40"),
	},
	"mistral-7b": {
		Key:             "mistral-7b",
		ID:              "mistralai/mistral-7b-instruct",
		Name:            "Mistral 7B",
		Provider:        "Mistral AI",
		MaxTokens:       8000,
		Temperature:     0.3,
		Description:     "Multilingual model with good Polish language capabilities",
		PromptPrice:     decimal.RequireFromString("0.028"),
		CompletionPrice: decimal.RequireFromString("0.054"),
	},
	"deepseek-chat": {
		Key:             "deepseek-chat",
		ID:              "deepseek/deepseek-chat",
		Name:            "DeepSeek Chat",
		Provider:        "DeepSeek",
		MaxTokens:       10000,
		Temperature:     0.3,
		Description:     "Multilingual model with Polish language support",
		PromptPrice:     decimal.RequireFromString("0.30"),
		CompletionPrice: decimal.RequireFromString("0.85"),
	},
	"qwen-7b": {
		Key:             "qwen-7b",
		ID:              "qwen/qwen-2.5-7b-instruct",
		Name:            "Qwen 2.5 7B",
		Provider:        "Alibaba",
		MaxTokens:       8000,
		Temperature:     0.3,
		Description:     "Small, fast multilingual model",
		PromptPrice:     decimal.Zero,
		CompletionPrice: decimal.Zero,
	},
}

// legacyModels maps retired catalog keys still found in stored configs.
var legacyModels = map[string]string{
	"llama-3-8b":     FallbackModel,
	"deepseek-coder": FallbackModel,
	"gemma-7b":       FallbackModel,
	"gemma-2b":       FallbackModel,
	"phi-3-mini":     FallbackModel,
	"phi-3-small":    FallbackModel,
}

// Models returns every catalog model in display order.
func Models() []domain.AIModel {
	out := make([]domain.AIModel, 0, len(modelOrder))
	for _, key := range modelOrder {
		out = append(out, models[key])
	}
	return out
}

// ModelKeys returns the sorted catalog keys.
func ModelKeys() []string {
	keys := make([]string, 0, len(models))
	for k := range models {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Model looks up a model by catalog key. An empty key selects the default model.
func Model(key string) (domain.AIModel, error) {
	if key == "" {
		key = DefaultModelKey
	}
	return FindModel(key)
}

// FindModel looks up key exactly. Use it for user input, where an empty key is
// not a request for the default.
func FindModel(key string) (domain.AIModel, error) {
	m, ok := models[key]
	if !ok {
		return domain.AIModel{}, domain.NewNotFoundError("model '%s' not found. Available models: %s",
			key, strings.Join(ModelKeys(), ", "))
	}
	return m, nil
}

func DefaultModel() domain.AIModel {
	return models[DefaultModelKey]
}

// MigrateModelKey maps a retired key to its replacement. ok is false when key is
// neither current nor a known legacy key.
func MigrateModelKey(key string) (string, bool) {
	if _, ok := models[key]; ok {
		return key, true
	}
	if to, ok := legacyModels[key]; ok {
		return to, true
	}
	return "", false
}
