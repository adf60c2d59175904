package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/openai/openai-go/v2"
	"github.com/openai/openai-go/v2/option"
	"github.com/set-night/pagecast/internal/catalog"
	"github.com/set-night/pagecast/internal/domain"
)

type OpenRouterConfig struct {
	APIKey  string
	BaseURL string
	Referer string
	Title   string
	Timeout time.Duration
}

// OpenRouterService sends analysis prompts to OpenRouter's OpenAI-compatible API.
// The underlying client is built once, on the first call.
type OpenRouterService struct {
	cfg OpenRouterConfig

	once    sync.Once
	client  *openai.Client
	initErr error
}

func NewOpenRouterService(cfg OpenRouterConfig) *OpenRouterService {
	return &OpenRouterService{cfg: cfg}
}

// ProviderAnalysis is a parsed reply plus the token usage reported for it.
type ProviderAnalysis struct {
	Result           domain.AnalysisResult
	Mode             domain.ParseMode
	PromptTokens     int64
	CompletionTokens int64
}

func (s *OpenRouterService) getClient() (*openai.Client, error) {
	s.once.Do(func() {
		if s.cfg.APIKey == "" {
			s.initErr = domain.NewConfigError("OPENROUTER_API_KEY is not set")
			return
		}
		opts := []option.RequestOption{
			option.WithAPIKey(s.cfg.APIKey),
			option.WithMaxRetries(0),
			option.WithHeader("HTTP-Referer", s.cfg.Referer),
			option.WithHeader("X-Title", s.cfg.Title),
		}
		if base := strings.TrimRight(strings.TrimSpace(s.cfg.BaseURL), "/"); base != "" {
			opts = append(opts, option.WithBaseURL(base+"/"))
		}
		if s.cfg.Timeout > 0 {
			opts = append(opts, option.WithRequestTimeout(s.cfg.Timeout))
		}
		client := openai.NewClient(opts...)
		s.client = &client
	})
	return s.client, s.initErr
}

// BuildPrompt returns the system and user messages for content under cfg.
// Page text is cut to cfg.MaxContentLength characters before formatting.
func BuildPrompt(content domain.WebContent, cfg domain.ResolvedConfig) (system, user string) {
	user = catalog.FormatPrompt(cfg.Prompt, map[string]string{
		"title":   content.Title,
		"url":     content.URL,
		"content": truncateRunes(content.Content, cfg.MaxContentLength),
	})
	return cfg.Prompt.SystemPrompt, user
}

// Analyze makes exactly one completion request and parses the reply.
func (s *OpenRouterService) Analyze(ctx context.Context, content domain.WebContent, cfg domain.ResolvedConfig) (*ProviderAnalysis, error) {
	client, err := s.getClient()
	if err != nil {
		return nil, err
	}

	system, user := BuildPrompt(content, cfg)
	resp, err := client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Model: cfg.Model.ID,
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(system),
			openai.UserMessage(user),
		},
		MaxTokens:   openai.Int(int64(cfg.Model.MaxTokens)),
		Temperature: openai.Float(cfg.Model.Temperature),
	})
	if err != nil {
		return nil, mapProviderError(err, cfg.Model.ID)
	}

	if len(resp.Choices) == 0 || resp.Choices[0].Message.Content == "" {
		return nil, domain.NewProviderError(domain.SubOther, "no response received from OpenRouter", nil)
	}

	parsed := ParseAnalysisResponse(resp.Choices[0].Message.Content, content.Content)
	return &ProviderAnalysis{
		Result:           parsed.Result,
		Mode:             parsed.Mode,
		PromptTokens:     resp.Usage.PromptTokens,
		CompletionTokens: resp.Usage.CompletionTokens,
	}, nil
}

func mapProviderError(err error, modelID string) error {
	var apiErr *openai.Error
	if !errors.As(err, &apiErr) {
		return domain.NewProviderError(domain.SubOther, "OpenRouter request failed", err)
	}
	switch apiErr.StatusCode {
	case http.StatusUnauthorized:
		return domain.NewProviderError(domain.SubUnauthorized, "invalid OpenRouter API key", err)
	case http.StatusTooManyRequests:
		return domain.NewProviderError(domain.SubRateLimited, "OpenRouter API rate limit exceeded", err)
	case http.StatusNotFound:
		return domain.NewProviderError(domain.SubModelNotFound, fmt.Sprintf("model not found: %s", modelID), err)
	default:
		return domain.NewProviderError(domain.SubOther, fmt.Sprintf("OpenRouter API error: status %d", apiErr.StatusCode), err)
	}
}
