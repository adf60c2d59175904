package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/set-night/pagecast/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type chatRequest struct {
	Model    string `json:"model"`
	Messages []struct {
		Role    string `json:"role"`
		Content string `json:"content"`
	} `json:"messages"`
	MaxTokens   int     `json:"max_tokens"`
	Temperature float64 `json:"temperature"`
}

func completionJSON(content string) string {
	body, _ := json.Marshal(content)
	return fmt.Sprintf(`{
		"id": "gen-1",
		"object": "chat.completion",
		"created": 1700000000,
		"model": "deepseek/deepseek-chat",
		"choices": [{"index": 0, "finish_reason": "stop", "message": {"role": "assistant", "content": %s}}],
		"usage": {"prompt_tokens": 120, "completion_tokens": 30, "total_tokens": 150}
	}`, body)
}

func newTestOpenRouter(baseURL string) *OpenRouterService {
	return NewOpenRouterService(OpenRouterConfig{
		APIKey:  "test-key",
		BaseURL: baseURL,
		Referer: "https://example.test",
		Title:   "Pagecast",
		Timeout: 5 * time.Second,
	})
}

func TestOpenRouterService_Analyze(t *testing.T) {
	var got chatRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		assert.Equal(t, "https://example.test", r.Header.Get("HTTP-Referer"))
		assert.Equal(t, "Pagecast", r.Header.Get("X-Title"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, completionJSON(`{"summary": "Short.", "keyPoints": ["k"], "sentiment": "negative", "wordCount": 7}`))
	}))
	defer srv.Close()

	cfg := DefaultConfig()
	cfg.MaxContentLength = 1000
	content := domain.WebContent{Title: "T", URL: "https://example.com/", Content: strings.Repeat("z", 1500)}

	res, err := newTestOpenRouter(srv.URL).Analyze(context.Background(), content, cfg)
	require.NoError(t, err)

	assert.Equal(t, "deepseek/deepseek-chat", got.Model)
	assert.Equal(t, 10000, got.MaxTokens)
	assert.InDelta(t, 0.3, got.Temperature, 1e-9)
	require.Len(t, got.Messages, 2)
	assert.Equal(t, "system", got.Messages[0].Role)
	assert.Equal(t, cfg.Prompt.SystemPrompt, got.Messages[0].Content)
	assert.Equal(t, "user", got.Messages[1].Role)
	assert.Contains(t, got.Messages[1].Content, strings.Repeat("z", 1000))
	assert.NotContains(t, got.Messages[1].Content, strings.Repeat("z", 1001))
	assert.Contains(t, got.Messages[1].Content, "URL: https://example.com/")

	assert.Equal(t, domain.ParseStructured, res.Mode)
	assert.Equal(t, "Short.", res.Result.Summary)
	assert.Equal(t, domain.SentimentNegative, res.Result.Sentiment)
	assert.Equal(t, int64(120), res.PromptTokens)
	assert.Equal(t, int64(30), res.CompletionTokens)
}

func TestOpenRouterService_Analyze_ErrorMapping(t *testing.T) {
	tests := []struct {
		status  int
		sub     domain.Sub
		message string
	}{
		{http.StatusUnauthorized, domain.SubUnauthorized, "invalid OpenRouter API key"},
		{http.StatusTooManyRequests, domain.SubRateLimited, "rate limit"},
		{http.StatusNotFound, domain.SubModelNotFound, "model not found: deepseek/deepseek-chat"},
		{http.StatusBadGateway, domain.SubOther, "status 502"},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			calls := 0
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				calls++
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(tt.status)
				fmt.Fprint(w, `{"error": {"message": "upstream says no"}}`)
			}))
			defer srv.Close()

			_, err := newTestOpenRouter(srv.URL).Analyze(context.Background(), domain.WebContent{Content: "x"}, DefaultConfig())
			require.Error(t, err)
			assert.ErrorIs(t, err, &domain.Error{Kind: domain.KindProvider, Sub: tt.sub})
			assert.Contains(t, err.Error(), tt.message)
			assert.Equal(t, 1, calls)
		})
	}
}

func TestOpenRouterService_Analyze_EmptyChoices(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id": "gen-1", "object": "chat.completion", "created": 1, "model": "m", "choices": []}`)
	}))
	defer srv.Close()

	_, err := newTestOpenRouter(srv.URL).Analyze(context.Background(), domain.WebContent{Content: "x"}, DefaultConfig())
	assert.ErrorIs(t, err, &domain.Error{Kind: domain.KindProvider, Sub: domain.SubOther})
	assert.Contains(t, err.Error(), "no response received")
}

func TestOpenRouterService_Analyze_MissingKey(t *testing.T) {
	svc := NewOpenRouterService(OpenRouterConfig{BaseURL: "http://127.0.0.1:1"})

	_, err := svc.Analyze(context.Background(), domain.WebContent{Content: "x"}, DefaultConfig())
	assert.ErrorIs(t, err, domain.ErrConfig)
}

func TestBuildPrompt(t *testing.T) {
	cfg := DefaultConfig()
	cfg.MaxContentLength = 5

	system, user := BuildPrompt(domain.WebContent{Title: "Hi {url}", URL: "https://a.b/", Content: "ąęółżźćń"}, cfg)

	assert.Equal(t, cfg.Prompt.SystemPrompt, system)
	assert.Contains(t, user, "Title: Hi {url}")
	assert.Contains(t, user, "ąęółż\n")
	assert.NotContains(t, user, "ąęółżź")
}
