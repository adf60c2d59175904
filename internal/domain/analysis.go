package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type Sentiment string

const (
	SentimentPositive Sentiment = "positive"
	SentimentNegative Sentiment = "negative"
	SentimentNeutral  Sentiment = "neutral"
)

func (s Sentiment) Valid() bool {
	switch s {
	case SentimentPositive, SentimentNegative, SentimentNeutral:
		return true
	}
	return false
}

// WebContent is the extractor output. Content is already whitespace-normalized and capped.
type WebContent struct {
	Title   string
	Content string
	URL     string
}

type AnalysisResult struct {
	Summary   string    `json:"summary"`
	KeyPoints []string  `json:"keyPoints"`
	Sentiment Sentiment `json:"sentiment"`
	WordCount int       `json:"wordCount"`
}

type AudioResult struct {
	AudioURL string `json:"audioUrl"`
	AudioID  string `json:"audioId"`
	Duration int    `json:"duration"` // seconds, estimated
}

// ParseMode records which tier of response parsing produced an AnalysisResult.
type ParseMode string

const (
	ParseStructured ParseMode = "structured"
	ParseHeuristic  ParseMode = "heuristic"
)

type Usage struct {
	ModelID          string          `json:"modelId"`
	PromptID         string          `json:"promptId"`
	PromptTokens     int64           `json:"promptTokens"`
	CompletionTokens int64           `json:"completionTokens"`
	Cost             decimal.Decimal `json:"cost"`
	ParseMode        ParseMode       `json:"parseMode"`
}

type AnalysisRecord struct {
	ID        string         `json:"id"`
	URL       string         `json:"url"`
	UserID    string         `json:"userId"`
	Analysis  AnalysisResult `json:"analysis"`
	Audio     AudioResult    `json:"audio"`
	Usage     Usage          `json:"usage"`
	Timestamp time.Time      `json:"timestamp"`
	CreatedAt time.Time      `json:"createdAt"`
	UpdatedAt time.Time      `json:"updatedAt"`
}
