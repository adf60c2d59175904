package domain

import "github.com/shopspring/decimal"

type AIModel struct {
	Key             string // catalog key, e.g. "deepseek-chat"
	ID              string // provider-qualified id sent upstream
	Name            string
	Provider        string
	MaxTokens       int
	Temperature     float64
	Description     string
	PromptPrice     decimal.Decimal // per 1M tokens
	CompletionPrice decimal.Decimal // per 1M tokens
}

func (m *AIModel) IsFree() bool {
	return m.PromptPrice.IsZero() && m.CompletionPrice.IsZero()
}
