package service

import (
	"github.com/set-night/pagecast/internal/domain"
	"github.com/shopspring/decimal"
)

var million = decimal.NewFromInt(1_000_000)

// CalculateCost prices a completion from the model's per-1M-token rates.
func CalculateCost(model domain.AIModel, promptTokens, completionTokens int64) decimal.Decimal {
	promptCost := model.PromptPrice.Mul(decimal.NewFromInt(promptTokens)).Div(million)
	completionCost := model.CompletionPrice.Mul(decimal.NewFromInt(completionTokens)).Div(million)
	return promptCost.Add(completionCost)
}
