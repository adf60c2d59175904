package repository

import (
	"testing"
	"time"

	"github.com/set-night/pagecast/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestAnalysisDoc_KeepsCostPrecision(t *testing.T) {
	rec := &domain.AnalysisRecord{
		URL:    "https://example.com/",
		UserID: "u1",
		Usage: domain.Usage{
			ModelID: "deepseek-chat",
			Cost:    decimal.RequireFromString("0.000123456789"),
		},
		CreatedAt: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
	}

	doc := toAnalysisDoc(rec)
	assert.Equal(t, "0.000123456789", doc.Usage.Cost)
	assert.Equal(t, []string{}, doc.Analysis.KeyPoints)

	doc.ID = primitive.NewObjectID()
	back := doc.toDomain()
	assert.Equal(t, doc.ID.Hex(), back.ID)
	assert.True(t, back.Usage.Cost.Equal(rec.Usage.Cost))
	assert.NotNil(t, back.Analysis.KeyPoints)
}

func TestAnalysisDoc_BadCostIsZero(t *testing.T) {
	doc := analysisDoc{Usage: usageDoc{Cost: "not-a-number"}}

	assert.True(t, doc.toDomain().Usage.Cost.IsZero())
}

func TestDeref(t *testing.T) {
	n := 5
	assert.Equal(t, 5, deref(&n))
	assert.Equal(t, "", deref[string](nil))
}
