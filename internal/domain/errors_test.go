package domain

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	err := fmt.Errorf("analyze: %w", NewFetchError(SubTimeout, "request timeout exceeded", nil))

	assert.ErrorIs(t, err, ErrFetch)
	assert.ErrorIs(t, err, &Error{Kind: KindFetch, Sub: SubTimeout})
	assert.NotErrorIs(t, err, &Error{Kind: KindFetch, Sub: SubNotFound})
	assert.NotErrorIs(t, err, ErrProvider)
}

func TestError_UnwrapsCause(t *testing.T) {
	cause := errors.New("dial tcp: refused")
	err := NewPersistenceDegraded("config store unavailable", cause)

	assert.ErrorIs(t, err, cause)
	assert.Equal(t, "config store unavailable: dial tcp: refused", err.Error())
}

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindValidation, KindOf(NewValidationError("bad %s", "input")))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("x: %w", ErrAnalysisNotFound)))
	assert.Equal(t, KindInternal, KindOf(errors.New("boom")))

	assert.Equal(t, SubRateLimited, SubOf(NewSynthesisError(SubRateLimited, "r", nil)))
	assert.Equal(t, SubNone, SubOf(errors.New("boom")))
}

func TestConfigUpdate_IsEmpty(t *testing.T) {
	assert.True(t, ConfigUpdate{}.IsEmpty())

	caching := false
	assert.False(t, ConfigUpdate{EnableCaching: &caching}.IsEmpty())
}

func TestSentiment_Valid(t *testing.T) {
	assert.True(t, SentimentNeutral.Valid())
	assert.False(t, Sentiment("mixed").Valid())
}
