package domain

import (
	"errors"
	"fmt"
)

var (
	ErrAnalysisNotFound = errors.New("analysis not found")
	ErrConfigNotFound   = errors.New("ai config not found")
)

// Kind classifies an error for callers that map failures to responses.
type Kind string

const (
	KindValidation          Kind = "validation"
	KindFetch               Kind = "fetch"
	KindProvider            Kind = "provider"
	KindSynthesis           Kind = "synthesis"
	KindNotFound            Kind = "not_found"
	KindConfig              Kind = "config"
	KindPersistenceDegraded Kind = "persistence_degraded"
	KindInternal            Kind = "internal"
)

// Sub narrows a Kind. Fetch, provider and synthesis errors always carry one.
type Sub string

const (
	SubNone          Sub = ""
	SubTimeout       Sub = "timeout"
	SubNotFound      Sub = "not_found"
	SubForbidden     Sub = "forbidden"
	SubUnauthorized  Sub = "unauthorized"
	SubRateLimited   Sub = "rate_limited"
	SubModelNotFound Sub = "model_not_found"
	SubInvalidInput  Sub = "invalid_input"
	SubOther         Sub = "other"
)

type Error struct {
	Kind Kind
	Sub  Sub
	Msg  string
	Err  error
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is matches another *Error by Kind, and by Sub when the target sets one.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	if t.Kind != e.Kind {
		return false
	}
	return t.Sub == SubNone || t.Sub == e.Sub
}

// Targets for errors.Is.
var (
	ErrValidation          = &Error{Kind: KindValidation}
	ErrFetch               = &Error{Kind: KindFetch}
	ErrProvider            = &Error{Kind: KindProvider}
	ErrSynthesis           = &Error{Kind: KindSynthesis}
	ErrNotFound            = &Error{Kind: KindNotFound}
	ErrConfig              = &Error{Kind: KindConfig}
	ErrPersistenceDegraded = &Error{Kind: KindPersistenceDegraded}
)

func NewValidationError(format string, args ...any) *Error {
	return &Error{Kind: KindValidation, Msg: fmt.Sprintf(format, args...)}
}

func NewFetchError(sub Sub, msg string, err error) *Error {
	return &Error{Kind: KindFetch, Sub: sub, Msg: msg, Err: err}
}

func NewProviderError(sub Sub, msg string, err error) *Error {
	return &Error{Kind: KindProvider, Sub: sub, Msg: msg, Err: err}
}

func NewSynthesisError(sub Sub, msg string, err error) *Error {
	return &Error{Kind: KindSynthesis, Sub: sub, Msg: msg, Err: err}
}

func NewNotFoundError(format string, args ...any) *Error {
	return &Error{Kind: KindNotFound, Msg: fmt.Sprintf(format, args...)}
}

func NewConfigError(msg string) *Error {
	return &Error{Kind: KindConfig, Msg: msg}
}

func NewPersistenceDegraded(msg string, err error) *Error {
	return &Error{Kind: KindPersistenceDegraded, Msg: msg, Err: err}
}

// KindOf returns the Kind of the first *Error in err's chain.
// Store sentinels map to KindNotFound; anything else is KindInternal.
func KindOf(err error) Kind {
	var de *Error
	if errors.As(err, &de) {
		return de.Kind
	}
	if errors.Is(err, ErrAnalysisNotFound) || errors.Is(err, ErrConfigNotFound) {
		return KindNotFound
	}
	return KindInternal
}

// SubOf returns the Sub of the first *Error in err's chain.
func SubOf(err error) Sub {
	var de *Error
	if errors.As(err, &de) {
		return de.Sub
	}
	return SubNone
}
