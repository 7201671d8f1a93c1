package domain

import (
	"errors"
	"fmt"
	"maps"
	"slices"
	"strings"
)

var (
	ErrInvalidParams       = errors.New("invalid lookup parameters")
	ErrProfileNotFound     = errors.New("profile not found")
	ErrRateLimited         = errors.New("rate limit exceeded")
	ErrUpstreamUnavailable = errors.New("upstream unavailable")
	ErrUpstreamClient      = errors.New("upstream client error")
)

// ValidationError lists the offending fields of a request
type ValidationError struct {
	Fields map[string]string
}

func NewValidationError(field, reason string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: reason}}
}

func (e *ValidationError) Error() string {
	fields := slices.Sorted(maps.Keys(e.Fields))
	parts := make([]string, 0, len(fields))
	for _, field := range fields {
		parts = append(parts, fmt.Sprintf("%s: %s", field, e.Fields[field]))
	}
	return fmt.Sprintf("%s: %s", ErrInvalidParams.Error(), strings.Join(parts, ", "))
}

func (e *ValidationError) Unwrap() error {
	return ErrInvalidParams
}

// UpstreamError carries the response of an upstream that answered with a failure.
// Kind is one of ErrProfileNotFound, ErrUpstreamUnavailable or ErrUpstreamClient.
type UpstreamError struct {
	Kind       error
	StatusCode int
	Body       string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("%s: upstream returned status code %d", e.Kind.Error(), e.StatusCode)
}

func (e *UpstreamError) Unwrap() error {
	return e.Kind
}

// ExternalStatusCode returns the upstream status code wrapped in err, if any
func ExternalStatusCode(err error) (int, bool) {
	var upstreamErr *UpstreamError
	if !errors.As(err, &upstreamErr) {
		return 0, false
	}
	return upstreamErr.StatusCode, true
}
