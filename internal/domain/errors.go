package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNoDataForRange means the selected day-of-year window matched no day in
	// any year of the series.
	ErrNoDataForRange = errors.New("no data available for the selected range")

	// ErrMalformedInput classifies every *ValidationError.
	ErrMalformedInput = errors.New("malformed input")

	// ErrInsufficientSample means a statistic needs more observations than the
	// selection holds. Analyze reports it as a Degradation, never as an error.
	ErrInsufficientSample = errors.New("insufficient sample size")

	// ErrUpstream wraps failures of a SeriesFetcher.
	ErrUpstream = errors.New("upstream data fetch failed")

	// ErrLocationNotFound is returned when a place name cannot be geocoded.
	ErrLocationNotFound = errors.New("location not found")
)

// ValidationError describes an input value outside its valid domain.
// It matches ErrMalformedInput under errors.Is.
type ValidationError struct {
	Field   string
	Value   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrMalformedInput
}

func invalid(field string, value any, message string) error {
	return &ValidationError{Field: field, Value: fmt.Sprint(value), Message: message}
}

// Degradation records a result section that was omitted or defaulted because
// its statistic was undefined for the selection.
type Degradation struct {
	Section string `json:"section"`
	Reason  string `json:"reason"`
}

// ErrorResult is the tagged error object handed to transports in place of a
// result.
type ErrorResult struct {
	Error string `json:"error"`
}

// NewErrorResult wraps err's message.
func NewErrorResult(err error) ErrorResult {
	return ErrorResult{Error: err.Error()}
}
