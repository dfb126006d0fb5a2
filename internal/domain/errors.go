package domain

import (
	"errors"
	"fmt"
)

var (
	ErrSourceUnavailable  = errors.New("review source unavailable")
	ErrSourceAuth         = errors.New("review source rejected credentials")
	ErrSourceNotFound     = errors.New("review source not found")
	ErrMissingCredentials = errors.New("generator credentials missing")
	ErrGeneratorTimeout   = errors.New("generator timed out")
	ErrGeneratorEmpty     = errors.New("generator returned empty content")
	ErrNoReviews          = errors.New("no reviews found")
)

// StatusError is a non-2xx answer from an outbound API.
type StatusError struct {
	Service string
	Code    int
	Message string
}

func (e *StatusError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("%s: status %d", e.Service, e.Code)
	}
	return fmt.Sprintf("%s: status %d: %s", e.Service, e.Code, e.Message)
}

// InputError is a caller mistake. It is never retried.
type InputError struct {
	Field  string
	Reason string
}

func (e *InputError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return e.Field + ": " + e.Reason
}
