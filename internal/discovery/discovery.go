package discovery

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrUnauthorized   = errors.New("invalid API key")
	ErrNotFound       = errors.New("resource not found")
	ErrRateLimit      = errors.New("rate limit exceeded")
	ErrInvalidRequest = errors.New("invalid request parameters")
	ErrRequestFailed  = errors.New("discovery request failed")
)

// Searcher runs one search against a resource path (e.g. "events",
// "classifications/genres") with wire-ready query parameters.
type Searcher interface {
	Search(ctx context.Context, resource string, params map[string]any) (*Page, error)
}

// Fetcher loads a single entity of a resource by its ID and returns the
// undecoded JSON object.
type Fetcher interface {
	GetByID(ctx context.Context, resource, id string) (json.RawMessage, error)
}

type API interface {
	Searcher
	Fetcher
}

// APIError is returned for every non-2xx response. It matches the sentinel
// for its status code via errors.Is.
type APIError struct {
	StatusCode int
	URL        string
	Code       string
	Detail     string
}

func (e *APIError) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("discovery: %d %s: %s", e.StatusCode, e.Code, e.Detail)
	}
	if e.Detail != "" {
		return fmt.Sprintf("discovery: %d: %s", e.StatusCode, e.Detail)
	}
	return fmt.Sprintf("discovery: status %d", e.StatusCode)
}

func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case 400:
		return ErrInvalidRequest
	case 401, 403:
		return ErrUnauthorized
	case 404:
		return ErrNotFound
	case 429:
		return ErrRateLimit
	default:
		return ErrRequestFailed
	}
}
