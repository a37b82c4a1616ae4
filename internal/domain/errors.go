package domain

import "errors"

var (
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("unauthorized")
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

var (
	ErrEmptyQuery         = errors.New("empty query")
	ErrQueryTooLong       = errors.New("query too long")
	ErrInvalidStateCode   = errors.New("state code must be two letters")
	ErrInvalidCoordinates = errors.New("invalid coordinates")
	ErrInvalidRadius      = errors.New("invalid radius")
	ErrTooManyIDs         = errors.New("too many ids")
	ErrUnknownSearchKind  = errors.New("unknown search kind")
	ErrNoResults          = errors.New("no results found")
	ErrAPIFailed          = errors.New("event api request failed")
	ErrAPIRateLimited     = errors.New("event api rate limit exceeded")
)
