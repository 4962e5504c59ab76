package adapter

import "errors"

// Transport sentinels mapped from HTTP status codes and network failures.
var (
	ErrBadRequest          = errors.New("bad request")
	ErrUnauthorized        = errors.New("client unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrNotFound            = errors.New("not found")
	ErrConflict            = errors.New("conflict")
	ErrInternalServerError = errors.New("internal server error")

	// ErrUnreachable indicates the backend could not be reached at all
	// (connection refused, DNS failure, reset).
	ErrUnreachable = errors.New("server unreachable")

	// ErrTimeout indicates the request exceeded the configured deadline.
	ErrTimeout = errors.New("request timed out")
)
