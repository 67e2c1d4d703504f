package api

import "errors"

var (
	// ErrUnavailable covers network failure, timeout, and 5xx replies:
	// the server may not have seen the request, so mutations fall back to
	// the outbox.
	ErrUnavailable = errors.New("server unavailable")

	// ErrUnauthorized maps 401 replies: the token is missing, invalid, or
	// expired.
	ErrUnauthorized = errors.New("unauthorized")
)
