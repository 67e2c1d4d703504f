// Package common defines shared constants and sentinel errors used across
// FitSync client layers. Callers should use errors.Is to match these values.
package common

import "errors"

var (
	// Repository-level errors.
	ErrorNotFound = errors.New("not found")

	// Storage lifecycle errors. ErrStorageUnavailable is returned when the
	// local database cannot be opened or migrated; the application surfaces
	// it instead of silently dropping data.
	ErrStorageUnavailable = errors.New("local storage unavailable")

	// Session / isolation errors.
	ErrorUnauthorized = errors.New("unauthorized")
	ErrUserMismatch   = errors.New("cached data belongs to a different user")
)
