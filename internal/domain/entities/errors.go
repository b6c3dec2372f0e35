package entities

import (
	"errors"
	"fmt"
)

var (
	// ErrNoCredentials is returned by credential resolvers that know nothing about a URL.
	ErrNoCredentials = errors.New("no credentials configured")

	// ErrConfigNotFound is returned when no settings file exists in the default locations.
	ErrConfigNotFound = errors.New("config file not found in default locations")
)

// AuthenticationError means an owning provider could not find any usable token.
type AuthenticationError struct {
	Platform string
	EnvVar   string
}

func (e *AuthenticationError) Error() string {
	return fmt.Sprintf(
		"no token available for %s, please configure your integrations or set a %s env variable",
		e.Platform, e.EnvVar,
	)
}

// UpstreamError wraps a failed call to a hosting platform API.
type UpstreamError struct {
	Platform   string
	Operation  string
	StatusCode int
	Err        error
}

func (e *UpstreamError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s: failed to %s (status %d): %v", e.Platform, e.Operation, e.StatusCode, e.Err)
	}
	return fmt.Sprintf("%s: failed to %s: %v", e.Platform, e.Operation, e.Err)
}

func (e *UpstreamError) Unwrap() error { return e.Err }
