package domain

import "errors"

var (
	// ErrMissingQuery is returned when a required query parameter is absent
	ErrMissingQuery = errors.New("missing required query parameter")

	// ErrMissingCredential is returned when no upstream API key is configured
	ErrMissingCredential = errors.New("upstream API key is not configured")

	// ErrUnknownStore is returned when a store identifier does not map to a supported provider
	ErrUnknownStore = errors.New("unknown store")

	// ErrUpstream is returned when a provider request fails or times out
	ErrUpstream = errors.New("upstream provider request failed")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")
)
