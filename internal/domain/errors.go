package domain

import "errors"

var (
	// ErrStoreNotFound is returned when the persisted catalog does not exist
	ErrStoreNotFound = errors.New("nutrition store not found")

	// ErrStoreCorrupt is returned when the persisted catalog cannot be parsed
	ErrStoreCorrupt = errors.New("nutrition store is malformed")

	// ErrStoreWrite is returned when a new entry cannot be written through to the store
	ErrStoreWrite = errors.New("nutrition store write failed")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrInvalidNumber is returned for non-numeric, non-finite or negative input
	ErrInvalidNumber = errors.New("invalid number")

	// ErrCacheMiss is returned when data is not found in cache
	ErrCacheMiss = errors.New("cache miss")

	// ErrProductNotFound is returned when a food cannot be found in USDA database
	ErrProductNotFound = errors.New("product not found in USDA database")

	// ErrUSDAAPIFailure is returned when USDA API request fails
	ErrUSDAAPIFailure = errors.New("USDA API request failed")

	// ErrSuggestionsDisabled is returned when no USDA client is configured
	ErrSuggestionsDisabled = errors.New("nutrition suggestions are disabled")
)
