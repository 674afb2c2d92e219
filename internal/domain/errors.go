package domain

import "errors"

// Sentinel errors for domain operations
var (
	// ErrRecordNotFound indicates the requested record is not in the catalog
	ErrRecordNotFound = errors.New("record not found")

	// ErrServerOffline indicates the metadata API is unreachable
	ErrServerOffline = errors.New("metadata API is unreachable")

	// ErrEmptyQuery indicates a search or lookup was attempted with no input
	ErrEmptyQuery = errors.New("query is empty")

	// ErrInvalidTheme indicates an unknown theme name
	ErrInvalidTheme = errors.New("unknown theme")

	// ErrInvalidRecord indicates a record failed validation (missing ID)
	ErrInvalidRecord = errors.New("record has no identifier")
)
