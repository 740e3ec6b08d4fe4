package config

import "errors"

// Validation errors returned by [StructuredConfig.validate] when required
// configuration groups are incomplete or invalid.
var (
	// ErrInvalidStorageConfigs indicates invalid storage settings
	// (for example, an empty database DSN).
	ErrInvalidStorageConfigs = errors.New("invalid storage configuration")

	// ErrInvalidEngineConfigs indicates invalid engine limits
	// (for example, a non-positive text length ceiling or cache size).
	ErrInvalidEngineConfigs = errors.New("invalid engine configuration")
)
