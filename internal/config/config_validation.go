package config

// validate checks that the final merged [StructuredConfig] satisfies the
// engine invariants before it is used at startup.
//
// Returns nil if the configuration is valid, or a sentinel error otherwise.
func (cfg *StructuredConfig) validate() error {
	if cfg.Storage.DB.DSN == "" {
		return ErrInvalidStorageConfigs
	}

	if cfg.Engine.TextLengthCeiling <= 0 || cfg.Engine.QueryCacheSize <= 0 {
		return ErrInvalidEngineConfigs
	}

	return nil
}
