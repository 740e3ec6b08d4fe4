package config

import (
	"flag"
	"time"
)

// ParseFlags parses all configuration flags.
//
// Flags:
//
//	-d database DSN
//	-migrate run embedded migrations on start
//	-tenant tenant environment label
//	-text-length-ceiling maximum declarable Text field length
//	-query-cache-size compiled statement cache capacity
//	-statement-timeout single statement timeout (e.g., "30s", "1m")
//	-c/-config json file path with configs
func ParseFlags() *StructuredConfig {
	var databaseDSN string
	var migrateOnStart bool
	var tenant string
	var textLengthCeiling int
	var queryCacheSize int
	var statementTimeout time.Duration
	var jsonConfigPath string

	flag.StringVar(&databaseDSN, "d", "", "Database DSN")
	flag.BoolVar(&migrateOnStart, "migrate", false, "Run embedded migrations on start")
	flag.StringVar(&tenant, "tenant", "", "Tenant environment label")
	flag.IntVar(&textLengthCeiling, "text-length-ceiling", 0, "Maximum declarable Text field length")
	flag.IntVar(&queryCacheSize, "query-cache-size", 0, "Compiled statement cache capacity")
	flag.DurationVar(&statementTimeout, "statement-timeout", 0, "Statement timeout (e.g., 30s, 1m)")
	flag.StringVar(&jsonConfigPath, "c", "", "JSON config file path")
	flag.StringVar(&jsonConfigPath, "config", "", "JSON config file path (alias)")

	flag.Parse()

	return &StructuredConfig{
		Engine: Engine{
			Tenant:            tenant,
			TextLengthCeiling: textLengthCeiling,
			QueryCacheSize:    queryCacheSize,
			StatementTimeout:  statementTimeout,
		},
		Storage: Storage{
			DB: DB{
				DSN:            databaseDSN,
				MigrateOnStart: migrateOnStart,
			},
		},
		JSONFilePath: jsonConfigPath,
	}
}
