package config

import (
	"encoding/json"
	"fmt"
	"os"
	"time"
)

// Duration wraps time.Duration so that JSON config files can spell durations
// as "30s" or "1m" strings.
type Duration time.Duration

// UnmarshalJSON implements json.Unmarshaler for both string ("30s") and
// numeric (nanoseconds) forms.
func (d *Duration) UnmarshalJSON(data []byte) error {
	var raw any
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}

	switch v := raw.(type) {
	case string:
		parsed, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("error parsing duration %q: %w", v, err)
		}
		*d = Duration(parsed)
	case float64:
		*d = Duration(time.Duration(v))
	default:
		return fmt.Errorf("unsupported duration value %v", raw)
	}

	return nil
}

// StructuredJSONConfig mirrors [StructuredConfig] with JSON tags and the
// string-friendly [Duration] type.
type StructuredJSONConfig struct {
	Engine struct {
		Tenant            string   `json:"tenant"`
		TextLengthCeiling int      `json:"text_length_ceiling"`
		QueryCacheSize    int      `json:"query_cache_size"`
		StatementTimeout  Duration `json:"statement_timeout"`
	} `json:"engine,omitempty"`

	Storage struct {
		DB struct {
			DSN            string `json:"dsn"`
			MigrateOnStart bool   `json:"migrate_on_start"`
		} `json:"db,omitempty"`
	} `json:"storage,omitempty"`
}

func parseJSON(jsonFilePath string) (*StructuredConfig, error) {
	jsonFile, err := os.Open(jsonFilePath)
	if err != nil {
		return nil, fmt.Errorf("error reading a json file: %w", err)
	}
	defer jsonFile.Close()

	var jsonCfg StructuredJSONConfig
	if err := json.NewDecoder(jsonFile).Decode(&jsonCfg); err != nil {
		return nil, fmt.Errorf("error decoding json configs: %w", err)
	}

	cfg := &StructuredConfig{
		Engine: Engine{
			Tenant:            jsonCfg.Engine.Tenant,
			TextLengthCeiling: jsonCfg.Engine.TextLengthCeiling,
			QueryCacheSize:    jsonCfg.Engine.QueryCacheSize,
			StatementTimeout:  time.Duration(jsonCfg.Engine.StatementTimeout),
		},
		Storage: Storage{
			DB: DB{
				DSN:            jsonCfg.Storage.DB.DSN,
				MigrateOnStart: jsonCfg.Storage.DB.MigrateOnStart,
			},
		},
	}

	return cfg, nil
}
