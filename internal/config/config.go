// Package config loads process configuration from the environment,
// with an optional .env file for local development.
package config

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config is the full server configuration.
type Config struct {
	Port string `envconfig:"PORT" default:"8080"`

	// Store selects the backing store: "sheets" in production,
	// "memory" for local runs and demos.
	Store         string `envconfig:"LEDGER_STORE" default:"sheets"`
	SpreadsheetID string `envconfig:"LEDGER_SPREADSHEET_ID"`
	// CredentialsFile points at a service account key; empty falls
	// back to application default credentials.
	CredentialsFile string `envconfig:"LEDGER_CREDENTIALS_FILE"`

	// Secret is the shared access secret, either clear or bcrypt.
	Secret     string        `envconfig:"LEDGER_SECRET" required:"true"`
	SessionTTL time.Duration `envconfig:"LEDGER_SESSION_TTL" default:"30m"`

	LogLevel  string `envconfig:"LOG_LEVEL" default:"info"`
	LogFormat string `envconfig:"LOG_FORMAT" default:"console"` // console or json
}

// Load reads configuration from the environment. A missing .env file
// is not an error.
func Load() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return Config{}, fmt.Errorf("config: %w", err)
	}
	if cfg.Store == "sheets" && cfg.SpreadsheetID == "" {
		return Config{}, fmt.Errorf("config: LEDGER_SPREADSHEET_ID is required with the sheets store")
	}
	return cfg, nil
}
