package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LEDGER_SECRET", "s3cret")
	t.Setenv("LEDGER_STORE", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "memory", cfg.Store)
	assert.Equal(t, "s3cret", cfg.Secret)
	assert.Equal(t, 30*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, "console", cfg.LogFormat)
}

func TestLoadRequiresSecret(t *testing.T) {
	// t.Setenv registers the restore; the lookup must then miss.
	t.Setenv("LEDGER_SECRET", "")
	os.Unsetenv("LEDGER_SECRET")
	t.Setenv("LEDGER_STORE", "memory")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadSheetsStoreRequiresSpreadsheet(t *testing.T) {
	t.Setenv("LEDGER_SECRET", "s3cret")
	t.Setenv("LEDGER_STORE", "sheets")
	t.Setenv("LEDGER_SPREADSHEET_ID", "")

	_, err := Load()
	require.Error(t, err)

	t.Setenv("LEDGER_SPREADSHEET_ID", "sheet-id")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "sheet-id", cfg.SpreadsheetID)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LEDGER_SECRET", "s3cret")
	t.Setenv("LEDGER_STORE", "memory")
	t.Setenv("PORT", "9999")
	t.Setenv("LEDGER_SESSION_TTL", "5m")
	t.Setenv("LOG_LEVEL", "debug")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "9999", cfg.Port)
	assert.Equal(t, 5*time.Minute, cfg.SessionTTL)
	assert.Equal(t, "debug", cfg.LogLevel)
}
