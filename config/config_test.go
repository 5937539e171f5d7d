package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// clearEnv unsets every PIN_* variable for the test. godotenv never
// overrides a variable that exists, even when empty.
func clearEnv(t *testing.T) {
	for _, k := range []string{"PIN_PORT", "PIN_ROOT", "PIN_DATABASE_URL", "PIN_USERS",
		"PIN_NONCE_SECRET", "PIN_PUBLIC_URL", "PIN_LOG_LEVEL", "PIN_LOG_PRETTY"} {
		t.Setenv(k, "")
		os.Unsetenv(k)
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "./notes", cfg.Root)
	assert.Empty(t, cfg.DatabaseURL)
	assert.Equal(t, "http://localhost:8080", cfg.PublicURL)
	assert.Equal(t, zerolog.InfoLevel, cfg.LogLevel)
	assert.True(t, cfg.InsecureSecret())
}

func TestLoadFromEnv(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIN_PORT", "9000")
	t.Setenv("PIN_NONCE_SECRET", "s")
	t.Setenv("PIN_LOG_LEVEL", "debug")
	t.Setenv("PIN_LOG_PRETTY", "true")

	cfg, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	require.NoError(t, err)
	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "http://localhost:9000", cfg.PublicURL)
	assert.Equal(t, zerolog.DebugLevel, cfg.LogLevel)
	assert.True(t, cfg.LogPretty)
	assert.False(t, cfg.InsecureSecret())
}

func TestLoadDotEnv(t *testing.T) {
	clearEnv(t)
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte("PIN_ROOT=/srv/notes\nPIN_DATABASE_URL=postgres://db/notes\n"), 0600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/srv/notes", cfg.Root)
	assert.Equal(t, "postgres://db/notes", cfg.DatabaseURL)
}

func TestLoadBadLevel(t *testing.T) {
	clearEnv(t)
	t.Setenv("PIN_LOG_LEVEL", "loud")

	_, err := Load(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}
