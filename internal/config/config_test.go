package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := LoadFrom(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.DBDriver)
	assert.Equal(t, "household_planner.db", cfg.DatabaseURL)
	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "23:55", cfg.CloseDayAt)
	assert.False(t, cfg.BotEnabled())
	require.NotNil(t, cfg.Location)
}

func TestLoadEnvOverridesDotEnv(t *testing.T) {
	dir := t.TempDir()
	dotenv := "DATABASE_URL=from-file.db\nTIMEZONE=UTC\nTELEGRAM_TOKEN=abc\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte(dotenv), 0o600))
	t.Setenv("DATABASE_URL", "from-env.db")
	t.Setenv("CLOSE_DAY_AT", "22:00")

	cfg, err := LoadFrom(dir)
	require.NoError(t, err)

	assert.Equal(t, "from-env.db", cfg.DatabaseURL)
	assert.Equal(t, "22:00", cfg.CloseDayAt)
	assert.Equal(t, "UTC", cfg.Location.String())
	assert.True(t, cfg.BotEnabled())
}

func TestLoadRejectsBadValues(t *testing.T) {
	t.Run("driver", func(t *testing.T) {
		t.Setenv("DB_DRIVER", "postgres")
		_, err := LoadFrom(t.TempDir())
		assert.Error(t, err)
	})
	t.Run("timezone", func(t *testing.T) {
		t.Setenv("TIMEZONE", "Mars/Olympus")
		_, err := LoadFrom(t.TempDir())
		assert.Error(t, err)
	})
}

func TestNewLogger(t *testing.T) {
	cfg := Config{LogLevel: "debug", LogFile: filepath.Join(t.TempDir(), "planner.log")}
	log, err := NewLogger(cfg)
	require.NoError(t, err)
	log.Infow("hello", "k", "v")
	_ = log.Sync()

	_, err = os.Stat(cfg.LogFile)
	assert.NoError(t, err)

	_, err = NewLogger(Config{LogLevel: "loud"})
	assert.Error(t, err)
}
