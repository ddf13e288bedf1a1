package config

import (
	"path/filepath"
	"testing"
	"time"

	"dataportal/internal/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	for _, key := range []string{
		"PORT", "SCRIPT_ROOT", "GIN_MODE", "FETCH_TIMEOUT", "DATA_DIR", "DATASET_SOURCE",
		"DATASET_FILE", "DATABASE_URL", "SQLITE_PATH", "CACHE_TTL", "VIEW_CACHE_SIZE", "LOG_LEVEL",
	} {
		t.Setenv(key, "")
	}
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "", cfg.Server.ScriptRoot)
	assert.Equal(t, SourceFile, cfg.Data.Source)
	assert.Equal(t, filepath.Join("data", "datasets", "datasets.csv"), filepath.Clean(cfg.Data.File))
	assert.Equal(t, 5*time.Minute, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.ViewCacheSize)
}

func TestLoadOverrides(t *testing.T) {
	clearEnv(t)
	t.Setenv("SCRIPT_ROOT", "http://portal.example.org/brain/")
	t.Setenv("DATASET_SOURCE", "SQLite")
	t.Setenv("SQLITE_PATH", "/srv/datasets.sqlite3")
	t.Setenv("CACHE_TTL", "90s")
	t.Setenv("VIEW_CACHE_SIZE", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "http://portal.example.org/brain", cfg.Server.ScriptRoot)
	assert.Equal(t, SourceSQLite, cfg.Data.Source)
	assert.Equal(t, "/srv/datasets.sqlite3", cfg.Data.SQLitePath)
	assert.Equal(t, 90*time.Second, cfg.Cache.TTL)
	assert.Equal(t, 1000, cfg.Cache.ViewCacheSize)
}

func TestLoadRejectsInvalidSource(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{"postgres without url", map[string]string{"DATASET_SOURCE": "postgres"}},
		{"unknown source", map[string]string{"DATASET_SOURCE": "redis"}},
		{"non-positive view cache", map[string]string{"VIEW_CACHE_SIZE": "-1"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv(t)
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load()
			require.Error(t, err)
			assert.True(t, errors.Is(err, errors.CodeConfigInvalid))
		})
	}
}
