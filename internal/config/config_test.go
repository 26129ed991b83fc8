package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	v, err := New()
	require.NoError(t, err)

	cfg, err := Load(v, "")
	require.NoError(t, err)
	assert.Equal(t, "wizards", cfg.Definitions)
	assert.Equal(t, "pretty", cfg.Output)
	assert.Equal(t, 30*time.Second, cfg.Timeout)
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoadFilePrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "formwizard.yml")
	require.NoError(t, os.WriteFile(path, []byte("definitions: defs\nendpoint: http://file.test\ntimeout: 5s\n"), 0o644))

	t.Setenv("FORMWIZARD_ENDPOINT", "http://env.test")

	v, err := New()
	require.NoError(t, err)
	cfg, err := Load(v, path)
	require.NoError(t, err)

	assert.Equal(t, "defs", cfg.Definitions)
	assert.Equal(t, "http://env.test", cfg.Endpoint)
	assert.Equal(t, 5*time.Second, cfg.Timeout)
}

func TestLoadMissingFile(t *testing.T) {
	v, err := New()
	require.NoError(t, err)
	_, err = Load(v, filepath.Join(t.TempDir(), "missing.yml"))
	assert.Error(t, err)
}

func TestLogger(t *testing.T) {
	logger, err := Config{LogLevel: "debug", LogFormat: "json"}.Logger()
	require.NoError(t, err)
	assert.NotNil(t, logger)

	_, err = Config{LogLevel: "loud"}.Logger()
	assert.Error(t, err)
}
