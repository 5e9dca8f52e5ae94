package config

import (
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault_SessionFromParentProcess(t *testing.T) {
	cfg, err := Default()
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(cfg.Session, "ppid-"))
	assert.Equal(t, "scopecurve.db", filepath.Base(cfg.DBPath))
	assert.True(t, cfg.Prompt)
	assert.False(t, cfg.LogUseCases)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("SCOPECURVE_DB", "/tmp/x.db")
	t.Setenv("SCOPECURVE_PRESETS", "/tmp/presets")
	t.Setenv("SCOPECURVE_SESSION", "shared")
	t.Setenv("SCOPECURVE_LOG_USE_CASES", "true")
	t.Setenv("SCOPECURVE_PROMPT", "0")
	t.Setenv("SCOPECURVE_RETENTION_DAYS", "7")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/tmp/x.db", cfg.DBPath)
	assert.Equal(t, "/tmp/presets", cfg.PresetDir)
	assert.Equal(t, "shared", cfg.Session)
	assert.True(t, cfg.LogUseCases)
	assert.False(t, cfg.Prompt)
	assert.Equal(t, 7*24*time.Hour, cfg.Retention)
}

func TestLoad_InvalidValuesIgnored(t *testing.T) {
	t.Setenv("SCOPECURVE_PROMPT", "maybe")
	t.Setenv("SCOPECURVE_RETENTION_DAYS", "-3")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.Prompt)
	assert.Equal(t, 30*24*time.Hour, cfg.Retention)
}
