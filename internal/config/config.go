// Package config reads runtime settings from SCOPECURVE_* environment
// variables, falling back to defaults for anything unset.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

const (
	envDB          = "SCOPECURVE_DB"
	envPresets     = "SCOPECURVE_PRESETS"
	envSession     = "SCOPECURVE_SESSION"
	envLogUseCases = "SCOPECURVE_LOG_USE_CASES"
	envPrompt      = "SCOPECURVE_PROMPT"
	envRetention   = "SCOPECURVE_RETENTION_DAYS"

	appDir = ".scopecurve"
)

// Config holds the settings of one CLI invocation.
type Config struct {
	// DBPath is the SQLite session store.
	DBPath string
	// PresetDir holds presets.yaml and the preset files it names.
	PresetDir string
	// Session partitions the store so each terminal keeps its own project.
	Session string
	// LogUseCases writes one structured record per service call to stderr.
	LogUseCases bool
	// Prompt enables the interactive history-date prompt after edits.
	Prompt bool
	// Retention prunes sessions idle for longer than this. Zero keeps all.
	Retention time.Duration
}

// Default returns the configuration used when no variables are set.
func Default() (Config, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return Config{}, fmt.Errorf("finding home directory: %w", err)
	}
	cfg := Config{
		DBPath:    filepath.Join(home, appDir, "scopecurve.db"),
		PresetDir: filepath.Join(home, appDir, "presets"),
		Session:   fmt.Sprintf("ppid-%d", os.Getppid()),
		Prompt:    true,
		Retention: 30 * 24 * time.Hour,
	}
	// A ./presets directory wins during development.
	if stat, err := os.Stat("./presets"); err == nil && stat.IsDir() {
		cfg.PresetDir = "./presets"
	}
	return cfg, nil
}

// Load reads the environment over the defaults. Unparsable values are ignored.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	if v := os.Getenv(envDB); v != "" {
		cfg.DBPath = v
	}
	if v := os.Getenv(envPresets); v != "" {
		cfg.PresetDir = v
	}
	if v := os.Getenv(envSession); v != "" {
		cfg.Session = v
	}
	if v := os.Getenv(envLogUseCases); v != "" {
		cfg.LogUseCases, _ = strconv.ParseBool(v)
	}
	if v := os.Getenv(envPrompt); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Prompt = b
		}
	}
	if v := os.Getenv(envRetention); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n >= 0 {
			cfg.Retention = time.Duration(n) * 24 * time.Hour
		}
	}
	return cfg, nil
}
