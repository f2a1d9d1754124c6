// Package config loads pgfast's runtime defaults from the environment, the
// same PREFIX_SETTING / os.Getenv + strconv convention the teacher's own
// config.LoadConfig uses for MORFX_* variables.
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

// Config holds the tunables that the engine and CLI read at startup. None
// of these change matching semantics; they only affect resource usage and
// presentation, per the spec's requirement that caching (and, here, the
// rest of the ambient stack) never change results.
type Config struct {
	// CacheCapacity is the number of distinct pattern strings kept in the
	// expression cache before the oldest quarter is evicted.
	CacheCapacity int
	// EmbeddedSQLEnabled records the PGFAST_EMBEDDED_SQL setting for the
	// embedded-SQL bridge (DO blocks, function bodies). Neither the search
	// package nor the CLI reads it: embedded bodies are always searched,
	// whatever its value.
	EmbeddedSQLEnabled bool
	// HighlightStyle names the default markup style the CLI uses when none
	// is given on the command line: "ansi", "html", or "markdown".
	HighlightStyle string
	// StoreDSN is the GORM DSN for the optional run store. Empty disables
	// persistence entirely.
	StoreDSN string
	// StoreDebug enables GORM's verbose SQL logger.
	StoreDebug bool
}

// defaults mirror the teacher's own literal defaults (128MB checkpoint, 20
// retained runs, etc.) repointed at this engine's tunables.
func defaults() *Config {
	return &Config{
		CacheCapacity:      1000,
		EmbeddedSQLEnabled: true,
		HighlightStyle:     "ansi",
		StoreDSN:           "",
		StoreDebug:         false,
	}
}

// Load reads PGFAST_* environment variables into a Config, first loading a
// ".env" file in the working directory if one is present (the same
// developer-ergonomics step the teacher's CLI takes with godotenv before
// parsing flags). A missing .env file is not an error.
func Load() *Config {
	_ = godotenv.Load()

	cfg := defaults()

	if v := os.Getenv("PGFAST_CACHE_CAPACITY"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			cfg.CacheCapacity = n
		}
	}
	if v := os.Getenv("PGFAST_EMBEDDED_SQL"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.EmbeddedSQLEnabled = b
		}
	}
	if v := os.Getenv("PGFAST_HIGHLIGHT_STYLE"); v != "" {
		cfg.HighlightStyle = v
	}
	if v := os.Getenv("PGFAST_STORE_DSN"); v != "" {
		cfg.StoreDSN = v
	}
	if v := os.Getenv("PGFAST_STORE_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.StoreDebug = b
		}
	}

	return cfg
}
