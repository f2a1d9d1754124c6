package config

import (
	"os"
	"testing"
)

func clearConfigEnvVars() {
	for _, k := range []string{
		"PGFAST_CACHE_CAPACITY",
		"PGFAST_EMBEDDED_SQL",
		"PGFAST_HIGHLIGHT_STYLE",
		"PGFAST_STORE_DSN",
		"PGFAST_STORE_DEBUG",
	} {
		os.Unsetenv(k)
	}
}

func TestLoadDefaultValues(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	cfg := Load()

	if cfg.CacheCapacity != 1000 {
		t.Errorf("expected CacheCapacity 1000, got %d", cfg.CacheCapacity)
	}
	if !cfg.EmbeddedSQLEnabled {
		t.Errorf("expected EmbeddedSQLEnabled true by default")
	}
	if cfg.HighlightStyle != "ansi" {
		t.Errorf("expected HighlightStyle 'ansi', got %q", cfg.HighlightStyle)
	}
	if cfg.StoreDSN != "" {
		t.Errorf("expected empty StoreDSN, got %q", cfg.StoreDSN)
	}
}

func TestLoadEnvironmentVariables(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("PGFAST_CACHE_CAPACITY", "250")
	os.Setenv("PGFAST_EMBEDDED_SQL", "false")
	os.Setenv("PGFAST_HIGHLIGHT_STYLE", "html")
	os.Setenv("PGFAST_STORE_DSN", "pgfast.db")
	os.Setenv("PGFAST_STORE_DEBUG", "true")

	cfg := Load()

	if cfg.CacheCapacity != 250 {
		t.Errorf("expected CacheCapacity 250, got %d", cfg.CacheCapacity)
	}
	if cfg.EmbeddedSQLEnabled {
		t.Errorf("expected EmbeddedSQLEnabled false")
	}
	if cfg.HighlightStyle != "html" {
		t.Errorf("expected HighlightStyle 'html', got %q", cfg.HighlightStyle)
	}
	if cfg.StoreDSN != "pgfast.db" {
		t.Errorf("expected StoreDSN 'pgfast.db', got %q", cfg.StoreDSN)
	}
	if !cfg.StoreDebug {
		t.Errorf("expected StoreDebug true")
	}
}

func TestLoadIgnoresInvalidNumbers(t *testing.T) {
	clearConfigEnvVars()
	defer clearConfigEnvVars()

	os.Setenv("PGFAST_CACHE_CAPACITY", "not-a-number")
	cfg := Load()

	if cfg.CacheCapacity != 1000 {
		t.Errorf("expected invalid PGFAST_CACHE_CAPACITY to fall back to default, got %d", cfg.CacheCapacity)
	}
}
