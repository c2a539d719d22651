package vm

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	if cfg.DictionaryThreshold <= 0 {
		t.Errorf("dictionary threshold must be positive, got %d", cfg.DictionaryThreshold)
	}
	if cfg.MaxPolymorphicEntries <= 0 {
		t.Errorf("polymorphic bound must be positive, got %d", cfg.MaxPolymorphicEntries)
	}
	if cfg.ForInMaxProtoPercent != 75 {
		t.Errorf("expected default proto percent 75, got %d", cfg.ForInMaxProtoPercent)
	}
}

func TestLoadConfigFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "hermes.toml")
	content := "dictionary_threshold = 16\nmax_polymorphic_entries = 2\nfatal_on_builtin_override = true\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writing config: %v", err)
	}

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DictionaryThreshold != 16 {
		t.Errorf("expected threshold 16, got %d", cfg.DictionaryThreshold)
	}
	if cfg.MaxPolymorphicEntries != 2 {
		t.Errorf("expected poly bound 2, got %d", cfg.MaxPolymorphicEntries)
	}
	if !cfg.FatalOnBuiltinOverride {
		t.Errorf("expected fatal override mode enabled")
	}
	// Unspecified values keep their defaults.
	if cfg.ForInMaxProtoPercent != 75 {
		t.Errorf("expected default proto percent, got %d", cfg.ForInMaxProtoPercent)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HERMES_DICTIONARY_THRESHOLD", "32")
	t.Setenv("HERMES_CACHE_STATS", "true")

	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DictionaryThreshold != 32 {
		t.Errorf("expected env override 32, got %d", cfg.DictionaryThreshold)
	}
	if !cfg.CacheStats {
		t.Errorf("expected env override to enable cache stats")
	}
}

func TestEnvOverrideIgnoresGarbage(t *testing.T) {
	t.Setenv("HERMES_DICTIONARY_THRESHOLD", "not-a-number")
	cfg, err := LoadConfig("")
	if err != nil {
		t.Fatalf("LoadConfig failed: %v", err)
	}
	if cfg.DictionaryThreshold != DefaultConfig().DictionaryThreshold {
		t.Errorf("garbage env value must fall back to the default, got %d", cfg.DictionaryThreshold)
	}
}
