package vm

import (
	"os"
	"strconv"

	"github.com/BurntSushi/toml"
)

// Config carries the runtime tuning knobs. Values can come from a TOML
// file, and every knob can be overridden through HERMES_* environment
// variables for quick experiments.
type Config struct {
	// DictionaryThreshold is the property count past which a shape stops
	// participating in the transition DAG and degrades to dictionary mode.
	DictionaryThreshold int `toml:"dictionary_threshold"`

	// MaxPolymorphicEntries bounds the per-site inline cache before it
	// goes megamorphic.
	MaxPolymorphicEntries int `toml:"max_polymorphic_entries"`

	// ForInMaxProtoPercent rejects for-in cache reuse when prototype
	// bookkeeping exceeds this percentage of the cached name list.
	ForInMaxProtoPercent int `toml:"forin_max_proto_percent"`

	// FatalOnBuiltinOverride upgrades static-builtin override errors from
	// catchable type errors to fatal errors.
	FatalOnBuiltinOverride bool `toml:"fatal_on_builtin_override"`

	// CacheStats enables hit/miss counters on property caches.
	CacheStats bool `toml:"cache_stats"`
}

// DefaultConfig returns the tuning used when no file or environment
// override is present.
func DefaultConfig() Config {
	return Config{
		DictionaryThreshold:   64,
		MaxPolymorphicEntries: 4,
		ForInMaxProtoPercent:  75,
	}
}

// LoadConfig reads a TOML config file and applies environment overrides on
// top. An empty path yields the defaults plus overrides.
func LoadConfig(path string) (Config, error) {
	cfg := DefaultConfig()
	if path != "" {
		if _, err := toml.DecodeFile(path, &cfg); err != nil {
			return cfg, err
		}
	}
	cfg.applyEnv()
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.DictionaryThreshold = getEnvInt("HERMES_DICTIONARY_THRESHOLD", c.DictionaryThreshold)
	c.MaxPolymorphicEntries = getEnvInt("HERMES_MAX_POLY_ENTRIES", c.MaxPolymorphicEntries)
	c.ForInMaxProtoPercent = getEnvInt("HERMES_FORIN_MAX_PROTO_PERCENT", c.ForInMaxProtoPercent)
	c.FatalOnBuiltinOverride = getEnvBool("HERMES_FATAL_BUILTIN_OVERRIDE", c.FatalOnBuiltinOverride)
	c.CacheStats = getEnvBool("HERMES_CACHE_STATS", c.CacheStats)
}

func getEnvBool(name string, def bool) bool {
	if v := os.Getenv(name); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return def
}

func getEnvInt(name string, def int) int {
	if v := os.Getenv(name); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}
