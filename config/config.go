package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/c360/bookcatalog/catalog"
	"github.com/c360/bookcatalog/errors"
)

// Config represents the complete application configuration.
type Config struct {
	Log     LogConfig           `json:"log"`
	Metrics MetricsConfig       `json:"metrics"`
	Cache   catalog.CacheConfig `json:"cache"`
}

// LogConfig defines structured logging settings.
type LogConfig struct {
	Level  string `json:"level"`  // debug, info, warn, error
	Format string `json:"format"` // json, text
}

// MetricsConfig defines the Prometheus metrics endpoint settings.
type MetricsConfig struct {
	Enabled bool   `json:"enabled"`
	Port    int    `json:"port"`
	Path    string `json:"path,omitempty"`
}

// Validate checks if the config is valid.
func (c *Config) Validate() error {
	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.level must be one of debug, info, warn, error, got %q", c.Log.Level))
	}

	switch c.Log.Format {
	case "json", "text":
	default:
		return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
			fmt.Sprintf("log.format must be json or text, got %q", c.Log.Format))
	}

	if c.Metrics.Enabled {
		if c.Metrics.Port < 1 || c.Metrics.Port > 65535 {
			return errors.WrapInvalid(errors.ErrInvalidConfig, "Config", "Validate",
				fmt.Sprintf("metrics.port must be in 1-65535, got %d", c.Metrics.Port))
		}
	}

	if err := c.Cache.Validate(); err != nil {
		return errors.Wrap(err, "Config", "Validate", "cache configuration")
	}

	return nil
}

// Clone creates a deep copy of the configuration.
func (c *Config) Clone() *Config {
	if c == nil {
		return &Config{}
	}
	copied := *c
	return &copied
}

// String returns a JSON representation of the config.
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}

// SaveToFile saves the configuration to a JSON file.
func (c *Config) SaveToFile(path string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}
	return safeWriteFile(path, data)
}

// Loader handles configuration loading with layers and overrides.
type Loader struct {
	layers    []string
	envPrefix string
}

// NewLoader creates a new configuration loader.
func NewLoader() *Loader {
	return &Loader{
		layers:    []string{},
		envPrefix: "BOOKCATALOG",
	}
}

// AddLayer adds a configuration file layer.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// LoadFile loads configuration from a single file.
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers, applies environment
// overrides, and validates the result.
func (l *Loader) Load() (*Config, error) {
	cfg := l.getDefaults()

	for _, path := range l.layers {
		rawConfig, err := l.loadRawJSON(path)
		if err != nil {
			return nil, errors.Wrap(err, "Loader", "Load", "layer "+path)
		}
		cfg = l.mergeFromMap(cfg, rawConfig)
	}

	l.applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// getDefaults returns default configuration.
func (l *Loader) getDefaults() *Config {
	return DefaultConfig()
}

// DefaultConfig returns the default application configuration.
func DefaultConfig() *Config {
	return &Config{
		Log: LogConfig{
			Level:  "info",
			Format: "json",
		},
		Metrics: MetricsConfig{
			Enabled: true,
			Port:    9090,
			Path:    "/metrics",
		},
		Cache: catalog.DefaultCacheConfig(),
	}
}

// loadRawJSON loads configuration from a JSON file as a map.
func (l *Loader) loadRawJSON(path string) (map[string]any, error) {
	data, err := safeReadFile(path)
	if err != nil {
		return nil, err
	}

	if err := validateJSONDepth(data); err != nil {
		return nil, fmt.Errorf("invalid JSON structure: %w", err)
	}

	var rawConfig map[string]any
	if err := json.Unmarshal(data, &rawConfig); err != nil {
		return nil, err
	}

	return rawConfig, nil
}

// mergeFromMap merges configuration from a raw map, only overriding fields
// present in the map.
func (l *Loader) mergeFromMap(base *Config, override map[string]any) *Config {
	if override == nil {
		return base
	}

	baseJSON, err := json.Marshal(base)
	if err != nil {
		return base
	}

	var baseMap map[string]any
	if err := json.Unmarshal(baseJSON, &baseMap); err != nil {
		return base
	}

	mergedMap := deepMergeMaps(baseMap, override)

	mergedJSON, err := json.Marshal(mergedMap)
	if err != nil {
		return base
	}

	var merged Config
	if err := json.Unmarshal(mergedJSON, &merged); err != nil {
		return base
	}

	return &merged
}

// deepMergeMaps recursively merges two maps, with override taking precedence.
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any)

	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}

		if baseMap, baseOk := base[k].(map[string]any); baseOk {
			if overrideMap, overrideOk := v.(map[string]any); overrideOk {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}

		result[k] = v
	}

	return result
}

// applyEnvOverrides applies environment variable overrides.
func (l *Loader) applyEnvOverrides(cfg *Config) {
	if val := os.Getenv(l.envPrefix + "_LOG_LEVEL"); val != "" {
		cfg.Log.Level = val
	}
	if val := os.Getenv(l.envPrefix + "_LOG_FORMAT"); val != "" {
		cfg.Log.Format = val
	}
	if val := os.Getenv(l.envPrefix + "_METRICS_PORT"); val != "" {
		if port, err := strconv.Atoi(val); err == nil {
			cfg.Metrics.Port = port
		}
	}
	if val := os.Getenv(l.envPrefix + "_CACHE_BOOK_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Cache.BookCapacity = n
		}
	}
	if val := os.Getenv(l.envPrefix + "_CACHE_USER_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Cache.UserCapacity = n
		}
	}
	if val := os.Getenv(l.envPrefix + "_CACHE_COMMENT_CAPACITY"); val != "" {
		if n, err := strconv.Atoi(val); err == nil {
			cfg.Cache.CommentCapacity = n
		}
	}
}
