package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/natefinch/atomic"
	"gopkg.in/yaml.v3"
)

// LogConfig holds the settings for the process logger.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// GenerateConfig holds the sentence generation settings.
type GenerateConfig struct {
	Length           int    `json:"length" yaml:"length"`
	EarlyTermination bool   `json:"early_termination" yaml:"early_termination"`
	Seed             uint64 `json:"seed" yaml:"seed"` // 0 seeds from the runtime generator on every run
}

// HistoryConfig holds the settings for the local run log.
type HistoryConfig struct {
	Enabled      bool   `json:"enabled" yaml:"enabled"`
	DatabasePath string `json:"database_path" yaml:"database_path"`
}

// TracingConfig holds the settings for phase timing spans.
type TracingConfig struct {
	Exporter    string `json:"exporter" yaml:"exporter"` // none, stdout or otlp
	Endpoint    string `json:"endpoint" yaml:"endpoint"`
	ServiceName string `json:"service_name" yaml:"service_name"`
}

// Config is the top-level configuration struct that aggregates all other configs.
type Config struct {
	Log      *LogConfig      `json:"log_config" yaml:"log_config"`
	Generate *GenerateConfig `json:"generate_config" yaml:"generate_config"`
	History  *HistoryConfig  `json:"history_config" yaml:"history_config"`
	Tracing  *TracingConfig  `json:"tracing_config" yaml:"tracing_config"`
}

// DefaultConfig creates a configuration with default values.
func DefaultConfig() *Config {
	return &Config{
		Log: &LogConfig{
			Level:  "warn",
			Format: "text",
		},
		Generate: &GenerateConfig{
			Length:           20,
			EarlyTermination: false,
			Seed:             0,
		},
		History: &HistoryConfig{
			Enabled:      false,
			DatabasePath: "./wordchain_history.db",
		},
		Tracing: &TracingConfig{
			Exporter:    "none",
			ServiceName: "wordchain",
		},
	}
}

// isYAML reports whether path names a YAML file.
func isYAML(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return true
	}
	return false
}

// LoadConfig reads the configuration from a JSON or YAML file at the given
// path, chosen by extension. An empty path yields the defaults. If the file
// doesn't exist, it is created with default values.
func LoadConfig(path string) (*Config, error) {
	// Initialize with default configurations
	config := DefaultConfig()
	if path == "" {
		return config, nil
	}

	file, err := os.ReadFile(path)
	if err != nil {
		// If the file doesn't exist, create it with the default config.
		if os.IsNotExist(err) {
			var data []byte
			data, err = marshalConfig(path, config)
			if err != nil {
				return nil, fmt.Errorf("failed to marshal default config: %w", err)
			}
			if err = atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
				return nil, fmt.Errorf("failed to write default config file: %w", err)
			}
			return config, nil
		}
		// For other errors (e.g., permission denied), return the error.
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if isYAML(path) {
		err = yaml.Unmarshal(file, config)
	} else {
		err = json.Unmarshal(file, config)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	config.fillDefaults()
	if err = config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return config, nil
}

func marshalConfig(path string, config *Config) ([]byte, error) {
	if isYAML(path) {
		return yaml.Marshal(config)
	}
	return json.MarshalIndent(config, "", "  ")
}

// fillDefaults replaces sections a config file set to null.
func (c *Config) fillDefaults() {
	defaults := DefaultConfig()
	if c.Log == nil {
		c.Log = defaults.Log
	}
	if c.Generate == nil {
		c.Generate = defaults.Generate
	}
	if c.History == nil {
		c.History = defaults.History
	}
	if c.Tracing == nil {
		c.Tracing = defaults.Tracing
	}
}

// Validate checks the values that cannot be corrected silently.
func (c *Config) Validate() error {
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	switch strings.ToLower(c.Log.Format) {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q", c.Log.Format)
	}
	if c.Generate.Length < 0 {
		return fmt.Errorf("generation length must not be negative, got %d", c.Generate.Length)
	}
	switch exporterType(strings.ToLower(c.Tracing.Exporter)) {
	case exporterNone, exporterStdout, exporterOTLP, "":
	default:
		return fmt.Errorf("unknown trace exporter %q", c.Tracing.Exporter)
	}
	if c.History.Enabled && c.History.DatabasePath == "" {
		return fmt.Errorf("history is enabled but no database path is set")
	}
	return nil
}
