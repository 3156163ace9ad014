/*
Copyright © 2025 NAME HERE <EMAIL ADDRESS>
*/
package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"

	"github.com/ssargent/bdat/pkg/codec"
)

// Config represents the bdat configuration
type Config struct {
	DataDir    string  `yaml:"data_dir"`
	Port       int     `yaml:"port"`
	Bind       string  `yaml:"bind"`
	SchemaPath string  `yaml:"schema_path"`
	APIKey     string  `yaml:"api_key,omitempty"`
	Logging    Logging `yaml:"logging"`
	Decode     Decode  `yaml:"decode"`
}

// Logging contains logging configuration
type Logging struct {
	Level string `yaml:"level"`
}

// Decode contains defaults for decoding documents
type Decode struct {
	ByteOrder string `yaml:"byte_order"`
	Trace     bool   `yaml:"trace"`
	Workers   int    `yaml:"workers"`
	MaxBytes  int    `yaml:"max_bytes"`
}

// DefaultConfig returns a default configuration
func DefaultConfig() *Config {
	return &Config{
		DataDir: "./data",
		Port:    8080,
		Bind:    "127.0.0.1",
		Logging: Logging{
			Level: "info",
		},
		Decode: Decode{
			ByteOrder: "little",
			Workers:   4,
		},
	}
}

// Validate reports every invalid setting at once
func (c *Config) Validate() error {
	var result *multierror.Error

	if c.DataDir == "" {
		result = multierror.Append(result, fmt.Errorf("data_dir cannot be empty"))
	}
	if c.Port < 1 || c.Port > 65535 {
		result = multierror.Append(result, fmt.Errorf("port %d out of range", c.Port))
	}
	if _, err := c.LogLevel(); err != nil {
		result = multierror.Append(result, err)
	}
	if _, err := codec.ParseByteOrder(c.Decode.ByteOrder); err != nil {
		result = multierror.Append(result, err)
	}
	if c.Decode.Workers < 0 {
		result = multierror.Append(result, fmt.Errorf("decode.workers cannot be negative"))
	}
	if c.Decode.MaxBytes < 0 {
		result = multierror.Append(result, fmt.Errorf("decode.max_bytes cannot be negative"))
	}

	return result.ErrorOrNil()
}

// LogLevel parses the configured log level
func (c *Config) LogLevel() (zapcore.Level, error) {
	if c.Logging.Level == "" {
		return zapcore.InfoLevel, nil
	}
	level, err := zapcore.ParseLevel(c.Logging.Level)
	if err != nil {
		return zapcore.InfoLevel, fmt.Errorf("invalid logging.level: %w", err)
	}
	return level, nil
}

// Address returns the host:port the API server listens on
func (c *Config) Address() string {
	return fmt.Sprintf("%s:%d", c.Bind, c.Port)
}

// LoadConfig loads configuration from the specified path. Unset values
// keep their defaults.
func LoadConfig(configPath string) (*Config, error) {
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", configPath)
	}

	if !filepath.IsAbs(configPath) {
		absPath, err := filepath.Abs(configPath)
		if err != nil {
			return nil, fmt.Errorf("invalid config path: %w", err)
		}
		configPath = absPath
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// SaveConfig saves the configuration to the specified path with secure permissions
func SaveConfig(config *Config, configPath string) error {
	configDir := filepath.Dir(configPath)
	if err := os.MkdirAll(configDir, 0750); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// BootstrapConfig writes a default configuration to configPath
func BootstrapConfig(configPath string, dataDir string) (*Config, error) {
	config := DefaultConfig()
	if dataDir != "" {
		config.DataDir = dataDir
	}

	if err := SaveConfig(config, configPath); err != nil {
		return nil, fmt.Errorf("failed to save bootstrap config: %w", err)
	}

	return config, nil
}

// GetDefaultConfigPath returns the default configuration path for the current platform
func GetDefaultConfigPath() string {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "./bdat.yaml"
	}

	// For Linux/macOS, use ~/.config/bdat/config.yaml
	configDir := filepath.Join(homeDir, ".config", "bdat")
	return filepath.Join(configDir, "config.yaml")
}

// ConfigExists checks if a configuration file exists
func ConfigExists(configPath string) bool {
	_, err := os.Stat(configPath)
	return !os.IsNotExist(err)
}
