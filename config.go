package main

import (
	"encoding/json"
	"os"
	"path/filepath"
)

// LogConfig represents logging configuration
type LogConfig struct {
	MaxSizeMB  int  `json:"max_size_mb,omitempty"`  // Max log file size in MB before rotation (default: 10)
	MaxBackups int  `json:"max_backups,omitempty"`  // Max number of old log files to keep (default: 7)
	MaxAgeDays int  `json:"max_age_days,omitempty"` // Max days to retain old log files (default: 7)
	Compress   bool `json:"compress,omitempty"`     // Compress rotated log files (default: true)
	ToStderr   bool `json:"to_stderr,omitempty"`    // Also write logs to stderr (default: false)
}

// DefaultLogConfig returns the default logging configuration
func DefaultLogConfig() LogConfig {
	return LogConfig{
		MaxSizeMB:  10,
		MaxBackups: 7,
		MaxAgeDays: 7,
		Compress:   true,
		ToStderr:   false,
	}
}

// Config represents the application configuration.
// Command-line flags take precedence over these values.
type Config struct {
	Caption      string     `json:"caption,omitempty"`       // Dialog caption (default: "Credentials")
	Message      string     `json:"message,omitempty"`       // Dialog message (default: "Enter your credentials.")
	Target       string     `json:"target,omitempty"`        // Target name for the legacy dialog (default: "PowerShell")
	ModernDialog bool       `json:"modern_dialog,omitempty"` // Use the Vista+ dialog
	Verify       bool       `json:"verify,omitempty"`        // Verify the credential with SSPI before returning it
	Logging      *LogConfig `json:"logging,omitempty"`
}

// GetLogConfigWithDefaults returns log config, using defaults if logging section is absent
func (c *Config) GetLogConfigWithDefaults() LogConfig {
	if c == nil || c.Logging == nil {
		return DefaultLogConfig()
	}

	cfg := DefaultLogConfig()

	// Override with user values if set
	if c.Logging.MaxSizeMB > 0 {
		cfg.MaxSizeMB = c.Logging.MaxSizeMB
	}
	if c.Logging.MaxBackups > 0 {
		cfg.MaxBackups = c.Logging.MaxBackups
	}
	if c.Logging.MaxAgeDays > 0 {
		cfg.MaxAgeDays = c.Logging.MaxAgeDays
	}
	// For booleans, only override if the logging section exists
	cfg.Compress = c.Logging.Compress
	cfg.ToStderr = c.Logging.ToStderr

	return cfg
}

// ConfigDir returns the configuration directory path
func ConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "wincred")
}

// DefaultConfigPath returns the default configuration file path
func DefaultConfigPath() string {
	return filepath.Join(ConfigDir(), "wincred.json")
}

// LoadConfig loads configuration from the specified path
// If path is empty, uses the default path
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		path = DefaultConfigPath()
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// SaveConfig saves configuration to the specified path
// If path is empty, uses the default path
func SaveConfig(cfg *Config, path string) error {
	if path == "" {
		path = DefaultConfigPath()
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// CreateDefaultConfig writes a default configuration file at path if none exists.
// It reports whether a file was created.
func CreateDefaultConfig(path string) (bool, error) {
	if path == "" {
		path = DefaultConfigPath()
	}
	if _, err := os.Stat(path); err == nil {
		return false, nil
	}

	logCfg := DefaultLogConfig()
	cfg := &Config{
		Caption: DefaultCaption,
		Message: DefaultMessage,
		Target:  DefaultTarget,
		Logging: &logCfg,
	}

	if err := SaveConfig(cfg, path); err != nil {
		return false, err
	}
	return true, nil
}
