package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	ProfilePath      string     `yaml:"profile_path"`
	DetectionLogPath string     `yaml:"detection_log_path"`
	HistorySize      int        `yaml:"history_size"`
	ColorOutput      bool       `yaml:"color_output"`
	Thresholds       Thresholds `yaml:"thresholds"`
}

// Thresholds holds confidence thresholds surfaced to the UI layer (when a
// result counts as actionable and when alternatives are worth showing).
type Thresholds struct {
	Actionable  float64 `yaml:"actionable"`
	Suggestions float64 `yaml:"suggestions"`
}

// Default returns the default configuration
func Default() *Config {
	return &Config{
		ProfilePath:      filepath.Join(baseDir(), "user_profile.json"),
		DetectionLogPath: filepath.Join(baseDir(), "detections.db"),
		HistorySize:      1000,
		ColorOutput:      false,
		Thresholds: Thresholds{
			Actionable:  0.5,
			Suggestions: 0.6,
		},
	}
}

// Load reads configuration from file, creating with defaults if it doesn't exist
func Load(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := Default()
		if err := cfg.Save(path); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default() // Start with defaults
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	return cfg, nil
}

// Save writes the configuration to file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// GetConfigPath returns the default config file path
func GetConfigPath() string {
	return filepath.Join(baseDir(), "config.yaml")
}

func baseDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		home, _ := os.UserHomeDir()
		base = filepath.Join(home, ".config")
	}
	return filepath.Join(base, "voicepilot")
}
