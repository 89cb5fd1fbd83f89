package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"gopkg.in/yaml.v3"
)

// FileName is the name of the configuration file looked up in the working
// directory
const FileName = "goifc.yaml"

// Load loads configuration with priority: defaults < file < overrides.
// An explicit path must exist; otherwise the standard locations are tried.
// The path of the file that was read is returned, empty when none was.
func Load(explicit string, overrides Overrides) (*Config, string, error) {
	// Start with defaults
	cfg := Default()

	configPath := explicit
	if configPath == "" {
		configPath = findConfigFile()
	}

	if configPath != "" {
		if err := loadFromFile(cfg, configPath); err != nil {
			return nil, "", fmt.Errorf("loading config from %s: %w", configPath, err)
		}
	}

	overrides.apply(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, "", err
	}
	return cfg, configPath, nil
}

// Validate checks values that cannot be used as they are.
func (c *Config) Validate() error {
	switch c.Logging.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.Logging.Level)
	}
	if c.Conversion.Workers < 1 {
		return fmt.Errorf("conversion.workers must be at least 1, got %d", c.Conversion.Workers)
	}
	if !c.Tessellation.Native && !c.Tessellation.External.Enabled {
		return fmt.Errorf("no tessellator enabled")
	}
	if c.Tessellation.External.Enabled && c.Tessellation.External.Command == "" {
		return fmt.Errorf("tessellation.external.command is empty")
	}
	return nil
}

// findConfigFile looks for config in standard locations.
func findConfigFile() string {
	candidates := []string{
		FileName,
		filepath.Join(ConfigDir(), "config.yaml"),
	}

	for _, path := range candidates {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// ConfigDir returns the OS-appropriate config directory.
func ConfigDir() string {
	switch runtime.GOOS {
	case "darwin":
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "goifc")
	case "windows":
		return filepath.Join(os.Getenv("APPDATA"), "goifc")
	default: // Linux and others
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "goifc")
		}
		home, _ := os.UserHomeDir()
		return filepath.Join(home, ".config", "goifc")
	}
}

// loadFromFile loads config from a YAML file, merging with existing values.
func loadFromFile(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}
