// Package config handles converter configuration loading and management.
package config

import "time"

// Config holds all converter settings.
type Config struct {
	Logging      LoggingConfig      `yaml:"logging"`
	Conversion   ConversionConfig   `yaml:"conversion"`
	Tessellation TessellationConfig `yaml:"tessellation"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level      string `yaml:"level"`
	File       string `yaml:"file"` // empty disables file logging
	MaxSizeMB  int    `yaml:"max_size_mb"`
	MaxBackups int    `yaml:"max_backups"`
	MaxAgeDays int    `yaml:"max_age_days"`
	Compress   bool   `yaml:"compress"`
}

// ConversionConfig holds settings of the element loop.
type ConversionConfig struct {
	Workers          int      `yaml:"workers"`
	ProgressInterval int      `yaml:"progress_interval"`
	ExcludeTypes     []string `yaml:"exclude_types"`
}

// TessellationConfig selects the tessellators.
type TessellationConfig struct {
	Native   bool           `yaml:"native"`
	External ExternalConfig `yaml:"external"`
}

// ExternalConfig configures the external converter. Args may contain the
// {input} and {output} placeholders.
type ExternalConfig struct {
	Enabled bool          `yaml:"enabled"`
	Command string        `yaml:"command"`
	Args    []string      `yaml:"args"`
	Timeout time.Duration `yaml:"timeout"`
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		Logging: LoggingConfig{
			Level:      "info",
			File:       "",
			MaxSizeMB:  50,
			MaxBackups: 3,
			MaxAgeDays: 7,
			Compress:   true,
		},
		Conversion: ConversionConfig{
			Workers:          1,
			ProgressInterval: 50,
			ExcludeTypes:     []string{},
		},
		Tessellation: TessellationConfig{
			Native: true,
			External: ExternalConfig{
				Enabled: false,
				Command: "IfcConvert",
				Args:    []string{"--use-world-coords", "--use-element-guids", "{input}", "{output}"},
				Timeout: 10 * time.Minute,
			},
		},
	}
}
