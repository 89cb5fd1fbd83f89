package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/config"
	"github.com/philipparndt/goifc/internal/logger"
	"github.com/philipparndt/goifc/version"
)

var (
	configPath string
	overrides  config.Overrides
)

var rootCmd = &cobra.Command{
	Use:   "goifc",
	Short: "Convert IFC building models into a single coloured triangle mesh",
	Long: `goifc reads an IFC building model, tessellates every element that has a
shape and writes one mesh in which each element keeps the colour of its
material or surface style. Output formats are glTF (.gltf, .glb) and
colour STL (.stl).`,
	Version: version.GetFullVersion(),
}

func init() {
	flags := rootCmd.PersistentFlags()
	flags.StringVar(&configPath, "config", "", "Path to configuration file")
	flags.BoolVar(&overrides.Debug, "debug", false, "Enable debug logging")
	flags.StringVar(&overrides.LogLevel, "log-level", "", "Log level (debug, info, warn, error)")
	flags.StringVar(&overrides.LogFile, "log-file", "", "Also write JSON logs to this file")
	flags.IntVar(&overrides.Workers, "workers", 0, "Number of elements tessellated concurrently")
	flags.BoolVar(&overrides.External, "external", false, "Use the external converter before native tessellation")
	flags.BoolVar(&overrides.NoNative, "no-native", false, "Disable native tessellation")
}

// setup loads the configuration and builds the logger of a command
func setup() (*config.Config, *zap.Logger, error) {
	cfg, path, err := config.Load(configPath, overrides)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	if path != "" {
		log.Debug("configuration loaded", zap.String("path", path))
	}
	return cfg, log, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
