package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/config"
	"github.com/philipparndt/goifc/internal/convert"
	"github.com/philipparndt/goifc/internal/export"
	"github.com/philipparndt/goifc/internal/mesh"
	"github.com/philipparndt/goifc/internal/tessellate"
	"github.com/philipparndt/goifc/pkg/ifc"
)

// newConverter wires the conversion core from the configuration
func newConverter(cfg *config.Config, log *zap.Logger) *convert.Converter {
	opts := convert.Options{
		Workers:          cfg.Conversion.Workers,
		ProgressInterval: cfg.Conversion.ProgressInterval,
		ExcludeTypes:     cfg.Conversion.ExcludeTypes,
	}
	return convert.New(log, opts, export.NewWriter(log), tessellators(cfg.Tessellation))
}

// tessellators returns the factory of the configured tessellator chain.
// The external converter is tried first when enabled.
func tessellators(tc config.TessellationConfig) convert.TessellatorFactory {
	return func(model *ifc.Model, input string, log *zap.Logger) convert.Tessellator {
		var chain tessellate.Chain
		if tc.External.Enabled {
			ext := tc.External
			chain = append(chain, tessellate.NewExternal(ext.Command, ext.Args, ext.Timeout, input, log))
		}
		if tc.Native {
			chain = append(chain, tessellate.NewNative(model, log))
		}
		if len(chain) == 1 {
			return chain[0]
		}
		return chain
	}
}

// checkInput rejects inputs that are missing or not regular files
func checkInput(input string) error {
	info, err := os.Stat(input)
	if err != nil {
		return fmt.Errorf("input file not found: %w", err)
	}
	if info.IsDir() {
		return fmt.Errorf("input %s is a directory", input)
	}
	return nil
}

// convertOnce runs one conversion and prints its summary
func convertOnce(ctx context.Context, conv *convert.Converter, input, output string) error {
	result, err := conv.ConvertFile(ctx, input, output)
	if err != nil {
		if errors.Is(err, mesh.ErrEmptyMesh) && result != nil {
			fmt.Println(result.Summary())
		}
		return err
	}

	fmt.Println(result.Summary())
	if len(result.Failures) > 0 {
		fmt.Printf("%d elements could not be tessellated (run with --debug for details)\n", len(result.Failures))
	}
	if result.Textured > 0 {
		fmt.Printf("%d textured elements use the default colour\n", result.Textured)
	}
	fmt.Printf("Written: %s\n", result.Output)
	return nil
}
