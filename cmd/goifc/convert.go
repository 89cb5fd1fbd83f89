package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/philipparndt/goifc/internal/convert"
	"github.com/philipparndt/goifc/internal/export"
	"github.com/philipparndt/goifc/pkg/watcher"
)

var (
	watchInput    bool
	watchDebounce time.Duration
)

var convertCmd = &cobra.Command{
	Use:   "convert [input] [output]",
	Short: "Convert an IFC file into a coloured mesh",
	Long: `Convert every element of an IFC file into one triangle mesh coloured by
material and surface style. The output format follows the extension of the
output path; ` + export.DefaultExtension + ` is appended when it is missing.`,
	Args: cobra.ExactArgs(2),
	Run:  runConvert,
}

func init() {
	rootCmd.AddCommand(convertCmd)

	convertCmd.Flags().BoolVarP(&watchInput, "watch", "w", false, "Convert again whenever the input file changes")
	convertCmd.Flags().DurationVar(&watchDebounce, "debounce", 500*time.Millisecond, "Delay before a change triggers a conversion")
}

func runConvert(cmd *cobra.Command, args []string) {
	input := args[0]
	output := export.EnsureExtension(args[1])

	if err := checkInput(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conv := newConverter(cfg, log)
	err = convertOnce(ctx, conv, input, output)

	if !watchInput {
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			stop()
			os.Exit(1)
		}
		return
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}

	if err := watch(ctx, log, conv, input, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// watch converts again on every change of input until ctx is cancelled
func watch(ctx context.Context, log *zap.Logger, conv *convert.Converter, input, output string) error {
	fw, err := watcher.NewFileWatcher(watchDebounce, log)
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer fw.Close()

	var mu sync.Mutex
	err = fw.Watch([]string{input}, func(path string) {
		mu.Lock()
		defer mu.Unlock()

		fmt.Printf("\n%s changed, converting\n", path)
		if err := convertOnce(ctx, conv, input, output); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		}
	})
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", input, err)
	}

	fmt.Printf("Watching %s (Ctrl+C to stop)\n", input)
	if err := fw.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
