package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/philipparndt/goifc/internal/export"
)

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Prompt for the input and output paths, then convert",
	Args:  cobra.NoArgs,
	Run:   runInteractive,
}

func init() {
	rootCmd.AddCommand(interactiveCmd)
}

func runInteractive(cmd *cobra.Command, args []string) {
	in := bufio.NewReader(cmd.InOrStdin())
	out := cmd.OutOrStdout()

	input, err := prompt(in, out, "IFC input file: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := checkInput(input); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	output, err := prompt(in, out, "Mesh output file: ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	output = export.EnsureExtension(output)

	cfg, log, err := setup()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := convertOnce(ctx, newConverter(cfg, log), input, output); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// prompt reads one non-empty line
func prompt(in *bufio.Reader, out io.Writer, label string) (string, error) {
	for {
		fmt.Fprint(out, label)
		line, err := in.ReadString('\n')
		line = strings.TrimSpace(line)
		if line != "" {
			return line, nil
		}
		if err != nil {
			if err == io.EOF {
				return "", fmt.Errorf("no value entered for %q", strings.TrimSuffix(label, ": "))
			}
			return "", fmt.Errorf("failed to read input: %w", err)
		}
	}
}
