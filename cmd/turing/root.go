package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/logging"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "turing",
	Short: "Turing runs single-tape Turing machines",
	Long: `Turing executes deterministic single-tape Turing machines described in YAML or JSON,
printing the final tape or a diagnostic, and can expose the executor over HTTP and MCP.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("log-level", "warn", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().String("log-file", "", "Also write JSON logs to this file")
}

// newLogger builds the command logger from the persistent flags.
func newLogger(cmd *cobra.Command) (*slog.Logger, io.Closer, error) {
	levelName := cmd.Flag("log-level").Value.String()
	logFile := cmd.Flag("log-file").Value.String()

	level, err := logging.ParseLevel(levelName)
	if err != nil {
		return nil, nil, err
	}

	if logFile == "" {
		return logging.New(level), io.NopCloser(nil), nil
	}
	return logging.NewWithFile(level, logFile)
}

// newEngine builds the engine shared by every command. The executor logs each
// step at Debug and each halt at Info through logger.
func newEngine(logger *slog.Logger, opts ...turing.Option) *turing.Engine {
	return turing.New(append([]turing.Option{turing.WithLogger(logger)}, opts...)...)
}
