package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	"github.com/spf13/cobra"
)

// errRunFailed signals a run that ended without reaching a final state.
// The diagnostic has already been printed.
var errRunFailed = errors.New("run failed")

type runOptions struct {
	input   string
	steps   int
	trace   bool
	json    bool
	colored bool
}

// runCmd represents the run command
var runCmd = &cobra.Command{
	Use:   "run FILE",
	Short: "Run a machine definition on an input",
	Long: `Loads a machine definition (YAML, or JSON by extension) and runs it on the given input.
The final tape is printed on success; otherwise the diagnostic is printed and the exit code is 2.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		logger, closer, err := newLogger(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()

		opts := runOptions{colored: tui.IsTerminal(os.Stdout)}
		opts.input, _ = cmd.Flags().GetString("input")
		opts.steps, _ = cmd.Flags().GetInt("steps")
		opts.trace, _ = cmd.Flags().GetBool("trace")
		opts.json, _ = cmd.Flags().GetBool("json")

		engine := newEngine(logger, turing.WithStepLimit(opts.steps))

		err = runMachine(cmd.Context(), engine, args[0], opts, cmd.OutOrStdout())
		if errors.Is(err, errRunFailed) {
			closer.Close()
			os.Exit(2)
		}
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			closer.Close()
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringP("input", "i", "", "Initial tape contents")
	runCmd.Flags().IntP("steps", "n", 0, "Fail the run after this many steps (0 = unbounded)")
	runCmd.Flags().Bool("trace", false, "Print every step before the result")
	runCmd.Flags().Bool("json", false, "Print the full outcome as JSON")
}

func runMachine(ctx context.Context, engine *turing.Engine, path string, opts runOptions, out io.Writer) error {
	machine, err := turing.LoadFile(path)
	if err != nil {
		return err
	}

	outcome, err := engine.Execute(ctx, machine, opts.input)
	if err != nil {
		return err
	}

	switch {
	case opts.json:
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		if err := enc.Encode(outcome); err != nil {
			return fmt.Errorf("failed to encode outcome: %w", err)
		}
	case opts.trace:
		if err := tui.WriteTrace(out, outcome.Trace, opts.colored); err != nil {
			return err
		}
		summary := tui.Summary(machine.Name, outcome)
		if opts.colored {
			if rendered, err := tui.NewRenderer()(summary); err == nil {
				summary = rendered
			}
		}
		fmt.Fprintln(out)
		fmt.Fprint(out, summary)
	default:
		fmt.Fprintln(out, outcome.Output())
	}

	if !outcome.Succeeded {
		return errRunFailed
	}
	return nil
}
