package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/graph"
	"github.com/spf13/cobra"
)

// graphCmd represents the graph command
var graphCmd = &cobra.Command{
	Use:   "graph FILE",
	Short: "Export the transition table visualization",
	Long: `Outputs a Mermaid diagram (graph LR) of the machine's states and transitions.
With --input the machine is run first and the visited states are highlighted.`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		input, _ := cmd.Flags().GetString("input")
		steps, _ := cmd.Flags().GetInt("steps")
		overlay := cmd.Flags().Changed("input")

		engine := turing.New(turing.WithStepLimit(steps))
		if err := runGraph(cmd.Context(), cmd.OutOrStdout(), engine, args[0], input, overlay); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(graphCmd)
	graphCmd.Flags().StringP("input", "i", "", "Run on this input and highlight the visited states")
	graphCmd.Flags().IntP("steps", "n", 10000, "Step limit for the highlighted run")
}

func runGraph(ctx context.Context, out io.Writer, engine *turing.Engine, path, input string, withOverlay bool) error {
	machine, err := turing.LoadFile(path)
	if err != nil {
		return err
	}

	var overlay *graph.Overlay
	if withOverlay {
		outcome, err := engine.Execute(ctx, machine, input)
		if err != nil {
			return err
		}
		overlay = graph.OverlayFromTrace(outcome.Trace)
	}

	fmt.Fprint(out, graph.GenerateMermaid(machine, overlay))
	return nil
}
