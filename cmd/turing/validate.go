package main

import (
	"fmt"
	"io"
	"os"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/validator"
	"github.com/aretw0/turing/pkg/schema"
	"github.com/spf13/cobra"
)

var validateCmd = &cobra.Command{
	Use:   "validate FILE",
	Short: "Check a machine definition for consistency",
	Long:  `Crawls the transition table from the start state and reports undefined targets or unreachable states.`,
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("print")
		if err := runValidate(cmd.OutOrStdout(), args[0], format); err != nil {
			fmt.Fprintf(os.Stderr, "Validation failed: %v\n", err)
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
	validateCmd.Flags().String("print", "", "Print the normalized definition (yaml or json)")
}

func runValidate(out io.Writer, path, format string) error {
	machine, err := turing.LoadFile(path)
	if err != nil {
		return err
	}

	issues := validator.ValidateMachine(machine)
	for _, i := range issues {
		fmt.Fprintln(out, i.String())
	}
	if err := validator.Err(issues); err != nil {
		return err
	}

	if format != "" {
		data, err := schema.Marshal(machine, schema.Format(format))
		if err != nil {
			return fmt.Errorf("failed to encode definition: %w", err)
		}
		out.Write(data)
		return nil
	}

	fmt.Fprintln(out, "Machine is valid! ✅")
	return nil
}
