package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/pkg/adapters/mcp"
	"github.com/spf13/cobra"
)

// mcpCmd represents the mcp command
var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Run the Model Context Protocol (MCP) server",
	Long: `Starts the Turing executor as an MCP Server, exposing run_machine and validate_machine as tools.

Supported Transports:
- stdio (default): Uses Standard Input/Output. Ideal for local process integration.
- sse: Uses Server-Sent Events over HTTP. Ideal for remote agents or debuggers.`,
	Run: func(cmd *cobra.Command, args []string) {
		transport, _ := cmd.Flags().GetString("transport")
		port, _ := cmd.Flags().GetInt("port")
		storeDSN, _ := cmd.Flags().GetString("store")
		steps, _ := cmd.Flags().GetInt("steps")
		traceLimit, _ := cmd.Flags().GetInt("trace-limit")

		logger, closer, err := newLogger(cmd)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}
		defer closer.Close()
		slog.SetDefault(logger)

		store, storeCloser, err := openStore(cmd.Context(), storeDSN)
		if err != nil {
			log.Fatalf("Error opening store: %v", err)
		}
		defer storeCloser.Close()

		keepTrace, _ := cmd.Flags().GetInt("keep-trace")
		encryptionKey, _ := cmd.Flags().GetString("encryption-key")
		store, err = wrapStore(store, keepTrace, encryptionKey)
		if err != nil {
			log.Fatalf("Error: %v", err)
		}

		engine := newEngine(logger,
			turing.WithStore(store),
			turing.WithStepLimit(steps),
			turing.WithTraceLimit(traceLimit),
		)
		srv := mcp.NewServer(engine)

		switch transport {
		case "stdio":
			// Ensure logs don't corrupt JSON-RPC on Stdout
			log.SetOutput(os.Stderr)
			slog.Info("Starting Turing MCP Server (Stdio)...")
			if err := srv.ServeStdio(); err != nil {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
		case "sse":
			slog.Info("Starting Turing MCP Server (SSE)", "port", port)

			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := srv.ServeSSE(ctx, port); err != nil && err != http.ErrServerClosed {
				slog.Error("MCP Server execution failed", "error", err)
				os.Exit(1)
			}
			slog.Info("MCP Server stopped gracefully")
		default:
			log.Fatalf("Unknown transport: %s. Supported: stdio, sse", transport)
		}
	},
}

func init() {
	rootCmd.AddCommand(mcpCmd)
	mcpCmd.Flags().StringP("transport", "t", "stdio", "Transport: stdio or sse")
	mcpCmd.Flags().Int("port", 8080, "Port for the SSE transport")
	mcpCmd.Flags().String("store", "memory", "Run store: memory, redis://host:port[/db], sqlite:path or file:dir")
	mcpCmd.Flags().Int("steps", defaultServerSteps, "Step limit applied to every run")
	mcpCmd.Flags().Int("trace-limit", defaultServerTraceBytes, "Fail runs whose trace would hold more than N bytes of tape (0 = unbounded)")
	mcpCmd.Flags().Int("keep-trace", -1, "Store only the last N trace entries of each run (-1 keeps all)")
	mcpCmd.Flags().String("encryption-key", "", "Hex AES-256 key used to encrypt stored runs (or $"+EnvEncryptionKey+")")
}
