package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/aretw0/turing"
	"github.com/aretw0/turing/internal/presentation/tui"
	httpAdapter "github.com/aretw0/turing/pkg/adapters/http"
	"github.com/aretw0/turing/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"
)

const (
	// defaultServerSteps bounds runs submitted over the network.
	defaultServerSteps = 100000
	// defaultServerTraceBytes bounds the tape snapshots a single run may keep.
	defaultServerTraceBytes = 16 << 20
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long:  `Starts the Turing executor as an HTTP API that runs machines and records every run in a store.`,
	Run: func(cmd *cobra.Command, args []string) {
		port, _ := cmd.Flags().GetString("port")
		storeDSN, _ := cmd.Flags().GetString("store")
		steps, _ := cmd.Flags().GetInt("steps")
		traceLimit, _ := cmd.Flags().GetInt("trace-limit")

		logger, closer, err := newLogger(cmd)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		defer closer.Close()

		store, storeCloser, err := openStore(cmd.Context(), storeDSN)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error opening store: %v\n", err)
			os.Exit(1)
		}
		defer storeCloser.Close()

		keepTrace, _ := cmd.Flags().GetInt("keep-trace")
		encryptionKey, _ := cmd.Flags().GetString("encryption-key")
		store, err = wrapStore(store, keepTrace, encryptionKey)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

		reg := prometheus.NewRegistry()
		reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
		metrics := observability.NewMetrics(reg)

		engine := newEngine(logger,
			turing.WithStore(store),
			turing.WithStepLimit(steps),
			turing.WithTraceLimit(traceLimit),
			turing.WithLifecycleHooks(metrics.Hooks()),
		)

		handler := httpAdapter.NewHandler(engine,
			httpAdapter.WithLogger(logger),
			httpAdapter.WithMetricsHandler(promhttp.HandlerFor(reg, promhttp.HandlerOpts{})),
		)

		srv := &http.Server{
			Addr:    ":" + port,
			Handler: handler,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		go func() {
			if tui.IsTerminal(os.Stdout) {
				tui.PrintBanner(os.Stdout)
			}
			fmt.Printf("Starting Turing Server on %s (store: %s, step limit: %d)\n", srv.Addr, storeDSN, steps)
			serverErrors <- srv.ListenAndServe()
		}()

		// Channel to listen for interrupt or terminate signals.
		shutdown := make(chan os.Signal, 1)
		signal.Notify(shutdown, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-serverErrors:
			fmt.Printf("Server error: %v\n", err)
			os.Exit(1)

		case sig := <-shutdown:
			fmt.Printf("\nStart shutdown... Signal: %v\n", sig)

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			if err := srv.Shutdown(ctx); err != nil {
				fmt.Printf("Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					fmt.Printf("Error killing server: %v\n", err)
				}
			}
			fmt.Println("Turing Server stopped gracefully")
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().String("store", "memory", "Run store: memory, redis://host:port[/db], sqlite:path or file:dir")
	serveCmd.Flags().Int("steps", defaultServerSteps, "Step limit applied to every run")
	serveCmd.Flags().Int("trace-limit", defaultServerTraceBytes, "Fail runs whose trace would hold more than N bytes of tape (0 = unbounded)")
	serveCmd.Flags().Int("keep-trace", -1, "Store only the last N trace entries of each run (-1 keeps all)")
	serveCmd.Flags().String("encryption-key", "", "Hex AES-256 key used to encrypt stored runs (or $"+EnvEncryptionKey+")")
}
