package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/aretw0/arbor/internal/cli"
	"github.com/aretw0/arbor/internal/validator"
	httpAdapter "github.com/aretw0/arbor/pkg/adapters/http"
	"github.com/aretw0/arbor/pkg/adapters/memory"
	"github.com/aretw0/arbor/pkg/observability"
	"github.com/aretw0/arbor/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	Long: `Starts the arbor engine in server mode, exposing generation and live growth
sessions as a JSON API over HTTP. Prometheus metrics are served at /metrics.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		port, _ := cmd.Flags().GetString("port")
		rate, _ := cmd.Flags().GetFloat32("rate")
		maxIterations, _ := cmd.Flags().GetInt("max-iterations")

		// 1. Metrics
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)

		// 2. Engine & Sessions
		opts := commonOptions(cmd)
		opts.Metrics = observability.NewMetrics(reg)
		engine, closeEngine, err := cli.NewEngine(opts)
		if err != nil {
			return err
		}
		defer closeEngine()

		sessions := session.NewManager(engine, memory.NewStore(),
			session.WithLogger(engine.Logger()),
			session.WithRate(rate),
		)
		handler := httpAdapter.NewHandler(engine, sessions,
			httpAdapter.WithGatherer(reg),
			httpAdapter.WithLogger(engine.Logger()),
			httpAdapter.WithMaxIterations(maxIterations),
		)

		srv := &http.Server{
			Addr:              ":" + port,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Channel to listen for errors coming from the listener.
		serverErrors := make(chan error, 1)

		out := cmd.OutOrStdout()
		go func() {
			fmt.Fprintf(out, "Starting arbor server on %s\n", srv.Addr)
			fmt.Fprintf(out, "Serving grammars from: %s\n", engine.Name)
			serverErrors <- srv.ListenAndServe()
		}()

		sigCtx := cli.NewSignalContext(cmd.Context())
		defer sigCtx.Cancel()

		// Blocking main and waiting for shutdown.
		select {
		case err := <-serverErrors:
			if errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return fmt.Errorf("server error: %w", err)

		case <-sigCtx.Done():
			fmt.Fprintf(out, "\nStart shutdown... Signal: %v\n", sigCtx.Signal())

			// Give outstanding requests a deadline for completion.
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()

			// Asking listener to shut down and shed load.
			if err := srv.Shutdown(ctx); err != nil {
				fmt.Fprintf(out, "Graceful shutdown did not complete in %v: %v\n", 5*time.Second, err)
				if err := srv.Close(); err != nil {
					return fmt.Errorf("error killing server: %w", err)
				}
			}
			fmt.Fprintln(out, "arbor server stopped gracefully")
			return nil
		}
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().StringP("port", "p", "8080", "Port to listen on")
	serveCmd.Flags().Float32("rate", 4, "Growth speed of sessions in length units per second")
	serveCmd.Flags().Int("max-iterations", validator.LargeIterations, "Largest pass count a request may ask for (0 disables the cap)")
}
