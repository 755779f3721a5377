package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"modgraph/internal/server"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve snapshots to MCP clients over stdio",
	Long: `Run an MCP server on stdin/stdout exposing the preset, snapshot, filter,
tree and timeline tools.

With --metrics-addr (or MODGRAPH_METRICS_ADDR) Prometheus metrics are served
at /metrics on that address. Logs go to stderr.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "",
		"Address for the Prometheus /metrics endpoint, e.g. :9464")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	a, err := newApp(true)
	if err != nil {
		return err
	}
	defer a.Close()

	root, err := a.defaultRoot()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	addr := a.cfg.MetricsAddr
	if metricsAddr != "" {
		addr = metricsAddr
	}
	if addr != "" {
		srv := serveMetrics(addr, a)
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = srv.Shutdown(shutdownCtx)
		}()
	}

	s := server.NewServer(a.svc, server.Options{
		Version: version,
		Repo:    a.cfg.Repo,
		Root:    root,
		Logger:  a.logger,
	})
	return s.Run(ctx)
}

func serveMetrics(addr string, a *app) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	srv := &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second}

	go func() {
		a.logger.Info("metrics endpoint listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			a.logger.Error("metrics endpoint failed", "error", err)
		}
	}()
	return srv
}
