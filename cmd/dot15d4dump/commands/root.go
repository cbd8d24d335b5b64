// Package commands implements the dot15d4dump command-line interface.
package commands

import (
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/dantte-lp/go154/internal/config"
	dot15d4metrics "github.com/dantte-lp/go154/internal/metrics"
)

var (
	// cfgPath is the path to the YAML configuration file, if any.
	cfgPath string

	// outputFormat controls the output format for the decode command.
	outputFormat string

	// cfg holds the loaded configuration, populated in PersistentPreRunE.
	cfg *config.Config

	// collector holds the Prometheus metrics collector, populated in
	// PersistentPreRunE. Decode-only invocations still exercise it; nothing
	// in this package depends on a metrics server actually being up.
	collector *dot15d4metrics.Collector
)

// rootCmd is the top-level cobra command for dot15d4dump.
var rootCmd = &cobra.Command{
	Use:   "dot15d4dump",
	Short: "Decode IEEE 802.15.4 MAC frames",
	Long:  "dot15d4dump parses IEEE 802.15.4 MAC frames from hex input and prints their structure.",
	PersistentPreRunE: func(_ *cobra.Command, _ []string) error {
		loaded, err := config.Load(cfgPath)
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = loaded

		if outputFormat == "" {
			outputFormat = cfg.Decode.OutputFormat
		}

		reg := prometheus.NewRegistry()
		collector = dot15d4metrics.NewCollector(reg)

		if cfg.Metrics.Addr != "" {
			startMetricsServer(cfg, reg)
		}

		return nil
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgPath, "config", "", "path to configuration file (YAML)")
	rootCmd.PersistentFlags().StringVar(&outputFormat, "format", "", "output format: text, json (overrides config)")

	rootCmd.AddCommand(decodeCmd())
	rootCmd.AddCommand(versionCmd())
}

// Execute runs the root command and exits with code 1 on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// startMetricsServer serves the Prometheus registry on cfg.Metrics.Addr in
// the background for the lifetime of the process. A failed listener is
// logged, not fatal: decode output is the point of this tool, metrics are
// incidental to it.
func startMetricsServer(cfg *config.Config, reg *prometheus.Registry) {
	mux := http.NewServeMux()
	mux.Handle(cfg.Metrics.Path, promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))

	srv := &http.Server{
		Addr:              cfg.Metrics.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Warn("metrics server exited", slog.String("error", err.Error()))
		}
	}()
}
