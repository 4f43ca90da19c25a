package commands

import (
	"context"

	"skoview/internal/mcp"
	"skoview/internal/metrics"
	"skoview/internal/state"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var metricsAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the MCP server on stdio (default command)",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd.Context(), metricsAddr)
	},
}

func init() {
	serveCmd.Flags().StringVar(&metricsAddr, "metrics-addr", "", "serve Prometheus metrics on this address (overrides METRICS_ADDR)")
}

func runServe(ctx context.Context, addr string) error {
	if addr == "" {
		addr = cfg.MetricsAddr
	}

	var observers []state.Observer
	if addr != "" {
		reg := prometheus.NewRegistry()
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
		observers = append(observers, metrics.NewObserver(reg))
		go func() {
			if err := metrics.Serve(ctx, addr, reg); err != nil {
				log.Error().Err(err).Str("addr", addr).Msg("Metrics endpoint stopped")
			}
		}()
	}

	server := mcp.NewServer(newSession(observers...), mcp.Options{
		Version:       Version,
		DashboardURL:  cfg.DashboardURL,
		MermaidCharts: cfg.EnableMermaidCharts,
	})
	return server.Serve(ctx)
}
