package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/spf13/cobra"

	"github.com/spacehole-rogue/autopilot/internal/config"
	"github.com/spacehole-rogue/autopilot/internal/logging"
	"github.com/spacehole-rogue/autopilot/internal/telemetry"
)

var (
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger
	metrics *metricsServer
)

var rootCmd = &cobra.Command{
	Use:   "autopilot",
	Short: "Autonomous tour of a star system",
	Long: `autopilot flies a ship around a star system on its own: it plans a
visiting order, transfers to each body, parks in orbit for a lap and
finally returns home.

Settings come from autopilot.toml, a .env file and AUTOPILOT_* variables.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		flags := cmd.Flags()
		c, err := config.Load(cfgFile,
			config.WithFlag("log.level", flags.Lookup("log-level")),
			config.WithFlag("log.format", flags.Lookup("log-format")),
			config.WithFlag("planner.seed", flags.Lookup("seed")),
			config.WithFlag("scene.seed", flags.Lookup("seed")),
			config.WithFlag("metrics.addr", flags.Lookup("metrics-addr")),
		)
		if err != nil {
			return err
		}
		cfg = c
		logger = logging.New(c.Log)
		logger.Debug("command start", "command", cmd.CommandPath())

		if c.MetricsAddr != "" {
			metrics, err = startMetrics(c.MetricsAddr, logger)
			if err != nil {
				return err
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if metrics == nil {
			return nil
		}
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return metrics.Shutdown(ctx)
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file path (default ./autopilot.toml)")
	pf.String("log-level", "info", "log level: debug, info, warn or error")
	pf.String("log-format", "text", "log format: text or json")
	pf.Uint64("seed", 1, "seed for shuffled plans and generated systems")
	pf.String("metrics-addr", "", "serve prometheus metrics on this address, e.g. :9102")
}

// metricsServer serves /metrics for the autopilot's prometheus sink.
type metricsServer struct {
	reg *prometheus.Registry
	srv *http.Server
}

func startMetrics(addr string, log *slog.Logger) (*metricsServer, error) {
	reg := prometheus.NewRegistry()
	if err := reg.Register(collectors.NewGoCollector()); err != nil {
		return nil, fmt.Errorf("register go collector: %w", err)
	}

	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{Registry: reg}))
	m := &metricsServer{
		reg: reg,
		srv: &http.Server{Addr: addr, Handler: mux, ReadHeaderTimeout: 5 * time.Second},
	}
	go func() {
		if err := m.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server stopped", "addr", addr, "error", err)
		}
	}()
	log.Info("serving metrics", "addr", addr)
	return m, nil
}

func (m *metricsServer) Shutdown(ctx context.Context) error {
	return m.srv.Shutdown(ctx)
}

// extraSinks returns the telemetry sinks every command attaches beyond the
// HUD comms log.
func extraSinks() ([]telemetry.Sink, error) {
	if metrics == nil {
		return nil, nil
	}
	ps, err := telemetry.NewPromSink(metrics.reg)
	if err != nil {
		return nil, fmt.Errorf("metrics sink: %w", err)
	}
	return []telemetry.Sink{ps}, nil
}
