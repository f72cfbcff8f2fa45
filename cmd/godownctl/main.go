// Command godownctl drives one in-memory warehouse allocation session from the
// terminal. Every invocation rebuilds the rooms from static configuration;
// nothing survives the process, which is the deployment's storage model.
package main

import (
	"fmt"
	"os"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"godowncore/internal/config"
	"godowncore/internal/core"
	"godowncore/internal/obs"
)

var (
	configPath string
	logLevel   string
	logFormat  string
)

var rootCmd = &cobra.Command{
	Use:   "godownctl",
	Short: "Warehouse slot allocation sessions",
	Long: `godownctl runs warehouse slot allocation against the configured godowns.

State is in-memory only and rebuilt from configuration on every run: use
"plan" for a read-only fill preview and "run" to execute a scripted session
of allocations, removals, undo, and search.`,
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a rooms configuration file (default: built-in layout)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level: debug, info, warn, error")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "", "log format: json or console")

	rootCmd.AddCommand(roomsCmd)
	rootCmd.AddCommand(planCmd)
	rootCmd.AddCommand(runCmd)
}

// loadConfig resolves the effective configuration, from file when given.
func loadConfig() (config.Config, error) {
	if configPath == "" {
		return config.Default(), nil
	}
	return config.Load(configPath)
}

// session bundles the per-invocation service with its host-side observability.
type session struct {
	svc     *core.Service
	logger  *zap.Logger
	metrics *prometheus.Registry
}

// newSession builds a fresh service plus host logger from configuration. The
// metrics registry is per-session, matching the lifetime of the state itself.
func newSession(cfg config.Config) (*session, error) {
	level := cfg.Logging.Level
	if logLevel != "" {
		level = logLevel
	}
	format := cfg.Logging.Format
	if logFormat != "" {
		format = logFormat
	}
	zl, err := obs.NewZapLogger(level, format)
	if err != nil {
		return nil, err
	}

	registry, err := core.NewRegistry(cfg.DomainRooms())
	if err != nil {
		return nil, err
	}
	metrics := prometheus.NewRegistry()
	svc := core.NewService(registry,
		core.WithLogger(obs.NewLogger(zl)),
		core.WithMetricsRecorder(obs.NewMetricsRecorder(metrics)),
		core.WithHistoryLimit(cfg.History.Limit),
	)
	return &session{svc: svc, logger: zl, metrics: metrics}, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
