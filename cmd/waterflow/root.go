package main

import (
	"context"
	"fmt"
	"log/slog"
	"math"
	"os"
	"strconv"

	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/katalvlaran/waterflow/config"
	"github.com/katalvlaran/waterflow/core"
	"github.com/katalvlaran/waterflow/dataset"
	"github.com/katalvlaran/waterflow/flow"
	"github.com/katalvlaran/waterflow/telemetry"
)

var tracer = otel.Tracer("waterflow/cmd")

// globalFlags are the persistent flags; empty values defer to the config.
type globalFlags struct {
	configPath string
	dataDir    string
	logLevel   string
	logFormat  string
	trace      string
	metrics    string
	metricsOut string
}

// app is the state shared by every subcommand of one invocation.
type app struct {
	flags    globalFlags
	cfg      config.Config
	logger   *slog.Logger
	runID    string
	span     trace.Span
	shutdown func(context.Context) error
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "waterflow",
		Short: "Max-flow analysis of a water supply network",
		Long: `waterflow loads a water supply network (reservoirs, pumping stations,
cities and pipes) and answers questions about it: how much water reaches each
city, what happens when pipes or stations fail, which pipes a city cannot lose,
and how to even out idle pipe capacity.`,
		SilenceUsage:      true,
		SilenceErrors:     true,
		PersistentPreRunE: a.setup,
	}

	pf := root.PersistentFlags()
	pf.StringVar(&a.flags.configPath, "config", "", "YAML configuration file")
	pf.StringVar(&a.flags.dataDir, "data", "", "dataset directory (overrides dataset.dir)")
	pf.StringVar(&a.flags.logLevel, "log-level", "", "debug, info, warn or error")
	pf.StringVar(&a.flags.logFormat, "log-format", "", "text or json")
	pf.StringVar(&a.flags.trace, "trace", "", "trace exporter: none or stdout")
	pf.StringVar(&a.flags.metrics, "metrics", "", "metric exporter: none, stdout or prometheus")
	pf.StringVar(&a.flags.metricsOut, "metrics-out", "", "file for the prometheus text dump")

	root.AddCommand(
		newMaxFlowCmd(a),
		newExcludeCmd(a),
		newCriticalCmd(a),
		newBalanceCmd(a),
		newMetricsCmd(a),
	)

	return root
}

// setup loads the configuration, builds the logger, starts telemetry and
// opens the root span of the run.
func (a *app) setup(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load(a.flags.configPath)
	if err != nil {
		return err
	}
	override := func(dst *string, v string) {
		if v != "" {
			*dst = v
		}
	}
	override(&cfg.Dataset.Dir, a.flags.dataDir)
	override(&cfg.Log.Level, a.flags.logLevel)
	override(&cfg.Log.Format, a.flags.logFormat)
	override(&cfg.Telemetry.TraceExporter, a.flags.trace)
	override(&cfg.Telemetry.MetricExporter, a.flags.metrics)
	override(&cfg.Telemetry.MetricsOut, a.flags.metricsOut)
	if err := cfg.Validate(); err != nil {
		return err
	}
	a.cfg = cfg

	logger, err := telemetry.NewLogger(cfg.Log.Level, cfg.Log.Format, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	a.runID = uuid.NewString()
	a.logger = logger.With(slog.String("run_id", a.runID))

	if a.shutdown, err = telemetry.Init(cmd.Context(), cfg.TelemetryConfig(), cmd.ErrOrStderr()); err != nil {
		return fmt.Errorf("init telemetry: %w", err)
	}

	ctx, span := tracer.Start(cmd.Context(), "waterflow "+cmd.Name(),
		trace.WithAttributes(attribute.String("run.id", a.runID)))
	a.span = span
	cmd.SetContext(ctx)
	telemetry.LoggerWithTrace(ctx, a.logger).Debug("run: start",
		slog.String("command", cmd.Name()),
		slog.String("data", cfg.Dataset.Dir),
	)

	return nil
}

// close ends the root span and flushes telemetry. Safe without setup.
func (a *app) close(ctx context.Context) error {
	if a.span != nil {
		a.span.End()
		a.span = nil
	}
	if a.shutdown == nil {
		return nil
	}
	err := a.shutdown(ctx)
	a.shutdown = nil

	return err
}

// network loads the dataset and wraps it in a flow.Network.
func (a *app) network(ctx context.Context) (*flow.Network, error) {
	d := a.cfg.Dataset
	g, err := dataset.Load(os.DirFS(d.Dir), dataset.Files{
		Reservoirs: d.Reservoirs,
		Stations:   d.Stations,
		Cities:     d.Cities,
		Pipes:      d.Pipes,
	})
	if err != nil {
		return nil, fmt.Errorf("load dataset %s: %w", d.Dir, err)
	}
	telemetry.LoggerWithTrace(ctx, a.logger).Info("dataset: loaded",
		slog.Int("sources", len(g.NodesByRole(core.RoleSource))),
		slog.Int("stations", len(g.NodesByRole(core.RoleTransfer))),
		slog.Int("sinks", len(g.NodesByRole(core.RoleSink))),
		slog.Int("edges", g.EdgeCount()),
	)

	return flow.NewNetwork(g, append(a.cfg.FlowOptions(), flow.WithLogger(a.logger))...)
}

// num renders a flow value rounded to three decimals, without exponent or
// trailing zeros.
func num(v float64) string {
	r := math.Round(v*1000) / 1000
	if r == 0 {
		r = 0 // no "-0"
	}

	return strconv.FormatFloat(r, 'f', -1, 64)
}
