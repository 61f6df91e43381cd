// Package config loads the waterflow configuration: defaults, overlaid by a
// YAML file, overlaid by WATERFLOW_* environment variables.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"

	"gopkg.in/yaml.v3"

	"github.com/katalvlaran/waterflow/analysis"
	"github.com/katalvlaran/waterflow/flow"
	"github.com/katalvlaran/waterflow/telemetry"
)

// ErrInvalidConfig is returned by Validate and Load, wrapped with the
// offending field.
var ErrInvalidConfig = errors.New("config: invalid configuration")

// Config is the full waterflow configuration.
type Config struct {
	Flow      FlowConfig      `json:"flow" yaml:"flow"`
	Balance   BalanceConfig   `json:"balance" yaml:"balance"`
	Dataset   DatasetConfig   `json:"dataset" yaml:"dataset"`
	Log       LogConfig       `json:"log" yaml:"log"`
	Telemetry TelemetryConfig `json:"telemetry" yaml:"telemetry"`
}

// FlowConfig tunes the max-flow engine.
type FlowConfig struct {
	Epsilon        float64 `json:"epsilon" yaml:"epsilon"`
	Strategy       string  `json:"strategy" yaml:"strategy"`
	PinnedCeilings bool    `json:"pinned_ceilings" yaml:"pinned_ceilings"`
}

// BalanceConfig mirrors analysis.BalanceOptions.
type BalanceConfig struct {
	Step        float64 `json:"step" yaml:"step"`
	MaxAttempts int     `json:"max_attempts" yaml:"max_attempts"`
	Tolerance   float64 `json:"tolerance" yaml:"tolerance"`
	Policy      string  `json:"policy" yaml:"policy"`
}

// DatasetConfig names the directory and the four CSV files of a network.
type DatasetConfig struct {
	Dir        string `json:"dir" yaml:"dir"`
	Reservoirs string `json:"reservoirs" yaml:"reservoirs"`
	Stations   string `json:"stations" yaml:"stations"`
	Cities     string `json:"cities" yaml:"cities"`
	Pipes      string `json:"pipes" yaml:"pipes"`
}

// LogConfig selects the slog handler.
type LogConfig struct {
	Level  string `json:"level" yaml:"level"`
	Format string `json:"format" yaml:"format"`
}

// TelemetryConfig selects the OpenTelemetry exporters.
type TelemetryConfig struct {
	ServiceName    string `json:"service_name" yaml:"service_name"`
	TraceExporter  string `json:"trace_exporter" yaml:"trace_exporter"`
	MetricExporter string `json:"metric_exporter" yaml:"metric_exporter"`
	MetricsOut     string `json:"metrics_out" yaml:"metrics_out"`
}

// Default returns the built-in configuration.
func Default() Config {
	tc := telemetry.DefaultConfig()
	return Config{
		Flow: FlowConfig{
			Epsilon:  flow.DefaultEpsilon,
			Strategy: flow.Incremental.String(),
		},
		Balance: BalanceConfig{
			Step:        analysis.DefaultStep,
			MaxAttempts: analysis.DefaultMaxAttempts,
			Policy:      analysis.FirstImproving.String(),
		},
		Dataset: DatasetConfig{
			Dir:        ".",
			Reservoirs: "Reservoir.csv",
			Stations:   "Stations.csv",
			Cities:     "Cities.csv",
			Pipes:      "Pipes.csv",
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Telemetry: TelemetryConfig{
			ServiceName:    tc.ServiceName,
			TraceExporter:  tc.TraceExporter,
			MetricExporter: tc.MetricExporter,
			MetricsOut:     tc.MetricsFile,
		},
	}
}

// Load returns Default overlaid by the YAML file at path (skipped when path
// is empty) and by the environment, then validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return cfg, fmt.Errorf("config: read %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return cfg, fmt.Errorf("config: parse %s: %w", path, err)
		}
	}
	applyEnv(&cfg)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}

	return cfg, nil
}

// applyEnv overrides fields from WATERFLOW_* variables. Unparsable numbers
// are ignored.
func applyEnv(cfg *Config) {
	str := func(name string, dst *string) {
		if v := os.Getenv(name); v != "" {
			*dst = v
		}
	}
	str("WATERFLOW_DATA", &cfg.Dataset.Dir)
	str("WATERFLOW_STRATEGY", &cfg.Flow.Strategy)
	str("WATERFLOW_LOG_LEVEL", &cfg.Log.Level)
	str("WATERFLOW_LOG_FORMAT", &cfg.Log.Format)
	str("WATERFLOW_TRACE_EXPORTER", &cfg.Telemetry.TraceExporter)
	str("WATERFLOW_METRIC_EXPORTER", &cfg.Telemetry.MetricExporter)
	str("WATERFLOW_BALANCE_POLICY", &cfg.Balance.Policy)

	if v := os.Getenv("WATERFLOW_EPSILON"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Flow.Epsilon = f
		}
	}
	if v := os.Getenv("WATERFLOW_BALANCE_STEP"); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.Balance.Step = f
		}
	}
	if v := os.Getenv("WATERFLOW_BALANCE_ATTEMPTS"); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			cfg.Balance.MaxAttempts = i
		}
	}
	if v := os.Getenv("WATERFLOW_PINNED"); v != "" {
		cfg.Flow.PinnedCeilings = v == "true" || v == "1"
	}
}

// Validate checks every field and joins all violations.
func (c Config) Validate() error {
	var errs []error
	bad := func(field, format string, args ...any) {
		errs = append(errs, fmt.Errorf("%w: %s: "+format, append([]any{ErrInvalidConfig, field}, args...)...))
	}

	if c.Flow.Epsilon <= 0 {
		bad("flow.epsilon", "must be > 0, got %g", c.Flow.Epsilon)
	}
	if _, err := flow.ParseStrategy(c.Flow.Strategy); err != nil {
		bad("flow.strategy", "%v", err)
	}
	if c.Balance.Step < 0 {
		bad("balance.step", "must be >= 0, got %g", c.Balance.Step)
	}
	if c.Balance.MaxAttempts < 1 {
		bad("balance.max_attempts", "must be >= 1, got %d", c.Balance.MaxAttempts)
	}
	if c.Balance.Tolerance < 0 || c.Balance.Tolerance >= 1 {
		bad("balance.tolerance", "must be in [0, 1), got %g", c.Balance.Tolerance)
	}
	if _, err := analysis.ParsePolicy(c.Balance.Policy); err != nil {
		bad("balance.policy", "%v", err)
	}
	for field, v := range map[string]string{
		"dataset.reservoirs": c.Dataset.Reservoirs,
		"dataset.stations":   c.Dataset.Stations,
		"dataset.cities":     c.Dataset.Cities,
		"dataset.pipes":      c.Dataset.Pipes,
	} {
		if v == "" {
			bad(field, "must not be empty")
		}
	}
	if _, err := telemetry.ParseLevel(c.Log.Level); err != nil {
		bad("log.level", "%v", err)
	}
	if c.Log.Format != "text" && c.Log.Format != "json" {
		bad("log.format", "must be text or json, got %q", c.Log.Format)
	}
	if err := c.TelemetryConfig().Validate(); err != nil {
		bad("telemetry", "%v", err)
	}

	return errors.Join(errs...)
}

// FlowOptions returns the flow.Network options for this configuration.
func (c Config) FlowOptions() []flow.Option {
	return []flow.Option{flow.WithEpsilon(c.Flow.Epsilon)}
}

// Strategy returns the parsed scenario strategy.
func (c Config) Strategy() (flow.Strategy, error) {
	return flow.ParseStrategy(c.Flow.Strategy)
}

// BalanceOptions returns the parsed balancing options.
func (c Config) BalanceOptions() (analysis.BalanceOptions, error) {
	p, err := analysis.ParsePolicy(c.Balance.Policy)
	if err != nil {
		return analysis.BalanceOptions{}, err
	}

	return analysis.BalanceOptions{
		Step:        c.Balance.Step,
		MaxAttempts: c.Balance.MaxAttempts,
		Tolerance:   c.Balance.Tolerance,
		Policy:      p,
	}, nil
}

// TelemetryConfig returns the telemetry.Config for this configuration.
func (c Config) TelemetryConfig() telemetry.Config {
	return telemetry.Config{
		ServiceName:    c.Telemetry.ServiceName,
		TraceExporter:  c.Telemetry.TraceExporter,
		MetricExporter: c.Telemetry.MetricExporter,
		MetricsFile:    c.Telemetry.MetricsOut,
	}
}
