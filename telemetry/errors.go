package telemetry

import "errors"

// Sentinel errors for telemetry setup.
var (
	// ErrNilContext is returned by Init for a nil context.
	ErrNilContext = errors.New("telemetry: nil context")

	// ErrUnknownExporter is returned for an unsupported exporter name.
	ErrUnknownExporter = errors.New("telemetry: unknown exporter")

	// ErrUnknownLevel is returned by ParseLevel for an unsupported level name.
	ErrUnknownLevel = errors.New("telemetry: unknown log level")

	// ErrUnknownFormat is returned by NewLogger for an unsupported format.
	ErrUnknownFormat = errors.New("telemetry: unknown log format")
)
