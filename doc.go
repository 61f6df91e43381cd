// Package waterflow is a max-flow engine for water supply networks:
// reservoirs push water through pumping stations and pipes to cities, and
// waterflow tells you how much arrives, what breaks when a pipe or station
// goes down, and where idle pipe capacity piles up.
//
// 🚀 What is inside?
//
//	• Arena graph with paired reverse edges, visibility masks and versions
//	• Edmonds–Karp with an augmenting-path log
//	• Incremental what-if queries that retract only the affected paths
//	• Snapshots of a computed flow for cheap restore
//	• Critical-pipe detection and capacity balancing
//	• CSV dataset loader, synthetic network builders, YAML config and a CLI
//
// Under the hood the module is split into packages:
//
//	core/       Graph, Node, Edge: arena storage, flows, visibility
//	bfs/        residual breadth-first search returning typed steps
//	flow/       Network: max flow, path log, snapshots, scenarios, Verify
//	analysis/   CriticalEdges, ComputeMetrics, Balance
//	builder/    deterministic synthetic networks (Trunk, Fork, RandomNetwork)
//	dataset/    Reservoirs/Stations/Cities/Pipes CSV loader
//	config/     defaults, YAML file and WATERFLOW_* environment overrides
//	telemetry/  slog loggers and OpenTelemetry trace/metric exporters
//	cmd/waterflow  the command-line front end
//
// Quick ASCII example:
//
//	 R_1 ──250──▶ PS_1 ──200──▶ C_1
//	               │▲
//	            60 ││ 60
//	               ▼│
//	 R_2 ──200──▶ PS_2 ──150──▶ C_2
//
// Runnable examples live in the example_test.go files of flow and analysis.
package waterflow
