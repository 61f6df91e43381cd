// Package builder generates water networks for tests, examples and
// benchmarks.
//
// Every generator is a Constructor run by BuildNetwork:
//
//	g, err := builder.BuildNetwork(nil,
//		[]builder.BuilderOption{builder.WithSeed(7), builder.WithBidirectionalProb(0.2)},
//		builder.RandomNetwork(3, 8, 4, 0.3),
//	)
//
// Constructors:
//
//   - Trunk(n): one source, n stations in series, one sink.
//   - Fork(k): one source, one station, k sinks.
//   - RandomNetwork(s, t, k, p): seeded layered network; needs an RNG.
//
// Keys follow the dataset codes: "R_1" for sources, "PS_1" for transfer
// stations and "C_1" for sinks, adjustable with WithKeyPrefixes. The same
// options, seed and constructor order always give the same network.
package builder
