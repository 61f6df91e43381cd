// Package analysis answers operational questions on top of a flow.Network.
//
//   - CriticalEdges: which single pipe failures cut a city's supply.
//   - Balance: shrink tight pipes while the total max flow holds, to even
//     out idle capacity across the network.
//   - ComputeMetrics: max, mean and variance of idle capacity.
//
// CriticalEdges and Balance mutate the network (flows, path log, snapshot,
// and for Balance capacities) and leave it in a documented state: the
// baseline for CriticalEdges, the balanced max flow for Balance. Both open
// spans on the "waterflow/analysis" tracer.
package analysis
