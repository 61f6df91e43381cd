// Package core provides the in-memory network used by every waterflow
// analysis: typed nodes (sources, transfer points, sinks), directed
// capacitated edges, and a Graph container with O(1) key lookup.
//
// Representation:
//
//   - Nodes and edges are stored in arenas; NodeID and EdgeID are indices.
//   - Each node keeps outgoing and incoming edge lists, so both traversal
//     directions cost O(deg).
//   - A bidirectional pipe is two edges naming each other as Reverse. Flow is
//     only changed through Graph.Push, which writes both sides, so
//     flow(e) == -flow(reverse(e)) holds by construction.
//
// Visibility:
//
//	HideNode(key)          // exclude a node from traversal
//	HideEdge(id)           // exclude one directed edge
//	UnhideAll()            // clear every flag
//	SaveVisibility()       // take a mask
//	RestoreVisibility(v)   // put a mask back
//
// Hidden flags simulate removal without touching topology, which keeps
// EdgeIDs stable for flow vectors and snapshots.
//
// Versions:
//
// Version changes on every node/edge insertion or removal; CapacityVersion
// changes on every capacity update. Restore points compare them to decide
// whether a stored state still applies.
//
// Concurrency:
//
// A Graph carries no locks. Analyses mutate flows and hidden flags, so a
// Graph must be owned by a single goroutine at a time.
package core
