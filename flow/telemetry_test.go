package flow_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/katalvlaran/waterflow/flow"
)

func TestSpansAndInstruments(t *testing.T) {
	ctx := context.Background()
	g := exampleGraph(t)
	n := newNetwork(t, g)

	_, err := n.MaxFlowExcluding(ctx, flow.ExcludeEdges(edgeID(t, g, "T", "S1")), flow.Incremental)
	require.NoError(t, err)

	names := make(map[string]bool)
	var scenarioValue float64
	for _, sp := range spanRecorder.Ended() {
		names[sp.Name()] = true
		if sp.Name() != "Network.MaxFlowExcluding" {
			continue
		}
		for _, kv := range sp.Attributes() {
			if kv.Key == attribute.Key("flow.value") {
				scenarioValue = kv.Value.AsFloat64()
			}
		}
	}
	require.True(t, names["Network.MaxFlow"])
	require.True(t, names["Network.Resume"])
	require.True(t, names["Network.MaxFlowExcluding"])
	require.InDelta(t, 6, scenarioValue, 1e-9)

	var rm metricdata.ResourceMetrics
	require.NoError(t, metricReader.Collect(ctx, &rm))
	sums := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if data, ok := m.Data.(metricdata.Sum[int64]); ok {
				for _, dp := range data.DataPoints {
					sums[m.Name] += dp.Value
				}
			}
		}
	}
	require.Positive(t, sums["waterflow_augmentations_total"])
	require.Positive(t, sums["waterflow_scenarios_total"])
	require.Positive(t, sums["waterflow_retracted_paths_total"])
}
