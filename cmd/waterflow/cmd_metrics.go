package main

import (
	"github.com/spf13/cobra"

	"github.com/katalvlaran/waterflow/analysis"
)

func newMetricsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "metrics",
		Short: "Spread of idle pipe capacity at max flow",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			n, err := a.network(ctx)
			if err != nil {
				return err
			}
			if _, err := n.MaxFlow(ctx, false); err != nil {
				return err
			}
			return writeMetrics(cmd.OutOrStdout(), analysis.ComputeMetrics(n))
		},
	}
}
