package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waterflow/flow"
)

func newMaxFlowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "maxflow",
		Short: "Maximum flow and per-city supply",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			n, err := a.network(ctx)
			if err != nil {
				return err
			}
			v, err := n.MaxFlow(ctx, false)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Max flow: %s\n", num(v))
			return writeSupplies(out, n.Supplies())
		},
	}
}

func writeSupplies(w io.Writer, supplies []flow.Supply) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tCITY\tDEMAND\tSUPPLIED\tDEFICIT")
	for _, s := range supplies {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", s.Key, s.City, num(s.Demand), num(s.Supplied), num(s.Deficit()))
	}

	return tw.Flush()
}
