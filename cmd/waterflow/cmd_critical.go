package main

import (
	"errors"
	"fmt"
	"sort"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waterflow/analysis"
	"github.com/katalvlaran/waterflow/core"
)

func newCriticalCmd(a *app) *cobra.Command {
	var all bool
	cmd := &cobra.Command{
		Use:   "critical [CITY]",
		Short: "Pipes whose failure cuts a city's supply",
		Args: func(cmd *cobra.Command, args []string) error {
			if all && len(args) > 0 {
				return errors.New("give a city or --all, not both")
			}
			if !all && len(args) != 1 {
				return errors.New("expected one city code, or --all")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			n, err := a.network(ctx)
			if err != nil {
				return err
			}
			result := make(map[string][]*core.Edge)
			if all {
				if result, err = analysis.CriticalEdgesAll(ctx, n); err != nil {
					return err
				}
			} else {
				edges, err := analysis.CriticalEdges(ctx, n, args[0])
				if err != nil {
					return err
				}
				result[args[0]] = edges
			}

			keys := make([]string, 0, len(result))
			for k := range result {
				keys = append(keys, k)
			}
			sort.Strings(keys)

			g := n.Graph()
			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "CITY\tPIPE\tCAPACITY\tFLOW")
			for _, k := range keys {
				if len(result[k]) == 0 {
					fmt.Fprintf(tw, "%s\t-\t\t\n", k)
					continue
				}
				for _, e := range result[k] {
					fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", k, g.EdgeLabel(e.ID()), num(e.Capacity()), num(e.Flow()))
				}
			}
			return tw.Flush()
		},
	}
	cmd.Flags().BoolVar(&all, "all", false, "report every city")

	return cmd
}
