package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/katalvlaran/waterflow/analysis"
)

func newBalanceCmd(a *app) *cobra.Command {
	var (
		step      float64
		attempts  int
		tolerance float64
		policy    string
	)
	cmd := &cobra.Command{
		Use:   "balance",
		Short: "Shrink tight pipes to even out idle capacity",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			opts, err := a.cfg.BalanceOptions()
			if err != nil {
				return err
			}
			fl := cmd.Flags()
			if fl.Changed("step") {
				opts.Step = step
			}
			if fl.Changed("attempts") {
				opts.MaxAttempts = attempts
			}
			if fl.Changed("tolerance") {
				opts.Tolerance = tolerance
			}
			if fl.Changed("policy") {
				if opts.Policy, err = analysis.ParsePolicy(policy); err != nil {
					return err
				}
			}

			n, err := a.network(ctx)
			if err != nil {
				return err
			}
			res, err := analysis.Balance(ctx, n, opts)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Initial flow: %s\nFinal flow: %s\nAttempts: %d\n",
				num(res.InitialFlow), num(res.FinalFlow), res.Attempts)
			if err := writeMetrics(out, res.Before, res.After); err != nil {
				return err
			}
			g := n.Graph()
			tw := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "PIPE\tFROM\tTO")
			for _, c := range res.Changes {
				fmt.Fprintf(tw, "%s\t%s\t%s\n", g.EdgeLabel(c.Edge), num(c.From), num(c.To))
			}
			return tw.Flush()
		},
	}
	fl := cmd.Flags()
	fl.Float64Var(&step, "step", analysis.DefaultStep, "headroom bound and capacity decrement")
	fl.IntVar(&attempts, "attempts", analysis.DefaultMaxAttempts, "maximum tentative recomputations")
	fl.Float64Var(&tolerance, "tolerance", 0, "stop when variance improves by less than this fraction")
	fl.StringVar(&policy, "policy", analysis.FirstImproving.String(), "first or best")

	return cmd
}

// writeMetrics prints idle-capacity metrics; with two sets, side by side.
func writeMetrics(w io.Writer, sets ...analysis.Metrics) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	switch len(sets) {
	case 1:
		m := sets[0]
		fmt.Fprintf(tw, "PIPES\t%d\nMAX\t%s\nMEAN\t%s\nVARIANCE\t%s\n", m.Count, num(m.Max), num(m.Mean), num(m.Variance))
	default:
		b, af := sets[0], sets[1]
		fmt.Fprintln(tw, "METRIC\tBEFORE\tAFTER")
		fmt.Fprintf(tw, "PIPES\t%d\t%d\n", b.Count, af.Count)
		fmt.Fprintf(tw, "MAX\t%s\t%s\n", num(b.Max), num(af.Max))
		fmt.Fprintf(tw, "MEAN\t%s\t%s\n", num(b.Mean), num(af.Mean))
		fmt.Fprintf(tw, "VARIANCE\t%s\t%s\n", num(b.Variance), num(af.Variance))
	}

	return tw.Flush()
}
