// Command waterflow answers max-flow questions about a water supply network
// loaded from the reservoir/station/city/pipe CSV dataset.
//
//	waterflow --data ./data maxflow
//	waterflow --data ./data exclude --edge PS_1:C_1 --strategy brute-force
//	waterflow --data ./data critical --all
//	waterflow --data ./data balance --step 5 --policy best
package main

import (
	"context"
	"fmt"
	"io"
	"os"
)

func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// run executes one CLI invocation and always tears telemetry down.
func run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	a := &app{}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.ExecuteContext(ctx)
	if cerr := a.close(context.Background()); err == nil {
		err = cerr
	}

	return err
}
