package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/funvibe/adaptive/internal/bench"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List the bundled programs",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			for _, p := range bench.All() {
				fmt.Fprintf(w, "%s\t%s\n", cyan(p.Name), p.Description)
			}
			return w.Flush()
		},
	}
}
