package main

import (
	"fmt"
	"io"

	"github.com/funvibe/adaptive/internal/bench"
	"github.com/funvibe/adaptive/internal/evaluator"
	"github.com/funvibe/adaptive/internal/prettyprinter"
	"github.com/spf13/cobra"
)

func newShowCmd(a *app) *cobra.Command {
	var annotate bool
	cmd := &cobra.Command{
		Use:   "show <program>",
		Short: "Print a bundled program's source",
		Long: "Print a bundled program's source. With --annotate the program is run first and\n" +
			"every reader and call site is printed with the state it specialized to.",
		Args: cobra.ExactArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return bench.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			p, ok := bench.Get(args[0])
			if !ok {
				return fmt.Errorf("unknown program %q (see 'adaptive list')", args[0])
			}
			tree := p.Build()
			if !annotate {
				_, err := io.WriteString(cmd.OutOrStdout(), prettyprinter.Print(tree))
				return err
			}

			e := evaluator.New(evaluator.Options{
				Out:             io.Discard,
				Policy:          a.policy(),
				InitialCapacity: a.cfg.Containers.InitialCapacity,
			})
			if _, err := e.Run(tree); err != nil {
				return err
			}
			_, err := io.WriteString(cmd.OutOrStdout(), prettyprinter.PrintAnnotated(tree))
			return err
		},
	}
	cmd.Flags().BoolVarP(&annotate, "annotate", "a", false, "run the program and show speculation state")
	return cmd
}
