package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type historyOptions struct {
	db        string
	limit     int
	run       string
	format    string
	olderThan time.Duration
}

func newHistoryCmd(a *app) *cobra.Command {
	var opts historyOptions
	cmd := &cobra.Command{
		Use:   "history [program]",
		Short: "List saved profile runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("db") {
				a.cfg.Profile.Database = opts.db
			}
			if a.cfg.Profile.Database == "" {
				return errors.New("no profile database: pass --db or set profile.database in adaptive.yaml")
			}
			if err := checkFormat(opts.format); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			store, err := profile.OpenStore(ctx, a.cfg.Profile.Database)
			if err != nil {
				return err
			}
			defer store.Close()

			if opts.olderThan > 0 {
				n, err := store.Prune(ctx, time.Now().Add(-opts.olderThan))
				if err != nil {
					return err
				}
				log.Info().Int64("deleted", n).Msg("pruned profile runs")
			}

			if opts.run != "" {
				id, err := uuid.Parse(opts.run)
				if err != nil {
					return fmt.Errorf("invalid run id %q: %w", opts.run, err)
				}
				snap, err := store.Get(ctx, id)
				if err != nil {
					return err
				}
				return writeSnapshot(cmd.OutOrStdout(), snap, opts.format)
			}

			var program string
			if len(args) == 1 {
				program = args[0]
			}
			runs, err := store.List(ctx, program, opts.limit)
			if err != nil {
				return err
			}
			if opts.format == config.FormatText {
				return writeHistory(cmd.OutOrStdout(), runs)
			}
			for i, snap := range runs {
				if i > 0 && opts.format == config.FormatYAML {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
				if err := writeSnapshot(cmd.OutOrStdout(), snap, opts.format); err != nil {
					return err
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.db, "db", "", "sqlite file holding saved profiles")
	f.IntVarP(&opts.limit, "limit", "l", 20, "maximum runs to list (0 lists all)")
	f.StringVar(&opts.run, "run", "", "show the full profile of one run id")
	f.StringVarP(&opts.format, "format", "f", config.FormatText, "output format: text, yaml or json")
	f.DurationVar(&opts.olderThan, "prune", 0, "delete runs older than this before listing")
	return cmd
}
