package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/funvibe/adaptive/internal/ast"
	"github.com/funvibe/adaptive/internal/bench"
	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/evaluator"
	"github.com/funvibe/adaptive/internal/profile"
	"github.com/funvibe/adaptive/internal/value"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

type runOptions struct {
	inline    bool
	threshold int64
	db        string
	format    string
	repeat    int
}

func newRunCmd(a *app) *cobra.Command {
	var opts runOptions
	cmd := &cobra.Command{
		Use:   "run <program>...",
		Short: "Run bundled programs and print their speculation profile",
		Args:  cobra.MinimumNArgs(1),
		ValidArgsFunction: func(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
			return bench.Names(), cobra.ShellCompDirectiveNoFileComp
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			a.applyRunFlags(cmd, &opts)
			if err := checkFormat(opts.format); err != nil {
				return err
			}
			if opts.repeat < 1 {
				return fmt.Errorf("--repeat must be at least 1, got %d", opts.repeat)
			}

			programs := make([]*bench.Program, len(args))
			for i, name := range args {
				p, ok := bench.Get(name)
				if !ok {
					return fmt.Errorf("unknown program %q (see 'adaptive list')", name)
				}
				programs[i] = p
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			var store *profile.Store
			if a.cfg.Profile.Database != "" {
				var err error
				if store, err = profile.OpenStore(ctx, a.cfg.Profile.Database); err != nil {
					return err
				}
				defer store.Close()
			}

			for i, p := range programs {
				snap, err := a.runProgram(cmd, p, opts.repeat)
				if err != nil {
					return fmt.Errorf("%s: %w", p.Name, err)
				}
				if i > 0 && opts.format == config.FormatYAML {
					fmt.Fprintln(cmd.OutOrStdout(), "---")
				}
				if err := writeSnapshot(cmd.OutOrStdout(), snap, opts.format); err != nil {
					return err
				}
				if store != nil {
					if err := store.Save(ctx, snap); err != nil {
						return err
					}
					log.Info().Str("program", p.Name).Stringer("run", snap.RunID).Msg("profile saved")
				}
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.BoolVar(&opts.inline, "inline", false, "inline call sites that stay monomorphic")
	f.Int64Var(&opts.threshold, "threshold", config.DefaultInlineThreshold, "cached calls before a site inlines")
	f.StringVar(&opts.db, "db", "", "sqlite file to save the profile to")
	f.StringVarP(&opts.format, "format", "f", config.FormatText, "profile format: text, yaml or json")
	f.IntVarP(&opts.repeat, "repeat", "n", 1, "run the same tree this many times")
	return cmd
}

// applyRunFlags lets explicitly set flags override the configuration file.
func (a *app) applyRunFlags(cmd *cobra.Command, opts *runOptions) {
	flags := cmd.Flags()
	if flags.Changed("inline") {
		a.cfg.Inlining.Enabled = opts.inline
	}
	if flags.Changed("threshold") {
		a.cfg.Inlining.Threshold = opts.threshold
	}
	if flags.Changed("db") {
		a.cfg.Profile.Database = opts.db
	}
}

func (a *app) policy() callsite.InlinePolicy {
	return callsite.InlinePolicy{
		Enabled:   a.cfg.Inlining.Enabled,
		Threshold: a.cfg.Inlining.Threshold,
	}
}

// runProgram runs a fresh tree of p repeat times in one evaluator and
// captures the speculation events of all runs.
func (a *app) runProgram(cmd *cobra.Command, p *bench.Program, repeat int) (*profile.Snapshot, error) {
	rec := profile.NewRecorder()
	prev := profile.Install(rec)
	defer profile.Install(prev)

	tree := p.Build()
	e := evaluator.New(evaluator.Options{
		Out:             cmd.OutOrStdout(),
		Policy:          a.policy(),
		InitialCapacity: a.cfg.Containers.InitialCapacity,
	})

	started := time.Now()
	var result value.Value
	for i := 0; i < repeat; i++ {
		v, err := e.Run(tree)
		if err != nil {
			var rerr *evaluator.RuntimeError
			if errors.As(err, &rerr) {
				log.Debug().Str("program", p.Name).Int("depth", len(rerr.StackTrace)).Msg("runtime error")
			}
			return nil, err
		}
		result = v
	}

	snap := profile.NewSnapshot(p.Name, started, rec)
	snap.Result = result.Inspect()
	snap.Sites = siteStats(tree)
	if snap.Result != p.Want {
		log.Warn().Str("program", p.Name).Str("got", snap.Result).Str("want", p.Want).Msg("unexpected result")
	}
	return snap, nil
}

func siteStats(tree *ast.Program) []profile.SiteStats {
	sites := ast.Sites(tree)
	out := make([]profile.SiteStats, 0, len(sites))
	for _, s := range sites {
		st := s.Stats()
		out = append(out, profile.SiteStats{
			Name:          s.Name(),
			State:         st.State.String(),
			Calls:         st.CallCount,
			Hits:          st.Hits,
			Misses:        st.Misses,
			Invalidations: st.Invalidations,
			InlinedCalls:  st.InlinedCalls,
		})
	}
	return out
}
