package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/funvibe/adaptive/internal/callsite"
	"github.com/funvibe/adaptive/internal/config"
	"github.com/funvibe/adaptive/internal/profile"
)

func writeSnapshot(w io.Writer, snap *profile.Snapshot, format string) error {
	switch format {
	case config.FormatYAML:
		data, err := snap.YAML()
		if err != nil {
			return err
		}
		_, err = w.Write(data)
		return err
	case config.FormatJSON:
		data, err := snap.JSON()
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(w, string(data))
		return err
	case config.FormatText:
		return writeText(w, snap)
	default:
		return checkFormat(format)
	}
}

func writeText(w io.Writer, snap *profile.Snapshot) error {
	fmt.Fprintf(w, "%s => %s\n", bold(snap.Program), green(snap.Result))
	fmt.Fprintf(w, "  %s %s  %s\n", faint("run"), faint(snap.RunID.String()), snap.Duration)

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if counters := snap.Nonzero(); len(counters) > 0 {
		fmt.Fprintln(tw, bold("  events"))
		for _, c := range counters {
			fmt.Fprintf(tw, "    %s\t%d\n", c.Name, c.Count)
		}
	}
	if len(snap.Sites) > 0 {
		fmt.Fprintln(tw, bold("  call sites"))
		for _, s := range snap.Sites {
			fmt.Fprintf(tw, "    %s\t%s\tcalls=%d\thits=%d\tmisses=%d\tinlined=%d\n",
				cyan(s.Name), stateColor(s.State), s.Calls, s.Hits, s.Misses, s.InlinedCalls)
		}
	}
	return tw.Flush()
}

func stateColor(state string) string {
	switch state {
	case callsite.Cached.String(), callsite.Inlined.String():
		return green(state)
	case callsite.Megamorphic.String():
		return yellow(state)
	}
	return state
}

func writeHistory(w io.Writer, runs []*profile.Snapshot) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, bold("STARTED\tPROGRAM\tRESULT\tDURATION\tRUN"))
	for _, r := range runs {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n",
			r.StartedAt.Local().Format("2006-01-02 15:04:05"), cyan(r.Program), r.Result, r.Duration, faint(r.RunID.String()))
	}
	return tw.Flush()
}
