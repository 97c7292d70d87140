package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/coolbeans/chronocore/pkg/civil"
	"github.com/coolbeans/chronocore/pkg/zone"
)

func zonesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zones",
		Short: "List the available zone ids",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			prefix, _ := cmd.Flags().GetString("prefix")
			out := cmd.OutOrStdout()
			for _, id := range a.registry.AvailableZoneIDs() {
				if strings.HasPrefix(id, prefix) {
					fmt.Fprintln(out, id)
				}
			}
			return nil
		},
	}
	cmd.Flags().String("prefix", "", "Only list ids starting with this prefix")
	return cmd
}

func offsetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "offset <zone> <instant|local-date-time>",
		Short: "Show the offset of a zone at an instant or local date-time",
		Long: `Show the offset of a zone at an instant or local date-time.

An instant is a UTC date-time ending in Z, or seconds since the epoch. A
local date-time has no suffix; for it the valid offsets are reported,
including the transition when it falls in a gap or an overlap.

Examples:
  chrono offset America/New_York 2024-03-10T07:00Z
  chrono offset America/New_York 2024-03-10T02:30
  chrono offset Europe/London 1700000000`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			rules, err := a.registry.Rules(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()

			if instant, err := civil.ParseInstant(args[1]); err == nil {
				fmt.Fprintf(out, "Instant:          %s\n", instant)
				fmt.Fprintf(out, "Offset:           %s\n", rules.Offset(instant))
				fmt.Fprintf(out, "Standard offset:  %s\n", rules.StandardOffset(instant))
				fmt.Fprintf(out, "Daylight savings: %s\n", rules.DaylightSavings(instant))
				return nil
			}

			ldt, err := civil.ParseDateTime(args[1])
			if err != nil {
				return fmt.Errorf("%q is neither an instant nor a local date-time", args[1])
			}
			info := rules.OffsetInfo(ldt)
			fmt.Fprintf(out, "Local date-time: %s\n", ldt)
			switch {
			case info.IsGap():
				fmt.Fprintf(out, "In gap:          %s\n", info)
			case info.IsOverlap():
				fmt.Fprintf(out, "In overlap:      %s\n", info)
			}
			fmt.Fprintf(out, "Valid offsets:   %s\n", offsetList(info.ValidOffsets()))
			return nil
		},
	}
}

// transitionJSON is the --format json shape of a transition.
type transitionJSON struct {
	Instant        string `json:"instant"`
	EpochSecond    int64  `json:"epoch_second"`
	Kind           string `json:"kind"`
	DateTimeBefore string `json:"date_time_before"`
	DateTimeAfter  string `json:"date_time_after"`
	OffsetBefore   string `json:"offset_before"`
	OffsetAfter    string `json:"offset_after"`
}

func transitionsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "transitions <zone>",
		Short: "List the transitions of a zone around an instant",
		Long: `List transitions of a zone, walking forward (or backward with
--previous) from an instant. Transitions past the zone's history are
projected from its recurring rules.

Examples:
  chrono transitions Europe/Paris --from 2024-01-01T00:00Z --count 4
  chrono transitions America/New_York --previous --count 2 --format json`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			fromStr, _ := cmd.Flags().GetString("from")
			count, _ := cmd.Flags().GetInt("count")
			previous, _ := cmd.Flags().GetBool("previous")
			format, _ := cmd.Flags().GetString("format")

			rules, err := a.registry.Rules(args[0])
			if err != nil {
				return err
			}
			from := civil.InstantFromTime(time.Now())
			if fromStr != "" {
				if from, err = civil.ParseInstant(fromStr); err != nil {
					return err
				}
			}
			if count < 1 {
				return fmt.Errorf("--count must be positive")
			}

			var found []zone.ZoneOffsetTransition
			cursor := from
			for len(found) < count {
				var t zone.ZoneOffsetTransition
				var ok bool
				if previous {
					t, ok = rules.PreviousTransition(cursor)
				} else {
					t, ok = rules.NextTransition(cursor)
				}
				if !ok {
					break
				}
				found = append(found, t)
				cursor = t.Instant()
			}

			out := cmd.OutOrStdout()
			switch format {
			case "json":
				items := make([]transitionJSON, 0, len(found))
				for _, t := range found {
					items = append(items, transitionJSON{
						Instant:        t.Instant().String(),
						EpochSecond:    t.EpochSecond(),
						Kind:           transitionKind(t),
						DateTimeBefore: t.DateTimeBefore().String(),
						DateTimeAfter:  t.DateTimeAfter().String(),
						OffsetBefore:   t.OffsetBefore().ID(),
						OffsetAfter:    t.OffsetAfter().ID(),
					})
				}
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(items)
			case "text":
				if len(found) == 0 {
					fmt.Fprintf(out, "%s has no transitions in that direction\n", args[0])
					return nil
				}
				for _, t := range found {
					fmt.Fprintf(out, "%-22s %-8s %s -> %s\n", t.Instant(), transitionKind(t), t.DateTimeBefore(), t.DateTimeAfter())
				}
				return nil
			}
			return fmt.Errorf("unknown format %q (text, json)", format)
		},
	}
	cmd.Flags().String("from", "", "Start instant (UTC date-time ending in Z, or epoch seconds); default now")
	cmd.Flags().IntP("count", "n", 5, "Number of transitions to list")
	cmd.Flags().Bool("previous", false, "Walk backward instead of forward")
	cmd.Flags().StringP("format", "f", "text", "Output format (text, json)")
	return cmd
}

func resolveCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resolve <zone> <local-date-time>",
		Short: "Resolve a local date-time to an instant",
		Long: `Resolve a local date-time in a zone to an offset and instant.

Policies for local date-times in a gap or an overlap:
  strict   fail
  earlier  in a gap, shift forward by the gap length; in an overlap, take the earlier offset
  later    in a gap, shift forward by the gap length; in an overlap, take the later offset

Examples:
  chrono resolve America/New_York 2024-11-03T01:30 --policy later
  chrono resolve Europe/Paris 2024-03-31T02:30 --policy strict`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			policyName := a.cfg.Policy
			if cmd.Flags().Changed("policy") {
				policyName, _ = cmd.Flags().GetString("policy")
			}
			policy, err := zone.ParsePolicy(policyName)
			if err != nil {
				return err
			}
			rules, err := a.registry.Rules(args[0])
			if err != nil {
				return err
			}
			ldt, err := civil.ParseDateTime(args[1])
			if err != nil {
				return err
			}

			resolved, err := zone.Resolve(rules, ldt, policy)
			if err != nil {
				return err
			}
			instant, err := resolved.Instant()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Resolved: %s\n", resolved)
			fmt.Fprintf(out, "Instant:  %s\n", instant)
			return nil
		},
	}
	cmd.Flags().StringP("policy", "p", "", "Resolution policy (strict, earlier, later); default from config")
	return cmd
}

func watchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Watch the data directories and reload zone files as they change",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(a.dirProviders) == 0 {
				return fmt.Errorf("no data directories to watch, use --data-dir or data_dirs in the config")
			}
			ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
			defer stop()

			for _, p := range a.dirProviders {
				if err := p.Watch(ctx); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Watching %d director%s, press Ctrl-C to stop\n",
				len(a.dirProviders), plural(len(a.dirProviders), "y", "ies"))
			<-ctx.Done()
			return nil
		},
	}
}

func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func transitionKind(t zone.ZoneOffsetTransition) string {
	if t.IsGap() {
		return "gap"
	}
	return "overlap"
}

func offsetList(offsets []zone.ZoneOffset) string {
	if len(offsets) == 0 {
		return "none"
	}
	ids := make([]string, len(offsets))
	for i, o := range offsets {
		ids[i] = o.ID()
	}
	return strings.Join(ids, ", ")
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
