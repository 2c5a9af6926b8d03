package main

import (
	"errors"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/sandeepkv93/energyd/internal/analytics"
	"github.com/sandeepkv93/energyd/internal/commands"
	"github.com/sandeepkv93/energyd/internal/journal"
	"github.com/sandeepkv93/energyd/internal/model"
	"github.com/sandeepkv93/energyd/internal/views"
)

var errAmbiguousID = errors.New("id prefix matches more than one activity")

// dayFlag resolves --date to local midnight; empty means today.
func dayFlag(raw string, now time.Time) (time.Time, error) {
	if strings.TrimSpace(raw) == "" {
		return analytics.StartOfDay(now), nil
	}
	d, err := time.ParseInLocation(model.DateLayout, raw, now.Location())
	if err != nil {
		return time.Time{}, fmt.Errorf("--date must be %s: %w", model.DateLayout, err)
	}
	return d, nil
}

// findActivity accepts a full id or a unique prefix of one.
func findActivity(j *journal.Journal, ref string) (model.Activity, error) {
	ref = strings.TrimSpace(ref)
	if a, ok := j.Get(ref); ok {
		return a, nil
	}
	var found []model.Activity
	for _, a := range j.Snapshot() {
		if ref != "" && strings.HasPrefix(a.ID, ref) {
			found = append(found, a)
		}
	}
	switch len(found) {
	case 0:
		return model.Activity{}, fmt.Errorf("%w: %s", journal.ErrActivityNotFound, ref)
	case 1:
		return found[0], nil
	default:
		return model.Activity{}, fmt.Errorf("%w: %s", errAmbiguousID, ref)
	}
}

func newAddCmd(opts *rootOptions) *cobra.Command {
	var (
		energy   int
		tags     string
		extra    []string
		from, to string
		date     string
		flow     bool
		notes    string
		preset   string
	)
	cmd := &cobra.Command{
		Use:   "add [title]",
		Short: "Log a finished activity",
		Example: `  energyd add "Morning run" --energy 4 --tags health --from 07:00 --to 07:45
  energyd add --preset "Deep Work" --from 09:00 --to 11:00`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				now := a.journal.Now().Local()
				day, err := dayFlag(date, now)
				if err != nil {
					return err
				}
				start, end, err := commands.ResolveRange(day, now, from, to)
				if err != nil {
					return err
				}

				var draft model.Draft = model.NewBlank{}
				if preset != "" {
					presets, err := a.journal.Presets(ctx)
					if err != nil {
						return err
					}
					p, ok := model.FindPreset(presets, preset)
					if !ok {
						return fmt.Errorf("%w: %s", journal.ErrPresetNotFound, preset)
					}
					draft = model.NewFromPreset{Preset: p}
				}
				fields := model.Seed(draft)
				if title := strings.TrimSpace(strings.Join(args, " ")); title != "" {
					fields.Title = title
				}
				if cmd.Flags().Changed("energy") {
					fields.Energy = energy
				}
				if cmd.Flags().Changed("tags") {
					fields.Tags = tags
				}
				for _, tag := range extra {
					fields.Tags = model.AddTag(fields.Tags, tag)
				}
				fields.StartTime = start
				fields.EndTime = end
				fields.StarFlow = flow
				fields.Notes = notes

				saved, err := a.journal.Save(ctx, draft, fields)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "logged %s %s\n", saved.ID, formatActivity(saved))
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&energy, "energy", "e", 0, "Energy from -5 (draining) to +5 (energizing)")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Comma-separated tags")
	cmd.Flags().StringArrayVar(&extra, "tag", nil, "Add a single tag (repeatable)")
	cmd.Flags().StringVar(&from, "from", "", "Start time HH:MM")
	cmd.Flags().StringVar(&to, "to", "", "End time HH:MM")
	cmd.Flags().StringVar(&date, "date", "", "Day of the activity (YYYY-MM-DD, default today)")
	cmd.Flags().BoolVar(&flow, "flow", false, "Mark as a flow state")
	cmd.Flags().StringVar(&notes, "notes", "", "Free-form notes")
	cmd.Flags().StringVar(&preset, "preset", "", "Start from a preset (title or id)")
	return cmd
}

func newDayCmd(opts *rootOptions) *cobra.Command {
	var date string
	cmd := &cobra.Command{
		Use:   "day",
		Short: "List the activities of one day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := dayFlag(date, a.journal.Now().Local())
				if err != nil {
					return err
				}
				items := analytics.FilterDay(day, a.journal.Snapshot())
				sort.SliceStable(items, func(i, j int) bool { return items[i].StartTime.Before(items[j].StartTime) })
				printDay(cmd.OutOrStdout(), day, items)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Day to show (YYYY-MM-DD, default today)")
	return cmd
}

func newWeekCmd(opts *rootOptions) *cobra.Command {
	var date, weighting string
	cmd := &cobra.Command{
		Use:   "week",
		Short: "Show the weekly energy chart",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := dayFlag(date, a.journal.Now().Local())
				if err != nil {
					return err
				}
				w := a.journal.Weighting(cmd.Context())
				if weighting != "" {
					if w, err = analytics.ParseWeighting(weighting); err != nil {
						return err
					}
				}
				buckets := analytics.BuildChart(analytics.FilterWeek(day, a.journal.Snapshot()), w, day.Location())
				data := views.ChartPanelData{
					WeekOf:    analytics.StartOfWeek(day).Format(model.DateLayout),
					Weighting: string(w),
				}
				for _, b := range buckets {
					var titles []string
					for _, f := range b.FlowActivities {
						titles = append(titles, f.Title)
					}
					data.Days = append(data.Days, views.ChartDayData{Day: b.Day, Positive: b.Positive, Negative: b.Negative, FlowTitles: titles})
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderChartPanel(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Any day of the week to show (default today)")
	cmd.Flags().StringVar(&weighting, "weighting", "", "duration or average (default: saved preference)")
	return cmd
}

func newAnalyticsCmd(opts *rootOptions) *cobra.Command {
	var date string
	var withSummary bool
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Show the weekly rankings, tag totals and optional narrative summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				day, err := dayFlag(date, a.journal.Now().Local())
				if err != nil {
					return err
				}
				acts := analytics.FilterWeek(day, a.journal.Snapshot())
				report := analytics.Summarize(acts)
				data := views.AnalyticsPanelData{
					WeekOf:      analytics.StartOfWeek(day).Format(model.DateLayout),
					Empty:       report.Empty(),
					Energizing:  rankedRows(report.Energizing),
					Draining:    rankedRows(report.Draining),
					CareerFocus: rankedRows(report.CareerFocus),
				}
				for _, tt := range report.TimePerTag {
					data.TimePerTag = append(data.TimePerTag, views.TagTotalData{Tag: tt.Tag, Hours: tt.Hours()})
				}
				if withSummary && !report.Empty() {
					data.Summary = newServices(a).summarizer.Summarize(cmd.Context(),
						analytics.Titles(report.Energizing), analytics.Titles(report.Draining))
				}
				fmt.Fprintln(cmd.OutOrStdout(), views.RenderAnalyticsPanel(data))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "Any day of the week to analyse (default today)")
	cmd.Flags().BoolVar(&withSummary, "summary", false, "Ask the summary service for a narrative of the week")
	return cmd
}

func newEditCmd(opts *rootOptions) *cobra.Command {
	var (
		title    string
		energy   int
		tags     string
		from, to string
		notes    string
	)
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Change fields of a logged activity; unset flags keep their value",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				target, err := findActivity(a.journal, args[0])
				if err != nil {
					return err
				}
				draft := model.EditingExisting{Activity: target}
				fields := model.Seed(draft)
				flags := cmd.Flags()
				if flags.Changed("title") {
					fields.Title = title
				}
				if flags.Changed("energy") {
					fields.Energy = energy
				}
				if flags.Changed("tags") {
					fields.Tags = tags
				}
				if flags.Changed("notes") {
					fields.Notes = notes
				}
				if from != "" || to != "" {
					if fields.StartTime, fields.EndTime, err = commands.AdjustRange(target.StartTime, target.EndTime, time.Local, from, to); err != nil {
						return err
					}
				}
				saved, err := a.journal.Save(cmd.Context(), draft, fields)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s %s\n", saved.ID, formatActivity(saved))
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().IntVarP(&energy, "energy", "e", 0, "New energy from -5 to +5")
	cmd.Flags().StringVarP(&tags, "tags", "t", "", "Replace the comma-separated tags")
	cmd.Flags().StringVar(&from, "from", "", "New start time HH:MM on the same day")
	cmd.Flags().StringVar(&to, "to", "", "New end time HH:MM on the same day")
	cmd.Flags().StringVar(&notes, "notes", "", "Replace the notes")
	return cmd
}

func newFlowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "flow <id>",
		Short: "Toggle the flow-state mark of an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				target, err := findActivity(a.journal, args[0])
				if err != nil {
					return err
				}
				updated, err := a.journal.ToggleFlow(cmd.Context(), target.ID)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "flow=%t %s\n", updated.StarFlow, updated.Title)
				return nil
			})
		},
	}
}

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Permanently delete an activity",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				target, err := findActivity(a.journal, args[0])
				if err != nil {
					return err
				}
				if err := a.journal.Delete(cmd.Context(), target.ID); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted %s %s\n", target.ID, target.Title)
				return nil
			})
		},
	}
}

func printDay(w io.Writer, day time.Time, items []model.Activity) {
	fmt.Fprintf(w, "%s\n", day.Format("Mon "+model.DateLayout))
	if len(items) == 0 {
		fmt.Fprintln(w, "  (no activities logged)")
		return
	}
	for _, a := range items {
		fmt.Fprintf(w, "  %s  %s\n", a.ID[:min(8, len(a.ID))], formatActivity(a))
	}
}

func formatActivity(a model.Activity) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s-%s %+d %s (%dm)",
		a.StartTime.Local().Format("15:04"), a.EndTime.Local().Format("15:04"), a.Energy, a.Title, a.DurationMinutes)
	if a.Tags != "" {
		fmt.Fprintf(&b, " [%s]", a.Tags)
	}
	if a.StarFlow {
		b.WriteString(" flow")
	}
	if !a.Synced {
		b.WriteString(" unsynced")
	}
	return b.String()
}

func rankedRows(items []model.Activity) []views.RankedItemData {
	out := make([]views.RankedItemData, 0, len(items))
	for _, a := range items {
		out = append(out, views.RankedItemData{Title: a.Title, Energy: a.Energy, Impact: analytics.Impact(a), Flow: a.StarFlow})
	}
	return out
}
