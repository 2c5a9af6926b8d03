package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/sandeepkv93/energyd/internal/config"
	"github.com/sandeepkv93/energyd/internal/model"
)

func newPresetCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage quick-log presets",
	}

	list := &cobra.Command{
		Use:   "list",
		Short: "List presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				presets, err := a.journal.Presets(cmd.Context())
				if err != nil {
					return err
				}
				if len(presets) == 0 {
					fmt.Fprintln(cmd.OutOrStdout(), "(no presets)")
				}
				for _, p := range presets {
					fmt.Fprintf(cmd.OutOrStdout(), "%s  %+d %s [%s]\n", p.ID[:min(8, len(p.ID))], p.DefaultEnergy, p.Title, p.DefaultTags)
				}
				return nil
			})
		},
	}

	var tags string
	var energy int
	add := &cobra.Command{
		Use:   "add <title>",
		Short: "Add a preset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				p, err := a.journal.AddPreset(cmd.Context(), strings.Join(args, " "), tags, energy)
				if err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "added preset %s %s\n", p.ID, p.Title)
				return nil
			})
		},
	}
	add.Flags().StringVarP(&tags, "tags", "t", "", "Default comma-separated tags")
	add.Flags().IntVarP(&energy, "energy", "e", 0, "Default energy from -5 to +5")

	del := &cobra.Command{
		Use:   "delete <title|id>",
		Short: "Delete a preset",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ref := strings.Join(args, " ")
				if err := a.journal.DeletePreset(cmd.Context(), ref); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "deleted preset %s\n", ref)
				return nil
			})
		},
	}

	cmd.AddCommand(list, add, del)
	return cmd
}

// settingsView is what "settings show" prints. Keys are masked.
type settingsView struct {
	Settings       model.Settings         `yaml:"settings"`
	Reminders      model.ReminderSettings `yaml:"reminders"`
	ChartWeighting string                 `yaml:"chart_weighting"`
}

func mask(secret string) string {
	if len(secret) <= 4 {
		return strings.Repeat("*", len(secret))
	}
	return strings.Repeat("*", len(secret)-4) + secret[len(secret)-4:]
}

func newSettingsCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settings",
		Short: "Show or change sync, summary and tag settings",
	}

	var reveal bool
	show := &cobra.Command{
		Use:   "show",
		Short: "Print the stored settings as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				v := settingsView{
					Settings:       a.journal.Settings(ctx),
					Reminders:      a.journal.Reminders(ctx),
					ChartWeighting: string(a.journal.Weighting(ctx)),
				}
				if !reveal {
					v.Settings.SheetAPIKey = mask(v.Settings.SheetAPIKey)
					v.Settings.SummaryAPIKey = mask(v.Settings.SummaryAPIKey)
				}
				out, err := yaml.Marshal(v)
				if err != nil {
					return fmt.Errorf("encode settings: %w", err)
				}
				_, err = cmd.OutOrStdout().Write(out)
				return err
			})
		},
	}
	show.Flags().BoolVar(&reveal, "reveal", false, "Print API keys unmasked")

	set := &cobra.Command{
		Use:       "set <key> <value>",
		Short:     "Set one setting",
		Long:      "Keys: sheet-url, sheet-api-key, summary-api-key, add-tag, remove-tag",
		Args:      cobra.ExactArgs(2),
		ValidArgs: []string{"sheet-url", "sheet-api-key", "summary-api-key", "add-tag", "remove-tag"},
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				s := a.journal.Settings(ctx)
				value := strings.TrimSpace(args[1])
				switch strings.ToLower(args[0]) {
				case "sheet-url":
					s.SheetURL = value
				case "sheet-api-key":
					s.SheetAPIKey = value
				case "summary-api-key":
					s.SummaryAPIKey = value
				case "add-tag":
					s = s.AddCommonTag(value)
				case "remove-tag":
					s = s.RemoveCommonTag(value)
				default:
					return fmt.Errorf("unknown setting %q", args[0])
				}
				if err := a.journal.SaveSettings(ctx, s); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "updated %s\n", args[0])
				return nil
			})
		},
	}

	imp := &cobra.Command{
		Use:   "import <file.yaml>",
		Short: "Import settings, reminders and presets from a YAML seed file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			seed, err := config.LoadSeed(args[0])
			if err != nil {
				return err
			}
			return withApp(cmd, opts, func(a *app) error {
				if err := seed.Apply(cmd.Context(), a.journal); err != nil {
					return err
				}
				a.log.Info().Str("file", args[0]).Int("presets", len(seed.Presets)).Msg("seed imported")
				fmt.Fprintf(cmd.OutOrStdout(), "imported %s\n", args[0])
				return nil
			})
		},
	}

	cmd.AddCommand(show, set, imp)
	return cmd
}

func newRemindersCmd(opts *rootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "Configure reminder notifications",
	}

	var (
		daily      bool
		dailyTime  string
		smart      bool
		smartHours int
	)
	set := &cobra.Command{
		Use:   "set",
		Short: "Change reminder settings; unset flags keep their stored value",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, opts, func(a *app) error {
				ctx := cmd.Context()
				r := a.journal.Reminders(ctx)
				flags := cmd.Flags()
				if flags.Changed("daily") {
					r.DailyEnabled = daily
				}
				if flags.Changed("daily-time") {
					r.DailyTime = dailyTime
				}
				if flags.Changed("smart") {
					r.SmartEnabled = smart
				}
				if flags.Changed("smart-hours") {
					r.SmartIntervalHours = smartHours
				}
				if err := a.journal.SaveReminders(ctx, r); err != nil {
					return err
				}
				fmt.Fprintf(cmd.OutOrStdout(), "daily=%t at %s, smart=%t every %dh\n",
					r.DailyEnabled, r.DailyTime, r.SmartEnabled, r.SmartIntervalHours)
				return nil
			})
		},
	}
	set.Flags().BoolVar(&daily, "daily", false, "Enable the daily reminder")
	set.Flags().StringVar(&dailyTime, "daily-time", "", "Daily reminder time HH:MM")
	set.Flags().BoolVar(&smart, "smart", false, "Enable the inactivity reminder")
	set.Flags().IntVar(&smartHours, "smart-hours", 0, "Hours without a log before the inactivity reminder")

	cmd.AddCommand(set)
	return cmd
}
