package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/energyd/internal/config"
	"github.com/sandeepkv93/energyd/internal/journal"
	"github.com/sandeepkv93/energyd/internal/storage"
)

func main() {
	cmd := NewRootCmd()
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "energyd: %v\n", err)
		os.Exit(1)
	}
}

type rootOptions struct {
	dbPath string
	debug  bool
}

// NewRootCmd builds the CLI. Running it without a subcommand opens the TUI.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}
	root := &cobra.Command{
		Use:           "energyd",
		Short:         "Log activities with an energy score and see what drains or energizes you",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd, opts)
		},
	}
	root.PersistentFlags().StringVar(&opts.dbPath, "db", "", "SQLite database path (overrides ENERGYD_DB_PATH)")
	root.PersistentFlags().BoolVarP(&opts.debug, "debug", "d", false, "Enable debug logging")

	root.AddCommand(newAddCmd(opts))
	root.AddCommand(newDayCmd(opts))
	root.AddCommand(newWeekCmd(opts))
	root.AddCommand(newAnalyticsCmd(opts))
	root.AddCommand(newEditCmd(opts))
	root.AddCommand(newFlowCmd(opts))
	root.AddCommand(newDeleteCmd(opts))
	root.AddCommand(newSyncCmd(opts))
	root.AddCommand(newDaemonCmd(opts))
	root.AddCommand(newPresetCmd(opts))
	root.AddCommand(newSettingsCmd(opts))
	root.AddCommand(newRemindersCmd(opts))
	return root
}

// app is everything a command needs once the database is open.
type app struct {
	cfg     config.Config
	log     zerolog.Logger
	repo    *storage.SQLiteRepository
	journal *journal.Journal
}

func (a *app) Close() error {
	return a.repo.Close()
}

// consoleLogger is used by every command except the TUI, which logs to a file.
func consoleLogger(w io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func loadConfig(opts *rootOptions) (config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, err
	}
	if opts.dbPath != "" {
		cfg.DBPath = opts.dbPath
	}
	if opts.debug {
		cfg.LogLevel = zerolog.DebugLevel.String()
	}
	return cfg, nil
}

func openApp(ctx context.Context, cfg config.Config, log zerolog.Logger) (*app, error) {
	repo, err := storage.OpenSQLite(cfg.DBPath)
	if err != nil {
		return nil, err
	}
	j, err := journal.Open(ctx, repo, log)
	if err != nil {
		_ = repo.Close()
		return nil, err
	}
	log.Debug().Str("db", cfg.DBPath).Int("activities", len(j.Snapshot())).Msg("journal opened")
	return &app{cfg: cfg, log: log, repo: repo, journal: j}, nil
}

// withApp opens the store for a CLI command and closes it afterwards.
func withApp(cmd *cobra.Command, opts *rootOptions, fn func(a *app) error) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	log := consoleLogger(cmd.ErrOrStderr(), cfg.Level())
	a, err := openApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := a.Close(); cerr != nil {
			log.Warn().Err(cerr).Msg("close database")
		}
	}()
	return fn(a)
}
