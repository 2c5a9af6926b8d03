package main

import (
	"context"
	"fmt"
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/sandeepkv93/energyd/internal/syncer"
	"github.com/sandeepkv93/energyd/internal/update"
)

// runTUI logs to a file because stderr belongs to the terminal UI.
func runTUI(cmd *cobra.Command, opts *rootOptions) error {
	cfg, err := loadConfig(opts)
	if err != nil {
		return err
	}
	logFile, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	defer logFile.Close()
	log := zerolog.New(logFile).Level(cfg.Level()).With().Timestamp().Logger()

	a, err := openApp(cmd.Context(), cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	svc := newServices(a)
	engine, err := startEngine(a, svc, roleTUI)
	if err != nil {
		return err
	}
	defer engine.Stop()

	model := update.NewModel(update.Deps{
		Journal:    a.journal,
		Summarizer: svc.summarizer,
		Sync: func(ctx context.Context) syncer.Result {
			return svc.worker.ProcessOnce(ctx)
		},
		Ticks:    engine.C(),
		Location: time.Local,
	})
	log.Info().Str("db", cfg.DBPath).Msg("tui started")
	if _, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(cmd.Context())).Run(); err != nil {
		return fmt.Errorf("tui: %w", err)
	}
	return nil
}
