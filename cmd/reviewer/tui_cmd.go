package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/fentz26/reviewer/internal/review"
	"github.com/fentz26/reviewer/internal/scoring"
	"github.com/fentz26/reviewer/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive review",
	RunE:  runTUI,
}

func runTUI(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("the review needs a terminal; use 'reviewer task list' for plain output")
	}

	cfg, s, err := openStore()
	if err != nil {
		return err
	}
	defer s.Close()

	logs, err := SetupTUILogger(cfg.Log.Path, logLevel, cfg.Log.Rotation)
	if err != nil {
		return fmt.Errorf("setup log: %w", err)
	}
	defer logs.Close()

	logs.Logger.Info("session start", "db", cfg.Database.Path, "version", version)

	ctx := cmd.Context()
	ctrl := review.New(s, scoring.New(cfg.Scoring), logs.Logger,
		review.WithCriteria(cfg.InitialCriteria()))
	app := tui.New(ctx, ctrl,
		tui.WithDetail(cfg.UI.ShowDetail),
		tui.WithLogger(logs.Logger))

	if err := app.Run(); err != nil {
		logs.Logger.Error("tui exited", "error", err)
		return fmt.Errorf("TUI error: %w", err)
	}
	logs.Logger.Info("session end")
	return nil
}
