package cmd

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"streamit/internal/media"
	"streamit/internal/player"
	"streamit/internal/ui"
)

const recentOnHome = 10

func browseRun(cmd *cobra.Command, args []string) error {
	if !isInteractive() {
		return errors.New("the interactive browser needs a terminal; use `streamit search <query>` instead")
	}

	start, err := startLocation(args)
	if err != nil {
		return err
	}

	d, err := newDeps()
	if err != nil {
		return err
	}
	defer func() { _ = d.Close() }()

	ctx := cmd.Context()
	renderer := ui.NewRenderer()
	defer renderer.Close()

	ctl, err := d.controller(ctx, start, renderer)
	if err != nil {
		return err
	}

	var (
		recent     []media.HistoryEntry
		loadRecent func(context.Context) ([]media.HistoryEntry, error)
	)
	if d.history != nil {
		loadRecent = func(ctx context.Context) ([]media.HistoryEntry, error) {
			return d.history.Recent(ctx, recentOnHome)
		}
		recent, err = loadRecent(ctx)
		if err != nil {
			logger.Warn("could not load history", "error", err)
		}
	}

	launcher := player.New(cfg.Launcher)
	if !launcher.Available() {
		logger.Warn("launcher not found", "launcher", launcher.Name())
	}

	model := ui.New(ui.Options{
		Engine:   ctl,
		Launcher: launcher,
		Recent:   recent,
		History:  loadRecent,
		Context:  ctx,
		Logger:   logger,
	})

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	renderer.Attach(p.Send)

	logger.Info("browser started", "start", ctl.Location())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("running browser: %w", err)
	}
	logger.Info("browser closed", "location", ctl.Location())
	return nil
}
