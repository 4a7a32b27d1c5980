// ABOUTME: Cobra command that launches the interactive review tracker.
// ABOUTME: Watches the store file so the view screen follows edits from other processes.
package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/logging"
	"github.com/2389-research/tastelog/internal/storage"
	"github.com/2389-research/tastelog/internal/tui"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Open the interactive review tracker",
	Long:  "Full-screen menu to add, view, search, edit and delete reviews.",
	RunE:  runTUI,
}

var noWatch bool

func init() {
	rootCmd.AddCommand(tuiCmd)
	tuiCmd.Flags().BoolVar(&noWatch, "no-watch", false, "Do not reload when the store file changes on disk")
}

func runTUI(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithCancel(cmd.Context())
	defer cancel()

	var opts []tui.AppOption
	if !noWatch {
		w, err := storage.NewWatcher(globalStore.Path(), storage.DefaultDebounce)
		if err != nil {
			logging.Warn().Err(err).Msg("store watch unavailable, view will not live-reload")
		} else {
			defer func() { _ = w.Close() }()
			w.Start(ctx)
			opts = append(opts, tui.WithChanges(w.Changes()))
		}
	}

	p := tea.NewProgram(tui.NewApp(globalStore, opts...), tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil {
		logging.Error().Err(err).Msg("tui exited with error")
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
