// ABOUTME: Cobra command for interactive tastelog configuration.
// ABOUTME: Launches a bubbletea TUI wizard to pick and check the store file.
package main

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/config"
	"github.com/2389-research/tastelog/internal/tui"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Configure the review store",
	Long:  "Interactive wizard to choose the store file, rating strictness and log level.",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

// setupConfig loads the config file alone, so environment overrides are
// not written back when the wizard saves.
func setupConfig() (*config.Config, string, error) {
	path, err := config.GetConfigPath()
	if err != nil {
		return nil, "", err
	}
	cfg, err := config.LoadFile(path)
	if err != nil {
		return nil, "", fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, path, nil
}

func runSetup(cmd *cobra.Command, args []string) error {
	cfg, configPath, err := setupConfig()
	if err != nil {
		return err
	}

	p := tea.NewProgram(tui.NewSetupModel(cfg))
	result, err := p.Run()
	if err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}

	final := result.(tui.SetupModel)
	if !final.ShouldSave() {
		fmt.Println("Setup cancelled.")
		return nil
	}

	final.Apply(cfg)
	if err := cfg.SaveTo(configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}

	fmt.Printf("Config saved to %s\n", configPath)
	return nil
}
