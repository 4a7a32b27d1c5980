// ABOUTME: Root Cobra command and global flags for the tastelog CLI.
// ABOUTME: Sets up lifecycle hooks for config loading, logging and store initialization.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/2389-research/tastelog/internal/config"
	"github.com/2389-research/tastelog/internal/logging"
	"github.com/2389-research/tastelog/internal/storage"
)

var globalConfig *config.Config
var globalStore *storage.JSONStore

// Flags
var (
	storePathFlag string
	strictFlag    bool
	logLevelFlag  string
)

// noStoreCommands run without opening the review store.
var noStoreCommands = map[string]bool{
	"help":       true,
	"version":    true,
	"setup":      true,
	"config":     true,
	"show":       true,
	"path":       true,
	"set":        true,
	"completion": true,
}

var rootCmd = &cobra.Command{
	Use:   "tastelog",
	Short: "Personal restaurant review tracker",
	Long: `
████████╗ █████╗ ███████╗████████╗███████╗██╗      ██████╗  ██████╗
╚══██╔══╝██╔══██╗██╔════╝╚══██╔══╝██╔════╝██║     ██╔═══██╗██╔════╝
   ██║   ███████║███████╗   ██║   █████╗  ██║     ██║   ██║██║  ███╗
   ██║   ██╔══██║╚════██║   ██║   ██╔══╝  ██║     ██║   ██║██║   ██║
   ██║   ██║  ██║███████║   ██║   ███████╗███████╗╚██████╔╝╚██████╔╝
   ╚═╝   ╚═╝  ╚═╝╚══════╝   ╚═╝   ╚══════╝╚══════╝ ╚═════╝  ╚═════╝

Record what you ate, where, and how good it was.
Reviews live in a single JSON file you own.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load()
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}
		if cmd.Flags().Changed("store") {
			cfg.Store.Path = storePathFlag
		}
		if cmd.Flags().Changed("strict-ratings") {
			cfg.Store.StrictRatings = strictFlag
		}
		if cmd.Flags().Changed("log-level") {
			cfg.Log.Level = logLevelFlag
		}
		globalConfig = cfg

		logging.Init(logging.Config{
			Level:  cfg.Log.Level,
			Format: cfg.Log.Format,
			Output: os.Stderr,
		})

		if noStoreCommands[cmd.Name()] {
			return nil
		}

		path, err := cfg.GetStorePath()
		if err != nil {
			return fmt.Errorf("failed to resolve store path: %w", err)
		}
		store, err := storage.NewJSONStore(path,
			storage.WithStrictRatings(cfg.Store.StrictRatings),
			storage.WithLogger(logging.Component("store")),
		)
		if err != nil {
			return fmt.Errorf("failed to open review store: %w", err)
		}
		globalStore = store
		logging.Debug().
			Str("path", store.Path()).
			Bool("strict_ratings", store.StrictRatings()).
			Msg("review store opened")

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if globalStore != nil {
			_ = globalStore.Close()
			globalStore = nil
		}
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePathFlag, "store", "", "Review store file (default from config, then app.json)")
	rootCmd.PersistentFlags().BoolVar(&strictFlag, "strict-ratings", false, "Reject ratings outside 1-5")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: trace, debug, info, warn, error")
}
