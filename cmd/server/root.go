package main

import (
	"fmt"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/config"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/logging"
	"github.com/spf13/cobra"
)

var (
	cfgFile   string
	appConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "server",
	Short: "Mood journal backend",
	Long:  "server runs the mood journal HTTP API and its operator commands.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("loading config: %w", err)
		}
		appConfig = cfg

		// Structured logging (JSON to stdout)
		logging.Setup(cfg.AppEnv)
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(appConfig)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file path")

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	rootCmd.AddCommand(serveCmd, migrateCmd, insightsCmd)
}
