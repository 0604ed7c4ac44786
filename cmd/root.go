package cmd

import (
	"github.com/spf13/cobra"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/config"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/logger"
	"github.com/Kiko915/techterview-mainapp-sub001/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "techterview",
	Short: "Technical interview preparation backend",
	Long:  "TechTerview is the API server for guided interview prep: learning tracks, AI mock interviews, progress gating, and verifiable completion certificates.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe(cmd, args)
	},
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(seedCmd)
	rootCmd.AddCommand(llmCmd)
	rootCmd.AddCommand(versionCmd)
}

// bootstrap loads config and opens logging plus storage for the operator
// commands that work directly against the database.
func bootstrap() (config.Config, *logger.Logger, *store.Store, error) {
	cfg, err := config.Load()
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	log, err := logger.New(cfg.Mode)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	st, err := store.Open(cfg.Database, log)
	if err != nil {
		return config.Config{}, nil, nil, err
	}
	return cfg, log, st, nil
}
