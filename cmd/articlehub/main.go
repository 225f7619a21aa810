package main

import (
	"fmt"
	"os"

	"articlehub/internal/client"
	"articlehub/internal/config"
	"articlehub/internal/logger"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	cfg *config.Config
	log *zap.Logger

	apiURL  string
	noColor bool
)

var rootCmd = &cobra.Command{
	Use:           "articlehub",
	Short:         "articlehub - list and edit articles backed by a mock store or Airtable",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if cfg, err = config.Load(); err != nil {
			return err
		}
		if log, err = logger.New(cfg.Env, cfg.LogLevel); err != nil {
			return err
		}
		if apiURL == "" {
			apiURL = cfg.APIBaseURL
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if log != nil {
			_ = log.Sync()
		}
	},
}

func newClient() *client.Client {
	return client.New(client.Config{BaseURL: apiURL}, log)
}

func main() {
	rootCmd.PersistentFlags().StringVar(&apiURL, "api", "", "Base URL of the articlehub server (defaults to API_BASE_URL)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable coloured output")

	rootCmd.AddCommand(serverCmd)
	rootCmd.AddCommand(listCmd, addCmd, updateCmd, deleteCmd)

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
