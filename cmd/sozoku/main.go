// Package main is the sozoku CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/hyperjump/sozoku/internal/config"
	"github.com/hyperjump/sozoku/pkg/utils"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var version = "dev"

// rootOptions holds the persistent flags.
type rootOptions struct {
	configPath string
	debug      bool
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	opts := &rootOptions{}
	rootCmd := &cobra.Command{
		Use:   "sozoku",
		Short: "Inheritance tax Q&A over the NTA basic circular",
		Long: "sozoku collects the National Tax Agency's inheritance tax basic circular, " +
			"builds a vector index from it and answers questions with retrieved context.",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", config.DefaultPath, "config file path")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	rootCmd.AddCommand(
		createLinksCommand(opts),
		createScrapeCommand(opts),
		createIndexCommand(opts),
		createChatCommand(opts),
		createClassifyCommand(opts),
		createServeCommand(opts),
		createStatusCommand(opts),
		createVersionCommand(),
	)
	return rootCmd
}

// setup loads the config and creates the logger shared by every subcommand.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.LoadOrDefault(o.configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}
	debugMode := cfg.Debug || o.debug
	logger, err := utils.NewLogger(debugMode)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create logger: %w", err)
	}
	logger.Debug("config loaded", zap.String("config_path", o.configPath), zap.Bool("debug", debugMode))
	return cfg, logger, nil
}
