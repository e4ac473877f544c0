// Package cli wires the application's subcommands: the web server plus the
// operational helpers for creating an admin account and seeding articles.
package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/config"
	"github.com/jshaha/cognitive-load-annotation/internal/database"
	"github.com/jshaha/cognitive-load-annotation/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "cogload",
	Short: "Cognitive-load annotation platform",
	Long:  "Collects cognitive-load ratings and reading-behavior telemetry on news articles.",
	RunE: func(cmd *cobra.Command, args []string) error {
		// Running without a subcommand starts the server.
		return runServe()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(createAdminCmd)
	rootCmd.AddCommand(seedArticlesCmd)
}

// Execute runs the selected subcommand.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap brings up the logger, configuration and database that every
// subcommand needs.
func bootstrap() (*zap.Logger, error) {
	// A bootstrap logger is needed before the config is loaded; it is
	// rebuilt with the configured rotation settings right after.
	log, err := logging.Init(logging.Options{Directory: "logs", MaxSize: 10, MaxBackups: 3, MaxAge: 7, Compress: true})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := config.Init(".", log); err != nil {
		return nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	logConf := config.Conf.Logging
	log, err = logging.Init(logging.Options{
		Directory:  logConf.Directory,
		MaxSize:    logConf.MaxSize,
		MaxBackups: logConf.MaxBackups,
		MaxAge:     logConf.MaxAge,
		Compress:   logConf.Compress,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize logger: %w", err)
	}

	if err := database.Init(log); err != nil {
		return nil, err
	}
	return log, nil
}
