package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/config"
	"github.com/jshaha/cognitive-load-annotation/internal/models"
	"github.com/jshaha/cognitive-load-annotation/internal/router"
	"github.com/jshaha/cognitive-load-annotation/internal/services"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the annotation web server",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServe()
	},
}

func runServe() error {
	log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	ratings, err := models.LoadRatingConfig(config.Conf.Ratings.Path)
	if err != nil {
		log.Fatal("Failed to load rating scales", zap.Error(err))
	}

	if config.Conf.Reminder.Enabled {
		scheduler := services.NewScheduler(log, services.NewEmailService(log))
		if err := scheduler.Start(config.Conf.Reminder.At); err != nil {
			log.Fatal("Failed to start reminder scheduler", zap.Error(err))
		}
		defer scheduler.Stop()
	}

	r := router.Setup(log, ratings)

	port := ":" + config.Conf.Server.Port
	log.Info("Server listening on http://localhost" + port)
	if err := r.Run(port); err != nil {
		return fmt.Errorf("server stopped: %w", err)
	}
	return nil
}
