package services

import (
	"context"
	"time"

	"github.com/go-co-op/gocron"
	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
	"github.com/jshaha/cognitive-load-annotation/internal/repository"
)

// Scheduler runs the daily reminder job: participants who have not submitted
// an annotation today get a nudge email.
type Scheduler struct {
	log          *zap.Logger
	emailService *EmailService
	cron         *gocron.Scheduler
}

func NewScheduler(log *zap.Logger, emailService *EmailService) *Scheduler {
	return &Scheduler{
		log:          log,
		emailService: emailService,
	}
}

// Start schedules the reminder at the given UTC wall-clock time ("HH:MM")
// and runs the scheduler in the background.
func (s *Scheduler) Start(at string) error {
	s.cron = gocron.NewScheduler(time.UTC)
	if _, err := s.cron.Every(1).Day().At(at).Do(s.runReminderCheck); err != nil {
		return err
	}
	s.cron.StartAsync()
	s.log.Info("Reminder scheduler started", zap.String("at", at))
	return nil
}

// Stop halts the scheduler. Safe to call when Start never ran.
func (s *Scheduler) Stop() {
	if s.cron != nil {
		s.cron.Stop()
	}
}

func (s *Scheduler) runReminderCheck() {
	ctx := context.Background()
	midnight := time.Now().UTC().Truncate(24 * time.Hour)

	users, err := repository.Participants(ctx)
	if err != nil {
		s.log.Error("Failed to load participants for reminder", zap.Error(err))
		return
	}

	for _, user := range users {
		done, err := repository.HasAnnotatedSince(ctx, user.ID, midnight)
		if err != nil {
			s.log.Error("Failed to check annotation activity",
				zap.Uint("userID", user.ID),
				zap.Error(err),
			)
			continue
		}
		if !done {
			go func(u models.User) {
				s.emailService.SendReminderEmail(u)
			}(user)
		}
	}
}
