package services

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/jshaha/cognitive-load-annotation/internal/models"
)

// EmailService is a placeholder for a real email sending service.
type EmailService struct {
	log *zap.Logger
}

func NewEmailService(log *zap.Logger) *EmailService {
	return &EmailService{log: log}
}

// SendReminderEmail simulates sending an annotation reminder.
func (s *EmailService) SendReminderEmail(user models.User) {
	s.log.Info("Sending reminder email",
		zap.String("to", user.Email),
		zap.String("username", user.Username),
	)
	// In a real deployment an SMTP client would send a templated HTML
	// email here.
	fmt.Printf("--- SIMULATING EMAIL ---\nTo: %s\nSubject: Articles are waiting for your rating\nHi %s,\nThere are still articles that need your cognitive-load ratings today.\n\n", user.Email, user.Username)
}
