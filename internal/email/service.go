package emails

import (
	"context"
	"errors"

	"go-busline/internal/config"

	"go.uber.org/zap"
)

// Sender queues an outbound email for asynchronous dispatch. Delivery
// failure never propagates to the caller; it is recorded on the stored
// email and logged.
type Sender interface {
	Send(ctx context.Context, email *Email) error
}

type Service struct {
	repo   *Repository
	smtp   SMTPConfig
	from   string
	logger *zap.Logger
}

func NewService(repo *Repository, cfg *config.Config, logger *zap.Logger) Sender {
	return &Service{
		repo: repo,
		smtp: SMTPConfig{
			Host:     cfg.SMTPHost,
			Port:     cfg.SMTPPort,
			Username: cfg.SMTPUsername,
			Password: cfg.SMTPPassword,
		},
		from:   cfg.EmailFrom,
		logger: logger,
	}
}

func (s *Service) Send(ctx context.Context, email *Email) error {
	if len(email.To) == 0 {
		return errors.New("recipient required")
	}

	if email.From == "" {
		email.From = s.from
	}
	email.Status = EmailQueued
	if err := s.repo.Create(ctx, email); err != nil {
		return err
	}

	go s.process(email)
	return nil
}

func (s *Service) process(email *Email) {
	err := SendSMTP(s.smtp, email)
	if err != nil {
		s.logger.Warn("email dispatch failed",
			zap.String("subject", email.Subject),
			zap.String("entityId", email.EntityID),
			zap.Error(err))
		_ = s.repo.UpdateStatus(context.Background(), email.ID, EmailFailed, err.Error())
		return
	}

	_ = s.repo.UpdateStatus(context.Background(), email.ID, EmailSent, "")
}
