package permit

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
)

// Sweeper deactivates permits whose validity window has passed, so the
// schedule permit check never matches a stale active permit.
type Sweeper struct {
	repo      PermitRepository
	logger    *zap.Logger
	scheduler *cron.Cron
}

func NewSweeper(repo PermitRepository, logger *zap.Logger) *Sweeper {
	return &Sweeper{
		repo:   repo,
		logger: logger,
	}
}

// Start registers the hourly sweep and runs one immediately.
func (s *Sweeper) Start(ctx context.Context) error {
	s.scheduler = cron.New()
	if _, err := s.scheduler.AddFunc("@hourly", s.sweep); err != nil {
		return err
	}
	s.scheduler.Start()

	go s.sweep()
	return nil
}

func (s *Sweeper) Stop() error {
	if s.scheduler != nil {
		s.scheduler.Stop()
	}
	return nil
}

func (s *Sweeper) sweep() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	count, err := s.repo.DeactivateExpired(ctx, time.Now())
	if err != nil {
		s.logger.Error("permit expiry sweep failed", zap.Error(err))
		return
	}
	if count > 0 {
		s.logger.Info("deactivated expired permits", zap.Int64("count", count))
	}
}
