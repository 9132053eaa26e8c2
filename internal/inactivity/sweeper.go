package inactivity

import (
	"context"
	"time"

	"go.uber.org/zap"

	"lastleaf-be/internal/entities"
	"lastleaf-be/internal/repository"
)

const defaultBatchSize = 100

// Sweeper finds users whose idle deadline passed and alerts their contacts
// once per period of inactivity.
type Sweeper struct {
	users     repository.UserRepository
	contacts  repository.ContactRepository
	notifier  Notifier
	log       *zap.Logger
	batchSize int
	now       func() time.Time
}

func NewSweeper(users repository.UserRepository, contacts repository.ContactRepository, notifier Notifier, log *zap.Logger) *Sweeper {
	return &Sweeper{
		users:     users,
		contacts:  contacts,
		notifier:  notifier,
		log:       log,
		batchSize: defaultBatchSize,
		now:       time.Now,
	}
}

// Run sweeps every interval until ctx is cancelled.
func (s *Sweeper) Run(ctx context.Context, interval time.Duration) {
	s.log.Info("inactivity sweeper started", zap.Duration("interval", interval))

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.log.Info("inactivity sweeper stopped")
			return
		case <-ticker.C:
			if _, err := s.RunOnce(ctx); err != nil && ctx.Err() == nil {
				s.log.Error("inactivity sweep failed", zap.Error(err))
			}
		}
	}
}

// RunOnce pages through every overdue user and returns how many were marked
// as notified. A user whose notification fails stays unmarked and is retried
// next sweep; the pages after it are still processed.
func (s *Sweeper) RunOnce(ctx context.Context) (int, error) {
	now := s.now()

	var after *repository.InactiveCursor
	overdue, marked := 0, 0
	for {
		users, err := s.users.FindInactive(ctx, now, after, s.batchSize)
		if err != nil {
			return marked, err
		}

		for _, user := range users {
			if ctx.Err() != nil {
				return marked, ctx.Err()
			}
			if s.process(ctx, user, now) {
				marked++
			}
		}
		overdue += len(users)

		if len(users) < s.batchSize {
			break
		}
		last := users[len(users)-1]
		after = &repository.InactiveCursor{LastActiveAt: last.LastActiveAt, ID: last.ID}
	}

	if overdue > 0 {
		s.log.Info("inactivity sweep finished", zap.Int("overdue", overdue), zap.Int("marked", marked))
	}
	return marked, nil
}

func (s *Sweeper) process(ctx context.Context, user *entities.User, now time.Time) bool {
	contacts, err := s.contacts.ListByUser(ctx, user.ID)
	if err != nil {
		s.log.Warn("failed to load contacts", zap.String("user_id", user.ID), zap.Error(err))
		return false
	}

	if len(contacts) > 0 {
		if err := s.notifier.Notify(ctx, newAlerts(user, contacts, now)); err != nil {
			s.log.Warn("failed to notify contacts", zap.String("user_id", user.ID), zap.Error(err))
			return false
		}
	}

	if err := s.users.MarkInactivityNotified(ctx, user.ID, now); err != nil {
		s.log.Warn("failed to mark user notified", zap.String("user_id", user.ID), zap.Error(err))
		return false
	}
	return true
}
