package jobs

import (
	"context"
	"fmt"
	"time"

	"github.com/anonto42/blog-backend/internal/repositories"
	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"
)

// Scheduler runs periodic maintenance against the revoked-token store.
type Scheduler struct {
	cron        *cron.Cron
	revocations repositories.RevokedTokenRepository
	log         *logrus.Logger
}

// NewScheduler registers the purge job on spec (standard cron or "@every <duration>").
func NewScheduler(spec string, revocations repositories.RevokedTokenRepository, log *logrus.Logger) (*Scheduler, error) {
	s := &Scheduler{
		cron:        cron.New(),
		revocations: revocations,
		log:         log,
	}
	if _, err := s.cron.AddFunc(spec, s.PurgeRevoked); err != nil {
		return nil, fmt.Errorf("schedule revoked token purge %q: %w", spec, err)
	}
	return s, nil
}

func (s *Scheduler) Start() {
	s.cron.Start()
	s.log.Info("Revoked token purge scheduled.")
}

// Stop waits for a running purge to finish, bounded by ctx.
func (s *Scheduler) Stop(ctx context.Context) {
	select {
	case <-s.cron.Stop().Done():
	case <-ctx.Done():
	}
}

// PurgeRevoked deletes denylist rows whose tokens have expired on their own.
func (s *Scheduler) PurgeRevoked() {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	n, err := s.revocations.PurgeExpired(ctx)
	if err != nil {
		s.log.WithError(err).Error("Revoked token purge failed")
		return
	}
	if n > 0 {
		s.log.WithField("deleted", n).Info("Purged expired revoked tokens")
	}
}
