package services

import (
	"context"
	"fmt"
	"time"

	"github.com/join-board/join-api/internal/repository"
	"github.com/sirupsen/logrus"
)

// SweeperConfig holds the inactivity windows.
type SweeperConfig struct {
	// GuestGracePeriod is how long a guest must have existed before it can be deleted.
	GuestGracePeriod time.Duration
	// GuestIdleThreshold is how long a guest must have been inactive before deletion.
	GuestIdleThreshold time.Duration
	// UserIdleThreshold is how long a registered user may be idle before the token is revoked.
	UserIdleThreshold time.Duration
}

// SweepResult reports what a sweep removed.
type SweepResult struct {
	GuestsDeleted int
	GuestsFailed  int
	TokensRevoked int
}

// SweeperService expires idle guest accounts and revokes idle sessions.
type SweeperService struct {
	userRepo  repository.UserRepository
	tokenRepo repository.TokenRepository
	cfg       SweeperConfig
	log       logrus.FieldLogger
	now       func() time.Time
}

// NewSweeperService creates a new SweeperService
func NewSweeperService(userRepo repository.UserRepository, tokenRepo repository.TokenRepository, cfg SweeperConfig, log logrus.FieldLogger) *SweeperService {
	return &SweeperService{
		userRepo:  userRepo,
		tokenRepo: tokenRepo,
		cfg:       cfg,
		log:       log,
		now:       time.Now,
	}
}

// WithClock replaces the time source.
func (s *SweeperService) WithClock(now func() time.Time) *SweeperService {
	s.now = now
	return s
}

// Sweep deletes every guest idle past the idle threshold and older than the
// grace period, then revokes tokens of registered users idle past their
// threshold. A guest that fails to delete is logged and skipped.
func (s *SweeperService) Sweep(ctx context.Context) (SweepResult, error) {
	var result SweepResult
	now := s.now()

	guests, err := s.userRepo.FindInactiveGuests(ctx, now.Add(-s.cfg.GuestIdleThreshold), now.Add(-s.cfg.GuestGracePeriod))
	if err != nil {
		return result, fmt.Errorf("failed to find inactive guests: %w", err)
	}

	for _, guest := range guests {
		entry := s.log.WithFields(logrus.Fields{"user_id": guest.ID, "email": guest.Email})
		if err := s.userRepo.Delete(ctx, guest.ID); err != nil {
			result.GuestsFailed++
			entry.WithError(err).Error("failed to delete inactive guest")
			continue
		}
		result.GuestsDeleted++
		entry.Info("deleted inactive guest")
	}

	revoked, err := s.tokenRepo.RevokeIdle(ctx, now.Add(-s.cfg.UserIdleThreshold))
	if err != nil {
		return result, fmt.Errorf("failed to revoke idle tokens: %w", err)
	}
	for _, user := range revoked {
		s.log.WithFields(logrus.Fields{"user_id": user.ID, "email": user.Email}).Info("revoked token of inactive user")
	}
	result.TokensRevoked = len(revoked)

	return result, nil
}
