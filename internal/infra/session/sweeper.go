package session

import (
	"context"
	"log/slog"
	"time"

	"fintrack/internal/domain/service"
)

const (
	refreshSweepInterval = time.Hour
	lockoutSweepInterval = 5 * time.Minute
)

// Sweeper periodically trims expired refresh records and idle lockout
// entries so the in-memory maps stay bounded.
type Sweeper struct {
	store  service.RefreshTokenStore
	guard  service.LoginGuard
	logger *slog.Logger
	done   chan struct{}
	stop   chan struct{}
}

// NewSweeper is the constructor for Sweeper.
func NewSweeper(store service.RefreshTokenStore, guard service.LoginGuard, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		store:  store,
		guard:  guard,
		logger: logger,
		done:   make(chan struct{}),
		stop:   make(chan struct{}),
	}
}

// Start launches the background sweep loop. Call Stop to shut it down.
func (s *Sweeper) Start() {
	go s.run()
}

// Stop terminates the sweep loop and waits for it to exit.
func (s *Sweeper) Stop() {
	close(s.stop)
	<-s.done
}

func (s *Sweeper) run() {
	defer close(s.done)

	refreshTicker := time.NewTicker(refreshSweepInterval)
	defer refreshTicker.Stop()
	lockoutTicker := time.NewTicker(lockoutSweepInterval)
	defer lockoutTicker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case now := <-refreshTicker.C:
			s.sweepRefreshTokens(now)
		case now := <-lockoutTicker.C:
			s.sweepLockouts(now)
		}
	}
}

func (s *Sweeper) sweepRefreshTokens(now time.Time) {
	removed, err := s.store.DeleteExpired(context.Background(), now)
	if err != nil {
		s.logger.Error("refresh token sweep failed", slog.Any("error", err))
		return
	}
	if removed > 0 {
		s.logger.Info("swept expired refresh tokens", slog.Int("removed", removed))
	}
}

func (s *Sweeper) sweepLockouts(now time.Time) {
	removed := s.guard.SweepIdle(context.Background(), now)
	if removed > 0 {
		s.logger.Info("swept idle lockout entries", slog.Int("removed", removed))
	}
}
