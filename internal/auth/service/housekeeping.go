package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/aussiebroadwan/sessionauth/internal/auth/store"
)

// HousekeepingService periodically revokes refresh tokens whose expiry has
// passed so stale session fields do not linger in the directory.
type HousekeepingService struct {
	Store    store.Store
	Logger   *slog.Logger
	Interval time.Duration
	Now      func() time.Time

	// Internal channels for lifecycle management
	stopCh chan struct{}
	doneCh chan struct{}
}

// NewHousekeepingService creates a new housekeeping service with the given interval.
// If interval is 0 or negative, defaults to 1 hour.
func NewHousekeepingService(store store.Store, logger *slog.Logger, interval time.Duration) *HousekeepingService {
	if interval <= 0 {
		interval = 1 * time.Hour
	}

	return &HousekeepingService{
		Store:    store,
		Logger:   logger,
		Interval: interval,
		Now:      time.Now,
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}
}

// Start begins the background worker that periodically runs cleanup.
// This is non-blocking and should be called after the database is ready.
// Call Stop() to gracefully shutdown the worker.
func (s *HousekeepingService) Start() {
	go s.run()
	s.Logger.Info("housekeeping service started", "interval", s.Interval)
}

// Stop gracefully shuts down the background worker.
// Blocks until the worker has finished any in-progress cleanup.
func (s *HousekeepingService) Stop() {
	close(s.stopCh)
	<-s.doneCh
	s.Logger.Info("housekeeping service stopped")
}

// run is the main background worker loop.
func (s *HousekeepingService) run() {
	defer close(s.doneCh)

	ticker := time.NewTicker(s.Interval)
	defer ticker.Stop()

	// Run cleanup immediately on startup
	s.cleanup()

	for {
		select {
		case <-ticker.C:
			s.cleanup()
		case <-s.stopCh:
			return
		}
	}
}

// cleanup clears expired refresh tokens. Errors are logged and retried on
// the next tick.
func (s *HousekeepingService) cleanup() {
	ctx, cancel := context.WithTimeout(context.Background(), s.Interval)
	defer cancel()

	cleared, err := s.Store.Users().ClearExpiredRefreshTokens(ctx, s.Now().UTC())
	if err != nil {
		s.Logger.Error("failed to clear expired refresh tokens", "error", err)
		return
	}

	s.Logger.Info("housekeeping cleanup completed", "cleared_refresh_tokens", cleared)
}
