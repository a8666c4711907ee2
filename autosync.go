package intakesync

import (
	"context"
	stderrors "errors"
	"time"

	"github.com/intakesync/intakesync/pkg/constants"
	"github.com/intakesync/intakesync/pkg/errors"
	"github.com/intakesync/intakesync/pkg/logging"
)

// Compile-time interface check to ensure proper implementation.
var _ AutoSyncer = (*syncer)(nil)

// AutoSyncer provides controls for periodic background syncs.
type AutoSyncer interface {
	// AutoSyncOn begins periodic syncs if an interval is configured
	AutoSyncOn() error

	// AutoSyncOff stops periodic syncs
	AutoSyncOff() error
}

// AutoSyncOn begins periodic syncs if an interval is configured.
func (s *syncer) AutoSyncOn() error {
	if s.config.autoSyncInterval <= 0 {
		return &errors.ValidationError{
			Field:   "autoSyncInterval",
			Value:   s.config.autoSyncInterval,
			Message: "sync interval must be positive",
		}
	}

	// Stop any existing ticker to prevent resource leaks
	if err := s.AutoSyncOff(); err != nil {
		return err
	}

	// Recreate stopCh since it was closed in AutoSyncOff
	s.stopCh = make(chan struct{})

	s.syncTicker = time.NewTicker(s.config.autoSyncInterval)

	ctx, cancel := context.WithCancel(context.Background())
	s.syncCancel = cancel

	go func(parentCtx context.Context) {
		for {
			select {
			case <-s.syncTicker.C:
				runCtx, runCancel := context.WithTimeout(parentCtx, constants.SyncTimeout)
				_, err := s.Sync(runCtx)
				runCancel()

				if err != nil {
					// Context cancellation means the loop should exit
					if stderrors.Is(err, context.Canceled) || stderrors.Is(err, context.DeadlineExceeded) {
						return
					}
					logging.Error().Err(err).Msg("Background sync failed")
				}
			case <-parentCtx.Done():
				return
			case <-s.stopCh:
				return
			}
		}
	}(ctx)

	return nil
}

// AutoSyncOff stops periodic syncs.
func (s *syncer) AutoSyncOff() error {
	if s.syncTicker != nil {
		s.syncTicker.Stop()
		s.syncTicker = nil
	}
	if s.syncCancel != nil {
		s.syncCancel()
		s.syncCancel = nil
	}
	select {
	case <-s.stopCh:
		// Already closed
	default:
		close(s.stopCh)
	}
	return nil
}
