package service

import (
	"context"
	"log/slog"
	"time"

	"github.com/littledragon/assistant/internal/assistant/store"
	"github.com/littledragon/assistant/pkg/slogx"
)

// HousekeepingService periodically prunes expired blacklist entries.
// Pruning is off by default: revoked tokens stay dead forever unless the
// operator opts in, which keeps replayed tokens rejected even when clocks
// disagree about expiry.
type HousekeepingService struct {
	Store        store.Store
	Interval     time.Duration
	PruneRevoked bool
}

// Run blocks until ctx is cancelled, sweeping once per interval.
func (s *HousekeepingService) Run(ctx context.Context) {
	interval := s.Interval
	if interval <= 0 {
		interval = time.Hour
	}

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.sweep(ctx)
		}
	}
}

func (s *HousekeepingService) sweep(ctx context.Context) {
	log := slogx.FromContext(ctx)

	total, err := s.Store.RevokedTokens().CountRevokedTokens(ctx)
	if err != nil {
		log.Error("housekeeping count failed", slog.Any("error", err))
		return
	}

	if !s.PruneRevoked {
		log.Debug("housekeeping sweep", slog.Int64("revoked_tokens", total))
		return
	}

	pruned, err := s.Store.RevokedTokens().DeleteExpiredRevokedTokens(ctx)
	if err != nil {
		log.Error("housekeeping prune failed", slog.Any("error", err))
		return
	}
	if pruned > 0 {
		log.Info("pruned expired revoked tokens",
			slog.Int64("pruned", pruned),
			slog.Int64("remaining", total-pruned),
		)
	}
}
