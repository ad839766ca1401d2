package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"brandpost/internal/domain"
)

// SweepService is the due-post scanner. It finds scheduled posts whose time
// has arrived and hands each to the publication engine, sequentially so that
// two sweeps never race on the same batch.
type SweepService struct {
	posts  PostStore
	engine PublishEngine
	clock  Clock
	logger *slog.Logger
}

func NewSweepService(posts PostStore, engine PublishEngine, clock Clock, logger *slog.Logger) *SweepService {
	return &SweepService{
		posts:  posts,
		engine: engine,
		clock:  clock,
		logger: logger.With("component", "sweep"),
	}
}

func (s *SweepService) Sweep(ctx context.Context) (*domain.SweepStats, error) {
	start := time.Now()
	now := s.clock.Now().UTC()

	due, err := s.posts.FindDue(ctx, now)
	if err != nil {
		return nil, fmt.Errorf("find due posts: %w", err)
	}

	stats := &domain.SweepStats{Due: len(due)}
	for _, post := range due {
		if s.engine.Publish(ctx, post.ID) {
			stats.Published++
		} else {
			// a failed post stays scheduled and is retried next sweep
			stats.Failed++
			s.logger.Warn("due post not published", "post_id", post.ID)
		}
	}

	stats.Duration = time.Since(start)

	if stats.Due > 0 {
		s.logger.Info("sweep completed",
			"due", stats.Due,
			"published", stats.Published,
			"failed", stats.Failed,
			"duration", stats.Duration,
		)
	}

	return stats, nil
}

// Run executes one sweep and logs any failure. It is the callback registered
// with the scheduler's recurring trigger.
func (s *SweepService) Run(ctx context.Context) {
	if _, err := s.Sweep(ctx); err != nil {
		s.logger.Error("sweep failed", "error", err)
	}
}
