package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand"
	"sync"
	"time"

	"brandpost/internal/config"
	"brandpost/internal/domain"
)

// PublishJobID derives the one-shot trigger id for a post, so that the timer
// service holds at most one pending trigger per post.
func PublishJobID(postID int64) string {
	return fmt.Sprintf("publish-post-%d", postID)
}

// EngagementSimulator draws simulated engagement metrics from configured
// bounded ranges. The random source is seedable for deterministic tests and
// guarded for concurrent publishes.
type EngagementSimulator struct {
	mu  sync.Mutex
	rnd *rand.Rand
	cfg config.EngagementConfig
}

func NewEngagementSimulator(cfg config.EngagementConfig, seed int64) *EngagementSimulator {
	return &EngagementSimulator{
		rnd: rand.New(rand.NewSource(seed)),
		cfg: cfg,
	}
}

func (e *EngagementSimulator) Roll() domain.Analytics {
	e.mu.Lock()
	defer e.mu.Unlock()

	likes := e.cfg.LikesMin + e.rnd.Intn(e.cfg.LikesMax-e.cfg.LikesMin+1)
	comments := e.rnd.Intn(e.cfg.CommentsMax + 1)
	shares := e.rnd.Intn(e.cfg.SharesMax + 1)
	factor := e.cfg.ImpressionFactorMin + e.rnd.Intn(e.cfg.ImpressionFactorMax-e.cfg.ImpressionFactorMin+1)

	return domain.Analytics{
		Likes:       likes,
		Comments:    comments,
		Shares:      shares,
		Impressions: likes * factor,
	}
}

// PublishService is the publication engine: it transitions a post to posted
// and records one simulated analytics record, atomically.
type PublishService struct {
	posts     PostStore
	analytics AnalyticsStore
	txManager TransactionManager
	events    EventPublisher
	clock     Clock
	simulator *EngagementSimulator
	logger    *slog.Logger
	timeout   time.Duration
}

func NewPublishService(
	posts PostStore,
	analytics AnalyticsStore,
	txManager TransactionManager,
	events EventPublisher,
	clock Clock,
	simulator *EngagementSimulator,
	logger *slog.Logger,
	timeout time.Duration,
) *PublishService {
	return &PublishService{
		posts:     posts,
		analytics: analytics,
		txManager: txManager,
		events:    events,
		clock:     clock,
		simulator: simulator,
		logger:    logger.With("component", "publish"),
		timeout:   timeout,
	}
}

// Publish marks the post as posted and creates its analytics record in a
// single transaction. Publishing is idempotent: a post that is already
// posted is a no-op success, so a one-shot trigger and a sweep racing on the
// same post produce exactly one analytics record. Failures are logged and
// reported as false; the post stays scheduled and is retried on the next
// sweep.
func (s *PublishService) Publish(ctx context.Context, postID int64) bool {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	now := s.clock.Now().UTC()

	var (
		post    *domain.Post
		metrics domain.Analytics
	)
	err := s.txManager.WithTransaction(ctx, func(txCtx context.Context) error {
		updated, err := s.posts.MarkPosted(txCtx, postID, now)
		if err != nil {
			return err
		}

		metrics = s.simulator.Roll()
		metrics.PostID = postID
		metrics.CreatedAt = now
		if err := s.analytics.Create(txCtx, &metrics); err != nil {
			return fmt.Errorf("create analytics: %w", err)
		}

		post = updated
		return nil
	})

	switch {
	case err == nil:
	case errors.Is(err, domain.ErrAlreadyPosted):
		s.logger.Info("post already published, skipping", "post_id", postID)
		return true
	case errors.Is(err, domain.ErrNotFound):
		s.logger.Error("cannot publish unknown post", "post_id", postID)
		return false
	default:
		s.logger.Error("publish failed, rolled back", "post_id", postID, "error", err)
		return false
	}

	if s.events != nil {
		if err := s.events.PublishPosted(ctx, post, &metrics); err != nil {
			s.logger.Warn("failed to emit published-post event", "post_id", postID, "error", err)
		}
	}

	s.logger.Info("published post",
		"post_id", postID,
		"likes", metrics.Likes,
		"comments", metrics.Comments,
		"shares", metrics.Shares,
		"impressions", metrics.Impressions,
	)
	return true
}
