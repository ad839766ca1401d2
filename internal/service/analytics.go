package service

import (
	"context"
	"fmt"
	"log/slog"

	"brandpost/internal/domain"
)

const defaultTopLimit = 5

// AnalyticsService reads back the simulated engagement recorded at
// publication time.
type AnalyticsService struct {
	posts     PostStore
	analytics AnalyticsStore
	logger    *slog.Logger
}

func NewAnalyticsService(posts PostStore, analytics AnalyticsStore, logger *slog.Logger) *AnalyticsService {
	return &AnalyticsService{
		posts:     posts,
		analytics: analytics,
		logger:    logger.With("component", "analytics"),
	}
}

// Summary aggregates totals and averages across all analytics records.
func (s *AnalyticsService) Summary(ctx context.Context) (*domain.AnalyticsSummary, error) {
	records, err := s.analytics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}

	summary := &domain.AnalyticsSummary{TotalPosts: len(records)}
	for _, r := range records {
		summary.TotalLikes += r.Likes
		summary.TotalComments += r.Comments
		summary.TotalShares += r.Shares
		summary.TotalImpressions += r.Impressions
	}

	if n := len(records); n > 0 {
		summary.AverageLikes = float64(summary.TotalLikes) / float64(n)
		summary.AverageComments = float64(summary.TotalComments) / float64(n)
		summary.AverageShares = float64(summary.TotalShares) / float64(n)
	}

	return summary, nil
}

// ForPost returns a post together with its analytics record.
func (s *AnalyticsService) ForPost(ctx context.Context, postID int64) (*domain.Post, *domain.Analytics, error) {
	post, err := s.posts.GetByID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	record, err := s.analytics.GetByPostID(ctx, postID)
	if err != nil {
		return nil, nil, err
	}

	return post, record, nil
}

// Rows returns one row per post with its metrics, zero-valued for posts that
// have not been published yet.
func (s *AnalyticsService) Rows(ctx context.Context) ([]domain.PostAnalyticsRow, error) {
	posts, err := s.posts.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list posts: %w", err)
	}

	records, err := s.analytics.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list analytics: %w", err)
	}

	byPost := make(map[int64]domain.Analytics, len(records))
	for _, r := range records {
		if _, ok := byPost[r.PostID]; !ok {
			byPost[r.PostID] = r
		}
	}

	rows := make([]domain.PostAnalyticsRow, 0, len(posts))
	for _, p := range posts {
		rows = append(rows, domain.PostAnalyticsRow{
			Post:    p,
			Metrics: byPost[p.ID],
		})
	}

	return rows, nil
}

// TopPerforming returns posts ranked by engagement score, highest first.
func (s *AnalyticsService) TopPerforming(ctx context.Context, limit int) ([]domain.RankedPost, error) {
	if limit <= 0 {
		limit = defaultTopLimit
	}
	return s.analytics.TopPerforming(ctx, limit)
}
