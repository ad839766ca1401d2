package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"brandpost/internal/domain"
)

type AnalyticsStore struct {
	db *sqlx.DB
}

func NewAnalyticsStore(db *sqlx.DB) *AnalyticsStore {
	return &AnalyticsStore{db: db}
}

func (s *AnalyticsStore) Create(ctx context.Context, record *domain.Analytics) error {
	query := `
		INSERT INTO analytics (post_id, likes, comments, shares, impressions, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)
	err := exec.QueryRowxContext(ctx, query,
		record.PostID,
		record.Likes,
		record.Comments,
		record.Shares,
		record.Impressions,
		record.CreatedAt,
	).Scan(&record.ID)
	if err != nil {
		return fmt.Errorf("insert analytics: %w", err)
	}
	return nil
}

// GetByPostID returns the first analytics record for a post.
func (s *AnalyticsStore) GetByPostID(ctx context.Context, postID int64) (*domain.Analytics, error) {
	query := `
		SELECT id, post_id, likes, comments, shares, impressions, created_at
		FROM analytics
		WHERE post_id = $1
		ORDER BY id ASC
		LIMIT 1`

	var record domain.Analytics
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &record, query, postID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &record, nil
}

func (s *AnalyticsStore) List(ctx context.Context) ([]domain.Analytics, error) {
	query := `
		SELECT id, post_id, likes, comments, shares, impressions, created_at
		FROM analytics
		ORDER BY id ASC`

	var records []domain.Analytics
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &records, query)
	return records, err
}

// CountByPostID reports how many analytics records exist for a post.
func (s *AnalyticsStore) CountByPostID(ctx context.Context, postID int64) (int, error) {
	var count int
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &count,
		"SELECT COUNT(*) FROM analytics WHERE post_id = $1", postID)
	return count, err
}

// TopPerforming returns published posts ranked by engagement score
// (likes + comments*2 + shares*3), highest first.
func (s *AnalyticsStore) TopPerforming(ctx context.Context, limit int) ([]domain.RankedPost, error) {
	query := `
		SELECT
			p.id, p.prompt, p.content, p.hashtags, p.status, p.scheduled_time, p.posted_at, p.created_at,
			a.id AS analytics_id, a.post_id, a.likes, a.comments, a.shares, a.impressions, a.created_at AS analytics_created_at
		FROM analytics a
		INNER JOIN posts p ON p.id = a.post_id
		ORDER BY (a.likes + a.comments * 2 + a.shares * 3) DESC
		LIMIT $1`

	exec := GetExecutor(ctx, s.db)
	rows, err := exec.QueryxContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []domain.RankedPost
	for rows.Next() {
		var rp domain.RankedPost
		err := rows.Scan(
			&rp.Post.ID, &rp.Post.Prompt, &rp.Post.Content, &rp.Post.Hashtags,
			&rp.Post.Status, &rp.Post.ScheduledTime, &rp.Post.PostedAt, &rp.Post.CreatedAt,
			&rp.Analytics.ID, &rp.Analytics.PostID, &rp.Analytics.Likes, &rp.Analytics.Comments,
			&rp.Analytics.Shares, &rp.Analytics.Impressions, &rp.Analytics.CreatedAt,
		)
		if err != nil {
			return nil, err
		}
		result = append(result, rp)
	}

	return result, rows.Err()
}
