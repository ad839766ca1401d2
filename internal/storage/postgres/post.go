package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"brandpost/internal/domain"
)

const postColumns = "id, prompt, content, hashtags, status, scheduled_time, posted_at, created_at"

type PostStore struct {
	db *sqlx.DB
}

func NewPostStore(db *sqlx.DB) *PostStore {
	return &PostStore{db: db}
}

func (s *PostStore) Create(ctx context.Context, post *domain.Post) error {
	query := `
		INSERT INTO posts (prompt, content, hashtags, status, created_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id`

	exec := GetExecutor(ctx, s.db)
	err := exec.QueryRowxContext(ctx, query,
		post.Prompt,
		post.Content,
		post.Hashtags,
		post.Status,
		post.CreatedAt,
	).Scan(&post.ID)
	if err != nil {
		return fmt.Errorf("insert post: %w", err)
	}
	return nil
}

func (s *PostStore) GetByID(ctx context.Context, id int64) (*domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts WHERE id = $1`

	var post domain.Post
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &post, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, domain.ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

func (s *PostStore) List(ctx context.Context) ([]domain.Post, error) {
	query := `SELECT ` + postColumns + ` FROM posts ORDER BY created_at DESC, id DESC`

	var posts []domain.Post
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &posts, query)
	return posts, err
}

// SetScheduled moves a post into the scheduled state, overwriting any prior
// scheduled time. Posts that have already been published cannot be
// rescheduled.
func (s *PostStore) SetScheduled(ctx context.Context, id int64, at time.Time) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET status = $2, scheduled_time = $3
		WHERE id = $1 AND status <> $4
		RETURNING ` + postColumns

	var post domain.Post
	exec := GetExecutor(ctx, s.db)
	err := sqlx.GetContext(ctx, exec, &post, query, id, domain.StatusScheduled, at, domain.StatusPosted)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.explainMiss(ctx, id, domain.ErrAlreadyPosted)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// ClearSchedule reverts a scheduled post back to draft and drops its
// scheduled time.
func (s *PostStore) ClearSchedule(ctx context.Context, id int64) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET status = $2, scheduled_time = NULL
		WHERE id = $1 AND status = $3
		RETURNING ` + postColumns

	var post domain.Post
	exec := GetExecutor(ctx, s.db)
	err := sqlx.GetContext(ctx, exec, &post, query, id, domain.StatusDraft, domain.StatusScheduled)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.explainMiss(ctx, id, domain.ErrInvalidState)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// MarkPosted transitions a post to posted with a compare-and-set on status,
// so that of two concurrent publish attempts exactly one succeeds. The
// published marker is appended to the post's hashtags.
func (s *PostStore) MarkPosted(ctx context.Context, id int64, postedAt time.Time) (*domain.Post, error) {
	query := `
		UPDATE posts
		SET status = $2,
		    posted_at = $3,
		    hashtags = CASE
		        WHEN hashtags IS NULL OR hashtags = '' THEN $4
		        ELSE hashtags || ' ' || $4
		    END
		WHERE id = $1 AND status <> $2
		RETURNING ` + postColumns

	var post domain.Post
	exec := GetExecutor(ctx, s.db)
	err := sqlx.GetContext(ctx, exec, &post, query, id, domain.StatusPosted, postedAt, domain.PublishedMarker)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, s.explainMiss(ctx, id, domain.ErrAlreadyPosted)
	}
	if err != nil {
		return nil, err
	}
	return &post, nil
}

// FindDue returns scheduled posts whose scheduled time has passed, ordered
// by id for deterministic sweeps.
func (s *PostStore) FindDue(ctx context.Context, now time.Time) ([]domain.Post, error) {
	query := `
		SELECT ` + postColumns + `
		FROM posts
		WHERE status = $1 AND scheduled_time IS NOT NULL AND scheduled_time <= $2
		ORDER BY id ASC`

	var posts []domain.Post
	err := sqlx.SelectContext(ctx, GetExecutor(ctx, s.db), &posts, query, domain.StatusScheduled, now)
	return posts, err
}

// explainMiss distinguishes an unknown id from a guarded state transition
// after a conditional update matched no rows.
func (s *PostStore) explainMiss(ctx context.Context, id int64, stateErr error) error {
	var status domain.PostStatus
	err := sqlx.GetContext(ctx, GetExecutor(ctx, s.db), &status, "SELECT status FROM posts WHERE id = $1", id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.ErrNotFound
	}
	if err != nil {
		return err
	}
	return stateErr
}
