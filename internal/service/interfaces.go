package service

//go:generate mockgen -source=interfaces.go -destination=mocks/mocks.go -package=mocks

import (
	"context"
	"time"

	"brandpost/internal/domain"
)

type PostStore interface {
	Create(ctx context.Context, post *domain.Post) error
	GetByID(ctx context.Context, id int64) (*domain.Post, error)
	List(ctx context.Context) ([]domain.Post, error)
	SetScheduled(ctx context.Context, id int64, at time.Time) (*domain.Post, error)
	ClearSchedule(ctx context.Context, id int64) (*domain.Post, error)
	MarkPosted(ctx context.Context, id int64, postedAt time.Time) (*domain.Post, error)
	FindDue(ctx context.Context, now time.Time) ([]domain.Post, error)
}

type AnalyticsStore interface {
	Create(ctx context.Context, record *domain.Analytics) error
	GetByPostID(ctx context.Context, postID int64) (*domain.Analytics, error)
	List(ctx context.Context) ([]domain.Analytics, error)
	TopPerforming(ctx context.Context, limit int) ([]domain.RankedPost, error)
}

type ProfileStore interface {
	Create(ctx context.Context, profile *domain.Profile) error
	GetFirst(ctx context.Context) (*domain.Profile, error)
	GetByID(ctx context.Context, id int64) (*domain.Profile, error)
}

type TransactionManager interface {
	WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// Generator is the external text-completion collaborator.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// EventPublisher emits an event for every successfully published post.
type EventPublisher interface {
	PublishPosted(ctx context.Context, post *domain.Post, metrics *domain.Analytics) error
	Close() error
}

// Clock abstracts wall-clock time so tests can pin it.
type Clock interface {
	Now() time.Time
}

// JobScheduler is the timer service consumed by the content service.
type JobScheduler interface {
	ScheduleOneShot(jobID string, fireAt time.Time, fn func(ctx context.Context))
	Cancel(jobID string) bool
	RunNow(fn func(ctx context.Context))
}

// PublishEngine transitions a post to published. It never returns an error:
// failures are logged and reported as false.
type PublishEngine interface {
	Publish(ctx context.Context, postID int64) bool
}

// SystemClock is the production Clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }
