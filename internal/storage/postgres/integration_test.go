//go:build integration

package postgres

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"brandpost/internal/domain"
	"brandpost/testdata/utils"
)

type PostgresIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	db        *sqlx.DB
}

func (s *PostgresIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	migrationsPath, err := filepath.Abs("../../../migrations")
	s.Require().NoError(err)

	container, err := postgres.Run(s.ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("test_db"),
		postgres.WithUsername("test"),
		postgres.WithPassword("test"),
		postgres.WithInitScripts(
			filepath.Join(migrationsPath, "001_create_schema.up.sql"),
		),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	db, err := sqlx.Connect("postgres", connStr)
	s.Require().NoError(err)
	s.db = db
}

func (s *PostgresIntegrationSuite) TearDownSuite() {
	if s.db != nil {
		s.db.Close()
	}
	if s.container != nil {
		_ = s.container.Terminate(s.ctx)
	}
}

func (s *PostgresIntegrationSuite) SetupTest() {
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM analytics")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM posts")
	_, _ = s.db.ExecContext(s.ctx, "DELETE FROM profiles")
}

func TestPostgresIntegrationSuite(t *testing.T) {
	suite.Run(t, new(PostgresIntegrationSuite))
}

func (s *PostgresIntegrationSuite) createPost(status domain.PostStatus) *domain.Post {
	store := NewPostStore(s.db)
	post := &domain.Post{
		Prompt:    utils.Ptr("test prompt"),
		Content:   "Test content.\n\n#Testing",
		Hashtags:  utils.Ptr("#Testing"),
		Status:    domain.StatusDraft,
		CreatedAt: time.Now().UTC().Truncate(time.Microsecond),
	}
	s.Require().NoError(store.Create(s.ctx, post))

	if status != domain.StatusDraft {
		_, err := s.db.ExecContext(s.ctx, "UPDATE posts SET status = $2 WHERE id = $1", post.ID, status)
		s.Require().NoError(err)
		post.Status = status
	}
	return post
}

func (s *PostgresIntegrationSuite) TestPostStore_CreateAndGet() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusDraft)
	s.Greater(post.ID, int64(0))

	got, err := store.GetByID(s.ctx, post.ID)
	s.NoError(err)
	s.Equal(post.Content, got.Content)
	s.Equal(domain.StatusDraft, got.Status)
	s.Nil(got.PostedAt)
}

func (s *PostgresIntegrationSuite) TestPostStore_GetByID_NotFound() {
	store := NewPostStore(s.db)

	_, err := store.GetByID(s.ctx, 99999)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestPostStore_List_NewestFirst() {
	store := NewPostStore(s.db)

	first := s.createPost(domain.StatusDraft)
	second := s.createPost(domain.StatusDraft)

	posts, err := store.List(s.ctx)
	s.NoError(err)
	s.Require().Len(posts, 2)
	s.Equal(second.ID, posts[0].ID)
	s.Equal(first.ID, posts[1].ID)
}

func (s *PostgresIntegrationSuite) TestPostStore_SetScheduled() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusDraft)
	at := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)

	updated, err := store.SetScheduled(s.ctx, post.ID, at)
	s.Require().NoError(err)
	s.Equal(domain.StatusScheduled, updated.Status)
	s.Require().NotNil(updated.ScheduledTime)
	s.WithinDuration(at, *updated.ScheduledTime, time.Second)
}

func (s *PostgresIntegrationSuite) TestPostStore_SetScheduled_Overwrites() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusDraft)

	first := time.Now().UTC().Add(time.Hour).Truncate(time.Microsecond)
	_, err := store.SetScheduled(s.ctx, post.ID, first)
	s.Require().NoError(err)

	second := first.Add(2 * time.Hour)
	updated, err := store.SetScheduled(s.ctx, post.ID, second)
	s.Require().NoError(err)
	s.WithinDuration(second, *updated.ScheduledTime, time.Second)
}

func (s *PostgresIntegrationSuite) TestPostStore_SetScheduled_PostedPostRejected() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusPosted)

	_, err := store.SetScheduled(s.ctx, post.ID, time.Now().UTC().Add(time.Hour))
	s.ErrorIs(err, domain.ErrAlreadyPosted)
}

func (s *PostgresIntegrationSuite) TestPostStore_SetScheduled_NotFound() {
	store := NewPostStore(s.db)

	_, err := store.SetScheduled(s.ctx, 99999, time.Now().UTC().Add(time.Hour))
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestPostStore_ClearSchedule() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusDraft)

	_, err := store.SetScheduled(s.ctx, post.ID, time.Now().UTC().Add(time.Hour))
	s.Require().NoError(err)

	reverted, err := store.ClearSchedule(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusDraft, reverted.Status)
	s.Nil(reverted.ScheduledTime)
}

func (s *PostgresIntegrationSuite) TestPostStore_ClearSchedule_DraftRejected() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusDraft)

	_, err := store.ClearSchedule(s.ctx, post.ID)
	s.ErrorIs(err, domain.ErrInvalidState)
}

func (s *PostgresIntegrationSuite) TestPostStore_MarkPosted() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	now := time.Now().UTC().Truncate(time.Microsecond)

	updated, err := store.MarkPosted(s.ctx, post.ID, now)
	s.Require().NoError(err)
	s.Equal(domain.StatusPosted, updated.Status)
	s.Require().NotNil(updated.PostedAt)
	s.WithinDuration(now, *updated.PostedAt, time.Second)
	s.Require().NotNil(updated.Hashtags)
	s.Equal("#Testing "+domain.PublishedMarker, *updated.Hashtags)
}

func (s *PostgresIntegrationSuite) TestPostStore_MarkPosted_EmptyHashtags() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	_, err := s.db.ExecContext(s.ctx, "UPDATE posts SET hashtags = NULL WHERE id = $1", post.ID)
	s.Require().NoError(err)

	updated, err := store.MarkPosted(s.ctx, post.ID, time.Now().UTC())
	s.Require().NoError(err)
	s.Require().NotNil(updated.Hashtags)
	s.Equal(domain.PublishedMarker, *updated.Hashtags)
}

func (s *PostgresIntegrationSuite) TestPostStore_MarkPosted_SecondAttemptRejected() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	now := time.Now().UTC()

	_, err := store.MarkPosted(s.ctx, post.ID, now)
	s.Require().NoError(err)

	_, err = store.MarkPosted(s.ctx, post.ID, now)
	s.ErrorIs(err, domain.ErrAlreadyPosted)
}

func (s *PostgresIntegrationSuite) TestPostStore_MarkPosted_ConcurrentSingleWinner() {
	store := NewPostStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	now := time.Now().UTC()

	var wg sync.WaitGroup
	errs := make([]error, 4)
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, errs[i] = store.MarkPosted(s.ctx, post.ID, now)
		}(i)
	}
	wg.Wait()

	winners := 0
	for _, err := range errs {
		if err == nil {
			winners++
		} else {
			s.ErrorIs(err, domain.ErrAlreadyPosted)
		}
	}
	s.Equal(1, winners)
}

func (s *PostgresIntegrationSuite) TestPostStore_MarkPosted_NotFound() {
	store := NewPostStore(s.db)

	_, err := store.MarkPosted(s.ctx, 99999, time.Now().UTC())
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestPostStore_FindDue() {
	store := NewPostStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	duePast := s.createPost(domain.StatusDraft)
	_, err := store.SetScheduled(s.ctx, duePast.ID, now.Add(-time.Minute))
	s.Require().NoError(err)

	dueExact := s.createPost(domain.StatusDraft)
	_, err = store.SetScheduled(s.ctx, dueExact.ID, now)
	s.Require().NoError(err)

	future := s.createPost(domain.StatusDraft)
	_, err = store.SetScheduled(s.ctx, future.ID, now.Add(time.Hour))
	s.Require().NoError(err)

	s.createPost(domain.StatusDraft)
	s.createPost(domain.StatusPosted)

	due, err := store.FindDue(s.ctx, now)
	s.Require().NoError(err)
	s.Require().Len(due, 2)
	s.Equal(duePast.ID, due[0].ID)
	s.Equal(dueExact.ID, due[1].ID)
}

func (s *PostgresIntegrationSuite) TestAnalyticsStore_CreateAndGet() {
	posts := NewPostStore(s.db)
	analytics := NewAnalyticsStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	now := time.Now().UTC().Truncate(time.Microsecond)

	_, err := posts.MarkPosted(s.ctx, post.ID, now)
	s.Require().NoError(err)

	record := &domain.Analytics{
		PostID:      post.ID,
		Likes:       150,
		Comments:    12,
		Shares:      4,
		Impressions: 3000,
		CreatedAt:   now,
	}
	s.Require().NoError(analytics.Create(s.ctx, record))
	s.Greater(record.ID, int64(0))

	got, err := analytics.GetByPostID(s.ctx, post.ID)
	s.NoError(err)
	s.Equal(150, got.Likes)
	s.Equal(3000, got.Impressions)
}

func (s *PostgresIntegrationSuite) TestAnalyticsStore_GetByPostID_NotFound() {
	analytics := NewAnalyticsStore(s.db)
	post := s.createPost(domain.StatusDraft)

	_, err := analytics.GetByPostID(s.ctx, post.ID)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestAnalyticsStore_TopPerforming() {
	posts := NewPostStore(s.db)
	analytics := NewAnalyticsStore(s.db)
	now := time.Now().UTC().Truncate(time.Microsecond)

	scores := []domain.Analytics{
		{Likes: 10, Comments: 0, Shares: 0},  // score 10
		{Likes: 50, Comments: 10, Shares: 5}, // score 85
		{Likes: 20, Comments: 5, Shares: 1},  // score 33
	}
	ids := make([]int64, len(scores))
	for i, metrics := range scores {
		post := s.createPost(domain.StatusScheduled)
		_, err := posts.MarkPosted(s.ctx, post.ID, now)
		s.Require().NoError(err)

		metrics.PostID = post.ID
		metrics.CreatedAt = now
		s.Require().NoError(analytics.Create(s.ctx, &metrics))
		ids[i] = post.ID
	}

	ranked, err := analytics.TopPerforming(s.ctx, 2)
	s.Require().NoError(err)
	s.Require().Len(ranked, 2)
	s.Equal(ids[1], ranked[0].Post.ID)
	s.Equal(ids[2], ranked[1].Post.ID)
	s.Equal(85, ranked[0].Analytics.EngagementScore())
}

func (s *PostgresIntegrationSuite) TestProfileStore_CreateAndGetFirst() {
	store := NewProfileStore(s.db)

	profile := &domain.Profile{
		Name:     "Jane Doe",
		Headline: utils.Ptr("Engineer"),
		About:    utils.Ptr("Building things"),
	}
	s.Require().NoError(store.Create(s.ctx, profile))
	s.Greater(profile.ID, int64(0))

	got, err := store.GetFirst(s.ctx)
	s.NoError(err)
	s.Equal("Jane Doe", got.Name)
}

func (s *PostgresIntegrationSuite) TestProfileStore_GetByID() {
	store := NewProfileStore(s.db)

	profile := &domain.Profile{Name: "Jane Doe"}
	s.Require().NoError(store.Create(s.ctx, profile))

	got, err := store.GetByID(s.ctx, profile.ID)
	s.NoError(err)
	s.Equal(profile.ID, got.ID)

	_, err = store.GetByID(s.ctx, 99999)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestProfileStore_GetFirst_Empty() {
	store := NewProfileStore(s.db)

	_, err := store.GetFirst(s.ctx)
	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *PostgresIntegrationSuite) TestTransaction_Commit() {
	tm := NewTransactionManager(s.db)
	posts := NewPostStore(s.db)

	var id int64
	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		post := &domain.Post{
			Content:   "committed",
			Status:    domain.StatusDraft,
			CreatedAt: time.Now().UTC(),
		}
		if err := posts.Create(ctx, post); err != nil {
			return err
		}
		id = post.ID
		return nil
	})
	s.Require().NoError(err)

	var count int
	err = s.db.GetContext(s.ctx, &count, "SELECT COUNT(*) FROM posts WHERE id = $1", id)
	s.NoError(err)
	s.Equal(1, count)
}

func (s *PostgresIntegrationSuite) TestTransaction_RollbackKeepsPostScheduled() {
	tm := NewTransactionManager(s.db)
	posts := NewPostStore(s.db)
	analytics := NewAnalyticsStore(s.db)
	post := s.createPost(domain.StatusScheduled)
	now := time.Now().UTC().Truncate(time.Microsecond)

	err := tm.WithTransaction(s.ctx, func(ctx context.Context) error {
		if _, err := posts.MarkPosted(ctx, post.ID, now); err != nil {
			return err
		}
		// negative likes violates the table check and fails the insert
		return analytics.Create(ctx, &domain.Analytics{
			PostID:    post.ID,
			Likes:     -1,
			CreatedAt: now,
		})
	})
	s.Error(err)

	got, err := posts.GetByID(s.ctx, post.ID)
	s.Require().NoError(err)
	s.Equal(domain.StatusScheduled, got.Status)
	s.Nil(got.PostedAt)

	count, err := analytics.CountByPostID(s.ctx, post.ID)
	s.NoError(err)
	s.Equal(0, count)
}
