package service

import (
	"context"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"

	"brandpost/internal/domain"
	"brandpost/internal/service/mocks"
)

type AnalyticsServiceTestSuite struct {
	suite.Suite
	ctrl *gomock.Controller

	posts     *mocks.MockPostStore
	analytics *mocks.MockAnalyticsStore

	service *AnalyticsService
}

func (s *AnalyticsServiceTestSuite) SetupTest() {
	s.ctrl = gomock.NewController(s.T())

	s.posts = mocks.NewMockPostStore(s.ctrl)
	s.analytics = mocks.NewMockAnalyticsStore(s.ctrl)

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))

	s.service = NewAnalyticsService(s.posts, s.analytics, logger)
}

func (s *AnalyticsServiceTestSuite) TearDownTest() {
	s.ctrl.Finish()
}

func TestAnalyticsServiceTestSuite(t *testing.T) {
	suite.Run(t, new(AnalyticsServiceTestSuite))
}

func (s *AnalyticsServiceTestSuite) TestSummary() {
	ctx := context.Background()

	records := []domain.Analytics{
		{PostID: 1, Likes: 100, Comments: 10, Shares: 5, Impressions: 2000},
		{PostID: 2, Likes: 50, Comments: 20, Shares: 15, Impressions: 1000},
	}
	s.analytics.EXPECT().List(ctx).Return(records, nil)

	summary, err := s.service.Summary(ctx)

	s.Require().NoError(err)
	s.Equal(2, summary.TotalPosts)
	s.Equal(150, summary.TotalLikes)
	s.Equal(30, summary.TotalComments)
	s.Equal(20, summary.TotalShares)
	s.Equal(3000, summary.TotalImpressions)
	s.Equal(75.0, summary.AverageLikes)
	s.Equal(15.0, summary.AverageComments)
	s.Equal(10.0, summary.AverageShares)
}

func (s *AnalyticsServiceTestSuite) TestSummary_Empty() {
	ctx := context.Background()

	s.analytics.EXPECT().List(ctx).Return(nil, nil)

	summary, err := s.service.Summary(ctx)

	s.Require().NoError(err)
	s.Equal(0, summary.TotalPosts)
	s.Equal(0.0, summary.AverageLikes)
}

func (s *AnalyticsServiceTestSuite) TestForPost() {
	ctx := context.Background()

	post := &domain.Post{ID: 3, Status: domain.StatusPosted}
	record := &domain.Analytics{PostID: 3, Likes: 80}
	s.posts.EXPECT().GetByID(ctx, int64(3)).Return(post, nil)
	s.analytics.EXPECT().GetByPostID(ctx, int64(3)).Return(record, nil)

	gotPost, gotRecord, err := s.service.ForPost(ctx, 3)

	s.NoError(err)
	s.Equal(post, gotPost)
	s.Equal(record, gotRecord)
}

func (s *AnalyticsServiceTestSuite) TestForPost_UnknownPost() {
	ctx := context.Background()

	s.posts.EXPECT().GetByID(ctx, int64(404)).Return(nil, domain.ErrNotFound)

	_, _, err := s.service.ForPost(ctx, 404)

	s.ErrorIs(err, domain.ErrNotFound)
}

func (s *AnalyticsServiceTestSuite) TestRows_ZeroMetricsForUnpublished() {
	ctx := context.Background()
	now := time.Now()

	posts := []domain.Post{
		{ID: 1, Status: domain.StatusPosted, CreatedAt: now},
		{ID: 2, Status: domain.StatusDraft, CreatedAt: now},
	}
	records := []domain.Analytics{
		{PostID: 1, Likes: 120, Comments: 8, Shares: 2},
	}
	s.posts.EXPECT().List(ctx).Return(posts, nil)
	s.analytics.EXPECT().List(ctx).Return(records, nil)

	rows, err := s.service.Rows(ctx)

	s.Require().NoError(err)
	s.Require().Len(rows, 2)
	s.Equal(120, rows[0].Metrics.Likes)
	s.Equal(0, rows[1].Metrics.Likes)
}

func (s *AnalyticsServiceTestSuite) TestTopPerforming_DefaultLimit() {
	ctx := context.Background()

	ranked := []domain.RankedPost{
		{Post: domain.Post{ID: 1}, Analytics: domain.Analytics{Likes: 200}},
	}
	s.analytics.EXPECT().TopPerforming(ctx, defaultTopLimit).Return(ranked, nil)

	got, err := s.service.TopPerforming(ctx, 0)

	s.NoError(err)
	s.Equal(ranked, got)
}

func (s *AnalyticsServiceTestSuite) TestTopPerforming_ExplicitLimit() {
	ctx := context.Background()

	s.analytics.EXPECT().TopPerforming(ctx, 3).Return(nil, nil)

	_, err := s.service.TopPerforming(ctx, 3)

	s.NoError(err)
}

func TestEngagementScore(t *testing.T) {
	a := domain.Analytics{Likes: 10, Comments: 5, Shares: 2}
	if got := a.EngagementScore(); got != 26 {
		t.Fatalf("EngagementScore() = %d, want 26", got)
	}
}
