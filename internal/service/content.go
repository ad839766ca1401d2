package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"brandpost/internal/domain"
)

const (
	fallbackSuffix  = "\n\nThis is a generated LinkedIn-style post (demo). #AI #Marketing #PersonalBranding"
	defaultHashtags = "#AI #LinkedIn"
)

// FallbackContent is the deterministic local template used when the
// text-generation collaborator is unavailable.
func FallbackContent(prompt string) string {
	return prompt + fallbackSuffix
}

// ContentService owns the post lifecycle up to publication: draft creation
// from a prompt, scheduling, cancellation and manual publish-now.
type ContentService struct {
	posts     PostStore
	generator Generator
	scheduler JobScheduler
	engine    PublishEngine
	clock     Clock
	logger    *slog.Logger
}

func NewContentService(
	posts PostStore,
	generator Generator,
	scheduler JobScheduler,
	engine PublishEngine,
	clock Clock,
	logger *slog.Logger,
) *ContentService {
	return &ContentService{
		posts:     posts,
		generator: generator,
		scheduler: scheduler,
		engine:    engine,
		clock:     clock,
		logger:    logger.With("component", "content"),
	}
}

// GenerateDraft produces post copy for the prompt and saves it as a draft.
// Generation failures never surface to the caller: the draft falls back to
// the local template.
func (s *ContentService) GenerateDraft(ctx context.Context, prompt string) (*domain.Post, error) {
	if strings.TrimSpace(prompt) == "" {
		return nil, fmt.Errorf("%w: prompt is required", domain.ErrInvalidState)
	}

	content, err := s.generator.Generate(ctx, prompt)
	if err != nil {
		s.logger.Warn("generation failed, using fallback template", "error", err)
		content = FallbackContent(prompt)
	}

	hashtags := extractHashtags(content)
	post := &domain.Post{
		Prompt:    &prompt,
		Content:   content,
		Hashtags:  &hashtags,
		Status:    domain.StatusDraft,
		CreatedAt: s.clock.Now().UTC(),
	}

	if err := s.posts.Create(ctx, post); err != nil {
		return nil, fmt.Errorf("save draft: %w", err)
	}

	s.logger.Info("created draft post", "post_id", post.ID)
	return post, nil
}

// Schedule marks the post for publication at the given time and arms a
// one-shot trigger for it. Scheduling the same post again replaces any
// pending trigger.
func (s *ContentService) Schedule(ctx context.Context, postID int64, at time.Time) (*domain.Post, error) {
	at = at.UTC()

	post, err := s.posts.SetScheduled(ctx, postID, at)
	if err != nil {
		return nil, err
	}

	s.scheduler.ScheduleOneShot(PublishJobID(postID), at, func(cbCtx context.Context) {
		s.engine.Publish(cbCtx, postID)
	})

	s.logger.Info("scheduled post", "post_id", postID, "run_at", at)
	return post, nil
}

// ScheduleIn schedules the post for publication after the given delay.
func (s *ContentService) ScheduleIn(ctx context.Context, postID int64, delay time.Duration) (*domain.Post, error) {
	return s.Schedule(ctx, postID, s.clock.Now().Add(delay))
}

// PublishNow cancels any pending trigger for the post and hands it to the
// publication engine in the background.
func (s *ContentService) PublishNow(ctx context.Context, postID int64) error {
	if _, err := s.posts.GetByID(ctx, postID); err != nil {
		return err
	}

	s.scheduler.Cancel(PublishJobID(postID))
	s.scheduler.RunNow(func(cbCtx context.Context) {
		s.engine.Publish(cbCtx, postID)
	})

	s.logger.Info("queued immediate publish", "post_id", postID)
	return nil
}

// CancelSchedule reverts a scheduled post to draft and disarms its trigger.
// If the sweep is already publishing the post this is a lost race, which the
// engine's idempotence guard keeps harmless.
func (s *ContentService) CancelSchedule(ctx context.Context, postID int64) (*domain.Post, error) {
	post, err := s.posts.ClearSchedule(ctx, postID)
	if err != nil {
		return nil, err
	}

	s.scheduler.Cancel(PublishJobID(postID))

	s.logger.Info("cancelled scheduled post", "post_id", postID)
	return post, nil
}

func (s *ContentService) List(ctx context.Context) ([]domain.Post, error) {
	return s.posts.List(ctx)
}

func (s *ContentService) Get(ctx context.Context, postID int64) (*domain.Post, error) {
	return s.posts.GetByID(ctx, postID)
}

// extractHashtags takes the trailing hashtag line of the generated text if
// present, the default tags otherwise.
func extractHashtags(content string) string {
	lines := strings.Split(strings.TrimSpace(content), "\n")
	if len(lines) > 0 {
		last := strings.TrimSpace(lines[len(lines)-1])
		if strings.HasPrefix(last, "#") {
			return last
		}
	}
	return defaultHashtags
}
