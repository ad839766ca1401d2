// Package scheduler provides the timer service that drives scheduled
// publication: keyed one-shot triggers with cancel-and-replace semantics and
// recurring jobs such as the due-post sweep. Callbacks run on background
// goroutines so that registering a trigger never blocks the caller.
package scheduler

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

type Scheduler struct {
	logger *slog.Logger
	cron   *cron.Cron

	baseCtx context.Context
	cancel  context.CancelFunc

	mu      sync.Mutex
	timers  map[string]*time.Timer
	wg      sync.WaitGroup
	stopped bool
}

func New(logger *slog.Logger) *Scheduler {
	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		logger:  logger.With("component", "scheduler"),
		cron:    cron.New(),
		baseCtx: ctx,
		cancel:  cancel,
		timers:  make(map[string]*time.Timer),
	}
}

// Start begins firing recurring jobs. One-shot triggers are armed as soon as
// they are registered, independent of Start.
func (s *Scheduler) Start() {
	s.cron.Start()
	s.logger.Info("scheduler started")
}

// ScheduleRecurring registers a job that runs every interval.
func (s *Scheduler) ScheduleRecurring(interval time.Duration, fn func(ctx context.Context)) error {
	spec := fmt.Sprintf("@every %s", interval)
	_, err := s.cron.AddFunc(spec, func() {
		s.track(fn)
	})
	if err != nil {
		return fmt.Errorf("register recurring job: %w", err)
	}
	s.logger.Info("registered recurring job", "interval", interval)
	return nil
}

// track runs a recurring callback with shutdown accounting: stopped
// schedulers drop the tick, in-flight ticks are waited for on Shutdown.
func (s *Scheduler) track(fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	defer s.wg.Done()
	fn(s.baseCtx)
}

// ScheduleOneShot arms a trigger that fires once at fireAt. A trigger already
// registered under the same job id is cancelled first, so at most one trigger
// per id is ever pending.
func (s *Scheduler) ScheduleOneShot(jobID string, fireAt time.Time, fn func(ctx context.Context)) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.stopped {
		s.logger.Warn("scheduler stopped, dropping one-shot job", "job_id", jobID)
		return
	}

	if prev, ok := s.timers[jobID]; ok {
		if prev.Stop() {
			s.wg.Done()
		}
		delete(s.timers, jobID)
		s.logger.Debug("replaced pending one-shot job", "job_id", jobID)
	}

	delay := time.Until(fireAt)
	if delay < 0 {
		delay = 0
	}

	s.wg.Add(1)
	s.timers[jobID] = time.AfterFunc(delay, func() {
		defer s.wg.Done()

		s.mu.Lock()
		delete(s.timers, jobID)
		stopped := s.stopped
		s.mu.Unlock()

		if stopped {
			return
		}
		fn(s.baseCtx)
	})

	s.logger.Debug("registered one-shot job", "job_id", jobID, "fire_at", fireAt)
}

// RunNow enqueues a callback for immediate background execution.
func (s *Scheduler) RunNow(fn func(ctx context.Context)) {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		s.logger.Warn("scheduler stopped, dropping immediate job")
		return
	}
	s.wg.Add(1)
	s.mu.Unlock()

	go func() {
		defer s.wg.Done()
		fn(s.baseCtx)
	}()
}

// Cancel removes a pending one-shot trigger. It reports whether a trigger was
// pending; cancelling an unknown or already-fired job id is a no-op.
func (s *Scheduler) Cancel(jobID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	timer, ok := s.timers[jobID]
	if !ok {
		return false
	}
	delete(s.timers, jobID)
	if timer.Stop() {
		s.wg.Done()
	}
	s.logger.Debug("cancelled one-shot job", "job_id", jobID)
	return true
}

// Shutdown stops accepting new triggers, disarms pending one-shots and waits
// for in-flight callbacks. If ctx expires first, remaining callbacks are
// abandoned: their context is cancelled and Shutdown returns the ctx error.
func (s *Scheduler) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return nil
	}
	s.stopped = true
	for id, timer := range s.timers {
		if timer.Stop() {
			s.wg.Done()
		}
		delete(s.timers, id)
	}
	s.mu.Unlock()

	cronCtx := s.cron.Stop()

	done := make(chan struct{})
	go func() {
		s.wg.Wait()
		<-cronCtx.Done()
		close(done)
	}()

	select {
	case <-ctx.Done():
		s.cancel()
		return ctx.Err()
	case <-done:
	}

	s.cancel()
	s.logger.Info("scheduler stopped")
	return nil
}
