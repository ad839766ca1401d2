package scheduler

import (
	"context"
	"log/slog"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func TestOneShot_Fires(t *testing.T) {
	s := New(testLogger())

	fired := make(chan struct{})
	s.ScheduleOneShot("job-1", time.Now().Add(10*time.Millisecond), func(ctx context.Context) {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("one-shot job did not fire")
	}

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestOneShot_PastFireTimeRunsImmediately(t *testing.T) {
	s := New(testLogger())

	fired := make(chan struct{})
	s.ScheduleOneShot("job-1", time.Now().Add(-time.Hour), func(ctx context.Context) {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("overdue one-shot job did not fire")
	}

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestOneShot_ReplaceCancelsPrevious(t *testing.T) {
	s := New(testLogger())

	var firstFired, secondFired atomic.Int32
	done := make(chan struct{})

	s.ScheduleOneShot("job-1", time.Now().Add(30*time.Millisecond), func(ctx context.Context) {
		firstFired.Add(1)
	})
	s.ScheduleOneShot("job-1", time.Now().Add(50*time.Millisecond), func(ctx context.Context) {
		secondFired.Add(1)
		close(done)
	})

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("replacement job did not fire")
	}
	// the original trigger would have fired by now if it were still armed
	time.Sleep(50 * time.Millisecond)

	assert.Equal(t, int32(0), firstFired.Load())
	assert.Equal(t, int32(1), secondFired.Load())

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestCancel_RemovesPendingTrigger(t *testing.T) {
	s := New(testLogger())

	var fired atomic.Int32
	s.ScheduleOneShot("job-1", time.Now().Add(40*time.Millisecond), func(ctx context.Context) {
		fired.Add(1)
	})

	assert.True(t, s.Cancel("job-1"))
	assert.False(t, s.Cancel("job-1"))
	assert.False(t, s.Cancel("unknown"))

	time.Sleep(80 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestRunNow_ExecutesInBackground(t *testing.T) {
	s := New(testLogger())

	fired := make(chan struct{})
	s.RunNow(func(ctx context.Context) {
		close(fired)
	})

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("immediate job did not run")
	}

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestRecurring_FiresRepeatedly(t *testing.T) {
	s := New(testLogger())

	var runs atomic.Int32
	require.NoError(t, s.ScheduleRecurring(100*time.Millisecond, func(ctx context.Context) {
		runs.Add(1)
	}))
	s.Start()

	assert.Eventually(t, func() bool {
		return runs.Load() >= 2
	}, 3*time.Second, 20*time.Millisecond)

	require.NoError(t, s.Shutdown(context.Background()))
}

func TestShutdown_WaitsForInFlightCallbacks(t *testing.T) {
	s := New(testLogger())

	started := make(chan struct{})
	var finished atomic.Bool
	s.RunNow(func(ctx context.Context) {
		close(started)
		time.Sleep(50 * time.Millisecond)
		finished.Store(true)
	})

	<-started
	require.NoError(t, s.Shutdown(context.Background()))
	assert.True(t, finished.Load())
}

func TestShutdown_RejectsNewTriggers(t *testing.T) {
	s := New(testLogger())
	require.NoError(t, s.Shutdown(context.Background()))

	var fired atomic.Int32
	s.ScheduleOneShot("job-1", time.Now(), func(ctx context.Context) {
		fired.Add(1)
	})
	s.RunNow(func(ctx context.Context) {
		fired.Add(1)
	})

	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, int32(0), fired.Load())
}

func TestShutdown_AbandonsOnContextExpiry(t *testing.T) {
	s := New(testLogger())

	started := make(chan struct{})
	release := make(chan struct{})
	s.RunNow(func(ctx context.Context) {
		close(started)
		select {
		case <-release:
		case <-ctx.Done():
		}
	})
	<-started

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err := s.Shutdown(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}
