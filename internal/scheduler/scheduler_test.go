package scheduler

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC)

func TestFake_FiresInTimeOrder(t *testing.T) {
	f := NewFake(epoch)

	var fired []string
	f.ScheduleAfter(30*time.Second, func() { fired = append(fired, "c") })
	f.ScheduleAfter(10*time.Second, func() { fired = append(fired, "a") })
	f.ScheduleAfter(20*time.Second, func() { fired = append(fired, "b") })

	f.Advance(15 * time.Second)
	assert.Equal(t, []string{"a"}, fired)
	assert.Equal(t, epoch.Add(15*time.Second), f.Now())
	assert.Equal(t, 2, f.Pending())

	f.Advance(time.Minute)
	assert.Equal(t, []string{"a", "b", "c"}, fired)
	assert.Equal(t, 0, f.Pending())
}

func TestFake_TiesFireInSchedulingOrder(t *testing.T) {
	f := NewFake(epoch)

	var fired []int
	for i := 0; i < 5; i++ {
		f.ScheduleAfter(time.Second, func() { fired = append(fired, i) })
	}

	f.Advance(time.Second)
	assert.Equal(t, []int{0, 1, 2, 3, 4}, fired)
}

func TestFake_NowDuringCallback(t *testing.T) {
	f := NewFake(epoch)

	var seen time.Time
	f.ScheduleAfter(5*time.Second, func() { seen = f.Now() })

	f.Advance(time.Hour)
	assert.Equal(t, epoch.Add(5*time.Second), seen)
	assert.Equal(t, epoch.Add(time.Hour), f.Now())
}

func TestFake_CallbackSchedulesMore(t *testing.T) {
	f := NewFake(epoch)

	var fired []string
	f.ScheduleAfter(time.Second, func() {
		fired = append(fired, "first")
		f.ScheduleAfter(time.Second, func() { fired = append(fired, "second") })
		f.ScheduleAfter(time.Minute, func() { fired = append(fired, "late") })
	})

	f.Advance(10 * time.Second)
	assert.Equal(t, []string{"first", "second"}, fired)
	assert.Equal(t, 1, f.Pending())
}

func TestFake_Cancel(t *testing.T) {
	f := NewFake(epoch)

	fired := false
	cancel := f.ScheduleAfter(time.Second, func() { fired = true })
	cancel()
	cancel()

	f.Advance(time.Minute)
	assert.False(t, fired)
	assert.Equal(t, 0, f.Pending())
}

func TestSleep_Completes(t *testing.T) {
	f := NewFake(epoch)

	done := make(chan error, 1)
	go func() {
		done <- Sleep(context.Background(), f, 2*time.Second)
	}()

	require.Eventually(t, func() bool { return f.Pending() == 1 }, time.Second, time.Millisecond)
	f.Advance(2 * time.Second)

	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(time.Second):
		t.Fatal("sleep did not return")
	}
}

func TestSleep_ContextCancelled(t *testing.T) {
	f := NewFake(epoch)
	ctx, cancel := context.WithCancel(context.Background())

	done := make(chan error, 1)
	go func() {
		done <- Sleep(ctx, f, time.Hour)
	}()

	require.Eventually(t, func() bool { return f.Pending() == 1 }, time.Second, time.Millisecond)
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("sleep did not return")
	}
	assert.Equal(t, 0, f.Pending())
}

func TestSleep_ZeroDuration(t *testing.T) {
	f := NewFake(epoch)

	assert.NoError(t, Sleep(context.Background(), f, 0))
	assert.Equal(t, 0, f.Pending())
}

func TestCronScheduler_FiresOnce(t *testing.T) {
	s := NewCronScheduler(zerolog.Nop())
	s.Start()
	defer s.Stop()

	var (
		mu    sync.Mutex
		count int
	)
	s.ScheduleAfter(20*time.Millisecond, func() {
		mu.Lock()
		count++
		mu.Unlock()
	})

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return count == 1
	}, 2*time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool { return s.Pending() == 0 }, time.Second, 5*time.Millisecond)

	time.Sleep(50 * time.Millisecond)
	mu.Lock()
	assert.Equal(t, 1, count)
	mu.Unlock()
}

func TestCronScheduler_Cancel(t *testing.T) {
	s := NewCronScheduler(zerolog.Nop())
	s.Start()
	defer s.Stop()

	fired := make(chan struct{}, 1)
	cancel := s.ScheduleAfter(100*time.Millisecond, func() { fired <- struct{}{} })
	cancel()

	select {
	case <-fired:
		t.Fatal("cancelled callback fired")
	case <-time.After(250 * time.Millisecond):
	}
	assert.Equal(t, 0, s.Pending())
}

func TestCronScheduler_ScheduledBeforeStart(t *testing.T) {
	s := NewCronScheduler(zerolog.Nop())

	fired := make(chan struct{}, 1)
	s.ScheduleAfter(10*time.Millisecond, func() { fired <- struct{}{} })
	assert.Equal(t, 1, s.Pending())

	s.Start()
	defer s.Stop()

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("callback did not fire")
	}
}

func TestCronScheduler_SleepOnWallClock(t *testing.T) {
	s := NewCronScheduler(zerolog.Nop())
	s.Start()
	defer s.Stop()

	start := time.Now()
	require.NoError(t, Sleep(context.Background(), s, 30*time.Millisecond))
	assert.GreaterOrEqual(t, time.Since(start), 30*time.Millisecond)
}
