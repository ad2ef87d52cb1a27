package scheduler

import (
	"sync"
	"time"
)

// Fake is a virtual clock. Time moves only through Advance, and callbacks run
// on the goroutine that calls Advance.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	seq   uint64
	tasks map[uint64]*fakeTask
}

type fakeTask struct {
	at  time.Time
	seq uint64
	fn  func()
}

// NewFake creates a virtual clock starting at start.
func NewFake(start time.Time) *Fake {
	return &Fake{
		now:   start,
		tasks: make(map[uint64]*fakeTask),
	}
}

// Now returns the virtual time.
func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

// ScheduleAfter registers fn to run once the clock has advanced by d.
func (f *Fake) ScheduleAfter(d time.Duration, fn func()) CancelFunc {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.seq++
	seq := f.seq
	f.tasks[seq] = &fakeTask{at: f.now.Add(d), seq: seq, fn: fn}

	return func() {
		f.mu.Lock()
		defer f.mu.Unlock()
		delete(f.tasks, seq)
	}
}

// Advance moves the clock forward by d, firing due callbacks in time order.
// Callbacks due at the same instant fire in the order they were scheduled.
// Callbacks may schedule further work; anything due within the window fires too.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)

	for {
		next := f.nextDue(target)
		if next == nil {
			break
		}
		delete(f.tasks, next.seq)
		if next.at.After(f.now) {
			f.now = next.at
		}

		f.mu.Unlock()
		next.fn()
		f.mu.Lock()
	}

	f.now = target
	f.mu.Unlock()
}

// Pending returns the number of callbacks that have not fired.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.tasks)
}

func (f *Fake) nextDue(target time.Time) *fakeTask {
	var next *fakeTask
	for _, task := range f.tasks {
		if task.at.After(target) {
			continue
		}
		if next == nil ||
			task.at.Before(next.at) ||
			(task.at.Equal(next.at) && task.seq < next.seq) {
			next = task
		}
	}
	return next
}
