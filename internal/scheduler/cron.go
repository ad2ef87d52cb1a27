package scheduler

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// CronScheduler schedules one-shot callbacks on a robfig/cron runner.
type CronScheduler struct {
	cron   *cron.Cron
	logger zerolog.Logger
}

// NewCronScheduler creates a scheduler. Callbacks only fire after Start.
func NewCronScheduler(logger zerolog.Logger) *CronScheduler {
	logger = logger.With().Str("component", "scheduler").Logger()
	cl := cronLogger{logger: logger}

	return &CronScheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl)),
		),
		logger: logger,
	}
}

// Now returns the wall-clock time.
func (s *CronScheduler) Now() time.Time {
	return time.Now()
}

// ScheduleAfter runs fn once, d from now. The entry removes itself after firing.
func (s *CronScheduler) ScheduleAfter(d time.Duration, fn func()) CancelFunc {
	var (
		mu sync.Mutex
		id cron.EntryID
	)

	job := cron.FuncJob(func() {
		fn()

		mu.Lock()
		entryID := id
		mu.Unlock()
		s.cron.Remove(entryID)
	})

	mu.Lock()
	id = s.cron.Schedule(&oneShot{at: time.Now().Add(d)}, job)
	mu.Unlock()

	return func() {
		mu.Lock()
		entryID := id
		mu.Unlock()
		s.cron.Remove(entryID)
	}
}

// Pending returns the number of callbacks that have not fired yet.
func (s *CronScheduler) Pending() int {
	return len(s.cron.Entries())
}

// Start begins firing callbacks.
func (s *CronScheduler) Start() {
	s.cron.Start()
	s.logger.Info().Msg("scheduler started")
}

// Stop halts the runner and waits for running callbacks to finish.
func (s *CronScheduler) Stop() {
	s.logger.Info().Int("pending", s.Pending()).Msg("stopping scheduler")
	<-s.cron.Stop().Done()
	s.logger.Info().Msg("scheduler stopped")
}

// oneShot is a cron.Schedule that activates exactly once.
type oneShot struct {
	at    time.Time
	fired atomic.Bool
}

// Next returns the activation time on the first call and the zero time
// afterwards, which cron treats as never.
func (o *oneShot) Next(time.Time) time.Time {
	if o.fired.Swap(true) {
		return time.Time{}
	}
	return o.at
}

// cronLogger adapts zerolog to cron.Logger.
type cronLogger struct {
	logger zerolog.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.logger.Debug().Fields(keysAndValues).Msg(msg)
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	l.logger.Error().Err(err).Fields(keysAndValues).Msg(msg)
}
