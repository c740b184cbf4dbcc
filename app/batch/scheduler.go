package batch

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Scheduler fires one batch run per day at a configured hour:minute. A fire
// that arrives while the previous run is still in progress is skipped, never
// overlapped.
type Scheduler struct {
	runner *Runner
	hour   int
	minute int

	ctx     context.Context
	cancel  context.CancelFunc
	wg      sync.WaitGroup
	running atomic.Bool

	mu        sync.Mutex
	started   bool
	stopped   bool
	nextRun   *time.Time
	lastStats *Stats
}

func NewScheduler(runner *Runner, hour, minute int) (*Scheduler, error) {
	if hour < 0 || hour > 23 {
		return nil, &ValidationError{Field: "hour", Message: fmt.Sprintf("%d out of range [0,23]", hour)}
	}
	if minute < 0 || minute > 59 {
		return nil, &ValidationError{Field: "minute", Message: fmt.Sprintf("%d out of range [0,59]", minute)}
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Scheduler{
		runner: runner,
		hour:   hour,
		minute: minute,
		ctx:    ctx,
		cancel: cancel,
	}, nil
}

// Start registers the recurring daily trigger. With blocking=true the loop
// runs on the calling goroutine until Stop; otherwise it runs in the
// background. Starting twice is a no-op.
func (s *Scheduler) Start(blocking bool) {
	s.mu.Lock()
	if s.started || s.stopped {
		s.mu.Unlock()
		return
	}
	s.started = true
	s.mu.Unlock()

	if blocking {
		s.loop()
		return
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		s.loop()
	}()
}

// Stop cancels the schedule and waits for the loop to exit. Idempotent;
// calling it with no active schedule is harmless.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	if s.stopped {
		s.mu.Unlock()
		return
	}
	s.stopped = true
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()

	s.mu.Lock()
	s.nextRun = nil
	s.mu.Unlock()
}

// NextRunTime returns the next scheduled fire time, or nil when the
// scheduler is not running.
func (s *Scheduler) NextRunTime() *time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.nextRun == nil {
		return nil
	}
	next := *s.nextRun
	return &next
}

// LastStats returns the statistics of the most recent completed run, or nil.
func (s *Scheduler) LastStats() *Stats {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastStats
}

// RunNow triggers one batch run immediately, subject to the same
// single-flight guard as scheduled fires. It reports whether the run was
// executed or skipped because another run was in progress.
func (s *Scheduler) RunNow(ctx context.Context) (Stats, bool) {
	if !s.running.CompareAndSwap(false, true) {
		slog.Warn("Batch run skipped: previous run still in progress")
		return Stats{}, false
	}
	defer s.running.Store(false)

	stats := s.runner.Run(ctx)

	s.mu.Lock()
	s.lastStats = &stats
	s.mu.Unlock()

	return stats, true
}

func (s *Scheduler) loop() {
	for {
		next := s.nextAfter(time.Now())

		s.mu.Lock()
		s.nextRun = &next
		s.mu.Unlock()

		slog.Debug("Next batch run scheduled", "at", next.Format(time.RFC3339))

		timer := time.NewTimer(time.Until(next))
		select {
		case <-s.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			if _, ran := s.RunNow(s.ctx); !ran {
				slog.Warn("Scheduled fire skipped", "scheduled_at", next.Format(time.RFC3339))
			}
		}
	}
}

// nextAfter computes the next hour:minute occurrence strictly after now.
func (s *Scheduler) nextAfter(now time.Time) time.Time {
	next := time.Date(now.Year(), now.Month(), now.Day(), s.hour, s.minute, 0, 0, now.Location())
	if !next.After(now) {
		next = next.AddDate(0, 0, 1)
	}
	return next
}
