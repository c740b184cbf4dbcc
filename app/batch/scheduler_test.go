package batch

import (
	"context"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"feedwatch/app/fetcher"
)

func newSlowRunner(delay time.Duration) (*Runner, *httptest.Server) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(delay)
		w.Header().Set("Content-Type", "application/rss+xml")
		w.Write([]byte(testRSS))
	}))

	client := fetcher.NewClient(fetcher.Options{
		Timeout:    10 * time.Second,
		MaxRetries: 0,
		BaseDelay:  1 * time.Millisecond,
	})
	return NewRunner(client, nil, []FeedSource{{Name: "slow", URL: server.URL}}), server
}

func TestNewSchedulerValidation(t *testing.T) {
	runner := newTestRunner(nil)

	tests := []struct {
		name   string
		hour   int
		minute int
		valid  bool
	}{
		{"valid morning run", 6, 0, true},
		{"valid edge values", 23, 59, true},
		{"valid midnight", 0, 0, true},
		{"hour too large", 24, 0, false},
		{"negative hour", -1, 0, false},
		{"minute too large", 6, 60, false},
		{"negative minute", 6, -1, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, err := NewScheduler(runner, tt.hour, tt.minute)
			if tt.valid {
				if err != nil {
					t.Errorf("Expected valid schedule, got: %v", err)
				}
				if s != nil {
					s.Stop()
				}
				return
			}

			if err == nil {
				t.Fatal("Expected validation error")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("Expected *ValidationError, got: %T", err)
			}
		})
	}
}

func TestStopIdempotent(t *testing.T) {
	runner := newTestRunner(nil)
	s, err := NewScheduler(runner, 6, 0)
	if err != nil {
		t.Fatal(err)
	}

	// Twice, with no active schedule: must never panic.
	s.Stop()
	s.Stop()
}

func TestStopAfterStart(t *testing.T) {
	runner := newTestRunner(nil)
	s, err := NewScheduler(runner, 6, 0)
	if err != nil {
		t.Fatal(err)
	}

	s.Start(false)

	done := make(chan struct{})
	go func() {
		s.Stop()
		s.Stop()
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Stop did not return")
	}
}

func TestNextRunTime(t *testing.T) {
	runner := newTestRunner(nil)
	s, err := NewScheduler(runner, 6, 30)
	if err != nil {
		t.Fatal(err)
	}

	if s.NextRunTime() != nil {
		t.Error("Expected nil next run time before start")
	}

	s.Start(false)
	defer s.Stop()

	deadline := time.Now().Add(time.Second)
	var next *time.Time
	for time.Now().Before(deadline) {
		if next = s.NextRunTime(); next != nil {
			break
		}
		time.Sleep(5 * time.Millisecond)
	}

	if next == nil {
		t.Fatal("Expected next run time after start")
	}
	if next.Hour() != 6 || next.Minute() != 30 {
		t.Errorf("Expected next run at 06:30, got: %s", next.Format(time.RFC3339))
	}
	if !next.After(time.Now()) {
		t.Error("Expected next run time in the future")
	}
}

func TestNextRunTimeNilAfterStop(t *testing.T) {
	runner := newTestRunner(nil)
	s, err := NewScheduler(runner, 6, 0)
	if err != nil {
		t.Fatal(err)
	}

	s.Start(false)
	s.Stop()

	if s.NextRunTime() != nil {
		t.Error("Expected nil next run time after stop")
	}
}

func TestNextAfterRollsToTomorrow(t *testing.T) {
	runner := newTestRunner(nil)
	s, err := NewScheduler(runner, 6, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	now := time.Date(2023, 7, 3, 12, 0, 0, 0, time.UTC)
	next := s.nextAfter(now)

	want := time.Date(2023, 7, 4, 6, 0, 0, 0, time.UTC)
	if !next.Equal(want) {
		t.Errorf("Expected %s, got: %s", want, next)
	}

	early := time.Date(2023, 7, 3, 5, 0, 0, 0, time.UTC)
	if next := s.nextAfter(early); !next.Equal(time.Date(2023, 7, 3, 6, 0, 0, 0, time.UTC)) {
		t.Errorf("Expected same-day run, got: %s", next)
	}
}

func TestRunNowSingleFlight(t *testing.T) {
	runner, server := newSlowRunner(300 * time.Millisecond)
	defer server.Close()

	s, err := NewScheduler(runner, 6, 0)
	if err != nil {
		t.Fatal(err)
	}
	defer s.Stop()

	var wg sync.WaitGroup
	started := make(chan struct{})

	wg.Add(1)
	go func() {
		defer wg.Done()
		close(started)
		if _, ran := s.RunNow(context.Background()); !ran {
			t.Error("Expected first run to execute")
		}
	}()

	<-started
	time.Sleep(50 * time.Millisecond)

	if _, ran := s.RunNow(context.Background()); ran {
		t.Error("Expected concurrent run to be skipped")
	}

	wg.Wait()

	// After the first run finishes, the guard is released.
	if _, ran := s.RunNow(context.Background()); !ran {
		t.Error("Expected run to execute after previous completed")
	}

	stats := s.LastStats()
	if stats == nil {
		t.Fatal("Expected last stats to be recorded")
	}
	if stats.FeedsSucceeded != 1 {
		t.Errorf("Expected 1 successful feed, got: %d", stats.FeedsSucceeded)
	}
}
