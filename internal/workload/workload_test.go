package workload

import (
	"context"
	"sync"
	"time"

	"github.com/studypulse/pulse/internal/oracle"
)

// fixedNow is a Tuesday morning.
var fixedNow = time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)

func testClock() Clock {
	return Clock{Now: func() time.Time { return fixedNow }, Location: time.UTC}
}

// inDays returns the date n days after fixedNow's date.
func inDays(n int) *time.Time {
	d := time.Date(2026, time.March, 10+n, 0, 0, 0, 0, time.UTC)
	return &d
}

func personal(id string, stress int, due *time.Time) Task {
	return Task{ID: id, Title: id, Kind: KindPersonal, OwnerID: "s1", StressScore: stress, DueDate: due, IncludeInPulse: true}
}

func institutional(id string, stress int, due *time.Time) Task {
	return Task{ID: id, Title: id, Kind: KindInstitutional, OwnerID: "s1", ClassID: "c1", StressScore: stress, DueDate: due}
}

type stubTier struct {
	name  string
	reply string
	err   error

	mu    sync.Mutex
	calls int
}

func (s *stubTier) Name() string { return s.name }

func (s *stubTier) Generate(ctx context.Context, req oracle.Request) (string, error) {
	s.mu.Lock()
	s.calls++
	s.mu.Unlock()
	return s.reply, s.err
}

func (s *stubTier) callCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls
}
