package telemetry

import (
	"runtime"
	"sync"
	"testing"

	"github.com/posthog/posthog-go"

	"github.com/studypulse/pulse/internal/oracle"
)

// mockEnqueuer captures events for testing.
type mockEnqueuer struct {
	mu     sync.Mutex
	events []posthog.Capture
	closed bool
}

func (m *mockEnqueuer) Enqueue(msg posthog.Message) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if capture, ok := msg.(posthog.Capture); ok {
		m.events = append(m.events, capture)
	}
	return nil
}

func (m *mockEnqueuer) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

func (m *mockEnqueuer) getEvents() []posthog.Capture {
	m.mu.Lock()
	defer m.mu.Unlock()
	result := make([]posthog.Capture, len(m.events))
	copy(result, m.events)
	return result
}

func newTestClient(distinctID, version string) (*PostHogClient, *mockEnqueuer) {
	mock := &mockEnqueuer{}
	return newPostHogClient(mock, distinctID, version), mock
}

// Both clients plug into the orchestrator.
var (
	_ oracle.EventRecorder = (*PostHogClient)(nil)
	_ oracle.EventRecorder = (*NoopClient)(nil)
)

func TestEventOracleDegraded_MatchesOracle(t *testing.T) {
	if EventOracleDegraded != oracle.EventDegraded {
		t.Errorf("EventOracleDegraded = %q, oracle emits %q", EventOracleDegraded, oracle.EventDegraded)
	}
}

func TestPostHogClient_Track_WhenEnabled(t *testing.T) {
	client, mock := newTestClient("anon-1", "0.3.0")

	client.Track(EventOracleDegraded, map[string]any{"call": "score", "source": "secondary"})

	events := mock.getEvents()
	if len(events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(events))
	}
	event := events[0]

	if event.Event != EventOracleDegraded {
		t.Errorf("event name = %q", event.Event)
	}
	if event.DistinctId != "anon-1" {
		t.Errorf("distinct_id = %q, want anon-1", event.DistinctId)
	}
	if event.Properties["call"] != "score" || event.Properties["source"] != "secondary" {
		t.Errorf("custom properties = %v", event.Properties)
	}
	if event.Properties["os"] != runtime.GOOS || event.Properties["arch"] != runtime.GOARCH {
		t.Errorf("platform properties missing: %v", event.Properties)
	}
	if event.Properties["pulse_version"] != "0.3.0" {
		t.Errorf("pulse_version = %v", event.Properties["pulse_version"])
	}
	if event.Properties["$process_person_profile"] != false {
		t.Error("person profiles must be disabled")
	}
}

func TestPostHogClient_Close(t *testing.T) {
	client, mock := newTestClient("a", "v")

	if err := client.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if !mock.closed {
		t.Error("underlying client should be closed")
	}

	// Events after close are dropped.
	client.Track("late", nil)
	if n := len(mock.getEvents()); n != 0 {
		t.Errorf("expected no events after Close, got %d", n)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestPostHogClient_Track_Concurrent(t *testing.T) {
	client, mock := newTestClient("a", "v")

	var wg sync.WaitGroup
	for i := range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			client.Track("concurrent_event", map[string]any{"iteration": i})
		}()
	}
	wg.Wait()

	if n := len(mock.getEvents()); n != 50 {
		t.Errorf("expected 50 events, got %d", n)
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		name     string
		cfg      ClientConfig
		wantNoop bool
	}{
		{name: "no api key", cfg: ClientConfig{Config: &Config{Enabled: true}}, wantNoop: true},
		{name: "nil config", cfg: ClientConfig{APIKey: "k"}, wantNoop: true},
		{name: "disabled", cfg: ClientConfig{APIKey: "k", Config: &Config{}}, wantNoop: true},
		{name: "enabled", cfg: ClientConfig{APIKey: "phc_test", Config: &Config{Enabled: true, AnonymousID: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := New(tt.cfg)
			if err != nil {
				t.Fatalf("New() error = %v", err)
			}
			defer func() { _ = c.Close() }()

			_, isNoop := c.(*NoopClient)
			if isNoop != tt.wantNoop {
				t.Errorf("New() = %T, wantNoop %v", c, tt.wantNoop)
			}
		})
	}
}
