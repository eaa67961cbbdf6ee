package telemetry

import (
	"io"
	"runtime"
	"sync"
	"time"

	"github.com/posthog/posthog-go"
)

// Client is the interface for telemetry clients. It satisfies
// oracle.EventRecorder.
type Client interface {
	// Track sends an event asynchronously. No-op when disabled.
	Track(event string, properties map[string]any)

	// Close flushes pending events and closes the client.
	Close() error
}

// enqueuer is the part of the PostHog client we use.
type enqueuer interface {
	io.Closer
	Enqueue(msg posthog.Message) error
}

// PostHogClient sends events to PostHog under the installation's anonymous ID.
type PostHogClient struct {
	client     enqueuer
	distinctID string
	version    string

	mu     sync.RWMutex
	closed bool
}

// ClientConfig holds configuration for initializing the telemetry client.
type ClientConfig struct {
	// APIKey is the PostHog project API key.
	APIKey string

	// Version is the pulse build version.
	Version string

	// Config is the installation state (enabled flag, anonymous ID).
	Config *Config

	// Endpoint is an optional self-hosted PostHog endpoint.
	Endpoint string
}

// New returns a PostHog client when telemetry is enabled and configured,
// and a NoopClient otherwise.
func New(cfg ClientConfig) (Client, error) {
	if cfg.APIKey == "" || cfg.Config == nil || !cfg.Config.Enabled {
		return NewNoopClient(), nil
	}

	phConfig := posthog.Config{
		BatchSize: 20,
		Interval:  5 * time.Second,
		Logger:    quietPostHogLogger{},
	}
	if cfg.Endpoint != "" {
		phConfig.Endpoint = cfg.Endpoint
	}

	client, err := posthog.NewWithConfig(cfg.APIKey, phConfig)
	if err != nil {
		return nil, err
	}
	return newPostHogClient(client, cfg.Config.AnonymousID, cfg.Version), nil
}

func newPostHogClient(enq enqueuer, distinctID, version string) *PostHogClient {
	return &PostHogClient{client: enq, distinctID: distinctID, version: version}
}

// Track enqueues an event. It never blocks on the network; events after
// Close are dropped.
func (c *PostHogClient) Track(event string, properties map[string]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if c.closed {
		return
	}

	props := posthog.NewProperties()
	for k, v := range properties {
		props.Set(k, v)
	}
	props.Set("os", runtime.GOOS)
	props.Set("arch", runtime.GOARCH)
	props.Set("pulse_version", c.version)
	// Anonymous events: no person profiles.
	props.Set("$process_person_profile", false)

	_ = c.client.Enqueue(posthog.Capture{
		DistinctId: c.distinctID,
		Event:      event,
		Properties: props,
	})
}

// Close flushes pending events. Later calls are no-ops.
func (c *PostHogClient) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	return c.client.Close()
}

// NoopClient is a telemetry client that does nothing.
type NoopClient struct{}

// Track is a no-op.
func (c *NoopClient) Track(event string, properties map[string]any) {}

// Close is a no-op.
func (c *NoopClient) Close() error { return nil }

// NewNoopClient returns a client that does nothing.
func NewNoopClient() *NoopClient {
	return &NoopClient{}
}

// quietPostHogLogger keeps transport warnings out of the server log.
type quietPostHogLogger struct{}

func (quietPostHogLogger) Debugf(string, ...interface{}) {}
func (quietPostHogLogger) Logf(string, ...interface{})   {}
func (quietPostHogLogger) Warnf(string, ...interface{})  {}
func (quietPostHogLogger) Errorf(string, ...interface{}) {}
