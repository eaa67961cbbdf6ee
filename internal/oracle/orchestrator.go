package oracle

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/studypulse/pulse/internal/utils"
)

// EventRecorder receives product telemetry events.
type EventRecorder interface {
	Track(event string, properties map[string]any)
}

// EventDegraded is tracked whenever a call was not answered by the first tier.
const EventDegraded = "oracle_degraded"

// Orchestrator holds the ordered remote tiers. It is safe for concurrent use
// as long as its tiers are.
type Orchestrator struct {
	tiers  []Tier
	logger *slog.Logger
	events EventRecorder
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger for tier failures and local fallbacks.
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithEvents sets the telemetry sink.
func WithEvents(e EventRecorder) Option {
	return func(o *Orchestrator) {
		o.events = e
	}
}

// NewOrchestrator creates an orchestrator over tiers in priority order.
// Nil tiers are skipped. With no tiers every call goes straight to local.
func NewOrchestrator(tiers []Tier, opts ...Option) *Orchestrator {
	o := &Orchestrator{logger: slog.Default()}
	for _, t := range tiers {
		if t != nil {
			o.tiers = append(o.tiers, t)
		}
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// TierNames lists configured remote tiers in sweep order.
func (o *Orchestrator) TierNames() []string {
	if o == nil {
		return nil
	}
	names := make([]string, len(o.tiers))
	for i, t := range o.tiers {
		names[i] = t.Name()
	}
	return names
}

// CallWithDegradation sweeps the remote tiers once, top to bottom, and
// returns the first answer that parses into T, passes its validate tags and
// passes check. Every failure moves on to the next tier; no tier is retried.
// When all remote tiers fail, local supplies the value. A nil orchestrator
// behaves as one with no tiers.
func CallWithDegradation[T any](ctx context.Context, o *Orchestrator, req Request, check func(*T) error, local func() T) Result[T] {
	var tiers []Tier
	logger := slog.Default()
	if o != nil {
		tiers = o.tiers
		logger = o.logger
	}

	for i, tier := range tiers {
		name := tier.Name()
		start := time.Now()
		value, err := attempt(ctx, tier, req, check)
		AttemptDuration.WithLabelValues(string(req.Call), name).Observe(time.Since(start).Seconds())

		if err != nil {
			AttemptsTotal.WithLabelValues(string(req.Call), name, "failure").Inc()
			logger.Warn("oracle tier failed", "call", req.Call, "tier", name, "error", err)
			continue
		}

		AttemptsTotal.WithLabelValues(string(req.Call), name, "success").Inc()
		source := Source(name)
		if i > 0 {
			o.trackDegraded(req.Call, source)
		}
		OutcomesTotal.WithLabelValues(string(req.Call), string(source)).Inc()
		return Result[T]{Value: value, Source: source}
	}

	logger.Info("oracle answered locally", "call", req.Call, "tiers_tried", len(tiers))
	if len(tiers) > 0 {
		o.trackDegraded(req.Call, SourceLocal)
	}
	OutcomesTotal.WithLabelValues(string(req.Call), string(SourceLocal)).Inc()
	return Result[T]{Value: local(), Source: SourceLocal}
}

func attempt[T any](ctx context.Context, tier Tier, req Request, check func(*T) error) (T, error) {
	var zero T

	raw, err := tier.Generate(ctx, req)
	if err != nil {
		return zero, err
	}

	value, err := utils.ExtractAndParseJSON[T](raw)
	if err != nil {
		return zero, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}

	if res := ValidateStruct(&value); !res.Valid {
		return zero, fmt.Errorf("%w: %s", ErrInvalidResponse, res.ErrorSummary())
	}

	if check != nil {
		if err := check(&value); err != nil {
			if errors.Is(err, ErrInvalidResponse) {
				return zero, err
			}
			return zero, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
	}
	return value, nil
}

func (o *Orchestrator) trackDegraded(call Call, source Source) {
	if o == nil || o.events == nil {
		return
	}
	o.events.Track(EventDegraded, map[string]any{
		"call":   string(call),
		"source": string(source),
		"remote": source.IsRemote(),
	})
}
