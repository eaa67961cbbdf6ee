package workload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studypulse/pulse/internal/oracle"
)

func simulationTasks() []Task {
	return []Task{
		personal("essay", 80, inDays(1)),
		personal("lab", 70, inDays(3)),
		personal("reading", 30, inDays(20)),
	}
}

func TestSimulator_LocalStacksOntoHeavierDay(t *testing.T) {
	tasks := simulationTasks()
	sim := NewSimulator(nil, testClock(), DefaultWindowPolicy())

	got, err := sim.Simulate(context.Background(), tasks, "essay", 2)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if got.Source != SourceLocal {
		t.Errorf("Source = %q, want local", got.Source)
	}
	if got.Before.Score != 36 || got.After.Score != 36 || got.NewStressScore != 36 {
		t.Errorf("scores before=%d after=%d new=%d, want 36", got.Before.Score, got.After.Score, got.NewStressScore)
	}
	if PeakLoad(got.Before) != 80 || PeakLoad(got.After) != 150 {
		t.Errorf("peak before=%d after=%d, want 80 and 150", PeakLoad(got.Before), PeakLoad(got.After))
	}
	if got.BurnoutRisk != BurnoutHigh {
		t.Errorf("BurnoutRisk = %q, want high", got.BurnoutRisk)
	}
	if !strings.Contains(got.Warning, "rises from 80 to 150") {
		t.Errorf("Warning = %q", got.Warning)
	}
	if !strings.Contains(got.AlternativeAction, "split it") {
		t.Errorf("AlternativeAction = %q", got.AlternativeAction)
	}

	if !tasks[0].DueDate.Equal(*inDays(1)) {
		t.Errorf("input task was modified: due %v", tasks[0].DueDate)
	}
}

func TestSimulator_LocalMovesOutOfWindow(t *testing.T) {
	sim := NewSimulator(nil, testClock(), DefaultWindowPolicy())

	got, err := sim.Simulate(context.Background(), simulationTasks(), "reading", 14)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}

	if got.Before.Score != 36 || got.After.Score != 30 {
		t.Errorf("scores before=%d after=%d, want 36 and 30", got.Before.Score, got.After.Score)
	}
	if got.After.RiskTier != RiskOptimal || got.BurnoutRisk != BurnoutModerate {
		t.Errorf("after tier=%q risk=%q", got.After.RiskTier, got.BurnoutRisk)
	}
	if !strings.Contains(got.Warning, "out of the current window") {
		t.Errorf("Warning = %q", got.Warning)
	}
	if !strings.Contains(got.AlternativeAction, "absorbable") {
		t.Errorf("AlternativeAction = %q", got.AlternativeAction)
	}
}

func TestSimulator_Errors(t *testing.T) {
	tasks := append(simulationTasks(), personal("someday", 20, nil))
	sim := NewSimulator(nil, testClock(), DefaultWindowPolicy())
	ctx := context.Background()

	if _, err := sim.Simulate(ctx, tasks, "missing", 2); !errors.Is(err, ErrUnknownTask) {
		t.Errorf("unknown task: error = %v, want ErrUnknownTask", err)
	}
	for _, days := range []int{0, -1, 15} {
		if _, err := sim.Simulate(ctx, tasks, "essay", days); !errors.Is(err, ErrInvalidTask) {
			t.Errorf("delay %d: error = %v, want ErrInvalidTask", days, err)
		}
	}
	if _, err := sim.Simulate(ctx, tasks, "someday", 2); !errors.Is(err, ErrInvalidTask) {
		t.Errorf("undated task: error = %v, want ErrInvalidTask", err)
	}
}

func TestSimulator_Oracle(t *testing.T) {
	primary := &stubTier{name: "primary", reply: `{"newStressScore": 72.4, "burnoutRisk": "high", "warning": "Thursday turns into a wall.", "alternativeAction": "Start the essay tonight."}`}
	sim := NewSimulator(oracle.NewOrchestrator([]oracle.Tier{primary}), testClock(), DefaultWindowPolicy())

	got, err := sim.Simulate(context.Background(), simulationTasks(), "essay", 2)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if got.Source != SourcePrimary || got.NewStressScore != 72 || got.BurnoutRisk != BurnoutHigh {
		t.Errorf("Simulate() = %+v", got)
	}
	if got.Warning != "Thursday turns into a wall." || got.AlternativeAction != "Start the essay tonight." {
		t.Errorf("text = %q / %q", got.Warning, got.AlternativeAction)
	}
	if got.After.Score != 36 {
		t.Errorf("After.Score = %d, want locally computed 36", got.After.Score)
	}
}

func TestSimulator_OracleBadRiskFallsBack(t *testing.T) {
	primary := &stubTier{name: "primary", reply: `{"newStressScore": 40, "burnoutRisk": "severe", "warning": "w", "alternativeAction": "a"}`}
	sim := NewSimulator(oracle.NewOrchestrator([]oracle.Tier{primary}), testClock(), DefaultWindowPolicy())

	got, err := sim.Simulate(context.Background(), simulationTasks(), "essay", 2)
	if err != nil {
		t.Fatalf("Simulate() error = %v", err)
	}
	if got.Source != SourceLocal || got.BurnoutRisk != BurnoutHigh {
		t.Errorf("Simulate() = %+v, want local fallback", got)
	}
	if primary.callCount() != 1 {
		t.Errorf("primary calls = %d, want 1", primary.callCount())
	}
}

func TestBurnoutRiskFor(t *testing.T) {
	bucket := func(raw int) []TimeBucket { return []TimeBucket{{RawLoad: raw}} }
	tests := []struct {
		name  string
		stats AggregateStats
		want  BurnoutRisk
	}{
		{"critical tier", AggregateStats{RiskTier: RiskCritical}, BurnoutCritical},
		{"moderate with heavy day", AggregateStats{RiskTier: RiskModerate, TimeBuckets: bucket(61)}, BurnoutHigh},
		{"moderate spread out", AggregateStats{RiskTier: RiskModerate, TimeBuckets: bucket(60)}, BurnoutModerate},
		{"optimal with heavy day", AggregateStats{RiskTier: RiskOptimal, TimeBuckets: bucket(90)}, BurnoutModerate},
		{"optimal", AggregateStats{RiskTier: RiskOptimal, TimeBuckets: bucket(40)}, BurnoutLow},
	}
	for _, tt := range tests {
		if got := BurnoutRiskFor(tt.stats); got != tt.want {
			t.Errorf("%s: BurnoutRiskFor() = %q, want %q", tt.name, got, tt.want)
		}
	}
}
