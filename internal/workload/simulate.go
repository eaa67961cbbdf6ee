package workload

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/studypulse/pulse/internal/oracle"
	"github.com/studypulse/pulse/internal/utils"
)

// Bounds on a simulated delay, in days.
const (
	MinSimulationDelay = 1
	MaxSimulationDelay = 14
)

// ErrUnknownTask is returned when a simulation targets a task outside the set.
var ErrUnknownTask = errors.New("unknown task")

// BurnoutRisk grades a projected schedule.
type BurnoutRisk string

const (
	BurnoutLow      BurnoutRisk = "low"
	BurnoutModerate BurnoutRisk = "moderate"
	BurnoutHigh     BurnoutRisk = "high"
	BurnoutCritical BurnoutRisk = "critical"
)

// SimulationResult forecasts the effect of delaying one task. Before and
// After are always computed locally; the remaining fields come from the
// tier named by Source.
type SimulationResult struct {
	TaskID            string         `json:"taskId"`
	DelayDays         int            `json:"delayDays"`
	Before            AggregateStats `json:"before"`
	After             AggregateStats `json:"after"`
	NewStressScore    int            `json:"newStressScore"`
	BurnoutRisk       BurnoutRisk    `json:"burnoutRisk"`
	Warning           string         `json:"warning"`
	AlternativeAction string         `json:"alternativeAction"`
	Source            Source         `json:"source"`
}

// Simulator answers "what if this task moved by N days".
type Simulator struct {
	Oracle     *oracle.Orchestrator
	Aggregator *Aggregator
	Window     WindowPolicy
}

// NewSimulator returns a simulator. A nil orchestrator answers locally.
func NewSimulator(o *oracle.Orchestrator, clock Clock, window WindowPolicy) *Simulator {
	return &Simulator{Oracle: o, Aggregator: NewAggregator(clock), Window: window}
}

// Simulate delays the task taskID by delayDays and compares the risk index
// before and after. The input slice is not modified.
func (s *Simulator) Simulate(ctx context.Context, tasks []Task, taskID string, delayDays int) (SimulationResult, error) {
	if delayDays < MinSimulationDelay || delayDays > MaxSimulationDelay {
		return SimulationResult{}, fmt.Errorf("%w: delay must be between %d and %d days", ErrInvalidTask, MinSimulationDelay, MaxSimulationDelay)
	}

	idx := -1
	for i, t := range tasks {
		if t.ID == taskID {
			idx = i
			break
		}
	}
	if idx < 0 {
		return SimulationResult{}, fmt.Errorf("%w: %q", ErrUnknownTask, taskID)
	}
	target := tasks[idx]
	if target.DueDate == nil {
		return SimulationResult{}, fmt.Errorf("%w: task %q has no due date", ErrInvalidTask, target.Title)
	}

	shifted := ShiftDueDate(tasks, idx, delayDays)
	before := s.Aggregator.Aggregate(tasks, s.Window)
	after := s.Aggregator.Aggregate(shifted, s.Window)

	req := oracle.Request{
		Call:              oracle.CallSimulate,
		SystemInstruction: "You are a predictive analytics engine specialized in student retention and mental health. Forecast outcomes based on stress accumulation patterns.",
		Prompt:            s.simulatePrompt(tasks, target, delayDays),
		Schema:            oracle.SimulationSchema,
	}
	res := oracle.CallWithDegradation(ctx, s.Oracle, req, nil, func() oracle.SimulationResponse {
		return localSimulation(target, delayDays, before, after)
	})

	v := res.Value
	return SimulationResult{
		TaskID:            taskID,
		DelayDays:         delayDays,
		Before:            before,
		After:             after,
		NewStressScore:    clampStress(*v.NewStressScore),
		BurnoutRisk:       BurnoutRisk(v.BurnoutRisk),
		Warning:           v.Warning,
		AlternativeAction: v.AlternativeAction,
		Source:            res.Source,
	}, nil
}

// ShiftDueDate returns a copy of tasks with tasks[idx] due days later.
func ShiftDueDate(tasks []Task, idx, days int) []Task {
	out := make([]Task, len(tasks))
	copy(out, tasks)
	if due := out[idx].DueDate; due != nil {
		moved := due.AddDate(0, 0, days)
		out[idx].DueDate = &moved
	}
	return out
}

// PeakLoad is the heaviest bucket's uncapped load.
func PeakLoad(stats AggregateStats) int {
	peak := 0
	for _, b := range stats.TimeBuckets {
		peak = max(peak, b.RawLoad)
	}
	return peak
}

// BurnoutRiskFor grades a projection from its tier and its heaviest day.
func BurnoutRiskFor(stats AggregateStats) BurnoutRisk {
	peak := PeakLoad(stats)
	switch stats.RiskTier {
	case RiskCritical:
		return BurnoutCritical
	case RiskModerate:
		if peak > DailyLoadHigh {
			return BurnoutHigh
		}
		return BurnoutModerate
	default:
		if peak > DailyLoadHigh {
			return BurnoutModerate
		}
		return BurnoutLow
	}
}

func localSimulation(target Task, days int, before, after AggregateStats) oracle.SimulationResponse {
	score := float64(after.Score)
	peakBefore, peakAfter := PeakLoad(before), PeakLoad(after)

	var warning string
	switch {
	case after.Score < before.Score:
		warning = fmt.Sprintf("Delaying %q by %d days moves it out of the current window. Your risk index drops from %d to %d, but the work still lands later.", target.Title, days, before.Score, after.Score)
	case peakAfter > peakBefore:
		warning = fmt.Sprintf("Delaying %q by %d days stacks it onto a heavier day. Peak daily load rises from %d to %d.", target.Title, days, peakBefore, peakAfter)
	case peakAfter < peakBefore:
		warning = fmt.Sprintf("Delaying %q by %d days eases your peak daily load from %d to %d.", target.Title, days, peakBefore, peakAfter)
	default:
		warning = fmt.Sprintf("Delaying %q by %d days leaves your peak daily load at %d.", target.Title, days, peakAfter)
	}

	alternative := "The shift is absorbable. Use the freed time to start the next item in your execution order."
	if peakAfter > peakBefore {
		alternative = fmt.Sprintf("Keep %q on its current date and split it into two shorter sessions instead.", target.Title)
	}

	return oracle.SimulationResponse{
		NewStressScore:    &score,
		BurnoutRisk:       string(BurnoutRiskFor(after)),
		Warning:           warning,
		AlternativeAction: alternative,
	}
}

type portfolioEntry struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	DueDate     string `json:"dueDate,omitempty"`
	StressScore int    `json:"stressScore"`
}

func (s *Simulator) simulatePrompt(tasks []Task, target Task, days int) string {
	active := s.Aggregator.Active(tasks, s.Window)
	portfolio := make([]portfolioEntry, 0, len(active))
	for _, t := range active {
		e := portfolioEntry{ID: t.ID, Title: t.Title, StressScore: t.StressScore}
		if t.DueDate != nil {
			e.DueDate = t.DueDate.Format(DateLayout)
		}
		portfolio = append(portfolio, e)
	}
	data, _ := json.Marshal(portfolio)

	return fmt.Sprintf(`Simulation scenario:
Current portfolio: %s
Target task ID: %s
Proposed action: delay task by %d days

Calculate the delta in the student's stress trajectory. Consider the burnout threshold.
Use exactly one of low, moderate, high, critical for burnoutRisk.`, utils.Truncate(string(data), 6000), target.ID, days)
}
