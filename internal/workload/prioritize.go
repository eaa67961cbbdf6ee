package workload

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/studypulse/pulse/internal/oracle"
	"github.com/studypulse/pulse/internal/utils"
)

// Local ranking constants.
const (
	MinDaysUntilDue   = 0.1
	SaturationDays    = 1.5
	SaturatedUrgency  = 200.0
	UrgencyNumerator  = 50.0
	StressWeight      = 0.6
	ImmediateSlots    = 3
	CategoryImmediate = "Immediate Action"
	CategoryPlanned   = "Planned"
)

// Fixed strategy sentences.
const (
	LocalDailyStrategy = "Maintain a steady cognitive rhythm."
	RestDailyStrategy  = "Reset and recharge for future cycles."
)

// DaysUntilDue is the fractional days from now to midnight of the due date,
// floored at 0.1. Tasks without a due date are +Inf days away.
func (c Clock) DaysUntilDue(t Task) float64 {
	if t.DueDate == nil {
		return math.Inf(1)
	}
	days := c.dueInstant(*t.DueDate).Sub(c.now()).Hours() / 24
	return math.Max(MinDaysUntilDue, days)
}

// Urgency saturates at 200 within 1.5 days and decays as 50/days beyond.
// An infinite distance yields 0.
func Urgency(daysUntilDue float64) float64 {
	if daysUntilDue <= SaturationDays {
		return SaturatedUrgency
	}
	return (1 / daysUntilDue) * UrgencyNumerator
}

// PriorityScore is stress*0.6 + urgency.
func (c Clock) PriorityScore(t Task) float64 {
	return float64(t.StressScore)*StressWeight + Urgency(c.DaysUntilDue(t))
}

// RankLocal orders tasks by PriorityScore descending. Equal scores keep
// input order. The input slice is not reordered.
func RankLocal(tasks []Task, clock Clock) []ExecutionStep {
	scores := make([]float64, len(tasks))
	order := make([]int, len(tasks))
	for i, t := range tasks {
		scores[i] = clock.PriorityScore(t)
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return scores[order[a]] > scores[order[b]]
	})

	steps := make([]ExecutionStep, len(order))
	for rank, idx := range order {
		category := CategoryPlanned
		if rank < ImmediateSlots {
			category = CategoryImmediate
		}
		steps[rank] = ExecutionStep{
			TaskID:   tasks[idx].ID,
			Sequence: rank + 1,
			Category: category,
			Reason:   LocalAdvice(tasks[idx]),
		}
	}
	return steps
}

// LocalAdvice is the planning hint shown when no model rationale exists.
func LocalAdvice(t Task) string {
	switch {
	case t.StressScore > 80 && t.Kind == KindInstitutional:
		return "Start 2 weeks early. Focus on high-yield revision."
	case t.StressScore > 60:
		return "Break this down. Start 5 days before deadline."
	case t.StressScore > 40:
		return "Review materials 2 days prior."
	default:
		return "Can be completed in one sitting."
	}
}

// Prioritizer ranks tasks through the oracle, degrading to RankLocal.
type Prioritizer struct {
	Oracle *oracle.Orchestrator
	Clock  Clock
}

// NewPrioritizer returns a prioritizer. A nil orchestrator ranks locally.
func NewPrioritizer(o *oracle.Orchestrator, clock Clock) *Prioritizer {
	return &Prioritizer{Oracle: o, Clock: clock}
}

// Prioritize returns a dense 1..N execution order for tasks. An empty input
// returns an empty order without consulting the oracle.
func (p *Prioritizer) Prioritize(ctx context.Context, tasks []Task) PrioritizationResult {
	if len(tasks) == 0 {
		return PrioritizationResult{
			ExecutionOrder: []ExecutionStep{},
			DailyStrategy:  RestDailyStrategy,
			Source:         SourceLocal,
		}
	}

	snapshot := append([]Task(nil), tasks...)
	req := oracle.Request{
		Call:              oracle.CallPrioritize,
		SystemInstruction: prioritizeInstruction,
		Prompt:            p.prioritizePrompt(snapshot),
		Schema:            oracle.PrioritizationSchema,
	}

	res := oracle.CallWithDegradation(ctx, p.Oracle, req,
		func(r *oracle.PrioritizationResponse) error { return checkPermutation(r, snapshot) },
		func() oracle.PrioritizationResponse { return p.localResponse(snapshot) },
	)

	return toResult(res.Value, res.Source, snapshot)
}

// PrioritizeLocal ranks with the deterministic formula only.
func (p *Prioritizer) PrioritizeLocal(tasks []Task) PrioritizationResult {
	if len(tasks) == 0 {
		return PrioritizationResult{ExecutionOrder: []ExecutionStep{}, DailyStrategy: RestDailyStrategy, Source: SourceLocal}
	}
	return PrioritizationResult{
		ExecutionOrder: RankLocal(tasks, p.Clock),
		DailyStrategy:  LocalDailyStrategy,
		Source:         SourceLocal,
	}
}

func (p *Prioritizer) localResponse(tasks []Task) oracle.PrioritizationResponse {
	steps := RankLocal(tasks, p.Clock)
	out := oracle.PrioritizationResponse{
		ExecutionOrder: make([]oracle.StepResponse, len(steps)),
		DailyStrategy:  LocalDailyStrategy,
	}
	for i, s := range steps {
		out.ExecutionOrder[i] = oracle.StepResponse(s)
	}
	return out
}

// checkPermutation accepts only an order covering exactly the input IDs
// with sequences 1..N, each once.
func checkPermutation(r *oracle.PrioritizationResponse, tasks []Task) error {
	if len(r.ExecutionOrder) != len(tasks) {
		return fmt.Errorf("%w: %d steps for %d tasks", oracle.ErrInvalidResponse, len(r.ExecutionOrder), len(tasks))
	}

	want := make(map[string]bool, len(tasks))
	for _, t := range tasks {
		want[t.ID] = true
	}
	seenID := make(map[string]bool, len(tasks))
	seenSeq := make([]bool, len(tasks)+1)

	for _, s := range r.ExecutionOrder {
		if !want[s.TaskID] {
			return fmt.Errorf("%w: unknown task id %q", oracle.ErrInvalidResponse, s.TaskID)
		}
		if seenID[s.TaskID] {
			return fmt.Errorf("%w: duplicate task id %q", oracle.ErrInvalidResponse, s.TaskID)
		}
		if s.Sequence < 1 || s.Sequence > len(tasks) || seenSeq[s.Sequence] {
			return fmt.Errorf("%w: sequence %d is not a dense 1..%d permutation", oracle.ErrInvalidResponse, s.Sequence, len(tasks))
		}
		seenID[s.TaskID] = true
		seenSeq[s.Sequence] = true
	}
	return nil
}

func toResult(r oracle.PrioritizationResponse, source Source, tasks []Task) PrioritizationResult {
	byID := make(map[string]Task, len(tasks))
	for _, t := range tasks {
		byID[t.ID] = t
	}

	steps := make([]ExecutionStep, len(r.ExecutionOrder))
	for i, s := range r.ExecutionOrder {
		reason := strings.TrimSpace(s.Reason)
		if reason == "" {
			reason = LocalAdvice(byID[s.TaskID])
		}
		steps[i] = ExecutionStep{
			TaskID:   s.TaskID,
			Sequence: s.Sequence,
			Category: utils.TitleLabel(s.Category),
			Reason:   reason,
		}
	}
	sort.SliceStable(steps, func(i, j int) bool { return steps[i].Sequence < steps[j].Sequence })

	return PrioritizationResult{
		ExecutionOrder: steps,
		DailyStrategy:  strings.TrimSpace(r.DailyStrategy),
		Source:         source,
	}
}

const prioritizeInstruction = `You are a productivity architect for students. Help them manage cognitive energy, not just time. Use a professional but encouraging tone.
Rank every task exactly once. Weigh urgency (days until due) against stress score. Assign each task a category such as "Do Now", "Quick Win", "Cascading Risk" or "Postpone" and a one-sentence reason. Sequence numbers must run 1..N with no gaps or ties.`

type promptTask struct {
	ID           string   `json:"taskId"`
	Title        string   `json:"title"`
	Kind         Kind     `json:"kind"`
	StressScore  int      `json:"stressScore"`
	DueDate      string   `json:"dueDate,omitempty"`
	DaysUntilDue *float64 `json:"daysUntilDue,omitempty"`
}

func (p *Prioritizer) prioritizePrompt(tasks []Task) string {
	items := make([]promptTask, len(tasks))
	for i, t := range tasks {
		items[i] = promptTask{
			ID:          t.ID,
			Title:       utils.Truncate(t.Title, 200),
			Kind:        t.Kind,
			StressScore: t.StressScore,
		}
		if t.DueDate != nil {
			days := math.Round(p.Clock.DaysUntilDue(t)*10) / 10
			items[i].DueDate = t.DueDate.Format(DateLayout)
			items[i].DaysUntilDue = &days
		}
	}
	data, _ := json.Marshal(items)
	return fmt.Sprintf("Current student workload:\n%s\n\nIdentify the most demanding task to do first, the quick wins, and the tasks that would wreck the schedule if delayed.", data)
}
