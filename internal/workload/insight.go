package workload

import (
	"context"
	"fmt"
	"strings"

	"github.com/studypulse/pulse/internal/oracle"
)

// Insighter writes a short wellness note for a stats snapshot.
type Insighter struct {
	Oracle *oracle.Orchestrator
}

// NewInsighter returns an insighter. A nil orchestrator answers from templates.
func NewInsighter(o *oracle.Orchestrator) *Insighter {
	return &Insighter{Oracle: o}
}

// Insight never fails; the local answer is keyed on the risk tier.
func (i *Insighter) Insight(ctx context.Context, stats AggregateStats) Insight {
	req := oracle.Request{
		Call:              oracle.CallInsight,
		SystemInstruction: "You are a warm, empathetic academic mentor. Avoid corporate speak. Be human and brief.",
		Prompt: fmt.Sprintf("Student stats: stress %d%%, risk %s, active tasks %d, readiness %d%%.\nProvide a brief, non-cliche academic wellness insight.",
			stats.Score, stats.RiskTier, stats.ActiveTaskCount, stats.Readiness),
		Schema: oracle.InsightSchema,
	}

	res := oracle.CallWithDegradation(ctx, i.Oracle, req, nil, func() oracle.InsightResponse {
		return oracle.InsightResponse{Insight: LocalInsight(stats)}
	})
	return Insight{Text: strings.TrimSpace(res.Value.Insight), Source: res.Source}
}

// LocalInsight is the templated note for a risk tier.
func LocalInsight(stats AggregateStats) string {
	switch {
	case stats.ActiveTaskCount == 0:
		return "Nothing is pressing right now. Protect this space and rest before the next cycle."
	case stats.RiskTier == RiskCritical:
		return fmt.Sprintf("Your load is well past sustainable (%d active tasks). Pick the single most urgent item, finish it, and ask for an extension on anything that can move.", stats.ActiveTaskCount)
	case stats.RiskTier == RiskModerate:
		return "The week is getting heavy. Block focused time for the top task today and leave slack in the evening."
	default:
		return "Your workload is balanced. Keep the rhythm steady and get ahead on one task while it is calm."
	}
}
