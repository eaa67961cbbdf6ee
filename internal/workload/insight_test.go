package workload

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/studypulse/pulse/internal/oracle"
)

func TestInsighter_Insight(t *testing.T) {
	stats := AggregateStats{Score: 70, RiskTier: RiskCritical, ActiveTaskCount: 6, TotalLoad: 350, Readiness: 40}

	primary := &stubTier{name: "primary", reply: `{"insight": "  You are carrying a lot. Drop one thing today.  "}`}
	got := NewInsighter(oracle.NewOrchestrator([]oracle.Tier{primary})).Insight(context.Background(), stats)
	if got.Source != SourcePrimary || got.Text != "You are carrying a lot. Drop one thing today." {
		t.Errorf("Insight() = %+v", got)
	}

	failing := &stubTier{name: "primary", err: errors.New("down")}
	got = NewInsighter(oracle.NewOrchestrator([]oracle.Tier{failing})).Insight(context.Background(), stats)
	if got.Source != SourceLocal || got.Text != LocalInsight(stats) {
		t.Errorf("Insight() fallback = %+v", got)
	}
}

func TestLocalInsight(t *testing.T) {
	tests := []struct {
		name  string
		stats AggregateStats
		want  string
	}{
		{"rest", AggregateStats{RiskTier: RiskOptimal}, "Nothing is pressing"},
		{"critical", AggregateStats{RiskTier: RiskCritical, ActiveTaskCount: 8}, "8 active tasks"},
		{"moderate", AggregateStats{RiskTier: RiskModerate, ActiveTaskCount: 3}, "getting heavy"},
		{"optimal", AggregateStats{RiskTier: RiskOptimal, ActiveTaskCount: 2}, "balanced"},
	}
	for _, tt := range tests {
		if got := LocalInsight(tt.stats); !strings.Contains(got, tt.want) {
			t.Errorf("%s: LocalInsight() = %q, want it to contain %q", tt.name, got, tt.want)
		}
	}
}
