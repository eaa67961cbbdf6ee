package workload

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/studypulse/pulse/internal/oracle"
)

func TestScorer_Score(t *testing.T) {
	tests := []struct {
		name       string
		tiers      []oracle.Tier
		wantScore  int
		wantHours  float64
		wantSource Source
	}{
		{
			name:       "primary answer rounded",
			tiers:      []oracle.Tier{&stubTier{name: "primary", reply: `{"score": 72.6, "justification": "Long essay", "estimatedHours": 9}`}},
			wantScore:  73,
			wantHours:  9,
			wantSource: SourcePrimary,
		},
		{
			name: "secondary after primary failure",
			tiers: []oracle.Tier{
				&stubTier{name: "primary", err: errors.New("quota")},
				&stubTier{name: "secondary", reply: "```json\n{\"score\": 35, \"justification\": \"Quiz\", \"estimatedHours\": 1.5}\n```"},
			},
			wantScore:  35,
			wantHours:  1.5,
			wantSource: SourceSecondary,
		},
		{
			name: "total failure returns neutral default",
			tiers: []oracle.Tier{
				&stubTier{name: "primary", err: errors.New("timeout")},
				&stubTier{name: "secondary", reply: `{"score": 250, "justification": "x", "estimatedHours": 1}`},
			},
			wantScore:  FallbackScore,
			wantHours:  FallbackHours,
			wantSource: SourceLocal,
		},
		{
			name:       "no tiers",
			wantScore:  FallbackScore,
			wantHours:  FallbackHours,
			wantSource: SourceLocal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewScorer(oracle.NewOrchestrator(tt.tiers))
			got := s.Score(context.Background(), "Research essay", "3000 words on climate policy")
			if got.Score != tt.wantScore || got.EstimatedHours != tt.wantHours || got.Source != tt.wantSource {
				t.Errorf("Score() = %+v, want score %d hours %v source %s", got, tt.wantScore, tt.wantHours, tt.wantSource)
			}
			if got.Justification == "" {
				t.Error("Justification is empty")
			}
			if tt.wantSource == SourceLocal && got.Justification != FallbackJustification {
				t.Errorf("Justification = %q, want fallback note", got.Justification)
			}
		})
	}
}

// promptTier answers with a score derived from the prompt so batch results
// can be matched to their inputs.
type promptTier struct {
	mu       sync.Mutex
	inflight int
	peak     int
}

func (p *promptTier) Name() string { return "primary" }

func (p *promptTier) Generate(ctx context.Context, req oracle.Request) (string, error) {
	p.mu.Lock()
	p.inflight++
	if p.inflight > p.peak {
		p.peak = p.inflight
	}
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.inflight--
		p.mu.Unlock()
	}()

	var n int
	for _, line := range splitLines(req.Prompt) {
		if _, err := fmt.Sscanf(line, "Title: task-%d", &n); err == nil {
			break
		}
	}
	if n%4 == 0 {
		return "", errors.New("flaky")
	}
	return fmt.Sprintf(`{"score": %d, "justification": "task %d", "estimatedHours": 1}`, n, n), nil
}

func splitLines(s string) []string {
	var lines []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '\n' {
			lines = append(lines, s[start:i])
			start = i + 1
		}
	}
	return append(lines, s[start:])
}

func TestScorer_ScoreBatch(t *testing.T) {
	tier := &promptTier{}
	s := &Scorer{Oracle: oracle.NewOrchestrator([]oracle.Tier{tier}), Concurrency: 3}

	reqs := make([]ScoreRequest, 10)
	for i := range reqs {
		reqs[i] = ScoreRequest{Title: fmt.Sprintf("task-%d", i+1), Description: "d"}
	}

	got := s.ScoreBatch(context.Background(), reqs)
	if len(got) != len(reqs) {
		t.Fatalf("len = %d, want %d", len(got), len(reqs))
	}
	for i, a := range got {
		n := i + 1
		if n%4 == 0 {
			if a.Source != SourceLocal || a.Score != FallbackScore {
				t.Errorf("result %d = %+v, want local fallback", i, a)
			}
			continue
		}
		if a.Score != n || a.Source != SourcePrimary {
			t.Errorf("result %d = %+v, want score %d from primary", i, a, n)
		}
	}
	if tier.peak > 3 {
		t.Errorf("peak concurrency = %d, want <= 3", tier.peak)
	}
}

func TestScorer_ScoreBatchEmpty(t *testing.T) {
	if got := NewScorer(nil).ScoreBatch(context.Background(), nil); len(got) != 0 {
		t.Errorf("ScoreBatch(nil) = %v", got)
	}
}
