package workload

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"

	"github.com/studypulse/pulse/internal/oracle"
	"github.com/studypulse/pulse/internal/utils"
)

// Neutral judgment used when every remote tier fails.
const (
	FallbackScore           = 50
	FallbackHours           = 1.0
	FallbackJustification   = "Estimated locally: the scoring service was unavailable, so a neutral score was applied."
	DefaultScoreConcurrency = 4
)

// ScoreRequest is one task to judge.
type ScoreRequest struct {
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Scorer obtains stress judgments from the oracle.
type Scorer struct {
	Oracle *oracle.Orchestrator
	// Concurrency bounds ScoreBatch. Zero uses DefaultScoreConcurrency.
	Concurrency int
}

// NewScorer returns a scorer. A nil orchestrator always answers locally.
func NewScorer(o *oracle.Orchestrator) *Scorer {
	return &Scorer{Oracle: o, Concurrency: DefaultScoreConcurrency}
}

// Score judges one task. It always returns a score in [0,100].
func (s *Scorer) Score(ctx context.Context, title, description string) StressAssessment {
	req := oracle.Request{
		Call:              oracle.CallScore,
		SystemInstruction: scoreInstruction,
		Prompt:            scorePrompt(title, description),
		Schema:            oracle.ScoreSchema,
	}

	res := oracle.CallWithDegradation(ctx, s.Oracle, req, nil, localScore)

	v := res.Value
	return StressAssessment{
		Score:          clampStress(*v.Score),
		Justification:  v.Justification,
		EstimatedHours: *v.EstimatedHours,
		Source:         res.Source,
	}
}

// ScoreBatch judges tasks concurrently. Results are in input order and
// independent of each other.
func (s *Scorer) ScoreBatch(ctx context.Context, reqs []ScoreRequest) []StressAssessment {
	out := make([]StressAssessment, len(reqs))

	limit := s.Concurrency
	if limit <= 0 {
		limit = DefaultScoreConcurrency
	}

	var g errgroup.Group
	g.SetLimit(limit)
	for i, r := range reqs {
		g.Go(func() error {
			out[i] = s.Score(ctx, r.Title, r.Description)
			return nil
		})
	}
	_ = g.Wait()
	return out
}

func localScore() oracle.ScoreResponse {
	score, hours := float64(FallbackScore), FallbackHours
	return oracle.ScoreResponse{
		Score:          &score,
		Justification:  FallbackJustification,
		EstimatedHours: &hours,
	}
}

const scoreInstruction = "You are an educational strategist and psychologist. Quantify academic workload precisely. Return a numeric score from 0 to 100, where 100 is a high-stakes final exam level of effort."

func scorePrompt(title, description string) string {
	return fmt.Sprintf(`Evaluate the following assignment using Bloom's Taxonomy and Cognitive Load Theory:
Title: %s
Description: %s

Consider:
- Estimated hours of deep work required.
- Complexity of research versus execution.
- Likely emotional tax on the student.`, utils.Truncate(title, 300), utils.Truncate(description, 4000))
}
