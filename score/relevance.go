package score

import (
	"context"
	"math"
	"strings"
)

// MetricRelevance is the metric name reported by the relevance scorer.
const MetricRelevance = "relevance"

// RelevanceScorer rates how well a response addresses its prompt using
// embedding cosine similarity. It needs no reference text.
type RelevanceScorer struct {
	embedder Embedder
}

// NewRelevanceScorer wraps an Embedder backend.
func NewRelevanceScorer(embedder Embedder) *RelevanceScorer {
	return &RelevanceScorer{embedder: embedder}
}

// Name implements Scorer.
func (s *RelevanceScorer) Name() string { return MetricRelevance }

// Score implements Scorer.
func (s *RelevanceScorer) Score(ctx context.Context, in Input) (float64, error) {
	if strings.TrimSpace(in.Prompt) == "" {
		return 0, scoringErrf(MetricRelevance, "prompt is empty")
	}
	if strings.TrimSpace(in.Response) == "" {
		return 0, scoringErrf(MetricRelevance, "response is empty")
	}
	pv, err := s.embedder.Embed(ctx, in.Prompt)
	if err != nil {
		return 0, &ScoringError{Metric: MetricRelevance, Err: err}
	}
	if err := checkVector(MetricRelevance, pv); err != nil {
		return 0, err
	}
	rv, err := s.embedder.Embed(ctx, in.Response)
	if err != nil {
		return 0, &ScoringError{Metric: MetricRelevance, Err: err}
	}
	if err := checkVector(MetricRelevance, rv); err != nil {
		return 0, err
	}
	sim := cosine(pv, rv)
	if math.IsNaN(sim) {
		return 0, scoringErrf(MetricRelevance, "similarity is NaN")
	}
	return clamp01(sim), nil
}
