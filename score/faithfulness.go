package score

import (
	"context"
	"math"
	"strings"
)

// MetricFaithfulness is the metric name reported by the faithfulness scorer.
const MetricFaithfulness = "faithfulness"

// FaithfulnessScorer rates how well a response is supported by a supplied
// reference. The response is split into sentences and each sentence is
// compared against the reference embedding; the final score is the mean of
// the per-sentence similarities (containment flavored: every unsupported
// sentence drags the score down).
type FaithfulnessScorer struct {
	embedder Embedder
}

// NewFaithfulnessScorer wraps an Embedder backend.
func NewFaithfulnessScorer(embedder Embedder) *FaithfulnessScorer {
	return &FaithfulnessScorer{embedder: embedder}
}

// Name implements Scorer.
func (s *FaithfulnessScorer) Name() string { return MetricFaithfulness }

// Score implements Scorer. Callers must only invoke it when a reference is
// present; the orchestrator skips faithfulness entirely otherwise.
func (s *FaithfulnessScorer) Score(ctx context.Context, in Input) (float64, error) {
	if strings.TrimSpace(in.Reference) == "" {
		return 0, scoringErrf(MetricFaithfulness, "reference is empty")
	}
	if strings.TrimSpace(in.Response) == "" {
		return 0, scoringErrf(MetricFaithfulness, "response is empty")
	}
	refVec, err := s.embedder.Embed(ctx, in.Reference)
	if err != nil {
		return 0, &ScoringError{Metric: MetricFaithfulness, Err: err}
	}
	if err := checkVector(MetricFaithfulness, refVec); err != nil {
		return 0, err
	}

	sentences := splitSentences(in.Response)
	var sum float64
	for _, sent := range sentences {
		sv, err := s.embedder.Embed(ctx, sent)
		if err != nil {
			return 0, &ScoringError{Metric: MetricFaithfulness, Err: err}
		}
		if err := checkVector(MetricFaithfulness, sv); err != nil {
			return 0, err
		}
		sim := cosine(sv, refVec)
		if math.IsNaN(sim) {
			return 0, scoringErrf(MetricFaithfulness, "similarity is NaN")
		}
		sum += clamp01(sim)
	}
	return clamp01(sum / float64(len(sentences))), nil
}

// splitSentences breaks text on terminal punctuation. Always returns at
// least one non-empty chunk for non-blank input.
func splitSentences(text string) []string {
	var out []string
	var b strings.Builder
	flush := func() {
		if s := strings.TrimSpace(b.String()); s != "" {
			out = append(out, s)
		}
		b.Reset()
	}
	for _, r := range text {
		b.WriteRune(r)
		switch r {
		case '.', '!', '?':
			flush()
		}
	}
	flush()
	if len(out) == 0 {
		out = append(out, strings.TrimSpace(text))
	}
	return out
}
