package score

import (
	"context"
	"fmt"
)

// Input carries the texts a scorer may inspect. Reference is empty when no
// ground truth was supplied.
type Input struct {
	Prompt    string
	Response  string
	Reference string
}

// Scorer computes a single named quality metric in [0,1].
type Scorer interface {
	// Name identifies the metric (e.g. "relevance", "faithfulness").
	Name() string

	// Score evaluates the metric for the given input. Implementations must
	// return values in [0,1] and report backend failures as *ScoringError.
	Score(ctx context.Context, in Input) (float64, error)
}

// ScoringError reports that a metric could not be computed. The evaluation
// as a whole survives a scoring failure; the metric is recorded as failed.
type ScoringError struct {
	Metric string
	Err    error
}

// Error implements the error interface.
func (e *ScoringError) Error() string {
	return fmt.Sprintf("scoring %s: %v", e.Metric, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ScoringError) Unwrap() error { return e.Err }

func scoringErrf(metric, format string, args ...any) *ScoringError {
	return &ScoringError{Metric: metric, Err: fmt.Errorf(format, args...)}
}
