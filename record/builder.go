package record

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// BuilderOptions configures a Builder.
type BuilderOptions struct {
	// Clock stamps created_at. Defaults to SystemClock.
	Clock Clock
	// NewID generates record ids. Defaults to uuid.NewString.
	NewID func() string
}

// Builder assembles immutable EvaluationRecords. It is safe for concurrent
// use; created_at values it stamps strictly increase within the process
// even if the underlying clock is coarse or steps backwards.
type Builder struct {
	clock Clock
	newID func() string

	mu   sync.Mutex
	last time.Time
}

// NewBuilder constructs a Builder with optional overrides.
func NewBuilder(optFns ...func(o *BuilderOptions)) *Builder {
	opts := BuilderOptions{
		Clock: SystemClock(),
		NewID: uuid.NewString,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Builder{clock: opts.Clock, newID: opts.NewID}
}

// Input carries everything the Builder needs to assemble one record.
type Input struct {
	ModelName string
	Mode      Mode
	Prompt    string
	Response  string
	Reference string
	// Relevance must be scored or failed, never skipped: relevance is
	// computable from prompt+response alone, so a skipped relevance metric
	// indicates a caller bug.
	Relevance Metric
	// Faithfulness is skipped when no reference was supplied.
	Faithfulness Metric
	LatencyMS    float64
}

// Build validates the input, assigns a fresh id and timestamp and returns
// the assembled record. Returns *ValidationError on malformed input.
func (b *Builder) Build(in Input) (*EvaluationRecord, error) {
	if !in.Mode.Valid() {
		return nil, &ValidationError{Field: "mode", Reason: "must be one of local, manual, api"}
	}
	if in.ModelName == "" {
		return nil, &ValidationError{Field: "model_name", Reason: "must not be empty"}
	}
	if in.Relevance.State == MetricSkipped {
		return nil, &ValidationError{Field: "relevance", Reason: "metric outcome is required"}
	}
	if in.LatencyMS < 0 {
		return nil, &ValidationError{Field: "latency_ms", Reason: "must be non-negative"}
	}
	if err := checkRange("relevance", in.Relevance); err != nil {
		return nil, err
	}
	if err := checkRange("faithfulness", in.Faithfulness); err != nil {
		return nil, err
	}
	if in.Faithfulness.State == MetricScored && in.Reference == "" {
		return nil, &ValidationError{Field: "faithfulness", Reason: "scored without a reference"}
	}

	rec := &EvaluationRecord{
		ID:        b.newID(),
		ModelName: in.ModelName,
		Mode:      in.Mode,
		Prompt:    in.Prompt,
		Response:  in.Response,
		Reference: in.Reference,
		LatencyMS: in.LatencyMS,
		CreatedAt: b.stamp(),
	}
	applyMetric(&rec.Relevance, &rec.RelevanceError, in.Relevance)
	applyMetric(&rec.Faithfulness, &rec.FaithfulnessError, in.Faithfulness)
	return rec, nil
}

func checkRange(field string, m Metric) error {
	if m.State != MetricScored {
		return nil
	}
	if m.Score != m.Score { // NaN
		return &ValidationError{Field: field, Reason: "score is NaN"}
	}
	if m.Score < 0 || m.Score > 1 {
		return &ValidationError{Field: field, Reason: "score outside [0,1]"}
	}
	return nil
}

func applyMetric(value **float64, errField *string, m Metric) {
	switch m.State {
	case MetricScored:
		v := m.Score
		*value = &v
	case MetricFailed:
		*errField = m.Err
	}
}

// stamp returns a created_at that strictly increases across records built
// by this Builder, so same-process records never collide on created_at
// even when the clock is coarse or steps backwards.
func (b *Builder) stamp() time.Time {
	b.mu.Lock()
	defer b.mu.Unlock()
	now := b.clock()
	if !now.After(b.last) {
		now = b.last.Add(time.Nanosecond)
	}
	b.last = now
	return now
}
