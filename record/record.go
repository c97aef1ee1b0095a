package record

import (
	"fmt"
	"time"
)

// Mode identifies how a model response was obtained.
type Mode string

const (
	// ModeLocal marks responses produced by a locally hosted runtime.
	ModeLocal Mode = "local"
	// ModeManual marks responses entered by hand.
	ModeManual Mode = "manual"
	// ModeAPI marks responses fetched from a remote provider API.
	ModeAPI Mode = "api"
)

// Valid reports whether m is one of the recognized modes.
func (m Mode) Valid() bool {
	switch m {
	case ModeLocal, ModeManual, ModeAPI:
		return true
	}
	return false
}

// ParseMode converts a raw string into a Mode, rejecting unknown values at
// the boundary so arbitrary strings never travel downstream.
func ParseMode(s string) (Mode, error) {
	m := Mode(s)
	if !m.Valid() {
		return "", &ValidationError{Field: "mode", Reason: fmt.Sprintf("unknown mode %q", s)}
	}
	return m, nil
}

// MetricState describes the outcome of a single metric computation.
type MetricState int

const (
	// MetricSkipped means the metric was not evaluated at all (e.g. no
	// reference text was supplied for faithfulness). Distinct from a score
	// of zero.
	MetricSkipped MetricState = iota
	// MetricScored means the metric carries a computed value in [0,1].
	MetricScored
	// MetricFailed means the scorer was invoked but errored; the record is
	// still persisted with the failure annotated.
	MetricFailed
)

// Metric is the outcome of one scorer run: a value, a failure, or skipped.
type Metric struct {
	Score float64
	Err   string
	State MetricState
}

// ScoredMetric wraps a computed score.
func ScoredMetric(v float64) Metric { return Metric{Score: v, State: MetricScored} }

// FailedMetric records a scorer failure without discarding the evaluation.
func FailedMetric(err error) Metric { return Metric{Err: err.Error(), State: MetricFailed} }

// SkippedMetric marks a metric that was never evaluated.
func SkippedMetric() Metric { return Metric{State: MetricSkipped} }

// EvaluationRecord is one immutable evaluation result. Once persisted it is
// never mutated; corrections are new records (append-only semantics).
//
// Faithfulness and Relevance are pointers so that "absent" serializes as a
// missing field rather than 0.0 — a skipped or failed metric must never be
// confused with a metric evaluated as zero.
type EvaluationRecord struct {
	ID                string    `json:"id"`
	ModelName         string    `json:"model_name"`
	Mode              Mode      `json:"mode"`
	Prompt            string    `json:"prompt"`
	Response          string    `json:"response"`
	Reference         string    `json:"reference,omitempty"`
	Faithfulness      *float64  `json:"faithfulness,omitempty"`
	FaithfulnessError string    `json:"faithfulness_error,omitempty"`
	Relevance         *float64  `json:"relevance,omitempty"`
	RelevanceError    string    `json:"relevance_error,omitempty"`
	LatencyMS         float64   `json:"latency_ms"`
	CreatedAt         time.Time `json:"created_at"`
}

// Clone returns a deep copy so stores can hand out records without exposing
// internal state to mutation.
func (r *EvaluationRecord) Clone() *EvaluationRecord {
	if r == nil {
		return nil
	}
	out := *r
	if r.Faithfulness != nil {
		v := *r.Faithfulness
		out.Faithfulness = &v
	}
	if r.Relevance != nil {
		v := *r.Relevance
		out.Relevance = &v
	}
	return &out
}

// RelevanceMetric reconstructs the Metric outcome stored on the record.
func (r *EvaluationRecord) RelevanceMetric() Metric {
	return metricFromFields(r.Relevance, r.RelevanceError)
}

// FaithfulnessMetric reconstructs the Metric outcome stored on the record.
func (r *EvaluationRecord) FaithfulnessMetric() Metric {
	return metricFromFields(r.Faithfulness, r.FaithfulnessError)
}

func metricFromFields(v *float64, errMsg string) Metric {
	switch {
	case v != nil:
		return Metric{Score: *v, State: MetricScored}
	case errMsg != "":
		return Metric{Err: errMsg, State: MetricFailed}
	default:
		return Metric{State: MetricSkipped}
	}
}

// ValidationError reports malformed input to the record builder.
type ValidationError struct {
	Field  string
	Reason string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}
