package trace

import (
	"context"
	"time"

	"github.com/hupe1980/llmsentinel/logging"
	"github.com/hupe1980/llmsentinel/record"
)

// Event is the structured notification emitted after a record is persisted.
type Event struct {
	ID        string             `json:"id"`
	ModelName string             `json:"model_name"`
	Mode      record.Mode        `json:"mode"`
	Metrics   map[string]float64 `json:"metrics"`
	LatencyMS float64            `json:"latency_ms"`
	Timestamp time.Time          `json:"timestamp"`
}

// EventFromRecord projects a persisted record into its trace event. Only
// scored metrics appear in Metrics; skipped and failed ones are omitted.
func EventFromRecord(r *record.EvaluationRecord) Event {
	metrics := make(map[string]float64, 2)
	if r.Relevance != nil {
		metrics["relevance"] = *r.Relevance
	}
	if r.Faithfulness != nil {
		metrics["faithfulness"] = *r.Faithfulness
	}
	return Event{
		ID:        r.ID,
		ModelName: r.ModelName,
		Mode:      r.Mode,
		Metrics:   metrics,
		LatencyMS: r.LatencyMS,
		Timestamp: r.CreatedAt,
	}
}

// Sink receives evaluation events. Emit must not block longer than its own
// internal budget and must never panic; there is deliberately no error
// return, enforcing the no-throw contract at the type level.
type Sink interface {
	Emit(ctx context.Context, ev Event)
}

// NoOpSink discards all events.
type NoOpSink struct{}

// Emit implements Sink.
func (NoOpSink) Emit(context.Context, Event) {}

// LoggerSink writes events to a structured logger, useful when no external
// collector is configured but evaluations should still leave a trail.
type LoggerSink struct {
	logger logging.Logger
}

// NewLoggerSink wraps a logger as a Sink.
func NewLoggerSink(logger logging.Logger) *LoggerSink {
	return &LoggerSink{logger: logger}
}

// Emit implements Sink.
func (s *LoggerSink) Emit(_ context.Context, ev Event) {
	s.logger.Info("evaluation recorded",
		"id", ev.ID,
		"model", ev.ModelName,
		"mode", string(ev.Mode),
		"metrics", ev.Metrics,
		"latency_ms", ev.LatencyMS,
	)
}

var (
	_ Sink = NoOpSink{}
	_ Sink = (*LoggerSink)(nil)
)
