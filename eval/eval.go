package eval

import (
	"context"
	"errors"
	"time"

	"github.com/hupe1980/llmsentinel/logging"
	"github.com/hupe1980/llmsentinel/model"
	"github.com/hupe1980/llmsentinel/record"
	"github.com/hupe1980/llmsentinel/score"
	"github.com/hupe1980/llmsentinel/store"
	"github.com/hupe1980/llmsentinel/trace"
)

// Options configures an Evaluator using the functional options pattern.
// Every dependency has a safe local default so a zero-config Evaluator
// works for development and tests.
type Options struct {
	// Store receives every persisted record. Defaults to an in-memory
	// store; production deployments supply a SQLiteStore (or their own
	// RunStore) with an explicit lifecycle.
	Store store.RunStore

	// Relevance scores prompt/response alignment. Defaults to the
	// embedding scorer over a deterministic local embedder.
	Relevance score.Scorer

	// Faithfulness scores response/reference support. Same default
	// backend as Relevance.
	Faithfulness score.Scorer

	// Builder assembles records. Defaults to a Builder on the system
	// clock with uuid ids.
	Builder *record.Builder

	// Sink receives best-effort trace events after persistence. Defaults
	// to NoOpSink.
	Sink trace.Sink

	// Logger provides structured logging. Defaults to NoOpLogger.
	Logger logging.Logger

	// Timeout bounds each Evaluate call's blocking work (model call and
	// scorer backends). Zero disables the evaluator-side deadline; the
	// caller's context still applies.
	Timeout time.Duration
}

// Evaluator coordinates one evaluation end to end: invoke the adapter,
// measure latency, score the response, build the record, persist it and
// notify the trace sink. Safe for concurrent use; many Evaluate calls may
// proceed in parallel against the same store.
type Evaluator struct {
	store        store.RunStore
	relevance    score.Scorer
	faithfulness score.Scorer
	builder      *record.Builder
	sink         trace.Sink
	logger       logging.Logger
	timeout      time.Duration
}

// New constructs an Evaluator with optional overrides.
func New(optFns ...func(o *Options)) *Evaluator {
	embedder := score.NewHashEmbedder(0)
	opts := Options{
		Store:        store.NewInMemoryStore(),
		Relevance:    score.NewRelevanceScorer(embedder),
		Faithfulness: score.NewFaithfulnessScorer(embedder),
		Builder:      record.NewBuilder(),
		Sink:         trace.NoOpSink{},
		Logger:       logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Evaluator{
		store:        opts.Store,
		relevance:    opts.Relevance,
		faithfulness: opts.Faithfulness,
		builder:      opts.Builder,
		sink:         opts.Sink,
		logger:       opts.Logger,
		timeout:      opts.Timeout,
	}
}

// Store exposes the run store for read-side callers (dashboards, reports).
func (e *Evaluator) Store() store.RunStore { return e.store }

// Evaluate runs one complete evaluation. Reference may be empty, in which
// case faithfulness is skipped (recorded as absent, never 0.0).
//
// Failure behavior:
//   - adapter failure: *ModelCallError, nothing persisted
//   - deadline exceeded: *TimeoutError, nothing persisted
//   - caller cancellation: context.Canceled, nothing persisted
//   - scorer failure: evaluation succeeds; the metric is recorded as failed
func (e *Evaluator) Evaluate(
	ctx context.Context,
	adapter model.Adapter,
	mode record.Mode,
	prompt string,
	reference string,
) (*record.EvaluationRecord, error) {
	if !mode.Valid() {
		return nil, &record.ValidationError{Field: "mode", Reason: "must be one of local, manual, api"}
	}

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	modelName := adapter.Info().Name

	start := time.Now()
	response, err := adapter.Generate(ctx, prompt)
	latency := time.Since(start)
	if err != nil {
		e.logger.Error("model call failed", "model", modelName, "mode", string(mode), "error", err.Error())
		return nil, e.terminationError(ctx, modelName, err)
	}
	e.logger.Debug("model call completed", "model", modelName, "duration", latency)

	relevance, err := e.runScorer(ctx, e.relevance, score.Input{Prompt: prompt, Response: response})
	if err != nil {
		return nil, err
	}

	faithfulness := record.SkippedMetric()
	if reference != "" {
		faithfulness, err = e.runScorer(ctx, e.faithfulness, score.Input{
			Prompt:    prompt,
			Response:  response,
			Reference: reference,
		})
		if err != nil {
			return nil, err
		}
	}

	rec, err := e.builder.Build(record.Input{
		ModelName:    modelName,
		Mode:         mode,
		Prompt:       prompt,
		Response:     response,
		Reference:    reference,
		Relevance:    relevance,
		Faithfulness: faithfulness,
		LatencyMS:    float64(latency) / float64(time.Millisecond),
	})
	if err != nil {
		return nil, err
	}

	if err := e.store.Append(ctx, rec); err != nil {
		e.logger.Error("record append failed", "record_id", rec.ID, "error", err.Error())
		return nil, err
	}

	// Best-effort notification; detached from the call's deadline so a
	// timed-out budget cannot suppress the event for a persisted record.
	e.sink.Emit(context.WithoutCancel(ctx), trace.EventFromRecord(rec))

	e.logger.Info("evaluation completed",
		"record_id", rec.ID,
		"model", modelName,
		"mode", string(mode),
		"latency_ms", rec.LatencyMS,
	)
	return rec, nil
}

// runScorer absorbs scorer failures into a failed Metric, except when the
// failure was really the context terminating: a timeout or cancellation
// must abort the evaluation before anything is written.
func (e *Evaluator) runScorer(ctx context.Context, s score.Scorer, in score.Input) (record.Metric, error) {
	start := time.Now()
	v, err := s.Score(ctx, in)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return record.Metric{}, &TimeoutError{Budget: e.timeout}
			}
			return record.Metric{}, ctxErr
		}
		e.logger.Warn("metric scoring failed", "metric", s.Name(), "error", err.Error())
		return record.FailedMetric(err), nil
	}
	e.logger.Debug("metric scored", "metric", s.Name(), "value", v, "duration", time.Since(start))
	return record.ScoredMetric(v), nil
}

// terminationError maps an adapter failure onto the error taxonomy.
func (e *Evaluator) terminationError(ctx context.Context, modelName string, err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(ctx.Err(), context.DeadlineExceeded) {
		return &TimeoutError{Budget: e.timeout}
	}
	if errors.Is(err, context.Canceled) {
		return err
	}
	return &ModelCallError{Model: modelName, Err: err}
}

// Sample pairs a prompt with an optional ground-truth reference for batch
// evaluation.
type Sample struct {
	Prompt    string
	Reference string
}

// EvaluateBatch evaluates each sample in order against the same adapter.
// Individual evaluation failures are logged and skipped so one bad sample
// does not abort a long run; context termination stops the batch and
// returns the records collected so far.
func (e *Evaluator) EvaluateBatch(
	ctx context.Context,
	adapter model.Adapter,
	mode record.Mode,
	samples []Sample,
) ([]*record.EvaluationRecord, error) {
	records := make([]*record.EvaluationRecord, 0, len(samples))
	for _, sample := range samples {
		rec, err := e.Evaluate(ctx, adapter, mode, sample.Prompt, sample.Reference)
		if err != nil {
			if ctx.Err() != nil {
				return records, ctx.Err()
			}
			e.logger.Warn("sample evaluation failed", "prompt", sample.Prompt, "error", err.Error())
			continue
		}
		records = append(records, rec)
	}
	return records, nil
}
