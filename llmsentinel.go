// Package llmsentinel provides a high-level façade over the evaluation
// engine and its run store, enabling quality tracking of LLM responses with
// minimal setup. Most applications interact with this package by:
//  1. Creating a Sentinel via New() (optionally overriding the in-memory
//     store with a durable one, and the local scorer backend with a real
//     embedding service)
//  2. Evaluating model responses through any model.Adapter (local runtime,
//     manual entry, or provider API)
//  3. Reading results back via Get / Query / Aggregate for dashboards and
//     reports
//
// The façade delegates orchestration to eval.Evaluator while keeping setup
// and usage ergonomics concise. All defaults are safe for local development
// and testing; production deployments typically supply a SQLite-backed
// store, a pinned embedding backend and a structured logger.
package llmsentinel

import (
	"context"
	"time"

	"github.com/hupe1980/llmsentinel/eval"
	"github.com/hupe1980/llmsentinel/logging"
	"github.com/hupe1980/llmsentinel/model"
	"github.com/hupe1980/llmsentinel/record"
	"github.com/hupe1980/llmsentinel/score"
	"github.com/hupe1980/llmsentinel/store"
	"github.com/hupe1980/llmsentinel/trace"
)

// Options configures the Sentinel instance.
type Options struct {
	// Store persists evaluation records (defaults to in-memory).
	Store store.RunStore

	// Embedder backs both metric scorers (defaults to the deterministic
	// local HashEmbedder). Ignored when Relevance/Faithfulness are set.
	Embedder score.Embedder

	// Relevance overrides the relevance scorer.
	Relevance score.Scorer

	// Faithfulness overrides the faithfulness scorer.
	Faithfulness score.Scorer

	// Sink receives best-effort trace events (defaults to NoOpSink).
	Sink trace.Sink

	// Logger (defaults to NoOp logger if nil).
	Logger logging.Logger

	// Timeout bounds each evaluation's blocking work (0 = caller's
	// context only).
	Timeout time.Duration
}

// Sentinel is the high-level façade aggregating the evaluator and the run
// store.
type Sentinel struct {
	opts      Options
	evaluator *eval.Evaluator
}

// New creates a new Sentinel instance with optional overrides. Any unset
// dependency is initialized with a local in-process implementation.
func New(optFns ...func(o *Options)) *Sentinel {
	opts := Options{
		Store:    store.NewInMemoryStore(),
		Embedder: score.NewHashEmbedder(0),
		Sink:     trace.NoOpSink{},
		Logger:   logging.NoOpLogger{},
	}

	for _, fn := range optFns {
		fn(&opts)
	}

	if opts.Relevance == nil {
		opts.Relevance = score.NewRelevanceScorer(opts.Embedder)
	}
	if opts.Faithfulness == nil {
		opts.Faithfulness = score.NewFaithfulnessScorer(opts.Embedder)
	}

	evaluator := eval.New(func(o *eval.Options) {
		o.Store = opts.Store
		o.Relevance = opts.Relevance
		o.Faithfulness = opts.Faithfulness
		o.Sink = opts.Sink
		o.Logger = opts.Logger
		o.Timeout = opts.Timeout
	})

	return &Sentinel{opts: opts, evaluator: evaluator}
}

// Evaluate runs one evaluation: call the adapter, score the response,
// persist the record. See eval.Evaluator.Evaluate for failure semantics.
func (s *Sentinel) Evaluate(
	ctx context.Context,
	adapter model.Adapter,
	mode record.Mode,
	prompt string,
	reference string,
) (*record.EvaluationRecord, error) {
	return s.evaluator.Evaluate(ctx, adapter, mode, prompt, reference)
}

// EvaluateBatch evaluates a set of samples against the same adapter,
// skipping (and logging) individual failures.
func (s *Sentinel) EvaluateBatch(
	ctx context.Context,
	adapter model.Adapter,
	mode record.Mode,
	samples []eval.Sample,
) ([]*record.EvaluationRecord, error) {
	return s.evaluator.EvaluateBatch(ctx, adapter, mode, samples)
}

// Get returns the persisted record with the given id.
func (s *Sentinel) Get(ctx context.Context, id string) (*record.EvaluationRecord, error) {
	return s.opts.Store.Get(ctx, id)
}

// Query streams persisted records matching the filter in (created_at, id)
// order.
func (s *Sentinel) Query(ctx context.Context, f store.Filter) (store.Cursor, error) {
	return s.opts.Store.Query(ctx, f)
}

// Aggregate computes an on-demand summary over matching records.
func (s *Sentinel) Aggregate(ctx context.Context, f store.Filter) (*store.AggregateView, error) {
	return s.opts.Store.Aggregate(ctx, f)
}

// Close releases the underlying store.
func (s *Sentinel) Close() error {
	return s.opts.Store.Close()
}
