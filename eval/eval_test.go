package eval

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/llmsentinel/model"
	"github.com/hupe1980/llmsentinel/record"
	"github.com/hupe1980/llmsentinel/score"
	"github.com/hupe1980/llmsentinel/store"
	"github.com/hupe1980/llmsentinel/trace"
)

// sameVectorEmbedder embeds every text to the same vector, making both
// scorers return exactly 1.0.
type sameVectorEmbedder struct{}

func (sameVectorEmbedder) Embed(context.Context, string) ([]float64, error) {
	return []float64{1, 0, 0}, nil
}

// failingScorer always errors with a ScoringError.
type failingScorer struct{ name string }

func (s failingScorer) Name() string { return s.name }

func (s failingScorer) Score(context.Context, score.Input) (float64, error) {
	return 0, &score.ScoringError{Metric: s.name, Err: errors.New("backend unreachable")}
}

// recordingSink captures emitted trace events.
type recordingSink struct {
	mu     sync.Mutex
	events []trace.Event
}

func (s *recordingSink) Emit(_ context.Context, ev trace.Event) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
}

func TestEvaluate_Success(t *testing.T) {
	st := store.NewInMemoryStore()
	sink := &recordingSink{}
	ev := New(func(o *Options) {
		o.Store = st
		o.Sink = sink
	})

	adapter := model.NewMockAdapter("llama3")
	adapter.AddResponse("Capital of France?", "Paris")

	rec, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Capital of France?", "")
	require.NoError(t, err)
	assert.NotEmpty(t, rec.ID)
	assert.Equal(t, "llama3", rec.ModelName)
	assert.Equal(t, record.ModeLocal, rec.Mode)
	assert.Equal(t, "Paris", rec.Response)
	assert.NotNil(t, rec.Relevance)
	assert.GreaterOrEqual(t, rec.LatencyMS, 0.0)

	persisted, err := st.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, persisted)

	require.Len(t, sink.events, 1)
	assert.Equal(t, rec.ID, sink.events[0].ID)
}

func TestEvaluate_NoReferenceSkipsFaithfulness(t *testing.T) {
	ev := New()
	adapter := model.NewMockAdapter("llama3")

	rec, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Question?", "")
	require.NoError(t, err)
	assert.Nil(t, rec.Faithfulness)
	assert.Empty(t, rec.FaithfulnessError)
	assert.Equal(t, record.MetricSkipped, rec.FaithfulnessMetric().State)
}

func TestEvaluate_APIModeScenario(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) {
		o.Store = st
		o.Relevance = score.NewRelevanceScorer(sameVectorEmbedder{})
		o.Faithfulness = score.NewFaithfulnessScorer(sameVectorEmbedder{})
	})

	delay := 30 * time.Millisecond
	adapter := model.NewMockAdapter("gpt-4o-mini").WithDelay(delay)
	adapter.AddResponse("Capital of France?", "Paris")

	rec, err := ev.Evaluate(
		context.Background(),
		adapter,
		record.ModeAPI,
		"Capital of France?",
		"Paris is the capital of France.",
	)
	require.NoError(t, err)
	assert.Equal(t, record.ModeAPI, rec.Mode)
	require.NotNil(t, rec.Relevance)
	assert.InDelta(t, 1.0, *rec.Relevance, 1e-9)
	require.NotNil(t, rec.Faithfulness)
	assert.InDelta(t, 1.0, *rec.Faithfulness, 1e-9)
	assert.GreaterOrEqual(t, rec.LatencyMS, float64(delay)/float64(time.Millisecond))
}

func TestEvaluate_PartialScoringFailure(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) {
		o.Store = st
		o.Relevance = failingScorer{name: score.MetricRelevance}
		o.Faithfulness = score.NewFaithfulnessScorer(sameVectorEmbedder{})
	})

	adapter := model.NewMockAdapter("llama3")
	rec, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Question?", "Some reference.")
	require.NoError(t, err)

	assert.Nil(t, rec.Relevance)
	assert.NotEmpty(t, rec.RelevanceError)
	require.NotNil(t, rec.Faithfulness)
	assert.GreaterOrEqual(t, rec.LatencyMS, 0.0)

	persisted, err := st.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, record.MetricFailed, persisted.RelevanceMetric().State)
}

func TestEvaluate_ModelCallErrorWritesNothing(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) { o.Store = st })

	cause := errors.New("connection refused")
	adapter := model.NewMockAdapter("llama3").WithError(cause)

	_, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Question?", "")
	var mcErr *ModelCallError
	require.ErrorAs(t, err, &mcErr)
	assert.Equal(t, "llama3", mcErr.Model)
	assert.ErrorIs(t, err, cause)

	cur, qerr := st.Query(context.Background(), store.Filter{})
	require.NoError(t, qerr)
	defer cur.Close()
	assert.False(t, cur.Next())
}

func TestEvaluate_TimeoutWritesNothing(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) {
		o.Store = st
		o.Timeout = 10 * time.Millisecond
	})

	adapter := model.NewMockAdapter("llama3").WithDelay(time.Second)

	_, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Question?", "")
	var toErr *TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.Equal(t, 10*time.Millisecond, toErr.Budget)

	cur, qerr := st.Query(context.Background(), store.Filter{})
	require.NoError(t, qerr)
	defer cur.Close()
	assert.False(t, cur.Next())
}

func TestEvaluate_CancellationWritesNothing(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) { o.Store = st })

	adapter := model.NewMockAdapter("llama3").WithDelay(time.Second)

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(10 * time.Millisecond)
		cancel()
	}()

	_, err := ev.Evaluate(ctx, adapter, record.ModeLocal, "Question?", "")
	assert.ErrorIs(t, err, context.Canceled)

	cur, qerr := st.Query(context.Background(), store.Filter{})
	require.NoError(t, qerr)
	defer cur.Close()
	assert.False(t, cur.Next())
}

func TestEvaluate_InvalidMode(t *testing.T) {
	ev := New()
	adapter := model.NewMockAdapter("llama3")

	_, err := ev.Evaluate(context.Background(), adapter, record.Mode("remote"), "Question?", "")
	var verr *record.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "mode", verr.Field)
}

func TestEvaluate_ConcurrentCalls(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) { o.Store = st })
	adapter := model.NewMockAdapter("llama3")

	const workers = 10
	const perWorker = 10
	var wg sync.WaitGroup
	for w := 0; w < workers; w++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < perWorker; i++ {
				_, err := ev.Evaluate(context.Background(), adapter, record.ModeLocal, "Question?", "")
				assert.NoError(t, err)
			}
		}()
	}
	wg.Wait()

	view, err := st.Aggregate(context.Background(), store.Filter{})
	require.NoError(t, err)
	assert.Equal(t, workers*perWorker, view.Records)
}

func TestEvaluateBatch_SkipsFailedSamples(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) { o.Store = st })

	adapter := model.NewMockAdapter("llama3")
	adapter.AddResponse("good", "fine answer")

	records, err := ev.EvaluateBatch(context.Background(), adapter, record.ModeLocal, []Sample{
		{Prompt: "good"},
		{Prompt: "also good", Reference: "fine"},
	})
	require.NoError(t, err)
	assert.Len(t, records, 2)

	failing := model.NewMockAdapter("llama3").WithError(errors.New("boom"))
	records, err = ev.EvaluateBatch(context.Background(), failing, record.ModeLocal, []Sample{
		{Prompt: "good"},
	})
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestEvaluator_StoreAccessor(t *testing.T) {
	st := store.NewInMemoryStore()
	ev := New(func(o *Options) { o.Store = st })
	assert.Equal(t, store.RunStore(st), ev.Store())
}
