package llmsentinel

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/llmsentinel/eval"
	"github.com/hupe1980/llmsentinel/model"
	"github.com/hupe1980/llmsentinel/record"
	"github.com/hupe1980/llmsentinel/store"
)

func TestSentinel_EndToEnd(t *testing.T) {
	s := New()
	defer s.Close()

	adapter := model.NewMockAdapter("llama3")
	adapter.AddResponse("Capital of France?", "Paris is the capital of France.")

	rec, err := s.Evaluate(
		context.Background(),
		adapter,
		record.ModeLocal,
		"Capital of France?",
		"Paris is the capital of France.",
	)
	require.NoError(t, err)
	require.NotNil(t, rec.Relevance)
	require.NotNil(t, rec.Faithfulness)

	got, err := s.Get(context.Background(), rec.ID)
	require.NoError(t, err)
	assert.Equal(t, rec, got)

	view, err := s.Aggregate(context.Background(), store.Filter{ModelName: "llama3"})
	require.NoError(t, err)
	assert.Equal(t, 1, view.Records)
	assert.Equal(t, 1, view.Relevance.Count)
	assert.Equal(t, 1, view.Faithfulness.Count)
}

func TestSentinel_WithSQLiteStore(t *testing.T) {
	st, err := store.NewSQLiteStore(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)

	s := New(func(o *Options) { o.Store = st })
	defer s.Close()

	adapter := model.NewMockAdapter("llama3")

	records, err := s.EvaluateBatch(context.Background(), adapter, record.ModeLocal, []eval.Sample{
		{Prompt: "first question"},
		{Prompt: "second question", Reference: "second answer"},
	})
	require.NoError(t, err)
	require.Len(t, records, 2)

	cur, err := s.Query(context.Background(), store.Filter{ModelName: "llama3"})
	require.NoError(t, err)
	defer cur.Close()

	var count int
	for cur.Next() {
		count++
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, 2, count)
}

func TestSentinel_BatchOrderMatchesCreation(t *testing.T) {
	s := New()
	defer s.Close()

	adapter := model.NewMockAdapter("llama3")
	records, err := s.EvaluateBatch(context.Background(), adapter, record.ModeManual, []eval.Sample{
		{Prompt: "one"}, {Prompt: "two"}, {Prompt: "three"},
	})
	require.NoError(t, err)
	require.Len(t, records, 3)

	cur, err := s.Query(context.Background(), store.Filter{})
	require.NoError(t, err)
	defer cur.Close()

	var ids []string
	for cur.Next() {
		ids = append(ids, cur.Record().ID)
	}
	require.NoError(t, cur.Err())
	assert.Equal(t, []string{records[0].ID, records[1].ID, records[2].ID}, ids)
}