package trace

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/llmsentinel/logging"
	"github.com/hupe1980/llmsentinel/record"
)

func TestEventFromRecord(t *testing.T) {
	rel := 0.9
	rec := &record.EvaluationRecord{
		ID:                "r1",
		ModelName:         "llama3",
		Mode:              record.ModeLocal,
		Relevance:         &rel,
		FaithfulnessError: "scorer failed",
		LatencyMS:         12.5,
		CreatedAt:         time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC),
	}

	ev := EventFromRecord(rec)
	assert.Equal(t, "r1", ev.ID)
	assert.Equal(t, "llama3", ev.ModelName)
	assert.Equal(t, record.ModeLocal, ev.Mode)
	assert.Equal(t, map[string]float64{"relevance": 0.9}, ev.Metrics)
	assert.Equal(t, 12.5, ev.LatencyMS)
	assert.Equal(t, rec.CreatedAt, ev.Timestamp)
}

func TestHTTPSink_Emit(t *testing.T) {
	var (
		gotAuthUser string
		gotAuthPass string
		gotEvent    Event
	)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuthUser, gotAuthPass, _ = r.BasicAuth()
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotEvent))
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	sink := NewHTTPSink(srv.URL, func(o *HTTPSinkOptions) {
		o.PublicKey = "pk"
		o.SecretKey = "sk"
	})

	sink.Emit(context.Background(), Event{
		ID:        "r1",
		ModelName: "llama3",
		Mode:      record.ModeAPI,
		Metrics:   map[string]float64{"relevance": 0.8},
		LatencyMS: 5,
		Timestamp: time.Now().UTC(),
	})

	assert.Equal(t, "pk", gotAuthUser)
	assert.Equal(t, "sk", gotAuthPass)
	assert.Equal(t, "r1", gotEvent.ID)
	assert.Equal(t, 0.8, gotEvent.Metrics["relevance"])
}

func TestHTTPSink_SwallowsFailures(t *testing.T) {
	// Unreachable endpoint: Emit must neither panic nor propagate.
	sink := NewHTTPSink("http://127.0.0.1:1", func(o *HTTPSinkOptions) {
		o.Timeout = 100 * time.Millisecond
		o.Logger = logging.NoOpLogger{}
	})
	sink.Emit(context.Background(), Event{ID: "r1"})
}

func TestLoggerSink_Emit(t *testing.T) {
	sink := NewLoggerSink(logging.NoOpLogger{})
	sink.Emit(context.Background(), Event{ID: "r1"})
}
