package store

import (
	"sort"

	"github.com/hupe1980/llmsentinel/record"
)

// MetricSummary is the statistical summary of one metric across matching
// records. Count is the number of records that contributed a value, which
// for faithfulness and relevance may be lower than the record count when
// metrics were skipped or failed.
type MetricSummary struct {
	Count int     `json:"count"`
	Mean  float64 `json:"mean"`
	Min   float64 `json:"min"`
	Max   float64 `json:"max"`
	P50   float64 `json:"p50"`
	P95   float64 `json:"p95"`
	P99   float64 `json:"p99"`
}

// AggregateView is an on-demand summary derived from stored records. It has
// no lifecycle of its own and is always recomputed from the store.
type AggregateView struct {
	// Records is the total number of records matching the filter,
	// including partially scored ones.
	Records int `json:"records"`

	Faithfulness MetricSummary `json:"faithfulness"`
	Relevance    MetricSummary `json:"relevance"`
	LatencyMS    MetricSummary `json:"latency_ms"`
}

// metricAgg accumulates the values of a single metric. Only the raw float
// values are retained (for percentiles), never whole records.
type metricAgg struct {
	values []float64
	sum    float64
}

func (a *metricAgg) add(v float64) {
	a.values = append(a.values, v)
	a.sum += v
}

func (a *metricAgg) summary() MetricSummary {
	n := len(a.values)
	if n == 0 {
		return MetricSummary{}
	}
	sort.Float64s(a.values)
	return MetricSummary{
		Count: n,
		Mean:  a.sum / float64(n),
		Min:   a.values[0],
		Max:   a.values[n-1],
		P50:   percentile(a.values, 50),
		P95:   percentile(a.values, 95),
		P99:   percentile(a.values, 99),
	}
}

// percentile uses the nearest-rank method on an already sorted slice.
func percentile(sorted []float64, p int) float64 {
	rank := (p*len(sorted) + 99) / 100 // ceil(p/100 * n)
	if rank < 1 {
		rank = 1
	}
	if rank > len(sorted) {
		rank = len(sorted)
	}
	return sorted[rank-1]
}

// aggregateCursor drains a cursor into an AggregateView. Shared by all
// RunStore implementations so the statistics stay consistent across
// backends.
func aggregateCursor(cur Cursor) (*AggregateView, error) {
	defer cur.Close()

	var (
		view         AggregateView
		faithfulness metricAgg
		relevance    metricAgg
		latency      metricAgg
	)
	for cur.Next() {
		r := cur.Record()
		view.Records++
		latency.add(r.LatencyMS)
		if m := r.RelevanceMetric(); m.State == record.MetricScored {
			relevance.add(m.Score)
		}
		if m := r.FaithfulnessMetric(); m.State == record.MetricScored {
			faithfulness.add(m.Score)
		}
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	view.Faithfulness = faithfulness.summary()
	view.Relevance = relevance.summary()
	view.LatencyMS = latency.summary()
	return &view, nil
}
