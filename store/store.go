package store

import (
	"context"
	"fmt"
	"time"

	"github.com/hupe1980/llmsentinel/record"
)

var (
	// ErrNotFound is returned when no record with the given id exists.
	ErrNotFound = fmt.Errorf("record not found")

	// ErrDuplicateID is returned when an appended record's id already
	// exists. Under correct id generation this indicates a bug, but the
	// store defends the uniqueness invariant regardless.
	ErrDuplicateID = fmt.Errorf("duplicate record id")
)

// Filter narrows Query and Aggregate results. Zero-value fields are
// unconstrained.
type Filter struct {
	// ModelName restricts to records for one model.
	ModelName string
	// Mode restricts to records obtained one particular way.
	Mode record.Mode
	// Since is the inclusive lower bound on created_at.
	Since time.Time
	// Until is the exclusive upper bound on created_at.
	Until time.Time
}

// Matches reports whether r satisfies every set constraint.
func (f Filter) Matches(r *record.EvaluationRecord) bool {
	if f.ModelName != "" && r.ModelName != f.ModelName {
		return false
	}
	if f.Mode != "" && r.Mode != f.Mode {
		return false
	}
	if !f.Since.IsZero() && r.CreatedAt.Before(f.Since) {
		return false
	}
	if !f.Until.IsZero() && !r.CreatedAt.Before(f.Until) {
		return false
	}
	return true
}

// Cursor streams query results one record at a time, in (created_at, id)
// order. Usage mirrors database/sql rows:
//
//	cur, err := st.Query(ctx, filter)
//	defer cur.Close()
//	for cur.Next() {
//	    rec := cur.Record()
//	    ...
//	}
//	if err := cur.Err(); err != nil { ... }
type Cursor interface {
	// Next advances to the following record, returning false when the
	// sequence is exhausted or a read error occurred.
	Next() bool
	// Record returns the current record. Only valid after Next returned true.
	Record() *record.EvaluationRecord
	// Err reports any error that terminated iteration early.
	Err() error
	// Close releases resources held by the cursor.
	Close() error
}

// RunStore is the durable, queryable home of evaluation records. All
// implementations must guarantee id uniqueness and atomic visibility: a
// concurrently appended record is either absent or present in full, never
// partially visible.
type RunStore interface {
	// Append durably persists a record. Returns ErrDuplicateID if the id
	// already exists. Safe for concurrent use.
	Append(ctx context.Context, rec *record.EvaluationRecord) error

	// Get returns the record with the given id or ErrNotFound.
	Get(ctx context.Context, id string) (*record.EvaluationRecord, error)

	// Query streams records matching the filter ordered by (created_at, id)
	// ascending.
	Query(ctx context.Context, f Filter) (Cursor, error)

	// Aggregate computes an on-demand summary over matching records by
	// streaming, without materializing the full result set.
	Aggregate(ctx context.Context, f Filter) (*AggregateView, error)

	// Close releases the store's resources. The store must be opened at
	// process start and closed at shutdown by whoever created it.
	Close() error
}
