package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"modernc.org/sqlite"

	"github.com/hupe1980/llmsentinel/record"
)

const schema = `
CREATE TABLE IF NOT EXISTS evaluations (
	id                 TEXT PRIMARY KEY,
	model_name         TEXT NOT NULL,
	mode               TEXT NOT NULL,
	prompt             TEXT NOT NULL,
	response           TEXT NOT NULL,
	reference          TEXT NOT NULL DEFAULT '',
	faithfulness       REAL,
	faithfulness_error TEXT NOT NULL DEFAULT '',
	relevance          REAL,
	relevance_error    TEXT NOT NULL DEFAULT '',
	latency_ms         REAL NOT NULL,
	created_at         INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_evaluations_model_created
	ON evaluations (model_name, created_at);
CREATE INDEX IF NOT EXISTS idx_evaluations_created
	ON evaluations (created_at, id);
`

// SQLiteStore is a durable RunStore backed by a single SQLite file. WAL
// journaling lets readers proceed while a writer commits, and synchronous
// FULL makes a successful Append survive a crash immediately after return.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore opens (creating if necessary) the store at path. The
// returned store must be closed at process shutdown.
func NewSQLiteStore(path string) (*SQLiteStore, error) {
	dsn := fmt.Sprintf(
		"file:%s?_pragma=journal_mode(WAL)&_pragma=synchronous(FULL)&_pragma=busy_timeout(5000)",
		path,
	)
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("open sqlite store: %w", err)
	}
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("init sqlite schema: %w", err)
	}
	return &SQLiteStore{db: db}, nil
}

// Append implements RunStore. The single INSERT commits atomically, so a
// concurrent Get or Query sees either no record or the complete record.
func (s *SQLiteStore) Append(ctx context.Context, rec *record.EvaluationRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO evaluations (
			id, model_name, mode, prompt, response, reference,
			faithfulness, faithfulness_error, relevance, relevance_error,
			latency_ms, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID,
		rec.ModelName,
		string(rec.Mode),
		rec.Prompt,
		rec.Response,
		rec.Reference,
		nullableFloat(rec.Faithfulness),
		rec.FaithfulnessError,
		nullableFloat(rec.Relevance),
		rec.RelevanceError,
		rec.LatencyMS,
		rec.CreatedAt.UnixNano(),
	)
	if err != nil {
		if isDuplicateErr(err) {
			return ErrDuplicateID
		}
		return fmt.Errorf("append record: %w", err)
	}
	return nil
}

// Get implements RunStore.
func (s *SQLiteStore) Get(ctx context.Context, id string) (*record.EvaluationRecord, error) {
	row := s.db.QueryRowContext(ctx, selectColumns+" FROM evaluations WHERE id = ?", id)
	rec, err := scanRecord(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get record: %w", err)
	}
	return rec, nil
}

// Query implements RunStore. Rows stream from the database as the cursor
// advances; nothing is materialized up front.
func (s *SQLiteStore) Query(ctx context.Context, f Filter) (Cursor, error) {
	query := selectColumns + " FROM evaluations"
	var (
		conds []string
		args  []any
	)
	if f.ModelName != "" {
		conds = append(conds, "model_name = ?")
		args = append(args, f.ModelName)
	}
	if f.Mode != "" {
		conds = append(conds, "mode = ?")
		args = append(args, string(f.Mode))
	}
	if !f.Since.IsZero() {
		conds = append(conds, "created_at >= ?")
		args = append(args, f.Since.UnixNano())
	}
	if !f.Until.IsZero() {
		conds = append(conds, "created_at < ?")
		args = append(args, f.Until.UnixNano())
	}
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}
	query += " ORDER BY created_at ASC, id ASC"

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query records: %w", err)
	}
	return &rowsCursor{rows: rows}, nil
}

// Aggregate implements RunStore.
func (s *SQLiteStore) Aggregate(ctx context.Context, f Filter) (*AggregateView, error) {
	cur, err := s.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	return aggregateCursor(cur)
}

// Close implements RunStore.
func (s *SQLiteStore) Close() error { return s.db.Close() }

const selectColumns = `SELECT
	id, model_name, mode, prompt, response, reference,
	faithfulness, faithfulness_error, relevance, relevance_error,
	latency_ms, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRecord(row rowScanner) (*record.EvaluationRecord, error) {
	var (
		rec          record.EvaluationRecord
		mode         string
		faithfulness sql.NullFloat64
		relevance    sql.NullFloat64
		createdAt    int64
	)
	err := row.Scan(
		&rec.ID,
		&rec.ModelName,
		&mode,
		&rec.Prompt,
		&rec.Response,
		&rec.Reference,
		&faithfulness,
		&rec.FaithfulnessError,
		&relevance,
		&rec.RelevanceError,
		&rec.LatencyMS,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}
	rec.Mode = record.Mode(mode)
	if faithfulness.Valid {
		v := faithfulness.Float64
		rec.Faithfulness = &v
	}
	if relevance.Valid {
		v := relevance.Float64
		rec.Relevance = &v
	}
	rec.CreatedAt = time.Unix(0, createdAt).UTC()
	return &rec, nil
}

func nullableFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func isDuplicateErr(err error) bool {
	var se *sqlite.Error
	if errors.As(err, &se) {
		// SQLITE_CONSTRAINT_PRIMARYKEY (1555) / SQLITE_CONSTRAINT_UNIQUE (2067)
		return se.Code() == 1555 || se.Code() == 2067
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// rowsCursor streams *sql.Rows as a Cursor.
type rowsCursor struct {
	rows    *sql.Rows
	current *record.EvaluationRecord
	err     error
}

func (c *rowsCursor) Next() bool {
	if c.err != nil {
		return false
	}
	if !c.rows.Next() {
		c.err = c.rows.Err()
		c.current = nil
		return false
	}
	rec, err := scanRecord(c.rows)
	if err != nil {
		c.err = err
		c.current = nil
		return false
	}
	c.current = rec
	return true
}

func (c *rowsCursor) Record() *record.EvaluationRecord { return c.current }

func (c *rowsCursor) Err() error { return c.err }

func (c *rowsCursor) Close() error { return c.rows.Close() }

var _ RunStore = (*SQLiteStore)(nil)
