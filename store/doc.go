// Package store provides the append-only run store holding evaluation
// records, keyed by record id.
//
// Two implementations are included:
//   - InMemoryStore: volatile, mutex-guarded, hands out clones; best for
//     tests and ephemeral demos
//   - SQLiteStore: durable single-file store (WAL journal, transactional
//     appends) suitable for long-lived longitudinal data
//
// The store is append-only: records are never updated or deleted through
// this package. Queries stream results ordered by (created_at, id) so
// re-issuing the same query against unchanged data reproduces the same
// sequence, and aggregates are computed by streaming over a cursor rather
// than materializing the full result set.
package store
