// Package record defines the immutable evaluation record and its builder.
//
// An EvaluationRecord captures a single model evaluation: the prompt, the
// response, how the response was obtained (Mode), the computed quality
// metrics, and the wall-clock latency of the model call. Records are
// assembled exclusively through the Builder, which assigns a fresh unique
// id and stamps created_at from an injected clock so tests never depend on
// the real wall clock.
//
// The JSON field names of EvaluationRecord are a storage/wire contract
// consumed by dashboards and report generators; renaming or retyping a
// field is a breaking change.
package record
