// Package model defines the adapter abstraction through which the evaluator
// obtains responses from a model, wherever it runs.
//
// Core goals:
//   - One minimal interface (Adapter) regardless of provenance: local
//     runtime, manual entry, or remote provider API
//   - Keep the evaluator decoupled from vendor SDKs; providers live in
//     subpackages (openai, anthropic)
//   - Facilitate deterministic mocking for tests (MockAdapter)
//
// The evaluator treats an Adapter as an opaque capability with a single
// failure mode; retry policy, if any, belongs inside the adapter since only
// it knows whether a retry is safe for its provider.
package model
