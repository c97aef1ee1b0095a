// Package eval contains the evaluation orchestrator: the single entry point
// callers (CLIs, dashboards, batch jobs) use to evaluate a model response
// and persist the result.
//
// One Evaluate call times the model adapter, runs the metric scorers over
// the produced text, assembles an immutable record and appends it to the
// run store. A failed model call writes nothing; a failed scorer is
// annotated on the record rather than voiding the evaluation, since latency
// and the remaining metric are still valuable signal.
package eval
