// Package trace forwards evaluation events to external observability
// collectors. Emission is best-effort and fire-and-forget: a Sink never
// returns an error, and built-in sinks log and swallow their own failures
// so a broken collector can never fail an evaluation.
package trace
