package eval

import (
	"fmt"
	"time"
)

// ModelCallError reports that the model adapter failed to produce a
// response. No record is persisted for the affected evaluation.
type ModelCallError struct {
	Model string
	Err   error
}

// Error implements the error interface.
func (e *ModelCallError) Error() string {
	return fmt.Sprintf("model call failed (model=%s): %v", e.Model, e.Err)
}

// Unwrap exposes the underlying cause for errors.Is / errors.As.
func (e *ModelCallError) Unwrap() error { return e.Err }

// TimeoutError reports that a blocking call exceeded the evaluation's time
// budget. Like ModelCallError, no partial state is persisted.
type TimeoutError struct {
	// Budget is the evaluator's configured timeout; zero when the deadline
	// came from the caller's context.
	Budget time.Duration
}

// Error implements the error interface.
func (e *TimeoutError) Error() string {
	if e.Budget > 0 {
		return fmt.Sprintf("evaluation timed out after %s", e.Budget)
	}
	return "evaluation timed out"
}
