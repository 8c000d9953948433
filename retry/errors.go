package retry

import (
	"errors"
	"fmt"
)

// errNoTerminalOutcome is returned if the loop ends without a terminal
// outcome. The loop structure makes that unreachable.
var errNoTerminalOutcome = errors.New("retry: loop ended without terminal outcome")

// StatusError reports a request that ended on an HTTP status rather than a
// transport failure: either a terminal client error or a retriable status
// that survived every allowed attempt.
type StatusError struct {
	Status int
	Reason string
	// Exhausted is true when the status was retriable but the attempt
	// budget ran out.
	Exhausted bool
}

func (e *StatusError) Error() string {
	if e.Exhausted {
		return fmt.Sprintf("retries exhausted: last status %d (%s)", e.Status, e.Reason)
	}
	return fmt.Sprintf("terminal status %d (%s)", e.Status, e.Reason)
}
