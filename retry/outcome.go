package retry

import "net/http"

// Kind classifies what a single attempt produced.
type Kind int

const (
	// KindSuccess ends the loop with the response handed to the caller.
	KindSuccess Kind = iota
	// KindRetriableStatus is a response whose status is in the StatusSet.
	KindRetriableStatus
	// KindTerminalStatus is a non-retriable client error response.
	KindTerminalStatus
	// KindRetriableTransport is a transient transport failure.
	KindRetriableTransport
	// KindTerminalTransport is a transport failure that must not be retried.
	KindTerminalTransport
)

// String returns the kind name used in logs.
func (k Kind) String() string {
	switch k {
	case KindSuccess:
		return "success"
	case KindRetriableStatus:
		return "retriable_status"
	case KindTerminalStatus:
		return "terminal_status"
	case KindRetriableTransport:
		return "retriable_transport"
	case KindTerminalTransport:
		return "terminal_transport"
	default:
		return "unknown"
	}
}

// Retriable reports whether the outcome permits another attempt.
func (k Kind) Retriable() bool {
	return k == KindRetriableStatus || k == KindRetriableTransport
}

// Terminal reports whether the outcome ends the loop, successfully or not.
func (k Kind) Terminal() bool {
	return !k.Retriable()
}

// Outcome is the classification of one completed attempt. A fresh value is
// produced per attempt and discarded once the loop acts on it.
type Outcome struct {
	Kind   Kind
	Reason string
	// Status is the HTTP status when a response was observed, 0 otherwise.
	Status int
	// Header carries the response headers of retriable status outcomes so
	// the backoff step can consult the Retry-After directive.
	Header http.Header
	// Err is the transport failure for transport outcomes, nil otherwise.
	Err error
}
