package retry

import (
	"context"
	"errors"
	"io"
	"net"
	"net/http"
	"strings"
	"syscall"
)

// connectionErrorPatterns matches transport error strings that wrap transient
// connection failures without exposing a typed error to unwrap.
var connectionErrorPatterns = []string{
	"connection reset",
	"broken pipe",
	"server closed idle connection",
	"unexpected eof",
	"transport connection broken",
	"http2: server sent goaway",
	"use of closed network connection",
}

// Classifier turns the raw result of a transport call into an Outcome.
// A zero Classifier is not usable; construct one with NewClassifier.
type Classifier struct {
	statuses StatusSet
}

// NewClassifier builds a classifier over the given status set.
// A nil set falls back to DefaultStatusSet.
func NewClassifier(statuses StatusSet) *Classifier {
	if statuses == nil {
		statuses = DefaultStatusSet()
	}
	return &Classifier{statuses: statuses}
}

// Response classifies a completed HTTP exchange by status code.
// Headers are retained on retriable outcomes so the backoff step can honor
// server directives; other outcomes do not need them.
func (c *Classifier) Response(status int, header http.Header) Outcome {
	if reason, ok := c.statuses.Lookup(status); ok {
		return Outcome{
			Kind:   KindRetriableStatus,
			Reason: reason,
			Status: status,
			Header: header,
		}
	}
	if status >= 400 && status < 500 {
		reason := http.StatusText(status)
		if reason == "" {
			reason = "client error"
		}
		return Outcome{
			Kind:   KindTerminalStatus,
			Reason: reason,
			Status: status,
		}
	}
	return Outcome{Kind: KindSuccess, Status: status}
}

// TransportError classifies a failure produced before any response arrived.
// Cancellation is checked first so a canceled attempt is never retried, even
// when the underlying error also looks like a timeout or connection failure.
func (c *Classifier) TransportError(err error) Outcome {
	switch {
	case errors.Is(err, context.Canceled):
		return Outcome{Kind: KindTerminalTransport, Reason: "canceled", Err: err}
	case isTimeout(err):
		return Outcome{Kind: KindRetriableTransport, Reason: "timeout", Err: err}
	}

	var dnsErr *net.DNSError
	if errors.As(err, &dnsErr) {
		return Outcome{Kind: KindRetriableTransport, Reason: "dns failure", Err: err}
	}

	switch {
	case errors.Is(err, syscall.ECONNREFUSED):
		return Outcome{Kind: KindRetriableTransport, Reason: "connection refused", Err: err}
	case errors.Is(err, syscall.ECONNRESET):
		return Outcome{Kind: KindRetriableTransport, Reason: "connection reset", Err: err}
	case errors.Is(err, syscall.EPIPE):
		return Outcome{Kind: KindRetriableTransport, Reason: "broken pipe", Err: err}
	case errors.Is(err, syscall.ENETUNREACH), errors.Is(err, syscall.EHOSTUNREACH):
		return Outcome{Kind: KindRetriableTransport, Reason: "network unreachable", Err: err}
	case errors.Is(err, io.ErrUnexpectedEOF), errors.Is(err, io.EOF), errors.Is(err, net.ErrClosed):
		return Outcome{Kind: KindRetriableTransport, Reason: "connection closed", Err: err}
	case isConnectionError(err):
		return Outcome{Kind: KindRetriableTransport, Reason: "connection failure", Err: err}
	}

	// Everything else is terminal: malformed URLs, TLS certificate failures,
	// protocol violations. Retrying cannot fix those.
	return Outcome{Kind: KindTerminalTransport, Reason: "transport failure", Err: err}
}

// canceledOutcome describes a loop aborted by its parent context rather than
// by the attempt itself.
func canceledOutcome(err error) Outcome {
	reason := "canceled"
	if errors.Is(err, context.DeadlineExceeded) {
		reason = "deadline exceeded"
	}
	return Outcome{Kind: KindTerminalTransport, Reason: reason, Err: err}
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isConnectionError(err error) bool {
	msg := strings.ToLower(err.Error())
	for _, pattern := range connectionErrorPatterns {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}
