package retry

import (
	"context"
	"net/http"
	"time"

	"github.com/gaborage/go-resilience/logger"
)

// Send performs one transport attempt. It returns the observed status and
// response headers, or the transport failure that prevented a response.
// The executor owns when and how often Send runs; Send owns everything about
// a single exchange, including draining or retaining the response body.
type Send func(ctx context.Context) (status int, header http.Header, err error)

// RetryFunc is notified before each backoff sleep. attempt is the one-based
// number of the attempt that just failed.
type RetryFunc func(method, reason string, wait time.Duration, attempt int)

// Execution summarizes a finished retry loop.
type Execution struct {
	// Attempts is the number of transport calls made.
	Attempts int
	// Status is the last HTTP status observed, 0 if no response ever arrived.
	Status int
	// Outcome is the terminal classification the loop ended on.
	Outcome Outcome
}

// Executor drives a Send through the retry loop: classify each attempt,
// stop on terminal outcomes, sleep and go again on retriable ones until the
// attempt budget runs out.
//
// The executor never touches request or response bodies and holds no state
// across calls, so a single instance is safe for concurrent use.
type Executor struct {
	policy     Policy
	classifier *Classifier
	backoff    *Backoff
	logger     logger.Logger
	sleep      func(ctx context.Context, d time.Duration) error
	onRetry    RetryFunc
}

// ExecutorOption customizes an Executor.
type ExecutorOption func(*Executor)

// WithBackoff replaces the backoff source.
func WithBackoff(b *Backoff) ExecutorOption {
	return func(e *Executor) { e.backoff = b }
}

// WithClassifier replaces the outcome classifier.
func WithClassifier(c *Classifier) ExecutorOption {
	return func(e *Executor) { e.classifier = c }
}

// WithSleep replaces the sleep function. Tests use this to run the loop
// without real delays.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ExecutorOption {
	return func(e *Executor) { e.sleep = fn }
}

// WithOnRetry registers a hook invoked before each backoff sleep.
func WithOnRetry(fn RetryFunc) ExecutorOption {
	return func(e *Executor) { e.onRetry = fn }
}

// NewExecutor builds an executor for the given policy.
func NewExecutor(policy Policy, log logger.Logger, opts ...ExecutorOption) *Executor {
	p := policy.normalized()
	e := &Executor{
		policy:     p,
		classifier: NewClassifier(p.Statuses),
		backoff:    NewBackoff(log),
		logger:     log,
		sleep:      sleepContext,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute runs send until it produces a terminal outcome or the attempt
// budget is spent. It returns the loop summary and the error of the final
// attempt: nil on success, a *StatusError when the loop ended on an HTTP
// status, the transport error otherwise. Sleeps happen only between
// attempts; the loop never sleeps before the first call or after the last.
//
// method and url identify the request in logs and hooks only; send carries
// the actual request.
func (e *Executor) Execute(ctx context.Context, method, url string, send Send) (Execution, error) {
	var exec Execution
	for attempt := 0; attempt < e.policy.MaxAttempts; attempt++ {
		status, header, err := send(ctx)
		exec.Attempts++

		var out Outcome
		if err != nil {
			out = e.classifier.TransportError(err)
		} else {
			out = e.classifier.Response(status, header)
			exec.Status = status
		}
		exec.Outcome = out

		switch out.Kind {
		case KindSuccess:
			return exec, nil
		case KindTerminalStatus:
			return exec, &StatusError{Status: out.Status, Reason: out.Reason}
		case KindTerminalTransport:
			return exec, out.Err
		}

		// The outcome is retriable, but a canceled parent context still
		// ends the loop before another attempt is scheduled.
		if ctxErr := ctx.Err(); ctxErr != nil {
			exec.Outcome = canceledOutcome(ctxErr)
			return exec, ctxErr
		}

		if attempt == e.policy.MaxAttempts-1 {
			if out.Kind == KindRetriableStatus {
				return exec, &StatusError{Status: out.Status, Reason: out.Reason, Exhausted: true}
			}
			return exec, out.Err
		}

		decision := e.backoff.ForOutcome(out, attempt)
		e.logRetry(method, url, out, decision, attempt)
		if e.onRetry != nil {
			e.onRetry(method, out.Reason, decision.Wait, attempt+1)
		}
		if err := e.sleep(ctx, decision.Wait); err != nil {
			exec.Outcome = canceledOutcome(err)
			return exec, err
		}
	}
	return exec, errNoTerminalOutcome
}

func (e *Executor) logRetry(method, url string, out Outcome, d Decision, attempt int) {
	evt := e.logger.Warn().
		Str("method", method).
		Str("url", url).
		Str("reason", out.Reason).
		Dur("backoff", d.Wait).
		Int("attempt", attempt+1).
		Int("max_attempts", e.policy.MaxAttempts)
	if out.Err != nil {
		evt = evt.Err(out.Err)
	}
	if d.ServerDirected {
		evt = evt.Str("backoff_source", "retry-after")
	}
	evt.Msg("Transient failure, retrying")
}

// sleepContext waits for d or until ctx is done, whichever comes first.
// A non-positive d returns immediately with the context's current error.
func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
