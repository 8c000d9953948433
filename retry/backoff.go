package retry

import (
	"math/rand"
	"net/http"
	"time"

	"github.com/gaborage/go-resilience/logger"
)

const (
	jitterMin = 0.8
	jitterMax = 1.0
	// maxExponent caps the doubling so the shift below cannot overflow.
	// 2^20 seconds is already past any sane attempt budget.
	maxExponent = 20
)

// Decision is the wait chosen before the next attempt.
type Decision struct {
	Wait time.Duration
	// ServerDirected is true when the wait came from a Retry-After header
	// rather than the computed backoff curve.
	ServerDirected bool
}

// Backoff produces jittered exponential delays and honors server pacing
// directives on rate-limit and unavailable responses.
type Backoff struct {
	logger    logger.Logger
	randFloat func() float64
}

// NewBackoff builds a backoff source using the shared math/rand generator.
func NewBackoff(log logger.Logger) *Backoff {
	return &Backoff{
		logger:    log,
		randFloat: rand.Float64,
	}
}

// Computed returns the delay for the given zero-based attempt index:
// a uniform draw from [0.8, 1.0) scaled by 2^attemptIndex seconds. The first
// retry therefore sleeps just under a second and each one roughly doubles.
func (b *Backoff) Computed(attemptIndex int) time.Duration {
	if attemptIndex < 0 {
		attemptIndex = 0
	}
	if attemptIndex > maxExponent {
		attemptIndex = maxExponent
	}
	jitter := jitterMin + (jitterMax-jitterMin)*b.randFloat()
	seconds := jitter * float64(uint64(1)<<uint(attemptIndex))
	return time.Duration(seconds * float64(time.Second))
}

// ForOutcome picks the wait before retrying the given outcome. Rate-limit
// (429) and unavailable (503) responses may carry a Retry-After directive;
// when it parses to a positive delay it replaces the computed backoff.
// Unparseable directives are logged and ignored. Transport failures never
// carry directives and always use the computed curve.
func (b *Backoff) ForOutcome(out Outcome, attemptIndex int) Decision {
	if out.Kind == KindRetriableStatus && directiveStatus(out.Status) {
		if v := out.Header.Get(HeaderRetryAfter); v != "" {
			d, err := parseRetryAfter(v)
			switch {
			case err != nil:
				b.logger.Warn().
					Str("retry_after", v).
					Msg("Ignoring unparseable Retry-After header")
			case d > 0:
				return Decision{Wait: d, ServerDirected: true}
			}
		}
	}
	return Decision{Wait: b.Computed(attemptIndex)}
}

// directiveStatus reports whether a status is one the server uses to pace
// clients explicitly.
func directiveStatus(status int) bool {
	return status == http.StatusTooManyRequests || status == http.StatusServiceUnavailable
}
