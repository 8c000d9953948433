// Package retry implements the decision engine behind the resilient HTTP
// client: outcome classification, backoff computation, Retry-After handling,
// and the bounded attempt loop.
//
// Classification
//   - Responses with a status in the configured StatusSet are retriable.
//   - Other statuses in [400,500) are terminal client errors.
//   - Everything else (2xx, 3xx, unlisted codes >= 500) is success: the
//     response is handed back to the caller untouched.
//   - Transport failures are retriable when transient (timeouts, refused or
//     reset connections, DNS failures, connection-layer protocol errors);
//     anything else is terminal and propagates immediately.
//
// Backoff
//   - Computed backoff is uniform(0.8, 1.0) * 2^attempt seconds.
//   - 429 and 503 responses carrying a positive Retry-After directive use
//     the server-directed wait instead of the computed one.
//   - Backoff sleeps abort immediately when the request context ends.
//
// The Executor drives at most Policy.MaxAttempts transport calls per logical
// request and sleeps between attempts only, never after the final one.
package retry
