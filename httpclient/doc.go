// Package httpclient provides a resilient HTTP client with automatic retry
// of transient failures, server-directed backoff, request/response
// interceptors, default headers, basic auth, request-ID propagation, and a
// shared pooled transport per client.
//
// Retry behavior
//   - Idempotent methods (GET, HEAD, PUT, DELETE, and OPTIONS or TRACE via
//     Do) retry automatically, up to the configured attempt budget
//     (default 5 calls in total).
//   - POST and PATCH perform exactly one transport call; the response is
//     returned as produced, whatever its status.
//   - Retriable conditions: the configurable status set (408, 429, 5xx
//     gateway-style failures by default) and transient transport errors
//     (timeouts, DNS failures, refused or reset connections).
//   - 4xx responses outside the set fail immediately; unlisted statuses,
//     5xx included, pass through as success.
//
// Backoff strategy
//   - Computed delay: uniform jitter in [0.8, 1.0) times 2^attempt seconds.
//   - 429 and 503 responses carrying a usable Retry-After header replace
//     the computed delay with the server's.
//   - Sleeps honor context cancellation and only ever happen between
//     attempts.
//
// Notes
//   - Request bodies are re-sent by rebuilding the http.Request on each attempt.
//   - Interceptor errors are not retried and are surfaced immediately.
//   - Close releases the pooled connections; a closed client fails fast.
package httpclient
