package httpclient

import (
	"context"
	nethttp "net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/gaborage/go-resilience/metrics"
	"github.com/gaborage/go-resilience/retry"
)

// Client defines the resilient REST client interface. Idempotent verbs
// (Get, Head, Put, Delete) retry transient failures automatically; Post and
// Patch perform exactly one transport call and hand back whatever it
// produced. Do dispatches by method under the same rule, and Async runs the
// identical logic on its own goroutine.
type Client interface {
	Get(ctx context.Context, req *Request) (*Response, error)
	Post(ctx context.Context, req *Request) (*Response, error)
	Put(ctx context.Context, req *Request) (*Response, error)
	Patch(ctx context.Context, req *Request) (*Response, error)
	Delete(ctx context.Context, req *Request) (*Response, error)
	Head(ctx context.Context, req *Request) (*Response, error)
	Do(ctx context.Context, method string, req *Request) (*Response, error)
	Async(ctx context.Context, method string, req *Request) <-chan Result
	// Close releases the pooled connections. It is idempotent; a closed
	// client fails fast on further use.
	Close() error
}

// Request represents an HTTP request with all necessary data
type Request struct {
	// URL is absolute, or relative when the client has a base URL.
	URL     string
	Headers map[string]string
	Body    []byte
	Auth    *BasicAuth
}

// Response represents an HTTP response with tracking information
type Response struct {
	StatusCode int
	Body       []byte
	Headers    nethttp.Header
	Stats      Stats
}

// Stats contains request execution statistics
type Stats struct {
	// ElapsedTime covers the whole logical request, backoff sleeps included.
	ElapsedTime time.Duration
	// Attempts is the number of transport calls this request made.
	Attempts int
	// CallCount is the sequence number of this request on its client.
	CallCount int64
}

// Result carries the outcome of an Async request. Exactly one Result is
// delivered per call.
type Result struct {
	Response *Response
	Err      error
}

// BasicAuth contains basic authentication credentials
type BasicAuth struct {
	Username string
	Password string
}

// RequestInterceptor is called before sending the request
type RequestInterceptor func(ctx context.Context, req *nethttp.Request) error

// ResponseInterceptor is called after receiving the response
type ResponseInterceptor func(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error

// RateLimiterFunc selects the limiter for an outgoing request, or nil for
// no limit. Each attempt waits on the limiter before hitting the wire.
type RateLimiterFunc func(req *nethttp.Request) *rate.Limiter

// Config holds the REST client configuration
type Config struct {
	// BaseURL is the optional endpoint request URLs resolve against.
	BaseURL string
	// Timeout bounds each transport attempt.
	Timeout time.Duration
	// MaxAttempts is the total transport-call budget for idempotent
	// requests, the first attempt included.
	MaxAttempts int
	// RetriableStatuses overrides the default retriable status set.
	RetriableStatuses    retry.StatusSet
	RequestInterceptors  []RequestInterceptor
	ResponseInterceptors []ResponseInterceptor
	BasicAuth            *BasicAuth
	DefaultHeaders       map[string]string
	// TraceHeader is the request-ID header name; empty selects X-Request-ID.
	TraceHeader string
	// DisableTrace turns off request-ID stamping entirely.
	DisableTrace bool
	// RateLimiter paces outgoing attempts when set.
	RateLimiter RateLimiterFunc
	// Metrics records attempts, retries and durations; nil means no-op.
	Metrics metrics.Recorder
	// Transport replaces the default pooled transport when set.
	Transport nethttp.RoundTripper
	// HTTPClient replaces the underlying HTTP client entirely when set.
	HTTPClient *nethttp.Client
}
