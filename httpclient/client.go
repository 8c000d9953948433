package httpclient

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net"
	nethttp "net/http"
	"net/url"
	"strconv"
	"sync/atomic"
	"time"

	"github.com/gaborage/go-resilience/logger"
	"github.com/gaborage/go-resilience/metrics"
	"github.com/gaborage/go-resilience/retry"
	"github.com/gaborage/go-resilience/trace"
)

const (
	// DefaultTimeout is the default per-attempt timeout duration
	DefaultTimeout = 10 * time.Second

	// maxConnectTimeout caps how long a single dial may take
	maxConnectTimeout = 5 * time.Second

	defaultMaxConnsPerHost     = 50
	defaultMaxIdleConnsPerHost = 20
	defaultIdleConnTimeout     = 30 * time.Second

	// attemptStatusError labels transport calls that produced no response
	attemptStatusError = "error"
)

// client implements the Client interface
type client struct {
	httpClient           *nethttp.Client
	logger               logger.Logger
	config               *Config
	executor             *retry.Executor
	baseURL              *url.URL
	initErr              error
	requestInterceptors  []RequestInterceptor
	responseInterceptors []ResponseInterceptor
	metrics              metrics.Recorder
	callCount            atomic.Int64
	closed               atomic.Bool
}

// NewClient creates a new REST client with default configuration
func NewClient(log logger.Logger) Client {
	return NewBuilder(log).Build()
}

// Get performs a GET request with automatic retry
func (c *client) Get(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodGet, req)
}

// Post performs a POST request with exactly one transport call
func (c *client) Post(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPost, req)
}

// Put performs a PUT request with automatic retry
func (c *client) Put(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPut, req)
}

// Patch performs a PATCH request with exactly one transport call
func (c *client) Patch(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodPatch, req)
}

// Delete performs a DELETE request with automatic retry
func (c *client) Delete(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodDelete, req)
}

// Head performs a HEAD request with automatic retry
func (c *client) Head(ctx context.Context, req *Request) (*Response, error) {
	return c.Do(ctx, nethttp.MethodHead, req)
}

// Do performs an HTTP request with the specified method. Idempotent methods
// go through the retry loop; everything else gets exactly one transport
// call, returned as produced with no status-based classification.
func (c *client) Do(ctx context.Context, method string, req *Request) (*Response, error) {
	if c.closed.Load() {
		return nil, NewStateError("client is closed")
	}
	if c.initErr != nil {
		return nil, c.initErr
	}
	if err := c.validateRequest(method, req); err != nil {
		return nil, err
	}
	target, err := c.resolveURL(req.URL)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	call := c.callCount.Add(1)

	var resp *Response
	if isIdempotent(method) {
		resp, err = c.doWithRetry(ctx, method, target, req, start, call)
	} else {
		resp, err = c.doOnce(ctx, method, target, req, start, call)
	}
	c.metrics.RecordDuration(method, outcomeLabel(err), time.Since(start))
	return resp, err
}

// Async performs the request on its own goroutine and delivers exactly one
// Result on the returned channel. The channel is buffered, so the result
// never blocks on a slow receiver.
func (c *client) Async(ctx context.Context, method string, req *Request) <-chan Result {
	ch := make(chan Result, 1)
	go func() {
		resp, err := c.Do(ctx, method, req)
		ch <- Result{Response: resp, Err: err}
		close(ch)
	}()
	return ch
}

// Close releases the pooled idle connections. Safe to call more than once;
// only the first call releases anything.
func (c *client) Close() error {
	if c.closed.CompareAndSwap(false, true) {
		c.httpClient.CloseIdleConnections()
	}
	return nil
}

// doWithRetry drives one logical request through the retry loop.
func (c *client) doWithRetry(ctx context.Context, method, target string, req *Request, start time.Time, call int64) (*Response, error) {
	var lastResp *Response

	send := func(ctx context.Context) (int, nethttp.Header, error) {
		c.logRequest(method, target, req)

		httpReq, err := c.buildRequest(ctx, method, target, req)
		if err != nil {
			return 0, nil, err
		}
		if err := c.waitRateLimit(ctx, httpReq); err != nil {
			return 0, nil, err
		}

		httpResp, err := c.httpClient.Do(httpReq)
		if err != nil {
			c.metrics.RecordAttempt(method, attemptStatusError)
			return 0, nil, err
		}
		c.metrics.RecordAttempt(method, strconv.Itoa(httpResp.StatusCode))

		resp, err := c.buildResponse(ctx, httpReq, httpResp)
		if err != nil {
			return 0, nil, err
		}
		lastResp = resp
		return resp.StatusCode, resp.Headers, nil
	}

	exec, err := c.executor.Execute(ctx, method, target, send)
	if lastResp != nil {
		lastResp.Stats = Stats{
			ElapsedTime: time.Since(start),
			Attempts:    exec.Attempts,
			CallCount:   call,
		}
	}

	if err == nil {
		c.logResponse(lastResp)
		return lastResp, nil
	}

	var statusErr *retry.StatusError
	if errors.As(err, &statusErr) {
		// The loop ended on a response; hand it back alongside the error.
		var body []byte
		if lastResp != nil {
			c.logResponse(lastResp)
			body = lastResp.Body
		}
		return lastResp, NewHTTPError(statusErr.Error(), statusErr.Status, body)
	}
	return nil, c.wrapTransportError(err)
}

// doOnce performs exactly one transport call. The response is returned as
// produced, whatever its status; only transport-level failures become
// errors.
func (c *client) doOnce(ctx context.Context, method, target string, req *Request, start time.Time, call int64) (*Response, error) {
	c.logRequest(method, target, req)

	httpReq, err := c.buildRequest(ctx, method, target, req)
	if err != nil {
		return nil, err
	}
	if err := c.waitRateLimit(ctx, httpReq); err != nil {
		return nil, c.wrapTransportError(err)
	}

	httpResp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.metrics.RecordAttempt(method, attemptStatusError)
		return nil, c.wrapTransportError(err)
	}
	c.metrics.RecordAttempt(method, strconv.Itoa(httpResp.StatusCode))

	resp, err := c.buildResponse(ctx, httpReq, httpResp)
	if err != nil {
		return nil, c.wrapTransportError(err)
	}
	resp.Stats = Stats{
		ElapsedTime: time.Since(start),
		Attempts:    1,
		CallCount:   call,
	}
	c.logResponse(resp)
	return resp, nil
}

// validateRequest validates the request before sending
func (c *client) validateRequest(method string, req *Request) error {
	if req == nil {
		return NewValidationError("request cannot be nil", "request")
	}
	if method == "" {
		return NewValidationError("method cannot be empty", "method")
	}
	return nil
}

// resolveURL joins the request URL with the configured base, when present.
func (c *client) resolveURL(raw string) (string, error) {
	if c.baseURL == nil {
		if raw == "" {
			return "", NewValidationError("URL cannot be empty", "url")
		}
		return raw, nil
	}
	ref, err := url.Parse(raw)
	if err != nil {
		return "", NewValidationError("invalid request URL", "url")
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// applyHeaders applies headers to the HTTP request
func (c *client) applyHeaders(httpReq *nethttp.Request, req *Request) {
	// Apply default headers first
	for key, value := range c.config.DefaultHeaders {
		httpReq.Header.Set(key, value)
	}

	// Apply request-specific headers (these override defaults)
	for key, value := range req.Headers {
		httpReq.Header.Set(key, value)
	}

	// Set Content-Type if not already set and body is present
	if httpReq.Header.Get("Content-Type") == "" && req.Body != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}
}

// applyAuth applies authentication to the HTTP request
func (c *client) applyAuth(httpReq *nethttp.Request, req *Request) {
	// Request-specific auth takes precedence
	auth := req.Auth
	if auth == nil {
		auth = c.config.BasicAuth
	}

	if auth != nil {
		httpReq.SetBasicAuth(auth.Username, auth.Password)
	}
}

// applyTrace stamps the request-ID header unless the caller set one.
func (c *client) applyTrace(ctx context.Context, httpReq *nethttp.Request) {
	if c.config.DisableTrace {
		return
	}
	trace.Stamp(ctx, httpReq.Header, c.config.TraceHeader)
}

// buildRequest constructs an *http.Request with a fresh body reader,
// applies headers/auth/trace, and runs request interceptors.
func (c *client) buildRequest(ctx context.Context, method, target string, req *Request) (*nethttp.Request, error) {
	var body io.Reader
	if req.Body != nil {
		body = bytes.NewReader(req.Body)
	}

	httpReq, err := nethttp.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return nil, NewNetworkError("failed to create HTTP request", err)
	}

	c.applyHeaders(httpReq, req)
	c.applyAuth(httpReq, req)
	c.applyTrace(ctx, httpReq)

	if err := c.runRequestInterceptors(ctx, httpReq); err != nil {
		return nil, NewInterceptorError("request interceptor failed", "request", err)
	}
	return httpReq, nil
}

// buildResponse runs response interceptors, reads and closes the body, and
// builds a Response. Stats are filled by the caller once the whole request
// finishes.
func (c *client) buildResponse(ctx context.Context, httpReq *nethttp.Request, httpResp *nethttp.Response) (*Response, error) {
	defer httpResp.Body.Close()

	if err := c.runResponseInterceptors(ctx, httpReq, httpResp); err != nil {
		return nil, NewInterceptorError("response interceptor failed", "response", err)
	}

	respBody, err := io.ReadAll(httpResp.Body)
	if err != nil {
		return nil, NewNetworkError("failed to read response body", err)
	}

	return &Response{
		StatusCode: httpResp.StatusCode,
		Body:       respBody,
		Headers:    httpResp.Header,
	}, nil
}

// waitRateLimit blocks until the limiter admits the attempt, when one is
// configured.
func (c *client) waitRateLimit(ctx context.Context, httpReq *nethttp.Request) error {
	if c.config.RateLimiter == nil {
		return nil
	}
	limiter := c.config.RateLimiter(httpReq)
	if limiter == nil {
		return nil
	}
	return limiter.Wait(ctx)
}

// wrapTransportError maps a transport failure into the client taxonomy,
// leaving errors that already carry a type untouched. The native error
// stays reachable through errors.Is/As.
func (c *client) wrapTransportError(err error) error {
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return err
	}
	if c.isTimeout(err) {
		return NewTimeoutError("request timeout", c.config.Timeout, err)
	}
	return NewNetworkError("request execution failed", err)
}

func (c *client) isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}

func isIdempotent(method string) bool {
	switch method {
	case nethttp.MethodGet, nethttp.MethodHead, nethttp.MethodPut,
		nethttp.MethodDelete, nethttp.MethodOptions, nethttp.MethodTrace:
		return true
	}
	return false
}

func outcomeLabel(err error) string {
	if err == nil {
		return "success"
	}
	var clientErr ClientError
	if errors.As(err, &clientErr) {
		return string(clientErr.Type())
	}
	return attemptStatusError
}

// logRequest logs the outgoing request
func (c *client) logRequest(method, target string, req *Request) {
	logEvent := c.logger.Info().
		Str("direction", "outbound").
		Str("method", method).
		Str("url", target)

	if len(req.Headers) > 0 {
		logEvent = logEvent.Interface("headers", req.Headers)
	}

	if len(req.Body) > 0 {
		logEvent = logEvent.Bytes("body", req.Body)
	}

	logEvent.Msg("REST client request")
}

// logResponse logs the incoming response
func (c *client) logResponse(resp *Response) {
	logEvent := c.logger.Info().
		Str("direction", "inbound").
		Int("status", resp.StatusCode).
		Dur("elapsed", resp.Stats.ElapsedTime).
		Int("attempts", resp.Stats.Attempts).
		Int64("call_count", resp.Stats.CallCount)

	if len(resp.Body) > 0 {
		logEvent = logEvent.Bytes("body", resp.Body)
	}

	logEvent.Msg("REST client response")
}

// runRequestInterceptors executes all request interceptors
func (c *client) runRequestInterceptors(ctx context.Context, req *nethttp.Request) error {
	for _, interceptor := range c.requestInterceptors {
		if err := interceptor(ctx, req); err != nil {
			return err
		}
	}
	return nil
}

// runResponseInterceptors executes all response interceptors
func (c *client) runResponseInterceptors(ctx context.Context, req *nethttp.Request, resp *nethttp.Response) error {
	for _, interceptor := range c.responseInterceptors {
		if err := interceptor(ctx, req, resp); err != nil {
			return err
		}
	}
	return nil
}
