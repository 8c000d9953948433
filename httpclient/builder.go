package httpclient

import (
	"net"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/gaborage/go-resilience/logger"
	"github.com/gaborage/go-resilience/metrics"
	"github.com/gaborage/go-resilience/retry"
)

// Builder provides a fluent interface for configuring the REST client
type Builder struct {
	config *Config
	logger logger.Logger
}

// NewBuilder creates a new client builder
func NewBuilder(log logger.Logger) *Builder {
	return &Builder{
		config: &Config{
			Timeout:              DefaultTimeout,
			MaxAttempts:          retry.DefaultMaxAttempts,
			RequestInterceptors:  []RequestInterceptor{},
			ResponseInterceptors: []ResponseInterceptor{},
			DefaultHeaders:       make(map[string]string),
		},
		logger: log,
	}
}

// WithBaseURL sets the endpoint request URLs resolve against
func (b *Builder) WithBaseURL(baseURL string) *Builder {
	b.config.BaseURL = baseURL
	return b
}

// WithTimeout sets the per-attempt timeout
func (b *Builder) WithTimeout(timeout time.Duration) *Builder {
	b.config.Timeout = timeout
	return b
}

// WithMaxAttempts sets the total transport-call budget for idempotent
// requests, the first attempt included
func (b *Builder) WithMaxAttempts(maxAttempts int) *Builder {
	b.config.MaxAttempts = maxAttempts
	return b
}

// WithRetriableStatus marks an additional status as retriable
func (b *Builder) WithRetriableStatus(status int, reason string) *Builder {
	b.config.RetriableStatuses = b.statuses().With(status, reason)
	return b
}

// WithoutRetriableStatus removes a status from the retriable set
func (b *Builder) WithoutRetriableStatus(status int) *Builder {
	b.config.RetriableStatuses = b.statuses().Without(status)
	return b
}

func (b *Builder) statuses() retry.StatusSet {
	if b.config.RetriableStatuses == nil {
		return retry.DefaultStatusSet()
	}
	return b.config.RetriableStatuses
}

// WithBasicAuth sets basic authentication credentials
func (b *Builder) WithBasicAuth(username, password string) *Builder {
	b.config.BasicAuth = &BasicAuth{
		Username: username,
		Password: password,
	}
	return b
}

// WithDefaultHeader adds a default header that will be sent with all requests
func (b *Builder) WithDefaultHeader(key, value string) *Builder {
	b.config.DefaultHeaders[key] = value
	return b
}

// WithRequestInterceptor adds a request interceptor
func (b *Builder) WithRequestInterceptor(interceptor RequestInterceptor) *Builder {
	b.config.RequestInterceptors = append(b.config.RequestInterceptors, interceptor)
	return b
}

// WithResponseInterceptor adds a response interceptor
func (b *Builder) WithResponseInterceptor(interceptor ResponseInterceptor) *Builder {
	b.config.ResponseInterceptors = append(b.config.ResponseInterceptors, interceptor)
	return b
}

// WithTraceHeader overrides the request-ID header name
func (b *Builder) WithTraceHeader(name string) *Builder {
	b.config.TraceHeader = name
	return b
}

// WithoutTracePropagation disables request-ID stamping
func (b *Builder) WithoutTracePropagation() *Builder {
	b.config.DisableTrace = true
	return b
}

// WithRateLimiter paces outgoing attempts with the selected limiter
func (b *Builder) WithRateLimiter(fn RateLimiterFunc) *Builder {
	b.config.RateLimiter = fn
	return b
}

// WithMetrics records attempts, retries and durations on the given recorder
func (b *Builder) WithMetrics(recorder metrics.Recorder) *Builder {
	b.config.Metrics = recorder
	return b
}

// WithTransport replaces the pooled transport, keeping the rest of the
// client behavior. Useful for stubbing the wire in tests.
func (b *Builder) WithTransport(rt nethttp.RoundTripper) *Builder {
	b.config.Transport = rt
	return b
}

// WithHTTPClient replaces the underlying HTTP client entirely. A zero
// client timeout is filled from the builder's timeout.
func (b *Builder) WithHTTPClient(hc *nethttp.Client) *Builder {
	b.config.HTTPClient = hc
	return b
}

// Build creates the REST client with the configured options
func (b *Builder) Build() Client {
	cfg := b.config
	if cfg.Timeout <= 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Metrics == nil {
		cfg.Metrics = metrics.NewNoopRecorder()
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		transport := cfg.Transport
		if transport == nil {
			transport = newTransport(cfg.Timeout)
		}
		httpClient = &nethttp.Client{
			Transport: transport,
			Timeout:   cfg.Timeout,
		}
	} else if httpClient.Timeout == 0 {
		httpClient.Timeout = cfg.Timeout
	}

	c := &client{
		httpClient:           httpClient,
		logger:               b.logger,
		config:               cfg,
		requestInterceptors:  cfg.RequestInterceptors,
		responseInterceptors: cfg.ResponseInterceptors,
		metrics:              cfg.Metrics,
	}

	if cfg.BaseURL != "" {
		base, err := url.Parse(cfg.BaseURL)
		if err != nil {
			// Surfaced on first use; the fluent chain has no error slot.
			c.initErr = NewValidationError("invalid base URL", "base_url")
		} else {
			c.baseURL = base
		}
	}

	c.executor = retry.NewExecutor(
		retry.Policy{MaxAttempts: cfg.MaxAttempts, Statuses: cfg.RetriableStatuses},
		b.logger,
		retry.WithOnRetry(func(method, reason string, _ time.Duration, _ int) {
			c.metrics.RecordRetry(method, reason)
		}),
	)
	return c
}

// newTransport builds the pooled transport every request of this client
// shares. The connect timeout is half the attempt timeout, capped at 5s, so
// dialing can never eat the whole attempt budget.
func newTransport(timeout time.Duration) *nethttp.Transport {
	connect := timeout / 2
	if connect <= 0 || connect > maxConnectTimeout {
		connect = maxConnectTimeout
	}
	return &nethttp.Transport{
		DialContext: (&net.Dialer{
			Timeout: connect,
		}).DialContext,
		ForceAttemptHTTP2:   true,
		MaxConnsPerHost:     defaultMaxConnsPerHost,
		MaxIdleConnsPerHost: defaultMaxIdleConnsPerHost,
		IdleConnTimeout:     defaultIdleConnTimeout,
	}
}
