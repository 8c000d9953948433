package config

import (
	"github.com/gaborage/go-resilience/httpclient"
	"github.com/gaborage/go-resilience/logger"
)

// NewLogger builds a logger from the logging preferences in cfg.
func NewLogger(cfg *Config) logger.Logger {
	return logger.New(cfg.Log.Level, cfg.Log.Pretty)
}

// NewClient builds a ready HTTP client from cfg. The zero sections fall back
// to the builder defaults, so a minimal configuration still produces a
// working client.
func NewClient(cfg *Config, log logger.Logger) httpclient.Client {
	b := httpclient.NewBuilder(log).
		WithTimeout(cfg.Client.Timeout).
		WithMaxAttempts(cfg.Client.Retry.MaxAttempts)

	if cfg.Client.BaseURL != "" {
		b = b.WithBaseURL(cfg.Client.BaseURL)
	}
	for key, value := range cfg.Client.Headers {
		b = b.WithDefaultHeader(key, value)
	}
	if cfg.Client.Auth.Username != "" {
		b = b.WithBasicAuth(cfg.Client.Auth.Username, cfg.Client.Auth.Password)
	}
	for _, rule := range cfg.Client.Retry.Extra {
		b = b.WithRetriableStatus(rule.Code, rule.Reason)
	}
	for _, code := range cfg.Client.Retry.Disable {
		b = b.WithoutRetriableStatus(code)
	}
	if cfg.Client.Trace.Header != "" {
		b = b.WithTraceHeader(cfg.Client.Trace.Header)
	}
	if cfg.Client.Trace.Disabled {
		b = b.WithoutTracePropagation()
	}

	return b.Build()
}
