package httpclient

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestErrorTypes(t *testing.T) {
	tests := []struct {
		name string
		err  ClientError
		want ErrorType
	}{
		{"network", NewNetworkError("dial failed", nil), NetworkError},
		{"timeout", NewTimeoutError("too slow", 5*time.Second, nil), TimeoutError},
		{"http", NewHTTPError("not found", 404, nil), HTTPError},
		{"validation", NewValidationError("missing URL", "url"), ValidationError},
		{"interceptor", NewInterceptorError("rejected", "request", nil), InterceptorError},
		{"state", NewStateError("client is closed"), StateError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.err.Type())
			assert.True(t, IsErrorType(tt.err, tt.want))
		})
	}
}

func TestErrorMessages(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		contains []string
	}{
		{
			name:     "network error with wrapped cause",
			err:      NewNetworkError("dial failed", fmt.Errorf("connection refused")),
			contains: []string{"network error", "dial failed", "connection refused"},
		},
		{
			name:     "network error without cause",
			err:      NewNetworkError("dial failed", nil),
			contains: []string{"network error", "dial failed"},
		},
		{
			name:     "timeout error includes the budget",
			err:      NewTimeoutError("request timeout", 10*time.Second, nil),
			contains: []string{"timeout error", "request timeout", "10s"},
		},
		{
			name:     "http error includes the status",
			err:      NewHTTPError("terminal status 404 (Not Found)", 404, nil),
			contains: []string{"HTTP error", "404", "Not Found"},
		},
		{
			name:     "validation error includes the field",
			err:      NewValidationError("URL cannot be empty", "url"),
			contains: []string{"validation error", "URL cannot be empty", "url"},
		},
		{
			name:     "interceptor error includes the stage",
			err:      NewInterceptorError("interceptor failed", "response", fmt.Errorf("bad payload")),
			contains: []string{"interceptor error", "response", "bad payload"},
		},
		{
			name:     "state error",
			err:      NewStateError("client is closed"),
			contains: []string{"state error", "client is closed"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for _, fragment := range tt.contains {
				assert.Contains(t, tt.err.Error(), fragment)
			}
		})
	}
}

func TestErrorUnwrapping(t *testing.T) {
	t.Run("network error exposes the native cause", func(t *testing.T) {
		cause := fmt.Errorf("boom")
		err := NewNetworkError("request execution failed", cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("timeout error exposes the native cause", func(t *testing.T) {
		err := NewTimeoutError("request timeout", time.Second, context.DeadlineExceeded)
		assert.ErrorIs(t, err, context.DeadlineExceeded)
	})

	t.Run("interceptor error exposes the native cause", func(t *testing.T) {
		cause := fmt.Errorf("schema mismatch")
		err := NewInterceptorError("response interceptor failed", "response", cause)
		assert.ErrorIs(t, err, cause)
	})

	t.Run("error type survives wrapping", func(t *testing.T) {
		inner := NewHTTPError("terminal status 404 (Not Found)", 404, nil)
		wrapped := fmt.Errorf("fetching user: %w", inner)
		assert.True(t, IsErrorType(wrapped, HTTPError))
		assert.True(t, IsHTTPStatusError(wrapped, 404))
	})
}

func TestIsErrorType(t *testing.T) {
	assert.False(t, IsErrorType(nil, NetworkError))
	assert.False(t, IsErrorType(fmt.Errorf("plain"), NetworkError))
	assert.False(t, IsErrorType(NewNetworkError("dial failed", nil), TimeoutError))
	assert.True(t, IsErrorType(NewNetworkError("dial failed", nil), NetworkError))
}

func TestIsHTTPStatusError(t *testing.T) {
	err := NewHTTPError("terminal status 503 (Service Unavailable)", 503, []byte("unavailable"))

	assert.True(t, IsHTTPStatusError(err, 503))
	assert.False(t, IsHTTPStatusError(err, 404))
	assert.False(t, IsHTTPStatusError(fmt.Errorf("plain"), 503))
	assert.False(t, IsHTTPStatusError(nil, 503))
}

func TestHTTPErrorAccessors(t *testing.T) {
	body := []byte(`{"error": "unavailable"}`)
	err := NewHTTPError("retries exhausted: last status 503 (Service Unavailable)", 503, body)

	var httpErr *httpError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 503, httpErr.StatusCode())
	assert.Equal(t, body, httpErr.Body())
}

func TestIsSuccessStatus(t *testing.T) {
	assert.True(t, IsSuccessStatus(200))
	assert.True(t, IsSuccessStatus(201))
	assert.True(t, IsSuccessStatus(299))
	assert.False(t, IsSuccessStatus(199))
	assert.False(t, IsSuccessStatus(300))
	assert.False(t, IsSuccessStatus(404))
	assert.False(t, IsSuccessStatus(503))
}
