package retry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultStatusSet(t *testing.T) {
	set := DefaultStatusSet()

	expected := map[int]string{
		104: "Connection Reset",
		408: "Request Timeout",
		429: "Too Many Requests (rate limited)",
		500: "Internal Server Error",
		502: "Bad Gateway",
		503: "Service Unavailable",
		504: "Gateway Timeout",
	}
	require.Len(t, set, len(expected))
	for code, reason := range expected {
		got, ok := set.Lookup(code)
		assert.True(t, ok, "status %d should be retriable", code)
		assert.Equal(t, reason, got)
	}
}

func TestStatusSetExcludesUnlistedServerErrors(t *testing.T) {
	set := DefaultStatusSet()

	assert.False(t, set.Contains(501))
	assert.False(t, set.Contains(505))
	assert.False(t, set.Contains(200))
	assert.False(t, set.Contains(404))
}

func TestStatusSetWith(t *testing.T) {
	base := DefaultStatusSet()
	extended := base.With(599, "network connect timeout")

	assert.True(t, extended.Contains(599))
	reason, ok := extended.Lookup(599)
	assert.True(t, ok)
	assert.Equal(t, "network connect timeout", reason)

	// The original set is untouched.
	assert.False(t, base.Contains(599))
}

func TestStatusSetWithout(t *testing.T) {
	base := DefaultStatusSet()
	trimmed := base.Without(StatusConnectionReset)

	assert.False(t, trimmed.Contains(StatusConnectionReset))
	assert.True(t, trimmed.Contains(503))

	// The original set is untouched.
	assert.True(t, base.Contains(StatusConnectionReset))
}

func TestStatusSetLookupMissing(t *testing.T) {
	reason, ok := DefaultStatusSet().Lookup(418)
	assert.False(t, ok)
	assert.Empty(t, reason)
}
