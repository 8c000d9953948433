package retry

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedBackoff(t *testing.T, sample float64) *Backoff {
	t.Helper()
	b := NewBackoff(testLogger())
	b.randFloat = func() float64 { return sample }
	return b
}

func TestComputedJitterBounds(t *testing.T) {
	tests := []struct {
		name   string
		sample float64
		index  int
		want   time.Duration
	}{
		{name: "lowest draw first retry", sample: 0, index: 0, want: 800 * time.Millisecond},
		{name: "lowest draw second retry", sample: 0, index: 1, want: 1600 * time.Millisecond},
		{name: "lowest draw third retry", sample: 0, index: 2, want: 3200 * time.Millisecond},
		{name: "midpoint draw", sample: 0.5, index: 0, want: 900 * time.Millisecond},
		{name: "midpoint draw doubled", sample: 0.5, index: 1, want: 1800 * time.Millisecond},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixedBackoff(t, tt.sample)
			assert.Equal(t, tt.want, b.Computed(tt.index))
		})
	}
}

func TestComputedStaysInsideWindow(t *testing.T) {
	b := NewBackoff(testLogger())

	// The delay for attempt index i is a uniform draw from
	// [0.8 * 2^i, 2^i) seconds.
	for _, index := range []int{0, 1, 2, 3, 4} {
		base := time.Duration(1<<uint(index)) * time.Second
		lower := time.Duration(float64(base) * jitterMin)
		for i := 0; i < 200; i++ {
			d := b.Computed(index)
			assert.GreaterOrEqual(t, d, lower, "index %d draw %d", index, i)
			assert.Less(t, d, base, "index %d draw %d", index, i)
		}
	}
}

func TestComputedClampsIndex(t *testing.T) {
	b := fixedBackoff(t, 0)

	assert.Equal(t, b.Computed(0), b.Computed(-3))
	assert.Equal(t, b.Computed(maxExponent), b.Computed(maxExponent+10))
}

func TestForOutcomeHonorsRetryAfterSeconds(t *testing.T) {
	b := fixedBackoff(t, 0)
	out := Outcome{
		Kind:   KindRetriableStatus,
		Status: http.StatusTooManyRequests,
		Header: http.Header{HeaderRetryAfter: []string{"2"}},
	}

	d := b.ForOutcome(out, 0)
	assert.True(t, d.ServerDirected)
	assert.Equal(t, 2*time.Second, d.Wait)
}

func TestForOutcomeHonorsRetryAfterDate(t *testing.T) {
	b := fixedBackoff(t, 0)
	future := time.Now().Add(30 * time.Second).UTC().Format(time.RFC1123)
	out := Outcome{
		Kind:   KindRetriableStatus,
		Status: http.StatusServiceUnavailable,
		Header: http.Header{HeaderRetryAfter: []string{future}},
	}

	d := b.ForOutcome(out, 2)
	require.True(t, d.ServerDirected)
	assert.Greater(t, d.Wait, 20*time.Second)
	assert.LessOrEqual(t, d.Wait, 30*time.Second)
}

func TestForOutcomeIgnoresRetryAfterOnOtherStatuses(t *testing.T) {
	// Only rate-limit and unavailable responses carry pacing authority.
	b := fixedBackoff(t, 0)
	out := Outcome{
		Kind:   KindRetriableStatus,
		Status: http.StatusInternalServerError,
		Header: http.Header{HeaderRetryAfter: []string{"60"}},
	}

	d := b.ForOutcome(out, 0)
	assert.False(t, d.ServerDirected)
	assert.Equal(t, 800*time.Millisecond, d.Wait)
}

func TestForOutcomeFallsBackOnUnusableRetryAfter(t *testing.T) {
	tests := []struct {
		name  string
		value string
	}{
		{name: "malformed", value: "soon"},
		{name: "negative", value: "-5"},
		{name: "zero", value: "0"},
		{name: "past date", value: time.Now().Add(-time.Hour).UTC().Format(time.RFC1123)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := fixedBackoff(t, 0)
			out := Outcome{
				Kind:   KindRetriableStatus,
				Status: http.StatusTooManyRequests,
				Header: http.Header{HeaderRetryAfter: []string{tt.value}},
			}

			d := b.ForOutcome(out, 1)
			assert.False(t, d.ServerDirected)
			assert.Equal(t, 1600*time.Millisecond, d.Wait)
		})
	}
}

func TestForOutcomeTransportUsesComputed(t *testing.T) {
	b := fixedBackoff(t, 0)
	out := Outcome{
		Kind:   KindRetriableTransport,
		Reason: "timeout",
		Header: http.Header{HeaderRetryAfter: []string{"60"}},
	}

	d := b.ForOutcome(out, 0)
	assert.False(t, d.ServerDirected)
	assert.Equal(t, 800*time.Millisecond, d.Wait)
}

func TestForOutcomeMissingHeader(t *testing.T) {
	b := fixedBackoff(t, 0)
	out := Outcome{Kind: KindRetriableStatus, Status: http.StatusServiceUnavailable}

	d := b.ForOutcome(out, 0)
	assert.False(t, d.ServerDirected)
	assert.Equal(t, 800*time.Millisecond, d.Wait)
}
