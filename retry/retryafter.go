package retry

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"
)

// HeaderRetryAfter is the response header carrying a server-directed wait.
const HeaderRetryAfter = "Retry-After"

// errUnparseableRetryAfter marks values that are neither delay-seconds nor an
// HTTP-date.
var errUnparseableRetryAfter = errors.New("unparseable Retry-After value")

// ParseRetryAfter interprets a Retry-After header value, either delay-seconds
// ("120") or an HTTP-date. It returns a positive wait duration and true when
// the value yields one; empty, malformed, zero, and already-elapsed values
// return false.
func ParseRetryAfter(v string) (time.Duration, bool) {
	d, err := parseRetryAfter(v)
	return d, err == nil && d > 0
}

// parseRetryAfter distinguishes malformed values (error) from values that
// parse but carry no usable delay (zero duration, nil error), so callers can
// warn about the former and stay silent on the latter.
func parseRetryAfter(v string) (time.Duration, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, errUnparseableRetryAfter
	}
	if secs, err := strconv.Atoi(v); err == nil {
		if secs < 0 {
			return 0, errUnparseableRetryAfter
		}
		return time.Duration(secs) * time.Second, nil
	}
	t, err := http.ParseTime(v)
	if err != nil {
		return 0, errUnparseableRetryAfter
	}
	d := time.Until(t)
	if d < 0 {
		d = 0
	}
	return d, nil
}
