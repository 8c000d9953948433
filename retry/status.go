package retry

import "net/http"

// StatusConnectionReset is the non-standard 104 status some proxies emit when
// a TCP reset is surfaced at the HTTP layer. It is part of the default
// retriable set as policy, not protocol law; remove it with
// StatusSet.Without when it has no meaning for a given backend.
const StatusConnectionReset = 104

// StatusSet maps retriable HTTP status codes to the human-readable reason
// used in retry diagnostics. Membership drives classification; the values
// only ever appear in logs and error messages.
type StatusSet map[int]string

// DefaultStatusSet returns the default retriable status codes.
func DefaultStatusSet() StatusSet {
	return StatusSet{
		StatusConnectionReset:          "Connection Reset",
		http.StatusRequestTimeout:      "Request Timeout",
		http.StatusTooManyRequests:     "Too Many Requests (rate limited)",
		http.StatusInternalServerError: "Internal Server Error",
		http.StatusBadGateway:          "Bad Gateway",
		http.StatusServiceUnavailable:  "Service Unavailable",
		http.StatusGatewayTimeout:      "Gateway Timeout",
	}
}

// Contains reports whether code is retriable under this set.
func (s StatusSet) Contains(code int) bool {
	_, ok := s[code]
	return ok
}

// Lookup returns the diagnostic reason for code and whether it is a member.
func (s StatusSet) Lookup(code int) (string, bool) {
	reason, ok := s[code]
	return reason, ok
}

// With returns a copy of the set that also treats code as retriable.
func (s StatusSet) With(code int, reason string) StatusSet {
	out := make(StatusSet, len(s)+1)
	for k, v := range s {
		out[k] = v
	}
	out[code] = reason
	return out
}

// Without returns a copy of the set with code removed.
func (s StatusSet) Without(code int) StatusSet {
	out := make(StatusSet, len(s))
	for k, v := range s {
		if k != code {
			out[k] = v
		}
	}
	return out
}
