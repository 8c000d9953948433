package retry

// DefaultMaxAttempts bounds a request to five transport calls in total,
// the first attempt included.
const DefaultMaxAttempts = 5

// Policy bounds the retry loop and names the statuses worth retrying.
type Policy struct {
	// MaxAttempts is the total number of transport calls allowed, the
	// initial attempt included. Values below one fall back to the default.
	MaxAttempts int
	// Statuses is the retriable status set. Nil falls back to the default.
	Statuses StatusSet
}

// DefaultPolicy returns the stock policy: five attempts over the default
// status set.
func DefaultPolicy() Policy {
	return Policy{
		MaxAttempts: DefaultMaxAttempts,
		Statuses:    DefaultStatusSet(),
	}
}

// normalized fills zero values with their defaults so a partially built
// Policy behaves predictably.
func (p Policy) normalized() Policy {
	if p.MaxAttempts < 1 {
		p.MaxAttempts = DefaultMaxAttempts
	}
	if p.Statuses == nil {
		p.Statuses = DefaultStatusSet()
	}
	return p
}
