package http

import "time"

// rateLimiter is a fixed-window message counter, one per connection.
// Only the connection's read loop touches it.
type rateLimiter struct {
	limit   int
	counter int
	window  time.Time
	span    time.Duration
}

func newRateLimiter(limit int, span time.Duration) *rateLimiter {
	if span <= 0 {
		span = time.Minute
	}
	return &rateLimiter{limit: limit, span: span}
}

func (r *rateLimiter) allow() bool {
	if r == nil || r.limit <= 0 {
		return true
	}
	now := time.Now()
	if now.Sub(r.window) >= r.span {
		r.window = now
		r.counter = 0
	}
	r.counter++
	return r.counter <= r.limit
}
