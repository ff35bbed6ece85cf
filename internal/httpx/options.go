package httpx

import (
	"time"

	"golang.org/x/time/rate"
)

type Options struct {
	UserAgent string
	Timeout   time.Duration
	// RequestsPerSecond <= 0 means no throttling.
	RequestsPerSecond float64
	Burst             int
	RespectRobots     bool
}

func (o Options) limit() rate.Limit {
	if o.RequestsPerSecond <= 0 {
		return rate.Inf
	}
	return rate.Limit(o.RequestsPerSecond)
}

func (o Options) burst() int {
	if o.Burst <= 0 {
		return 1
	}
	return o.Burst
}

func (o Options) timeout() time.Duration {
	if o.Timeout <= 0 {
		return 20 * time.Second
	}
	return o.Timeout
}
