package redisserver

import (
	"sync"

	"golang.org/x/time/rate"
)

// limiterRegistry hands out one token bucket per client IP, shared by all
// connections from that IP. A bucket is dropped when its last connection
// closes.
type limiterRegistry struct {
	mu       sync.Mutex
	limiters map[string]*limiterRef
	rps      int
}

type limiterRef struct {
	limiter *rate.Limiter
	refs    int
}

func newLimiterRegistry(requestsPerSecond int) *limiterRegistry {
	if requestsPerSecond <= 0 {
		return nil
	}
	return &limiterRegistry{
		limiters: make(map[string]*limiterRef),
		rps:      requestsPerSecond,
	}
}

// acquire returns the limiter for ip and takes a reference on it.
func (r *limiterRegistry) acquire(ip string) *rate.Limiter {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.limiters[ip]
	if !ok {
		// Burst equals one second of traffic.
		ref = &limiterRef{limiter: rate.NewLimiter(rate.Limit(r.rps), r.rps)}
		r.limiters[ip] = ref
	}
	ref.refs++
	return ref.limiter
}

// release drops a reference taken by acquire.
func (r *limiterRegistry) release(ip string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	ref, ok := r.limiters[ip]
	if !ok {
		return
	}
	ref.refs--
	if ref.refs <= 0 {
		delete(r.limiters, ip)
	}
}

// size returns the number of tracked client IPs.
func (r *limiterRegistry) size() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.limiters)
}
