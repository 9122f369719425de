package api

import (
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"
)

const (
	bucketIdleThreshold = time.Hour
	sweepInterval       = 30 * time.Minute
)

type clientBucket struct {
	lastRefill time.Time
	tokens     int
}

// RateLimiter is a fixed-window token bucket per client address.
type RateLimiter struct {
	clients  map[string]*clientBucket
	now      func() time.Time
	stop     chan struct{}
	capacity int
	window   time.Duration
	mu       sync.Mutex
	stopOnce sync.Once
}

// NewRateLimiter allows capacity requests per client per window. A
// non-positive capacity disables limiting.
func NewRateLimiter(capacity int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		clients:  make(map[string]*clientBucket),
		now:      time.Now,
		stop:     make(chan struct{}),
		capacity: capacity,
		window:   window,
	}
	if capacity > 0 {
		go rl.sweepLoop()
	}
	return rl
}

func (rl *RateLimiter) sweepLoop() {
	ticker := time.NewTicker(sweepInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.sweep()
		case <-rl.stop:
			return
		}
	}
}

// sweep drops buckets that have been idle long enough to be full again.
func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for client, bucket := range rl.clients {
		if now.Sub(bucket.lastRefill) > bucketIdleThreshold {
			delete(rl.clients, client)
		}
	}
}

// Stop ends the background sweep. It is safe to call more than once.
func (rl *RateLimiter) Stop() {
	rl.stopOnce.Do(func() { close(rl.stop) })
}

// Allow consumes one token for client.
func (rl *RateLimiter) Allow(client string) bool {
	if rl.capacity <= 0 {
		return true
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	bucket, ok := rl.clients[client]
	if !ok {
		rl.clients[client] = &clientBucket{tokens: rl.capacity - 1, lastRefill: now}
		return true
	}

	if now.Sub(bucket.lastRefill) >= rl.window {
		bucket.tokens = rl.capacity
		bucket.lastRefill = now
	}
	if bucket.tokens <= 0 {
		return false
	}
	bucket.tokens--
	return true
}

// Middleware rejects requests over the limit with 429.
func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.Allow(clientKey(r)) {
			w.Header().Set("Retry-After", retryAfter(rl.window))
			writeError(w, http.StatusTooManyRequests, "rate limit exceeded")
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func retryAfter(window time.Duration) string {
	secs := int(window.Seconds())
	if secs < 1 {
		secs = 1
	}
	return strconv.Itoa(secs)
}
