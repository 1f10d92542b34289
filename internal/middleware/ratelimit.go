package middleware

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/kahit-saan/menu-service/internal/logging"
)

const (
	// maxTrackedClients caps the limiter map; reaching it triggers a prune
	// of idle entries before a new one is added.
	maxTrackedClients = 10000
	clientIdleTTL     = 3 * time.Minute
)

// RateLimiter applies a per-client token bucket keyed by remote IP. It runs
// ahead of authentication, so the key is always the network address.
type RateLimiter struct {
	mu      sync.Mutex
	clients map[string]*clientLimiter
	rate    rate.Limit
	burst   int
	log     *logging.Logger
	now     func() time.Time
}

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(requestsPerSecond, burst int, log *logging.Logger) *RateLimiter {
	if log == nil {
		log = logging.NewDefault("ratelimit")
	}
	return &RateLimiter{
		clients: make(map[string]*clientLimiter),
		rate:    rate.Limit(requestsPerSecond),
		burst:   burst,
		log:     log,
		now:     time.Now,
	}
}

func (rl *RateLimiter) getLimiter(key string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if client, exists := rl.clients[key]; exists {
		client.lastSeen = now
		return client.limiter
	}

	if len(rl.clients) >= maxTrackedClients {
		rl.pruneLocked(now)
	}

	client := &clientLimiter{limiter: rate.NewLimiter(rl.rate, rl.burst), lastSeen: now}
	rl.clients[key] = client
	return client.limiter
}

// pruneLocked drops clients idle for longer than the TTL. Callers must hold
// the mutex.
func (rl *RateLimiter) pruneLocked(now time.Time) {
	for key, client := range rl.clients {
		if now.Sub(client.lastSeen) > clientIdleTTL {
			delete(rl.clients, key)
		}
	}
}

// Handler returns the rate limiting middleware handler.
func (rl *RateLimiter) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.RemoteAddr
		if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
			key = host
		}

		if !rl.getLimiter(key).Allow() {
			rl.log.WithField("key", key).Warn("rate limit exceeded")
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			w.Write([]byte(`{"success":false,"message":"too many requests"}`))
			return
		}

		next.ServeHTTP(w, r)
	})
}
