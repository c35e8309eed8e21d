package rate_limiter

import (
	"context"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	cleanupInterval = time.Minute
	idleTimeout     = 5 * time.Minute
)

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

var (
	visitors = make(map[string]*clientLimiter)
	limit    = rate.Limit(5)
	burst    = 10
	mu       sync.Mutex
)

// Configure sets the rate for visitors seen from now on. rps <= 0 disables
// limiting.
func Configure(rps float64, b int) {
	mu.Lock()
	defer mu.Unlock()

	if rps <= 0 {
		limit = rate.Inf
	} else {
		limit = rate.Limit(rps)
	}
	if b < 1 {
		b = 1
	}
	burst = b
	visitors = make(map[string]*clientLimiter)
}

// Enabled reports whether requests are being limited.
func Enabled() bool {
	mu.Lock()
	defer mu.Unlock()
	return limit != rate.Inf
}

func GetVisitor(ip string) *rate.Limiter {
	mu.Lock()
	defer mu.Unlock()

	v, exists := visitors[ip]
	if !exists {
		limiter := rate.NewLimiter(limit, burst)
		visitors[ip] = &clientLimiter{limiter, time.Now()}
		return limiter
	}

	v.lastSeen = time.Now()
	return v.limiter
}

// StartVisitorCleanupLoop evicts idle visitors until ctx is done.
func StartVisitorCleanupLoop(ctx context.Context) {
	ticker := time.NewTicker(cleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			evictIdle(now)
		}
	}
}

func evictIdle(now time.Time) int {
	mu.Lock()
	defer mu.Unlock()

	evicted := 0
	for ip, v := range visitors {
		if now.Sub(v.lastSeen) > idleTimeout {
			delete(visitors, ip)
			evicted++
		}
	}
	return evicted
}

func CleanupAllVisitors() {
	mu.Lock()
	defer mu.Unlock()
	visitors = make(map[string]*clientLimiter)
}

func visitorCount() int {
	mu.Lock()
	defer mu.Unlock()
	return len(visitors)
}

// RemoteAddr is a bare IP once chi's RealIP middleware has rewritten it.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}

func isLoopback(ip string) bool {
	parsed := net.ParseIP(ip)
	return parsed != nil && parsed.IsLoopback()
}

type peerAddrKey struct{}

// PeerAddr records the socket address of the caller before any header based
// rewrite of RemoteAddr. It must run ahead of chi's RealIP middleware.
func PeerAddr(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ctx := context.WithValue(r.Context(), peerAddrKey{}, r.RemoteAddr)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func peerIP(r *http.Request) string {
	addr, ok := r.Context().Value(peerAddrKey{}).(string)
	if !ok {
		addr = r.RemoteAddr
	}
	host, _, err := net.SplitHostPort(addr)
	if err != nil {
		return addr
	}
	return host
}

// Middleware rejects requests over the per-IP budget by calling onLimited.
// Loopback callers, such as the web front-end of the same process, are not
// limited. A forwarding header alone cannot claim loopback: the socket peer
// must be local too.
func Middleware(onLimited http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip := clientIP(r)
			local := isLoopback(ip) && isLoopback(peerIP(r))
			if !local && !GetVisitor(ip).Allow() {
				onLimited(w, r)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
