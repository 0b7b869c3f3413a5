package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

type rateLimiter struct {
	sync.Mutex
	visitors map[string]*visitor
	limit    rate.Limit
	burst    int
	ttl      time.Duration
}

// Limit throttles requests per client IP. Idle visitors are forgotten after ttl.
func Limit(rps, burst int, ttl time.Duration, logger *slog.Logger) func(http.Handler) http.Handler {
	l := newRateLimiter(rps, burst, ttl)

	go l.cleanupVisitors()

	return l.LimitMiddleware(logger)
}

func newRateLimiter(rps, burst int, ttl time.Duration) *rateLimiter {
	return &rateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		ttl:      ttl,
	}
}

func (l *rateLimiter) getVisitor(ip string) *rate.Limiter {
	l.Lock()
	defer l.Unlock()

	v, exists := l.visitors[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[ip] = v
	}
	v.lastSeen = time.Now()
	return v.limiter
}

func (l *rateLimiter) cleanupVisitors() {
	for {
		time.Sleep(time.Minute)
		l.evictIdle(time.Now())
	}
}

func (l *rateLimiter) evictIdle(now time.Time) {
	l.Lock()
	defer l.Unlock()
	for ip, v := range l.visitors {
		if now.Sub(v.lastSeen) > l.ttl {
			delete(l.visitors, ip)
		}
	}
}

func (l *rateLimiter) LimitMiddleware(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ip, _, err := net.SplitHostPort(r.RemoteAddr)
			if err != nil {
				logger.Error("Rate limiter IP parse error", slog.String("error", err.Error()))
				http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
				return
			}

			if !l.getVisitor(ip).Allow() {
				logger.Warn("Rate limit exceeded", slog.String("ip", ip))
				http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
