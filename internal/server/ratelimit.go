package server

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// IPRateLimiter hands out one token bucket per client address.
type IPRateLimiter struct {
	mu       sync.Mutex
	ips      map[string]*visitor
	r        rate.Limit
	b        int
	lastTrim time.Time
}

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// idleVisitor is how long an address is remembered after its last request.
const idleVisitor = 10 * time.Minute

// NewIPRateLimiter allows perMinute requests per address with burst b.
func NewIPRateLimiter(perMinute float64, b int) *IPRateLimiter {
	if b < 1 {
		b = 1
	}
	return &IPRateLimiter{
		ips: make(map[string]*visitor),
		r:   rate.Limit(perMinute / 60),
		b:   b,
	}
}

// GetLimiter returns the limiter for ip, creating it on first use.
func (l *IPRateLimiter) GetLimiter(ip string) *rate.Limiter {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if now.Sub(l.lastTrim) > idleVisitor {
		for k, v := range l.ips {
			if now.Sub(v.lastSeen) > idleVisitor {
				delete(l.ips, k)
			}
		}
		l.lastTrim = now
	}

	v, exists := l.ips[ip]
	if !exists {
		v = &visitor{limiter: rate.NewLimiter(l.r, l.b)}
		l.ips[ip] = v
	}
	v.lastSeen = now
	return v.limiter
}

// Allow reports whether a request from ip may proceed.
func (l *IPRateLimiter) Allow(ip string) bool {
	return l.GetLimiter(ip).Allow()
}

// clientIP is the host part of the peer address.
func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
