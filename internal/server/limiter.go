package server

import (
	"net"
	"sync"
	"time"

	"github.com/charmbracelet/ssh"
	"github.com/charmbracelet/wish"
	"golang.org/x/time/rate"

	"github.com/tomz197/rocks/internal/metrics"
)

// limiterEntry tracks per-IP rate limiting state
type limiterEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ConnLimiter limits how often a single remote IP may open a session.
type ConnLimiter struct {
	mu      sync.Mutex
	limit   rate.Limit
	burst   int
	idle    time.Duration // Entries unused this long are dropped by Cleanup
	entries map[string]*limiterEntry
	metrics *metrics.Metrics
	now     func() time.Time
}

// NewConnLimiter allows perMinute connections per IP with the given burst.
// m may be nil.
func NewConnLimiter(perMinute float64, burst int, m *metrics.Metrics) *ConnLimiter {
	return &ConnLimiter{
		limit:   rate.Limit(perMinute / 60),
		burst:   burst,
		idle:    10 * time.Minute,
		entries: make(map[string]*limiterEntry),
		metrics: m,
		now:     time.Now,
	}
}

// Allow reports whether ip may connect now, consuming one token if so.
func (l *ConnLimiter) Allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := l.now()
	e, ok := l.entries[ip]
	if !ok {
		e = &limiterEntry{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.entries[ip] = e
	}
	e.lastSeen = now
	return e.limiter.AllowN(now, 1)
}

// Cleanup removes limiters that have not been used recently and returns how
// many were dropped.
func (l *ConnLimiter) Cleanup() int {
	l.mu.Lock()
	defer l.mu.Unlock()

	cutoff := l.now().Add(-l.idle)
	dropped := 0
	for ip, e := range l.entries {
		if e.lastSeen.Before(cutoff) {
			delete(l.entries, ip)
			dropped++
		}
	}
	return dropped
}

// Len returns the number of tracked addresses.
func (l *ConnLimiter) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}

// Middleware rejects sessions from addresses over the limit.
func (l *ConnLimiter) Middleware() wish.Middleware {
	return func(next ssh.Handler) ssh.Handler {
		return func(sess ssh.Session) {
			ip := remoteIP(sess.RemoteAddr())
			if !l.Allow(ip) {
				if l.metrics != nil {
					l.metrics.Rejected("rate_limit")
				}
				wish.Fatalln(sess, "Too many connections, try again in a minute.")
				return
			}
			next(sess)
		}
	}
}

func remoteIP(addr net.Addr) string {
	if addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(addr.String())
	if err != nil {
		return addr.String()
	}
	return host
}
