// Package server hosts independent game sessions over SSH: it tracks live
// sessions, limits how fast a single address may connect, and serves the
// debug HTTP endpoints.
package server

import (
	"errors"
	"sort"
	"sync"
	"time"

	"github.com/tomz197/rocks/internal/metrics"
)

var (
	// ErrFull is returned by Open when the session limit is reached.
	ErrFull = errors.New("server full")
	// ErrShuttingDown is returned by Open after Shutdown has started.
	ErrShuttingDown = errors.New("server shutting down")
)

// SessionInfo is a read-only view of a live session.
type SessionInfo struct {
	ID      uint64    `json:"id"`
	User    string    `json:"user"`
	Remote  string    `json:"remote"`
	Started time.Time `json:"started"`
	Score   int       `json:"score"`
	Level   int       `json:"level"`
}

// Session is one registered player connection. Each session runs its own
// private game; the registry only observes it.
type Session struct {
	reg      *Registry
	info     SessionInfo
	shutdown chan struct{}
	once     sync.Once
}

// Registry tracks live sessions and enforces the session limit.
type Registry struct {
	mu       sync.RWMutex
	max      int // 0 means unlimited
	nextID   uint64
	sessions map[uint64]*Session
	closing  bool
	metrics  *metrics.Metrics
}

// NewRegistry creates a registry allowing at most limit concurrent sessions
// (0 for no limit). m may be nil.
func NewRegistry(limit int, m *metrics.Metrics) *Registry {
	return &Registry{
		max:      limit,
		sessions: make(map[uint64]*Session),
		metrics:  m,
	}
}

// Open registers a new session for user connecting from remote.
func (r *Registry) Open(user, remote string) (*Session, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closing {
		return nil, ErrShuttingDown
	}
	if r.max > 0 && len(r.sessions) >= r.max {
		if r.metrics != nil {
			r.metrics.Rejected("full")
		}
		return nil, ErrFull
	}

	r.nextID++
	s := &Session{
		reg: r,
		info: SessionInfo{
			ID:      r.nextID,
			User:    user,
			Remote:  remote,
			Started: time.Now(),
			Level:   1,
		},
		shutdown: make(chan struct{}),
	}
	r.sessions[s.info.ID] = s
	if r.metrics != nil {
		r.metrics.SessionStarted()
	}
	return s, nil
}

// Len returns the number of live sessions.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

// Snapshot returns every live session ordered by ID.
func (r *Registry) Snapshot() []SessionInfo {
	r.mu.RLock()
	out := make([]SessionInfo, 0, len(r.sessions))
	for _, s := range r.sessions {
		out = append(out, s.info)
	}
	r.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// Shutdown notifies every session and waits for them to close, up to
// timeout. It reports whether all sessions ended in time. New sessions are
// refused from the moment it is called.
func (r *Registry) Shutdown(timeout time.Duration) bool {
	r.mu.Lock()
	r.closing = true
	for _, s := range r.sessions {
		s.notify()
	}
	r.mu.Unlock()

	deadline := time.After(timeout)
	ticker := time.NewTicker(50 * time.Millisecond)
	defer ticker.Stop()

	for {
		if r.Len() == 0 {
			return true
		}
		select {
		case <-deadline:
			return false
		case <-ticker.C:
		}
	}
}

// ID returns the session ID.
func (s *Session) ID() uint64 {
	return s.info.ID
}

// ShuttingDown is closed when the server asks the session to end.
func (s *Session) ShuttingDown() <-chan struct{} {
	return s.shutdown
}

// Update records the session's current score and level.
func (s *Session) Update(score, level int) {
	s.reg.mu.Lock()
	s.info.Score = score
	s.info.Level = level
	s.reg.mu.Unlock()
}

// Close unregisters the session. It is safe to call more than once.
func (s *Session) Close() {
	s.reg.mu.Lock()
	defer s.reg.mu.Unlock()

	if _, ok := s.reg.sessions[s.info.ID]; !ok {
		return
	}
	delete(s.reg.sessions, s.info.ID)
	s.notify()
	if s.reg.metrics != nil {
		s.reg.metrics.SessionEnded()
	}
}

func (s *Session) notify() {
	s.once.Do(func() { close(s.shutdown) })
}
