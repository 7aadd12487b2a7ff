package session

import (
	"sync"
	"time"

	"sheetchart/internal"
	"sheetchart/internal/ingest"

	"github.com/google/uuid"
)

// Manager tracks live sessions and expires idle ones
type Manager struct {
	pipeline *ingest.Pipeline
	ttl      time.Duration
	logger   *internal.Logger
	now      func() time.Time

	mu       sync.RWMutex
	sessions map[string]*Session

	stop      chan struct{}
	done      chan struct{}
	closeOnce sync.Once
}

// NewManager creates a session manager. A positive sweepInterval starts a
// background janitor that removes sessions idle for longer than ttl.
func NewManager(pipeline *ingest.Pipeline, ttl, sweepInterval time.Duration, logger *internal.Logger) *Manager {
	if logger == nil {
		logger = internal.DefaultLogger
	}
	m := &Manager{
		pipeline: pipeline,
		ttl:      ttl,
		logger:   logger.WithComponent("SessionManager"),
		now:      time.Now,
		sessions: make(map[string]*Session),
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}

	if sweepInterval > 0 && ttl > 0 {
		go m.janitor(sweepInterval)
	} else {
		close(m.done)
	}
	return m
}

// Create starts a new session with a fresh identifier
func (m *Manager) Create() *Session {
	s := newSession(uuid.NewString(), m.pipeline, m.now())

	m.mu.Lock()
	m.sessions[s.id] = s
	m.mu.Unlock()

	m.logger.Debug("created session %s", s.id)
	return s
}

// Get returns a live session and marks it as used
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil, false
	}
	s.touch(m.now())
	return s, true
}

// GetOrCreate returns the session for id, or a new one when id is unknown
// or expired. created reports whether a new session was started.
func (m *Manager) GetOrCreate(id string) (s *Session, created bool) {
	if id != "" {
		if s, ok := m.Get(id); ok {
			return s, false
		}
	}
	return m.Create(), true
}

// Len returns the number of live sessions
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Sweep removes sessions idle for longer than the TTL and returns how many
// were removed
func (m *Manager) Sweep() int {
	if m.ttl <= 0 {
		return 0
	}
	cutoff := m.now().Add(-m.ttl)

	m.mu.Lock()
	defer m.mu.Unlock()

	removed := 0
	for id, s := range m.sessions {
		if s.idleSince().Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	if removed > 0 {
		m.logger.Info("expired %d idle sessions (%d live)", removed, len(m.sessions))
	}
	return removed
}

// Close stops the janitor. Sessions stay readable.
func (m *Manager) Close() {
	m.closeOnce.Do(func() {
		close(m.stop)
	})
	<-m.done
}

func (m *Manager) janitor(interval time.Duration) {
	defer close(m.done)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			m.Sweep()
		case <-m.stop:
			return
		}
	}
}
