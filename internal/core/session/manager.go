package session

import (
	"context"
	"sync"
	"time"

	"github.com/kuroneko-hornet/homeworks/internal/api/metrics"
	"github.com/kuroneko-hornet/homeworks/internal/core/domain"
	"github.com/kuroneko-hornet/homeworks/internal/core/ports"
)

const reloadTimeout = 10 * time.Second

// Manager owns the live sessions, keyed by session id. Sessions never share
// state with each other.
type Manager struct {
	deps Deps

	mu       sync.Mutex
	sessions map[string]*Session
}

func NewManager(deps Deps) *Manager {
	return &Manager{deps: deps, sessions: make(map[string]*Session)}
}

// Open returns the session for claims, creating and loading it on first use.
// A session whose initial load fails is not kept, and claims that already
// expired are refused.
func (m *Manager) Open(ctx context.Context, claims ports.Claims) (*Session, error) {
	now := m.deps.now()

	m.mu.Lock()
	m.evictLocked(now)
	s, ok := m.sessions[claims.SessionID]
	m.mu.Unlock()
	if ok {
		return s, nil
	}

	s = New(claims.SessionID, claims.UID, m.deps)
	s.expiresAt = claims.ExpiresAt
	if s.Expired(now) {
		return nil, domain.ErrUnauthenticated
	}
	if err := s.LoadProfile(ctx); err != nil {
		return nil, err
	}
	if _, err := s.ReloadChoices(ctx); err != nil {
		return nil, err
	}
	if _, err := s.Refresh(ctx); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if existing, ok := m.sessions[claims.SessionID]; ok {
		return existing, nil
	}
	m.sessions[claims.SessionID] = s
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
	return s, nil
}

// Get returns an already opened session.
func (m *Manager) Get(sessionID string) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[sessionID]
	return s, ok
}

// Drop forgets a session, e.g. after sign-out.
func (m *Manager) Drop(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
	metrics.ActiveSessions.Set(float64(len(m.sessions)))
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops every session whose token has expired and returns how many
// were dropped.
func (m *Manager) Sweep() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.evictLocked(m.deps.now())
}

// Run sweeps expired sessions every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := m.Sweep(); n > 0 {
				m.deps.Log.Debug().Int("evicted", n).Msg("expired sessions dropped")
			}
		}
	}
}

func (m *Manager) evictLocked(now time.Time) int {
	n := 0
	for id, s := range m.sessions {
		if s.Expired(now) {
			delete(m.sessions, id)
			n++
		}
	}
	if n > 0 {
		metrics.ActiveSessions.Set(float64(len(m.sessions)))
	}
	return n
}

func (m *Manager) snapshot(uid string) []*Session {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.evictLocked(m.deps.now())
	out := make([]*Session, 0, len(m.sessions))
	for _, s := range m.sessions {
		if uid == "" || s.uid == uid {
			out = append(out, s)
		}
	}
	return out
}

// Watch keeps open sessions current with writes made by any household
// member: history changes re-fetch windows, taxonomy changes reload choices
// and profile changes reload that user's profile.
func (m *Manager) Watch(bus ports.EventBus) (unsubscribe func()) {
	return bus.Subscribe(func(ev domain.ChangeEvent) bool {
		return !ev.IsAuth()
	}, m.apply)
}

func (m *Manager) apply(ev domain.ChangeEvent) {
	ctx, cancel := context.WithTimeout(context.Background(), reloadTimeout)
	defer cancel()

	var err error
	switch ev.Type {
	case domain.EventHistoryCreated, domain.EventHistoryDeleted:
		for _, s := range m.snapshot("") {
			if _, err = s.Refresh(ctx); err != nil {
				m.deps.Log.Warn().Err(err).Str("session", s.id).Msg("background refresh failed")
			}
		}
	case domain.EventTaxonomyChanged:
		for _, s := range m.snapshot("") {
			if _, err = s.ReloadChoices(ctx); err != nil {
				m.deps.Log.Warn().Err(err).Str("session", s.id).Msg("background taxonomy reload failed")
			}
		}
	case domain.EventProfileChanged:
		for _, s := range m.snapshot(ev.UID) {
			if err = s.LoadProfile(ctx); err != nil {
				m.deps.Log.Warn().Err(err).Str("session", s.id).Msg("background profile reload failed")
			}
		}
	}
}
