package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/remito/internal/apperr"
)

var ErrNotFound = fmt.Errorf("session %w", apperr.ErrNotFound)

// Manager keeps sessions in process memory. Sessions idle for longer than
// ttl are dropped on the next access.
type Manager struct {
	mu            sync.Mutex
	sessions      map[uuid.UUID]*Session
	ttl           time.Duration
	defaultMargin decimal.Decimal
	now           func() time.Time
}

func NewManager(ttl time.Duration, defaultMargin decimal.Decimal) *Manager {
	return &Manager{
		sessions:      make(map[uuid.UUID]*Session),
		ttl:           ttl,
		defaultMargin: defaultMargin,
		now:           time.Now,
	}
}

func (m *Manager) DefaultMargin() decimal.Decimal {
	return m.defaultMargin
}

func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()

	s := New(m.defaultMargin, m.now())
	m.sessions[s.ID] = s

	return s
}

func (m *Manager) Get(id uuid.UUID) (*Session, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweep()

	s, ok := m.sessions[id]
	if !ok {
		return nil, ErrNotFound
	}

	s.LastSeen = m.now()

	return s, nil
}

func (m *Manager) Delete(id uuid.UUID) {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.sessions, id)
}

func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return len(m.sessions)
}

func (m *Manager) sweep() {
	if m.ttl <= 0 {
		return
	}

	cutoff := m.now().Add(-m.ttl)
	for id, s := range m.sessions {
		if s.LastSeen.Before(cutoff) {
			delete(m.sessions, id)
		}
	}
}
