package session

import (
	"slices"
	"sync"

	"github.com/cmlabs-hris/hris-admin-console/internal/domain/user"
)

// Session is the operator's authentication state.
type Session struct {
	Token           string     `json:"token,omitempty"`
	User            *user.User `json:"user,omitempty"`
	IsAuthenticated bool       `json:"isAuthenticated"`
}

// normalize keeps IsAuthenticated true exactly when both token and user are present.
func (s Session) normalize() Session {
	if s.Token == "" || s.User == nil {
		return Session{}
	}
	u := *s.User
	return Session{Token: s.Token, User: &u, IsAuthenticated: true}
}

func (s Session) clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}

// Store owns the console's single session. Transitions are synchronous and
// observers run after the new state is visible to readers.
type Store struct {
	mu        sync.RWMutex
	state     Session
	nextID    uint64
	listeners map[uint64]func(Session)
}

func NewStore() *Store {
	return &Store{listeners: make(map[uint64]func(Session))}
}

func (s *Store) Login(token string, u user.User) {
	s.set(Session{Token: token, User: &u}.normalize())
}

func (s *Store) Logout() {
	s.set(Session{})
}

// UpdateUser merges p into the signed-in user. It reports false when nobody is signed in.
func (s *Store) UpdateUser(p user.Patch) bool {
	s.mu.Lock()
	if s.state.User == nil {
		s.mu.Unlock()
		return false
	}
	u := p.Apply(*s.state.User)
	s.state.User = &u
	next := s.state.clone()
	fns := s.listenersLocked()
	s.mu.Unlock()

	notify(fns, next)
	return true
}

// Restore replaces the state with a previously persisted session.
func (s *Store) Restore(state Session) {
	s.set(state.normalize())
}

// Snapshot returns a copy of the current session.
func (s *Store) Snapshot() Session {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.clone()
}

// Token returns the current access token, or "" when signed out.
func (s *Store) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.Token
}

func (s *Store) IsAuthenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.state.IsAuthenticated
}

// OnChange registers fn to receive every new state. The returned function unregisters it.
func (s *Store) OnChange(fn func(Session)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.nextID++
	id := s.nextID
	s.listeners[id] = fn

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.listeners, id)
	}
}

func (s *Store) set(next Session) {
	s.mu.Lock()
	s.state = next
	snap := next.clone()
	fns := s.listenersLocked()
	s.mu.Unlock()

	notify(fns, snap)
}

// listenersLocked returns the listeners in registration order. s.mu must be held.
func (s *Store) listenersLocked() []func(Session) {
	ids := make([]uint64, 0, len(s.listeners))
	for id := range s.listeners {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	fns := make([]func(Session), len(ids))
	for i, id := range ids {
		fns[i] = s.listeners[id]
	}
	return fns
}

func notify(fns []func(Session), state Session) {
	for _, fn := range fns {
		fn(state.clone())
	}
}
