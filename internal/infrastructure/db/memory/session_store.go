// Package memory keeps sessions in process memory. It backs the console in
// development and stands in for real persistence in tests.
package memory

import (
	"context"
	"sync"

	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

// Provider holds the sessions of every scope.
type Provider struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

func NewProvider() *Provider {
	return &Provider{sessions: make(map[string]domain.Session)}
}

// Scope returns the store for one browser or profile.
func (p *Provider) Scope(id string) ports.SessionStore {
	return &SessionStore{p: p, scope: id}
}

// NewSessionStore returns a standalone single-scope store.
func NewSessionStore() *SessionStore {
	return &SessionStore{p: NewProvider(), scope: ""}
}

// SessionStore is a single scope of a Provider.
type SessionStore struct {
	p     *Provider
	scope string
}

func (s *SessionStore) Get(_ context.Context) (*domain.Session, error) {
	s.p.mu.RLock()
	defer s.p.mu.RUnlock()
	session, ok := s.p.sessions[s.scope]
	if !ok {
		return nil, domain.ErrSessionNotFound
	}
	clone := session.Clone()
	return &clone, nil
}

func (s *SessionStore) Set(_ context.Context, session domain.Session) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	s.p.sessions[s.scope] = session.Clone()
	return nil
}

func (s *SessionStore) Clear(_ context.Context) error {
	s.p.mu.Lock()
	defer s.p.mu.Unlock()
	delete(s.p.sessions, s.scope)
	return nil
}

// Ping satisfies the readiness check; memory is always available.
func (p *Provider) Ping(context.Context) error { return nil }
