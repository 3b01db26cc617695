package ports

import (
	"context"

	"github.com/artisthub/ams-client/internal/core/domain"
)

// SessionStore persists the session of one browser or CLI profile.
// Set writes the whole tuple or nothing. Get returns domain.ErrSessionNotFound
// when no session is stored. Clear is idempotent.
type SessionStore interface {
	Get(ctx context.Context) (*domain.Session, error)
	Set(ctx context.Context, session domain.Session) error
	Clear(ctx context.Context) error
}

// StoreProvider hands out the session store for a scope (browser id, profile).
type StoreProvider interface {
	Scope(id string) SessionStore
}
