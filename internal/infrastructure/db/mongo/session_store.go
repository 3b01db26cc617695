package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

const sessionCollection = "client_sessions"

// Provider keeps one document per scope, keyed by the scope id.
type Provider struct {
	db   *mongo.Database
	coll *mongo.Collection
}

func NewProvider(db *mongo.Database) *Provider {
	return &Provider{db: db, coll: db.Collection(sessionCollection)}
}

// EnsureIndexes creates the TTL index that expires idle sessions. A zero ttl
// skips it.
func (p *Provider) EnsureIndexes(ctx context.Context, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	_, err := p.coll.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "updated_at", Value: 1}},
		Options: options.Index().SetExpireAfterSeconds(int32(ttl.Seconds())),
	})
	if err != nil {
		return fmt.Errorf("create session ttl index: %w", err)
	}
	return nil
}

func (p *Provider) Scope(id string) ports.SessionStore {
	return &SessionStore{coll: p.coll, scope: id}
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.db.RunCommand(ctx, bson.D{{Key: "ping", Value: 1}}).Err()
}

type mongoSession struct {
	Scope        string              `bson:"_id"`
	AccessToken  string              `bson:"access_token"`
	RefreshToken string              `bson:"refresh_token,omitempty"`
	Role         string              `bson:"user_role"`
	User         *domain.UserProfile `bson:"user,omitempty"`
	UpdatedAt    time.Time           `bson:"updated_at"`
}

// SessionStore is one scope's document.
type SessionStore struct {
	coll  *mongo.Collection
	scope string
}

func (s *SessionStore) Get(ctx context.Context) (*domain.Session, error) {
	var ms mongoSession
	if err := s.coll.FindOne(ctx, bson.M{"_id": s.scope}).Decode(&ms); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrSessionNotFound
		}
		return nil, fmt.Errorf("find session: %w", err)
	}
	if ms.AccessToken == "" {
		return nil, domain.ErrSessionNotFound
	}
	return &domain.Session{
		AccessToken:  ms.AccessToken,
		RefreshToken: ms.RefreshToken,
		Role:         domain.Role(ms.Role),
		User:         ms.User,
	}, nil
}

// Set replaces the whole document; single-document writes are atomic.
func (s *SessionStore) Set(ctx context.Context, session domain.Session) error {
	doc := mongoSession{
		Scope:        s.scope,
		AccessToken:  session.AccessToken,
		RefreshToken: session.RefreshToken,
		Role:         string(session.Role),
		User:         session.User,
		UpdatedAt:    time.Now().UTC(),
	}
	_, err := s.coll.ReplaceOne(ctx, bson.M{"_id": s.scope}, doc, options.Replace().SetUpsert(true))
	if err != nil {
		return fmt.Errorf("replace session: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if _, err := s.coll.DeleteOne(ctx, bson.M{"_id": s.scope}); err != nil {
		return fmt.Errorf("delete session: %w", err)
	}
	return nil
}
