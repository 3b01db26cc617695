package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

const keyPrefix = "ams:session:"

// Hash fields. Every field of one session lives in a single hash so it is
// written, read and deleted as a unit.
const (
	fieldAccessToken  = "access_token"
	fieldRefreshToken = "refresh_token"
	fieldRole         = "user_role"
	fieldUser         = "user"
)

const defaultDialTimeout = 5 * time.Second

// Config locates the Redis instance holding console and CLI sessions.
type Config struct {
	Addr     string
	Password string
	DB       int
	// SessionTTL expires idle sessions server side when positive.
	SessionTTL time.Duration
	// DialTimeout bounds the connect and the startup ping. Zero means 5s.
	DialTimeout time.Duration
}

// Provider stores one hash per scope.
// Key format: ams:session:<scope>
type Provider struct {
	client *redis.Client
	ttl    time.Duration
}

// Open connects to Redis and pings it before handing out session scopes. The
// returned provider owns the client; Close releases it.
func Open(ctx context.Context, cfg Config) (*Provider, error) {
	timeout := cfg.DialTimeout
	if timeout <= 0 {
		timeout = defaultDialTimeout
	}
	client := redis.NewClient(&redis.Options{
		Addr:        cfg.Addr,
		Password:    cfg.Password,
		DB:          cfg.DB,
		DialTimeout: timeout,
	})

	pingCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis session store %s: %w", cfg.Addr, err)
	}
	return NewProvider(client, cfg.SessionTTL), nil
}

// NewProvider wraps client. A positive ttl expires idle sessions server side.
func NewProvider(client *redis.Client, ttl time.Duration) *Provider {
	return &Provider{client: client, ttl: ttl}
}

func (p *Provider) Close() error {
	return p.client.Close()
}

func (p *Provider) Scope(id string) ports.SessionStore {
	return &SessionStore{p: p, key: keyPrefix + id}
}

func (p *Provider) Ping(ctx context.Context) error {
	return p.client.Ping(ctx).Err()
}

// SessionStore is one scope's hash.
type SessionStore struct {
	p   *Provider
	key string
}

// Get reads the hash with a single HGETALL, so a concurrent Set is never
// observed half written.
func (s *SessionStore) Get(ctx context.Context) (*domain.Session, error) {
	fields, err := s.p.client.HGetAll(ctx, s.key).Result()
	if err != nil {
		return nil, fmt.Errorf("redis session get: %w", err)
	}
	token := fields[fieldAccessToken]
	if token == "" {
		return nil, domain.ErrSessionNotFound
	}

	session := &domain.Session{
		AccessToken:  token,
		RefreshToken: fields[fieldRefreshToken],
		Role:         domain.Role(fields[fieldRole]),
	}
	if raw := fields[fieldUser]; raw != "" {
		var u domain.UserProfile
		if err := json.Unmarshal([]byte(raw), &u); err != nil {
			return nil, fmt.Errorf("redis session get: decode user: %w", err)
		}
		session.User = &u
	}
	return session, nil
}

// Set replaces the hash inside MULTI/EXEC.
func (s *SessionStore) Set(ctx context.Context, session domain.Session) error {
	values := map[string]any{
		fieldAccessToken: session.AccessToken,
		fieldRole:        string(session.Role),
	}
	if session.RefreshToken != "" {
		values[fieldRefreshToken] = session.RefreshToken
	}
	if session.User != nil {
		raw, err := json.Marshal(session.User)
		if err != nil {
			return fmt.Errorf("redis session set: encode user: %w", err)
		}
		values[fieldUser] = string(raw)
	}

	_, err := s.p.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Del(ctx, s.key)
		pipe.HSet(ctx, s.key, values)
		if s.p.ttl > 0 {
			pipe.Expire(ctx, s.key, s.p.ttl)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis session set: %w", err)
	}
	return nil
}

func (s *SessionStore) Clear(ctx context.Context) error {
	if err := s.p.client.Del(ctx, s.key).Err(); err != nil {
		return fmt.Errorf("redis session clear: %w", err)
	}
	return nil
}
