// Package app assembles the gateway, session stores and logger from
// configuration for both the CLI and the console server.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/rs/zerolog"

	"github.com/artisthub/ams-client/internal/api/handler"
	"github.com/artisthub/ams-client/internal/core/ports"
	"github.com/artisthub/ams-client/internal/core/service"
	"github.com/artisthub/ams-client/internal/infrastructure/db/file"
	"github.com/artisthub/ams-client/internal/infrastructure/db/memory"
	mongostore "github.com/artisthub/ams-client/internal/infrastructure/db/mongo"
	redisstore "github.com/artisthub/ams-client/internal/infrastructure/db/redis"
	"github.com/artisthub/ams-client/internal/infrastructure/gateway"
	"github.com/artisthub/ams-client/internal/pkg/config"
	"github.com/artisthub/ams-client/internal/pkg/validation"
	"github.com/artisthub/ams-client/pkg/logger"
)

// Store is a provider that can report its health.
type Store interface {
	ports.StoreProvider
	handler.Pinger
}

// App holds the wired dependencies. Close releases backend connections.
type App struct {
	Config  *config.Config
	Log     zerolog.Logger
	Gateway *gateway.Client
	Stores  Store

	validator *validation.Validator
	closers   []func(context.Context) error
}

// New initialises the logger and connects the configured store backend. Logs
// go to logOut, or stderr when it is nil.
func New(ctx context.Context, cfg *config.Config, appName string, logOut io.Writer) (*App, error) {
	logger.Init(logger.Options{Level: cfg.Log.Level, Pretty: cfg.Log.Pretty, App: appName, Output: logOut})

	a := &App{
		Config:    cfg,
		Log:       logger.Get(),
		validator: validation.New(),
	}
	a.Gateway = gateway.NewClient(cfg.API.BaseURL, gateway.Options{
		Timeout:   cfg.API.Timeout,
		RateLimit: cfg.API.RateLimit,
		Burst:     cfg.API.RateBurst,
		Logger:    logger.For("gateway"),
	})

	stores, err := a.openStore(ctx)
	if err != nil {
		return nil, err
	}
	a.Stores = stores

	a.Log.Debug().
		Str("backend", cfg.Store.Backend).
		Str("api", a.Gateway.BaseURL()).
		Msg("application wired")
	return a, nil
}

func (a *App) openStore(ctx context.Context) (Store, error) {
	cfg := a.Config
	switch cfg.Store.Backend {
	case config.BackendMemory:
		return memory.NewProvider(), nil

	case config.BackendRedis:
		provider, err := redisstore.Open(ctx, redisstore.Config{
			Addr:       cfg.Redis.Addr,
			Password:   cfg.Redis.Password,
			DB:         cfg.Redis.DB,
			SessionTTL: cfg.Store.SessionTTL,
		})
		if err != nil {
			return nil, fmt.Errorf("open redis store: %w", err)
		}
		a.closers = append(a.closers, func(context.Context) error { return provider.Close() })
		return provider, nil

	case config.BackendMongo:
		client, db, err := mongostore.Connect(ctx, mongostore.Config{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return nil, fmt.Errorf("open mongo store: %w", err)
		}
		a.closers = append(a.closers, client.Disconnect)
		provider := mongostore.NewProvider(db)
		if err := provider.EnsureIndexes(ctx, cfg.Store.SessionTTL); err != nil {
			return nil, errors.Join(fmt.Errorf("open mongo store: %w", err), a.Close(ctx))
		}
		return provider, nil

	default:
		dir := cfg.Store.FileDir
		if dir == "" {
			dir = file.DefaultDir()
		}
		provider, err := file.NewProvider(dir, cfg.Store.FileSecret)
		if err != nil {
			return nil, fmt.Errorf("open file store: %w", err)
		}
		return provider, nil
	}
}

// Controller returns the session controller for one scope.
func (a *App) Controller(scope string) *service.SessionController {
	log := logger.For("session").With().Str("scope", scope).Logger()
	return service.NewSessionController(a.Gateway, a.Stores.Scope(scope), a.validator, log)
}

// Close releases backend connections in reverse order of opening.
func (a *App) Close(ctx context.Context) error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](ctx); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	return errors.Join(errs...)
}
