package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
	"github.com/artisthub/ams-client/internal/pkg/validation"
	"github.com/artisthub/ams-client/pkg/logger"
)

// SessionController drives signup, login, dashboard loading and logout for one
// session scope. It is the only writer of its SessionStore.
type SessionController struct {
	gateway   ports.AuthGateway
	store     ports.SessionStore
	validator *validation.Validator
	log       zerolog.Logger
	now       func() time.Time
}

var _ ports.SessionController = (*SessionController)(nil)

// NewSessionController builds a controller over store. v is shared across
// controllers; nil gets a private one.
func NewSessionController(gateway ports.AuthGateway, store ports.SessionStore, v *validation.Validator, log zerolog.Logger) *SessionController {
	if v == nil {
		v = validation.New()
	}
	return &SessionController{
		gateway:   gateway,
		store:     store,
		validator: v,
		log:       log,
		now:       time.Now,
	}
}

// SignUp validates the form locally and relays it to the backend. It never
// touches the session store.
func (c *SessionController) SignUp(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error) {
	form = form.WithDefaults()
	if !form.PasswordsMatch() {
		return nil, domain.NewAuthError(domain.KindValidation, "Passwords do not match.", nil)
	}
	if err := c.validator.Struct(form); err != nil {
		return nil, domain.NewAuthError(domain.KindValidation, err.Error(), nil)
	}

	summary, err := c.gateway.Register(ctx, form)
	if err != nil {
		c.log.Warn().Err(err).Str("role", form.Role.String()).Msg("signup failed")
		return nil, err
	}

	c.log.Info().Str("account_id", summary.ID).Str("role", form.Role.String()).Msg("account registered")
	return summary, nil
}

// Login replaces whatever session is stored with the one the backend issues.
// The previous session is dropped before the call, so a failed login never
// leaves an older token behind.
func (c *SessionController) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	if err := c.store.Clear(ctx); err != nil {
		return nil, fmt.Errorf("login: clear previous session: %w", err)
	}

	creds := domain.Credentials{Email: strings.TrimSpace(email), Password: password}
	if err := c.validator.Struct(creds); err != nil {
		return nil, domain.NewAuthError(domain.KindValidation, err.Error(), nil)
	}

	session, err := c.gateway.Authenticate(ctx, creds.Email, creds.Password)
	if err != nil {
		c.log.Warn().Err(err).Msg("login failed")
		return nil, err
	}
	if session == nil || session.AccessToken == "" {
		return nil, domain.NewAuthError(domain.KindUnknown, "login response did not include an access token", nil)
	}

	if err := c.store.Set(ctx, session.Clone()); err != nil {
		return nil, fmt.Errorf("login: persist session: %w", err)
	}

	c.log.Info().
		Str("role", session.Role.String()).
		Str("token", logger.Fingerprint(session.AccessToken)).
		Bool("refresh_token", session.RefreshToken != "").
		Msg("logged in")

	return session, nil
}

// LoadDashboard fetches the dashboard payload for the stored session.
//
// A 401 clears the session before the error is returned. A fetch that
// completes after the session was replaced or cleared is discarded with
// domain.ErrStaleResponse.
func (c *SessionController) LoadDashboard(ctx context.Context) (*domain.DashboardPayload, error) {
	captured, err := c.load(ctx)
	if err != nil {
		return nil, err
	}

	payload, fetchErr := c.gateway.FetchDashboard(ctx, captured.AccessToken, captured.Role)

	current, err := c.load(ctx)
	if err != nil && !errors.Is(err, domain.ErrUnauthenticated) {
		return nil, err
	}
	if !captured.SameAs(current) {
		c.log.Debug().Str("role", captured.Role.String()).Msg("dashboard response discarded, session changed")
		return nil, domain.ErrStaleResponse
	}

	if fetchErr != nil {
		if errors.Is(fetchErr, domain.ErrUnauthorized) {
			if err := c.store.Clear(ctx); err != nil {
				return nil, fmt.Errorf("load dashboard: clear rejected session: %w", err)
			}
			c.log.Info().Str("token", logger.Fingerprint(captured.AccessToken)).Msg("session rejected by server, cleared")
		}
		return nil, fetchErr
	}

	return payload, nil
}

// Logout clears the stored session. Safe to call with no session.
func (c *SessionController) Logout(ctx context.Context) error {
	if err := c.store.Clear(ctx); err != nil {
		return fmt.Errorf("logout: %w", err)
	}
	c.log.Debug().Msg("logged out")
	return nil
}

// Current returns the stored session if it is still usable. A JWT access token
// whose expiry has passed is cleared and reported as unauthenticated.
func (c *SessionController) Current(ctx context.Context) (*domain.Session, error) {
	session, err := c.load(ctx)
	if err != nil {
		return nil, err
	}
	if TokenExpired(session.AccessToken, c.now()) {
		if err := c.store.Clear(ctx); err != nil {
			return nil, fmt.Errorf("current session: clear expired session: %w", err)
		}
		c.log.Info().Str("token", logger.Fingerprint(session.AccessToken)).Msg("stored session expired, cleared")
		return nil, domain.NewAuthError(domain.KindUnauthenticated, "session expired, please log in again", nil)
	}
	return session, nil
}

func (c *SessionController) load(ctx context.Context) (*domain.Session, error) {
	session, err := c.store.Get(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrSessionNotFound) {
			return nil, domain.ErrUnauthenticated
		}
		return nil, fmt.Errorf("read session: %w", err)
	}
	if !session.Valid() {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}
