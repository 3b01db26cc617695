package ports

import (
	"context"

	"github.com/artisthub/ams-client/internal/core/domain"
)

type SessionController interface {
	SignUp(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error)
	Login(ctx context.Context, email, password string) (*domain.Session, error)
	LoadDashboard(ctx context.Context) (*domain.DashboardPayload, error)
	Logout(ctx context.Context) error
	Current(ctx context.Context) (*domain.Session, error)
}
