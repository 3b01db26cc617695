package ports

import (
	"context"

	"github.com/artisthub/ams-client/internal/core/domain"
)

// AuthGateway wraps the remote users-management service. Implementations never
// touch session storage and report failures as *domain.AuthError.
type AuthGateway interface {
	Register(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error)
	Authenticate(ctx context.Context, email, password string) (*domain.Session, error)
	FetchDashboard(ctx context.Context, accessToken string, role domain.Role) (*domain.DashboardPayload, error)
}
