package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/artisthub/ams-client/internal/api/middleware"
	"github.com/artisthub/ams-client/internal/core/domain"
)

func dashboardStub(payload *domain.DashboardPayload, err error) *stubController {
	return &stubController{
		dashboardFn: func(context.Context) (*domain.DashboardPayload, error) { return payload, err },
	}
}

func TestDashboardHandler_RendersPanel(t *testing.T) {
	stub := dashboardStub(&domain.DashboardPayload{
		Role:       domain.RoleSuperAdmin,
		SuperAdmin: &domain.SuperAdminStats{TotalUsers: 12, TotalApprovedArtists: 5},
	}, nil)
	c, rec := newContext(http.MethodGet, "/super_admin_dashboard", "", stub)

	if err := NewDashboardHandler(zerolog.Nop()).Dashboard(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var view DashboardView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.Title != "Super Admin Dashboard" || view.Role != domain.RoleSuperAdmin || len(view.Stats) != 2 {
		t.Fatalf("unexpected view %+v", view)
	}
	if view.Stats[0] != (Stat{Label: "Total Users", Value: "12"}) {
		t.Fatalf("unexpected stat %+v", view.Stats[0])
	}
}

func TestDashboardHandler_Redirects(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want string
	}{
		{"unauthorized", domain.NewAuthError(domain.KindUnauthorized, "", nil), "/login"},
		{"unauthenticated", domain.ErrUnauthenticated, "/login"},
		{"stale", domain.ErrStaleResponse, "/artist_dashboard"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			c, rec := newContext(http.MethodGet, "/artist_dashboard", "", dashboardStub(nil, tc.err))
			if err := NewDashboardHandler(zerolog.Nop()).Dashboard(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != tc.want {
				t.Fatalf("expected 303 to %s, got %d %q", tc.want, rec.Code, rec.Header().Get(echo.HeaderLocation))
			}
		})
	}
}

func TestDashboardHandler_NetworkError(t *testing.T) {
	c, _ := newContext(http.MethodGet, "/artist_dashboard", "", dashboardStub(nil, domain.NewAuthError(domain.KindNetwork, "", nil)))

	if err := NewDashboardHandler(zerolog.Nop()).Dashboard(c); !errors.Is(err, domain.ErrNetwork) {
		t.Fatalf("expected network error, got %v", err)
	}
}

func TestDashboardHandler_Session(t *testing.T) {
	c, rec := newContext(http.MethodGet, "/session", "", nil)
	c.Set(middleware.ContextSession, &domain.Session{
		AccessToken: "T1",
		Role:        domain.RoleArtistManager,
		User:        &domain.UserProfile{FirstName: "Ann", LastName: "Lee"},
	})

	if err := NewDashboardHandler(zerolog.Nop()).Session(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	var view SessionView
	if err := json.Unmarshal(rec.Body.Bytes(), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.DisplayName != "Ann Lee" || view.Route != domain.RouteArtistManagerDashboard {
		t.Fatalf("unexpected view %+v", view)
	}
}
