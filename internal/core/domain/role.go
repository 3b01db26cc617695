package domain

import "strings"

// Role governs which dashboard view and backend endpoint apply to an account.
type Role string

const (
	RoleSuperAdmin    Role = "super_admin"
	RoleArtistManager Role = "artist_manager"
	RoleArtist        Role = "artist"
)

// Roles lists every valid role in display order.
var Roles = []Role{RoleSuperAdmin, RoleArtistManager, RoleArtist}

// ParseRole maps a wire value onto the closed role set. Anything else yields the
// zero Role and false.
func ParseRole(s string) (Role, bool) {
	switch r := Role(strings.TrimSpace(s)); r {
	case RoleSuperAdmin, RoleArtistManager, RoleArtist:
		return r, true
	default:
		return "", false
	}
}

// Valid reports whether r is one of the enumerated roles.
func (r Role) Valid() bool {
	_, ok := ParseRole(string(r))
	return ok
}

func (r Role) String() string { return string(r) }

// Route is a view location inside the client.
type Route string

const (
	RouteLogin                  Route = "/login"
	RouteDashboard              Route = "/dashboard"
	RouteSuperAdminDashboard    Route = "/super_admin_dashboard"
	RouteArtistManagerDashboard Route = "/artist_manager_dashboard"
	RouteArtistDashboard        Route = "/artist_dashboard"
)

// RouteFor returns the dashboard route for a role. Unknown or empty roles fall
// back to the generic dashboard.
func RouteFor(r Role) Route {
	switch r {
	case RoleSuperAdmin:
		return RouteSuperAdminDashboard
	case RoleArtistManager:
		return RouteArtistManagerDashboard
	case RoleArtist:
		return RouteArtistDashboard
	default:
		return RouteDashboard
	}
}

// DashboardRoutes lists every route the dashboard view can be reached on.
var DashboardRoutes = []Route{
	RouteDashboard,
	RouteSuperAdminDashboard,
	RouteArtistManagerDashboard,
	RouteArtistDashboard,
}

// DashboardPath returns the backend resource path, relative to the users
// service base URL, that serves the dashboard payload for r.
func DashboardPath(r Role) string {
	switch r {
	case RoleSuperAdmin:
		return "/dashboard/super-admin/"
	case RoleArtistManager:
		return "/dashboard/artist-manager/"
	case RoleArtist:
		return "/dashboard/artist/"
	default:
		return "/dashboard/"
	}
}
