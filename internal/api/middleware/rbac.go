package middleware

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/core/domain"
)

// RoleRoute keeps each role on its own dashboard route. A request for another
// role's dashboard is redirected to the route the session's role maps to.
// It must run after Guard.
func RoleRoute() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			session := Session(c)
			if session == nil {
				return c.Redirect(http.StatusSeeOther, string(domain.RouteLogin))
			}
			want := domain.RouteFor(session.Role)
			if c.Path() != string(want) {
				return c.Redirect(http.StatusSeeOther, string(want))
			}
			return next(c)
		}
	}
}
