package middleware

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/api/metrics"
	"github.com/artisthub/ams-client/internal/core/domain"
)

// Guard lets the request through only with a usable session, which it places
// in the context. Without one the browser is sent to the login view.
func Guard() echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			ctrl := Controller(c)
			if ctrl == nil {
				return echo.NewHTTPError(http.StatusInternalServerError, "session controller not configured")
			}

			session, err := ctrl.Current(c.Request().Context())
			if err != nil {
				if errors.Is(err, domain.ErrUnauthenticated) {
					metrics.SessionEventsTotal.WithLabelValues("redirected").Inc()
					return c.Redirect(http.StatusSeeOther, string(domain.RouteLogin))
				}
				return err
			}

			c.Set(ContextSession, session)
			return next(c)
		}
	}
}

// Session returns the session placed in the context by Guard, or nil.
func Session(c echo.Context) *domain.Session {
	s, _ := c.Get(ContextSession).(*domain.Session)
	return s
}
