package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/api/middleware"
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

// ctxController returns the browser-scoped controller installed by the
// Browser middleware. Its absence is a wiring bug, reported as 500.
func ctxController(c echo.Context) (ports.SessionController, error) {
	ctrl := middleware.Controller(c)
	if ctrl == nil {
		return nil, echo.NewHTTPError(http.StatusInternalServerError, "session controller not configured")
	}
	return ctrl, nil
}

// ctxSession returns the session the Guard middleware verified.
func ctxSession(c echo.Context) (*domain.Session, error) {
	session := middleware.Session(c)
	if session == nil {
		return nil, domain.ErrUnauthenticated
	}
	return session, nil
}
