package handler

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/rs/zerolog"

	"github.com/artisthub/ams-client/internal/api/metrics"
	"github.com/artisthub/ams-client/internal/core/domain"
)

type DashboardHandler struct {
	log zerolog.Logger
}

func NewDashboardHandler(log zerolog.Logger) *DashboardHandler {
	return &DashboardHandler{log: log}
}

// Dashboard loads and renders the panel for the session's role.
//
// @Summary      Role dashboard
// @Tags         dashboard
// @Produce      json
// @Success      200  {object}  DashboardView
// @Success      303  "redirect to the login view or the role's dashboard"
// @Failure      502  {object}  map[string]string
// @Router       /dashboard [get]
// @Router       /super_admin_dashboard [get]
// @Router       /artist_manager_dashboard [get]
// @Router       /artist_dashboard [get]
func (h *DashboardHandler) Dashboard(c echo.Context) error {
	ctrl, err := ctxController(c)
	if err != nil {
		return err
	}

	payload, err := ctrl.LoadDashboard(c.Request().Context())
	switch {
	case err == nil:
	case errors.Is(err, domain.ErrStaleResponse):
		metrics.SessionEventsTotal.WithLabelValues("stale").Inc()
		return c.Redirect(http.StatusSeeOther, c.Request().URL.Path)
	case errors.Is(err, domain.ErrUnauthorized):
		metrics.SessionEventsTotal.WithLabelValues("rejected").Inc()
		h.log.Info().Str("path", c.Path()).Msg("session rejected, redirecting to login")
		return c.Redirect(http.StatusSeeOther, string(domain.RouteLogin))
	case errors.Is(err, domain.ErrUnauthenticated):
		return c.Redirect(http.StatusSeeOther, string(domain.RouteLogin))
	default:
		return err
	}

	view := RenderDashboard(payload)
	role := string(view.Role)
	if role == "" {
		role = "none"
	}
	metrics.DashboardViewsTotal.WithLabelValues(role).Inc()
	return c.JSON(http.StatusOK, view)
}

// Session describes the logged-in user.
//
// @Summary      Current session
// @Tags         auth
// @Produce      json
// @Success      200  {object}  SessionView
// @Success      303  "redirect to the login view"
// @Router       /session [get]
func (h *DashboardHandler) Session(c echo.Context) error {
	session, err := ctxSession(c)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, RenderSession(session))
}
