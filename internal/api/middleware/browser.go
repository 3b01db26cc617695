package middleware

import (
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/core/ports"
)

const (
	// BrowserCookie identifies a browser across console requests. It carries no
	// credentials; tokens stay in the server-side store.
	BrowserCookie = "ams_browser"

	ContextController = "session_controller"
	ContextSession    = "session"

	browserCookieMaxAge = 30 * 24 * time.Hour
)

// ControllerFactory builds the session controller for one browser scope.
type ControllerFactory func(browserID string) ports.SessionController

// Browser reads or issues the browser cookie and stores the scoped session
// controller in the context.
func Browser(newController ControllerFactory, secure bool) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			id := ""
			if ck, err := c.Cookie(BrowserCookie); err == nil {
				if parsed, err := uuid.Parse(ck.Value); err == nil {
					id = parsed.String()
				}
			}
			if id == "" {
				id = uuid.NewString()
				c.SetCookie(&http.Cookie{
					Name:     BrowserCookie,
					Value:    id,
					Path:     "/",
					MaxAge:   int(browserCookieMaxAge.Seconds()),
					HttpOnly: true,
					Secure:   secure,
					SameSite: http.SameSiteLaxMode,
				})
			}

			c.Set(ContextController, newController(id))
			return next(c)
		}
	}
}

// Controller returns the controller installed by Browser, or nil.
func Controller(c echo.Context) ports.SessionController {
	ctrl, _ := c.Get(ContextController).(ports.SessionController)
	return ctrl
}
