package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/api/metrics"
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
)

// AuthHandler serves signup, login and logout for the browser's controller.
type AuthHandler struct{}

func NewAuthHandler() *AuthHandler {
	return &AuthHandler{}
}

type loginRequest struct {
	Email    string `json:"email" form:"email" validate:"required,email"`
	Password string `json:"password" form:"password" validate:"required"`
}

type signupResponse struct {
	Account *domain.AccountSummary `json:"account"`
	Notice  string                 `json:"notice"`
	Route   domain.Route           `json:"route"`
}

type loginResponse struct {
	Role  domain.Role         `json:"role"`
	Route domain.Route        `json:"route"`
	User  *domain.UserProfile `json:"user,omitempty"`
}

type routeResponse struct {
	Route domain.Route `json:"route"`
}

type viewResponse struct {
	View string `json:"view"`
}

// LoginView is the login entry point every unauthenticated flow lands on.
//
// @Summary      Login view
// @Tags         auth
// @Produce      json
// @Success      200  {object}  viewResponse
// @Router       /login [get]
func (h *AuthHandler) LoginView(c echo.Context) error {
	return c.JSON(http.StatusOK, viewResponse{View: "login"})
}

// SignUp registers a new account. No session is created; the user logs in
// once the account is approved.
//
// @Summary      Register a new account
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      domain.SignupForm  true  "Signup form"
// @Success      201   {object}  signupResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/signup [post]
func (h *AuthHandler) SignUp(c echo.Context) error {
	ctrl, err := ctxController(c)
	if err != nil {
		return err
	}

	var form domain.SignupForm
	if err := c.Bind(&form); err != nil {
		return domain.NewAuthError(domain.KindValidation, "invalid payload", err)
	}

	summary, err := ctrl.SignUp(c.Request().Context(), form)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, signupResponse{
		Account: summary,
		Notice:  summary.Notice(),
		Route:   domain.RouteLogin,
	})
}

// Login authenticates and answers with the dashboard route for the role.
//
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        body  body      loginRequest  true  "Login credentials"
// @Success      200   {object}  loginResponse
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  map[string]string
// @Router       /auth/login [post]
func (h *AuthHandler) Login(c echo.Context) error {
	ctrl, err := ctxController(c)
	if err != nil {
		return err
	}

	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return rejectLogin(c, ctrl, domain.NewAuthError(domain.KindValidation, "invalid payload", err))
	}
	if err := c.Validate(&req); err != nil {
		return rejectLogin(c, ctrl, err)
	}

	session, err := ctrl.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("login").Inc()

	return c.JSON(http.StatusOK, loginResponse{
		Role:  session.Role,
		Route: domain.RouteFor(session.Role),
		User:  session.User,
	})
}

// rejectLogin drops the stored session before reporting a malformed login, so
// the browser ends up logged out exactly as after a refused one.
func rejectLogin(c echo.Context, ctrl ports.SessionController, cause error) error {
	if err := ctrl.Logout(c.Request().Context()); err != nil {
		return err
	}
	return cause
}

// Logout drops the browser's session. Logging out twice is not an error.
//
// @Summary      Logout
// @Tags         auth
// @Produce      json
// @Success      200  {object}  routeResponse
// @Router       /auth/logout [post]
func (h *AuthHandler) Logout(c echo.Context) error {
	ctrl, err := ctxController(c)
	if err != nil {
		return err
	}
	if err := ctrl.Logout(c.Request().Context()); err != nil {
		return err
	}
	metrics.SessionEventsTotal.WithLabelValues("logout").Inc()
	return c.JSON(http.StatusOK, routeResponse{Route: domain.RouteLogin})
}
