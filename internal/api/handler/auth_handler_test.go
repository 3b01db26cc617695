package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/api/middleware"
	"github.com/artisthub/ams-client/internal/core/domain"
)

type stubController struct {
	signUpFn    func(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error)
	loginFn     func(ctx context.Context, email, password string) (*domain.Session, error)
	dashboardFn func(ctx context.Context) (*domain.DashboardPayload, error)
	logoutCalls int
}

func (s *stubController) SignUp(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error) {
	return s.signUpFn(ctx, form)
}

func (s *stubController) Login(ctx context.Context, email, password string) (*domain.Session, error) {
	return s.loginFn(ctx, email, password)
}

func (s *stubController) LoadDashboard(ctx context.Context) (*domain.DashboardPayload, error) {
	return s.dashboardFn(ctx)
}

func (s *stubController) Logout(context.Context) error {
	s.logoutCalls++
	return nil
}

func (s *stubController) Current(context.Context) (*domain.Session, error) {
	return nil, domain.ErrUnauthenticated
}

func newContext(method, path, body string, ctrl *stubController) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	e.Validator = NewValidator(nil)
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetPath(path)
	if ctrl != nil {
		c.Set(middleware.ContextController, ctrl)
	}
	return c, rec
}

func TestAuthHandler_SignUp_Success(t *testing.T) {
	stub := &stubController{
		signUpFn: func(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error) {
			if form.Email != "ada@example.com" || form.Role != domain.RoleArtistManager || form.ConfirmPassword != "pw" {
				t.Fatalf("unexpected form: %+v", form)
			}
			return &domain.AccountSummary{ID: "9", Email: form.Email, Role: form.Role, Status: domain.StatusPendingApproval}, nil
		},
	}
	body := `{"first_name":"Ada","last_name":"L","email":"ada@example.com","password":"pw","confirm_password":"pw","role_type":"artist_manager"}`
	c, rec := newContext(http.MethodPost, "/auth/signup", body, stub)

	if err := NewAuthHandler().SignUp(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["notice"] != "Account created! Please wait for admin approval." {
		t.Fatalf("unexpected notice: %v", resp["notice"])
	}
	if resp["route"] != "/login" {
		t.Fatalf("unexpected route: %v", resp["route"])
	}
}

func TestAuthHandler_SignUp_PropagatesError(t *testing.T) {
	stub := &stubController{
		signUpFn: func(ctx context.Context, form domain.SignupForm) (*domain.AccountSummary, error) {
			return nil, domain.NewAuthError(domain.KindConflict, "user already exists", nil)
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/signup", `{"email":"a@x.com"}`, stub)

	if err := NewAuthHandler().SignUp(c); !errors.Is(err, domain.ErrConflict) {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestAuthHandler_Login_Success(t *testing.T) {
	stub := &stubController{
		loginFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
			if email != "a@x.com" || password != "p" {
				t.Fatalf("unexpected credentials %s %s", email, password)
			}
			return &domain.Session{
				AccessToken: "T1",
				Role:        domain.RoleArtist,
				User:        &domain.UserProfile{FirstName: "Ann", Role: domain.RoleArtist},
			}, nil
		},
	}
	c, rec := newContext(http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"p"}`, stub)

	if err := NewAuthHandler().Login(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if strings.Contains(rec.Body.String(), "T1") {
		t.Fatalf("access token must not be sent to the browser: %s", rec.Body.String())
	}

	var resp loginResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp.Role != domain.RoleArtist || resp.Route != domain.RouteArtistDashboard {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAuthHandler_Login_Validation(t *testing.T) {
	stub := &stubController{
		loginFn: func(ctx context.Context, email, password string) (*domain.Session, error) {
			t.Fatalf("controller must not be called")
			return nil, nil
		},
	}
	c, _ := newContext(http.MethodPost, "/auth/login", `{"email":"not-an-email"}`, stub)

	if err := NewAuthHandler().Login(c); !errors.Is(err, domain.ErrValidation) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if stub.logoutCalls != 1 {
		t.Fatalf("a rejected login must clear the session, logout calls=%d", stub.logoutCalls)
	}
}

func TestAuthHandler_Logout(t *testing.T) {
	stub := &stubController{}
	c, rec := newContext(http.MethodPost, "/auth/logout", "", stub)

	if err := NewAuthHandler().Logout(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK || stub.logoutCalls != 1 {
		t.Fatalf("unexpected logout result: %d calls=%d", rec.Code, stub.logoutCalls)
	}
	if !strings.Contains(rec.Body.String(), `"route":"/login"`) {
		t.Fatalf("unexpected body %s", rec.Body.String())
	}
}

func TestAuthHandler_MissingController(t *testing.T) {
	c, _ := newContext(http.MethodPost, "/auth/logout", "", nil)

	err := NewAuthHandler().Logout(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}
