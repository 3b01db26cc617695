package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/artisthub/ams-client/internal/core/domain"
)

func guardContext(ctrl *stubController) (echo.Context, *httptest.ResponseRecorder) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/dashboard", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	if ctrl != nil {
		c.Set(ContextController, ctrl)
	}
	return c, rec
}

func TestGuard_AllowsSession(t *testing.T) {
	want := &domain.Session{AccessToken: "T1", Role: domain.RoleArtist}
	c, rec := guardContext(&stubController{session: want})

	called := false
	handler := Guard()(func(c echo.Context) error {
		called = true
		if Session(c) != want {
			t.Fatalf("session not placed in context")
		}
		return c.NoContent(http.StatusOK)
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if !called || rec.Code != http.StatusOK {
		t.Fatalf("expected next handler to run, code %d", rec.Code)
	}
}

func TestGuard_RedirectsWithoutSession(t *testing.T) {
	c, rec := guardContext(&stubController{currentErr: domain.ErrUnauthenticated})

	handler := Guard()(func(c echo.Context) error {
		t.Fatalf("should not reach next handler")
		return nil
	})

	if err := handler(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusSeeOther || rec.Header().Get(echo.HeaderLocation) != "/login" {
		t.Fatalf("expected 303 to /login, got %d %q", rec.Code, rec.Header().Get(echo.HeaderLocation))
	}
}

func TestGuard_PropagatesStoreFailure(t *testing.T) {
	boom := errors.New("store down")
	c, _ := guardContext(&stubController{currentErr: boom})

	err := Guard()(func(c echo.Context) error { return nil })(c)
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
}

func TestGuard_MissingController(t *testing.T) {
	c, _ := guardContext(nil)

	err := Guard()(func(c echo.Context) error { return nil })(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500, got %v", err)
	}
}
