package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/rs/zerolog"
	"golang.org/x/net/publicsuffix"

	"github.com/artisthub/ams-client/internal/api/handler"
	"github.com/artisthub/ams-client/internal/infrastructure/db/memory"
	"github.com/artisthub/ams-client/internal/infrastructure/gateway"
)

type consoleFixture struct {
	console     *httptest.Server
	client      *http.Client
	fetches     int32
	rejectFetch atomic.Bool
}

func newConsole(t *testing.T) *consoleFixture {
	t.Helper()
	f := &consoleFixture{}

	backend := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		switch r.URL.Path {
		case "/api/users/auth/login/":
			_, _ = io.WriteString(w, `{"access_token":"T1","refresh_token":"R1","user":{"id":1,"first_name":"Ann","role_type":"artist"}}`)
		case "/api/users/dashboard/artist/":
			atomic.AddInt32(&f.fetches, 1)
			if r.Header.Get("Authorization") != "Bearer T1" {
				t.Errorf("unexpected Authorization %q", r.Header.Get("Authorization"))
			}
			if f.rejectFetch.Load() {
				w.WriteHeader(http.StatusUnauthorized)
				_, _ = io.WriteString(w, `{"detail":"Token expired"}`)
				return
			}
			_, _ = io.WriteString(w, `{"total_works":2,"recent_works":["Song A","Song B"]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(backend.Close)

	stores := memory.NewProvider()
	e := NewRouter(Deps{
		Gateway: gateway.NewClient(backend.URL+"/api/users", gateway.Options{HTTPClient: backend.Client(), Logger: zerolog.Nop()}),
		Stores:  stores,
		Logger:  zerolog.Nop(),
		Checks:  map[string]handler.Pinger{"store": stores},
	})
	f.console = httptest.NewServer(e)
	t.Cleanup(f.console.Close)

	jar, _ := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
	f.client = &http.Client{
		Jar: jar,
		CheckRedirect: func(*http.Request, []*http.Request) error {
			return http.ErrUseLastResponse
		},
	}
	return f
}

func (f *consoleFixture) do(t *testing.T, method, path, body string) (*http.Response, string) {
	t.Helper()
	req, err := http.NewRequest(method, f.console.URL+path, strings.NewReader(body))
	if err != nil {
		t.Fatalf("new request: %v", err)
	}
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	resp, err := f.client.Do(req)
	if err != nil {
		t.Fatalf("%s %s: %v", method, path, err)
	}
	defer resp.Body.Close()
	data, _ := io.ReadAll(resp.Body)
	return resp, string(data)
}

func TestConsole_LoginDashboardLogout(t *testing.T) {
	f := newConsole(t)

	resp, _ := f.do(t, http.MethodGet, "/dashboard", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login before signing in, got %d", resp.StatusCode)
	}
	if atomic.LoadInt32(&f.fetches) != 0 {
		t.Fatalf("no dashboard fetch expected without a session")
	}

	resp, body := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"p"}`)
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", resp.StatusCode, body)
	}
	var login map[string]any
	_ = json.Unmarshal([]byte(body), &login)
	if login["route"] != "/artist_dashboard" || login["role"] != "artist" {
		t.Fatalf("unexpected login response %s", body)
	}

	resp, _ = f.do(t, http.MethodGet, "/super_admin_dashboard", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/artist_dashboard" {
		t.Fatalf("expected redirect to the artist dashboard, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
	}

	resp, body = f.do(t, http.MethodGet, "/artist_dashboard", "")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard failed: %d %s", resp.StatusCode, body)
	}
	var view handler.DashboardView
	if err := json.Unmarshal([]byte(body), &view); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if view.Title != "Artist Dashboard" || view.Stats[1].Value != "Song A, Song B" {
		t.Fatalf("unexpected view %+v", view)
	}

	resp, body = f.do(t, http.MethodGet, "/session", "")
	if resp.StatusCode != http.StatusOK || strings.Contains(body, "T1") || !strings.Contains(body, "Ann") {
		t.Fatalf("unexpected session view %d %s", resp.StatusCode, body)
	}

	for i := 0; i < 2; i++ {
		if resp, _ = f.do(t, http.MethodPost, "/auth/logout", ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("logout #%d failed: %d", i+1, resp.StatusCode)
		}
	}
	resp, _ = f.do(t, http.MethodGet, "/artist_dashboard", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login after logout, got %d", resp.StatusCode)
	}
}

func TestConsole_RejectedTokenClearsSession(t *testing.T) {
	f := newConsole(t)
	f.rejectFetch.Store(true)

	if resp, body := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"p"}`); resp.StatusCode != http.StatusOK {
		t.Fatalf("login failed: %d %s", resp.StatusCode, body)
	}

	resp, _ := f.do(t, http.MethodGet, "/artist_dashboard", "")
	if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
		t.Fatalf("expected redirect to login after 401, got %d", resp.StatusCode)
	}

	resp, _ = f.do(t, http.MethodGet, "/session", "")
	if resp.StatusCode != http.StatusSeeOther {
		t.Fatalf("session should be gone after 401, got %d", resp.StatusCode)
	}
}

func TestConsole_ErrorEnvelope(t *testing.T) {
	f := newConsole(t)

	resp, body := f.do(t, http.MethodPost, "/auth/signup", `{"first_name":"A","last_name":"B","email":"a@x.com","password":"x","confirm_password":"y"}`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var env errorResponse
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if env.Error != "Passwords do not match." || env.Kind != "validation" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestConsole_MalformedLoginClearsSession(t *testing.T) {
	cases := map[string]string{
		"bad email":      `{"email":"not-an-email","password":"p"}`,
		"empty password": `{"email":"a@x.com","password":""}`,
		"invalid json":   `{not json`,
	}
	for name, body := range cases {
		t.Run(name, func(t *testing.T) {
			f := newConsole(t)
			if resp, out := f.do(t, http.MethodPost, "/auth/login", `{"email":"a@x.com","password":"p"}`); resp.StatusCode != http.StatusOK {
				t.Fatalf("login failed: %d %s", resp.StatusCode, out)
			}

			resp, out := f.do(t, http.MethodPost, "/auth/login", body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d %s", resp.StatusCode, out)
			}

			resp, _ = f.do(t, http.MethodGet, "/session", "")
			if resp.StatusCode != http.StatusSeeOther || resp.Header.Get("Location") != "/login" {
				t.Fatalf("previous session must be cleared, got %d %q", resp.StatusCode, resp.Header.Get("Location"))
			}
		})
	}
}

func TestConsole_BindErrorEnvelope(t *testing.T) {
	f := newConsole(t)

	resp, body := f.do(t, http.MethodPost, "/auth/login", `{not json`)
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", resp.StatusCode)
	}
	var env errorResponse
	if err := json.Unmarshal([]byte(body), &env); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if env.Error != "invalid payload" || env.Kind != "validation" {
		t.Fatalf("unexpected envelope %+v", env)
	}
}

func TestConsole_Operational(t *testing.T) {
	f := newConsole(t)

	for _, path := range []string{"/health", "/health/ready", "/metrics", "/login"} {
		if resp, _ := f.do(t, http.MethodGet, path, ""); resp.StatusCode != http.StatusOK {
			t.Fatalf("GET %s: expected 200, got %d", path, resp.StatusCode)
		}
	}
}
