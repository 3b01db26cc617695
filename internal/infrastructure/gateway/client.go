// Package gateway talks to the users-management service over HTTP.
//
// Every failure is normalized into a *domain.AuthError. The gateway never reads
// or writes session storage; credentials are passed explicitly per call.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"net/http"
	"slices"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/time/rate"

	"github.com/artisthub/ams-client/internal/api/metrics"
	"github.com/artisthub/ams-client/internal/core/domain"
	"github.com/artisthub/ams-client/internal/core/ports"
	"github.com/artisthub/ams-client/pkg/logger"
)

const (
	// DefaultBaseURL is the users service root of a local backend.
	DefaultBaseURL = "http://127.0.0.1:8000/api/users"

	signupPath = "/auth/signup/"
	loginPath  = "/auth/login/"

	opRegister     = "register"
	opAuthenticate = "authenticate"
	opDashboard    = "dashboard"

	networkMessage = "unable to reach the server, please try again"
	maxBodyBytes   = 1 << 20
	userAgent      = "ams-client/1.0"
)

// Options tunes the HTTP client. The zero value uses http.DefaultTransport
// with no timeout and no rate limit.
type Options struct {
	HTTPClient *http.Client
	Timeout    time.Duration
	// RateLimit caps outbound requests per second; 0 disables the limiter.
	RateLimit float64
	Burst     int
	Logger    zerolog.Logger
}

// Client implements ports.AuthGateway.
type Client struct {
	httpClient *http.Client
	baseURL    string
	limiter    *rate.Limiter
	log        zerolog.Logger
}

var _ ports.AuthGateway = (*Client)(nil)

func NewClient(baseURL string, opts Options) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	hc := opts.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: opts.Timeout}
	}
	c := &Client{
		httpClient: hc,
		baseURL:    strings.TrimRight(baseURL, "/"),
		log:        opts.Logger,
	}
	if opts.RateLimit > 0 {
		burst := opts.Burst
		if burst <= 0 {
			burst = 1
		}
		c.limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), burst)
	}
	return c
}

// BaseURL returns the normalized users service root.
func (c *Client) BaseURL() string { return c.baseURL }

// Register posts the full signup form.
func (c *Client) Register(ctx context.Context, form domain.SignupForm) (summary *domain.AccountSummary, err error) {
	defer c.observe(opRegister, time.Now(), &err)

	status, body, err := c.do(ctx, http.MethodPost, signupPath, "", form)
	if err != nil {
		return nil, err
	}

	msg := backendMessage(body)
	switch {
	case status >= 200 && status < 300:
		return decodeSignup(body, form)
	case status == http.StatusConflict:
		return nil, c.fail(opRegister, domain.KindConflict, status, msg)
	case status == http.StatusBadRequest && strings.Contains(strings.ToLower(msg), "already exists"):
		return nil, c.fail(opRegister, domain.KindConflict, status, msg)
	case status >= 400 && status < 500:
		return nil, c.fail(opRegister, domain.KindValidation, status, msg)
	default:
		return nil, c.fail(opRegister, domain.KindUnknown, status, msg)
	}
}

// Authenticate exchanges credentials for a session. The returned session may
// lack an access token if the server omits it; callers decide what that means.
func (c *Client) Authenticate(ctx context.Context, email, password string) (session *domain.Session, err error) {
	defer c.observe(opAuthenticate, time.Now(), &err)

	creds := loginRequest{Email: email, Password: password}
	status, body, err := c.do(ctx, http.MethodPost, loginPath, "", creds)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		return decodeLogin(body)
	case status == http.StatusBadRequest, status == http.StatusUnauthorized, status == http.StatusForbidden:
		return nil, c.fail(opAuthenticate, domain.KindInvalidCredentials, status, backendMessage(body))
	default:
		return nil, c.fail(opAuthenticate, domain.KindUnknown, status, backendMessage(body))
	}
}

// FetchDashboard loads the payload for role, sending token as a bearer
// credential on this request only.
func (c *Client) FetchDashboard(ctx context.Context, accessToken string, role domain.Role) (payload *domain.DashboardPayload, err error) {
	defer c.observe(opDashboard, time.Now(), &err)

	status, body, err := c.do(ctx, http.MethodGet, domain.DashboardPath(role), accessToken, nil)
	if err != nil {
		return nil, err
	}

	switch {
	case status >= 200 && status < 300:
		return decodeDashboard(role, body)
	case status == http.StatusUnauthorized:
		return nil, c.fail(opDashboard, domain.KindUnauthorized, status, backendMessage(body))
	default:
		msg := backendMessage(body)
		if msg == "" {
			msg = fmt.Sprintf("dashboard request failed with status %d", status)
		}
		return nil, c.fail(opDashboard, domain.KindNetwork, status, msg)
	}
}

// do sends one request. Only transport failures are returned as errors; any
// HTTP response, whatever its status, is handed back for interpretation.
func (c *Client) do(ctx context.Context, method, path, token string, payload any) (int, []byte, error) {
	if c.limiter != nil {
		if err := c.limiter.Wait(ctx); err != nil {
			return 0, nil, domain.NewAuthError(domain.KindNetwork, networkMessage, err)
		}
	}

	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, domain.NewAuthError(domain.KindUnknown, "could not encode request", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return 0, nil, domain.NewAuthError(domain.KindNetwork, networkMessage, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", userAgent)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	c.log.Debug().
		Str("method", method).
		Str("path", path).
		Str("token", logger.Fingerprint(token)).
		Msg("users service request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.log.Warn().Err(err).Str("method", method).Str("path", path).Msg("users service unreachable")
		return 0, nil, domain.NewAuthError(domain.KindNetwork, networkMessage, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return 0, nil, domain.NewAuthError(domain.KindNetwork, networkMessage, err)
	}
	return resp.StatusCode, body, nil
}

func (c *Client) fail(op string, kind domain.ErrorKind, status int, msg string) error {
	c.log.Warn().
		Str("operation", op).
		Int("http_status", status).
		Str("kind", string(kind)).
		Str("message", msg).
		Msg("users service returned an error")
	return &domain.AuthError{Kind: kind, Message: msg, Status: status}
}

func (c *Client) observe(op string, start time.Time, errp *error) {
	metrics.GatewayRequestDuration.WithLabelValues(op).Observe(time.Since(start).Seconds())
	outcome := "ok"
	if *errp != nil {
		outcome = string(domain.KindOf(*errp))
		if outcome == "" {
			outcome = "error"
		}
	}
	metrics.GatewayRequestsTotal.WithLabelValues(op, outcome).Inc()
}

// backendMessage pulls a displayable message out of an error body. It looks at
// "error", "message", "detail" and then at field-error lists such as
// {"email": ["user with this email already exists."]}.
func backendMessage(body []byte) string {
	var obj map[string]any
	if err := json.Unmarshal(body, &obj); err != nil {
		return ""
	}
	for _, key := range []string{"error", "message", "detail"} {
		if s, ok := obj[key].(string); ok && s != "" {
			return s
		}
	}
	for _, key := range slices.Sorted(maps.Keys(obj)) {
		switch v := obj[key].(type) {
		case []any:
			if len(v) > 0 {
				if s, ok := v[0].(string); ok {
					return key + ": " + s
				}
			}
		case string:
			if v != "" {
				return key + ": " + v
			}
		}
	}
	return ""
}
