package gateway

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/artisthub/ams-client/internal/core/domain"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// flexString accepts an id sent either as a JSON string or a number.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) == 0 || string(b) == "null" {
		*f = ""
		return nil
	}
	if b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*f = flexString(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("id must be a string or number: %w", err)
	}
	*f = flexString(n.String())
	return nil
}

type wireUser struct {
	ID        flexString `json:"id"`
	FirstName string     `json:"first_name"`
	LastName  string     `json:"last_name"`
	Email     string     `json:"email"`
	RoleType  string     `json:"role_type"`
	Status    string     `json:"status"`
}

type signupResponse struct {
	ID       flexString `json:"id"`
	Email    string     `json:"email"`
	RoleType string     `json:"role_type"`
	Status   string     `json:"status"`
	Message  string     `json:"message"`
	User     *wireUser  `json:"user"`
}

type loginResponse struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	User         *wireUser `json:"user"`
}

func contractError(what string, err error) error {
	return domain.NewAuthError(domain.KindUnknown, "unexpected response from server: "+what, err)
}

// decodeSignup builds the account summary, relaying status and message from
// the top level or the embedded user. Fields the server leaves out fall back
// to what was submitted.
func decodeSignup(body []byte, form domain.SignupForm) (*domain.AccountSummary, error) {
	summary := &domain.AccountSummary{Email: form.Email, Role: form.Role}
	if len(bytes.TrimSpace(body)) == 0 {
		return summary, nil
	}

	var resp signupResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, contractError("signup body", err)
	}

	summary.ID = string(resp.ID)
	summary.Status = resp.Status
	summary.Message = resp.Message
	if resp.Email != "" {
		summary.Email = resp.Email
	}
	if r, ok := domain.ParseRole(resp.RoleType); ok {
		summary.Role = r
	}
	if u := resp.User; u != nil {
		if summary.ID == "" {
			summary.ID = string(u.ID)
		}
		if summary.Status == "" {
			summary.Status = u.Status
		}
		if u.Email != "" {
			summary.Email = u.Email
		}
		if r, ok := domain.ParseRole(u.RoleType); ok {
			summary.Role = r
		}
	}
	return summary, nil
}

// decodeLogin maps the login body onto a session. The role comes from
// user.role_type; an unrecognised role is kept as the zero Role.
func decodeLogin(body []byte) (*domain.Session, error) {
	var resp loginResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, contractError("login body", err)
	}

	session := &domain.Session{
		AccessToken:  resp.AccessToken,
		RefreshToken: resp.RefreshToken,
	}
	if u := resp.User; u != nil {
		role, _ := domain.ParseRole(u.RoleType)
		session.Role = role
		session.User = &domain.UserProfile{
			ID:        string(u.ID),
			FirstName: u.FirstName,
			LastName:  u.LastName,
			Email:     u.Email,
			Role:      role,
		}
	}
	return session, nil
}

// roleEchoKeys are fields a dashboard body may use to state the role it was
// built for.
var roleEchoKeys = []string{"role", "role_type", "user_role"}

// decodeDashboard decodes the payload shape selected by role and rejects
// bodies that do not match it.
func decodeDashboard(role domain.Role, body []byte) (*domain.DashboardPayload, error) {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(body, &fields); err != nil || fields == nil {
		return nil, contractError("dashboard body is not an object", err)
	}

	if role.Valid() {
		for _, key := range roleEchoKeys {
			raw, ok := fields[key]
			if !ok {
				continue
			}
			var echoed string
			if err := json.Unmarshal(raw, &echoed); err != nil || echoed == "" {
				continue
			}
			if domain.Role(echoed) != role {
				return nil, contractError(fmt.Sprintf("dashboard built for role %q, session role is %q", echoed, role), nil)
			}
		}
	}

	payload := &domain.DashboardPayload{Role: role}
	var err error
	switch role {
	case domain.RoleSuperAdmin:
		s := &domain.SuperAdminStats{}
		if s.TotalUsers, err = count(fields, "total_users"); err != nil {
			return nil, err
		}
		if s.TotalApprovedArtists, err = count(fields, "total_approved_artists"); err != nil {
			return nil, err
		}
		payload.SuperAdmin = s
	case domain.RoleArtistManager:
		s := &domain.ArtistManagerStats{}
		if s.TotalArtists, err = count(fields, "total_artists"); err != nil {
			return nil, err
		}
		if s.PendingApprovals, err = count(fields, "pending_approvals"); err != nil {
			return nil, err
		}
		payload.ArtistManager = s
	case domain.RoleArtist:
		s := &domain.ArtistStats{RecentWorks: []string{}}
		if s.TotalWorks, err = count(fields, "total_works"); err != nil {
			return nil, err
		}
		if raw, ok := fields["recent_works"]; ok && string(raw) != "null" {
			if err := json.Unmarshal(raw, &s.RecentWorks); err != nil {
				return nil, contractError("recent_works must be a list of strings", err)
			}
			if s.RecentWorks == nil {
				s.RecentWorks = []string{}
			}
		}
		payload.Artist = s
	default:
		generic := map[string]any{}
		if err := json.Unmarshal(body, &generic); err != nil {
			return nil, contractError("dashboard body", err)
		}
		payload.Generic = generic
	}
	return payload, nil
}

// count reads a required non-negative integer field.
func count(fields map[string]json.RawMessage, key string) (int, error) {
	raw, ok := fields[key]
	if !ok || string(raw) == "null" {
		return 0, contractError(key+" is missing", nil)
	}
	n, err := strconv.Atoi(string(bytes.TrimSpace(raw)))
	if err != nil {
		return 0, contractError(key+" must be an integer", err)
	}
	if n < 0 {
		return 0, contractError(key+" must not be negative", nil)
	}
	return n, nil
}
