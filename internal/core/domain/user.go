package domain

import "strings"

// UserProfile is the account snapshot the backend embeds in a login response.
type UserProfile struct {
	ID        string `json:"id,omitempty" bson:"id,omitempty"`
	FirstName string `json:"first_name,omitempty" bson:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty" bson:"last_name,omitempty"`
	Email     string `json:"email,omitempty" bson:"email,omitempty"`
	Role      Role   `json:"role_type,omitempty" bson:"role_type,omitempty"`
}

// DisplayName joins first and last name, falling back to the email.
func (u *UserProfile) DisplayName() string {
	if u == nil {
		return ""
	}
	if name := strings.TrimSpace(u.FirstName + " " + u.LastName); name != "" {
		return name
	}
	return u.Email
}

// Session is the persisted "currently logged in" tuple.
type Session struct {
	AccessToken  string       `json:"access_token"`
	RefreshToken string       `json:"refresh_token,omitempty"`
	Role         Role         `json:"role,omitempty"`
	User         *UserProfile `json:"user,omitempty"`
}

// Valid reports whether the session carries an access token.
func (s *Session) Valid() bool {
	return s != nil && s.AccessToken != ""
}

// SameAs reports whether two sessions describe the same login. Profiles are
// not compared; the token and role identify the session.
func (s *Session) SameAs(o *Session) bool {
	if s == nil || o == nil {
		return s == o
	}
	return s.AccessToken == o.AccessToken && s.Role == o.Role
}

// Clone returns a deep copy so stores never share mutable state with callers.
func (s Session) Clone() Session {
	if s.User != nil {
		u := *s.User
		s.User = &u
	}
	return s
}
