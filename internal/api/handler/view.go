package handler

import (
	"sort"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/artisthub/ams-client/internal/core/domain"
)

// Stat is one labelled figure on a dashboard panel.
type Stat struct {
	Label string `json:"label"`
	Value string `json:"value"`
}

// DashboardView is the rendered role panel.
type DashboardView struct {
	Title string       `json:"title"`
	Role  domain.Role  `json:"user_role"`
	Route domain.Route `json:"route"`
	Stats []Stat       `json:"stats"`
}

// SessionView describes the current session without exposing its tokens.
type SessionView struct {
	Role        domain.Role         `json:"role"`
	Route       domain.Route        `json:"route"`
	DisplayName string              `json:"display_name,omitempty"`
	User        *domain.UserProfile `json:"user,omitempty"`
}

// strict strips every tag; dashboard strings come from the backend.
var strict = bluemonday.StrictPolicy()

func sanitize(s string) string {
	return strings.TrimSpace(strict.Sanitize(s))
}

// RenderDashboard lays out the panel for the payload's role.
func RenderDashboard(p *domain.DashboardPayload) DashboardView {
	v := DashboardView{Title: "Dashboard", Route: domain.RouteDashboard, Stats: []Stat{}}
	if p == nil {
		return v
	}
	v.Role = p.Role
	v.Route = domain.RouteFor(p.Role)

	switch {
	case p.SuperAdmin != nil:
		v.Title = "Super Admin Dashboard"
		v.Stats = []Stat{
			{Label: "Total Users", Value: strconv.Itoa(p.SuperAdmin.TotalUsers)},
			{Label: "Total Approved Artists", Value: strconv.Itoa(p.SuperAdmin.TotalApprovedArtists)},
		}
	case p.ArtistManager != nil:
		v.Title = "Artist Manager Dashboard"
		v.Stats = []Stat{
			{Label: "Total Artists", Value: strconv.Itoa(p.ArtistManager.TotalArtists)},
			{Label: "Pending Approvals", Value: strconv.Itoa(p.ArtistManager.PendingApprovals)},
		}
	case p.Artist != nil:
		works := make([]string, 0, len(p.Artist.RecentWorks))
		for _, w := range p.Artist.RecentWorks {
			if w = sanitize(w); w != "" {
				works = append(works, w)
			}
		}
		v.Title = "Artist Dashboard"
		v.Stats = []Stat{
			{Label: "Total Works", Value: strconv.Itoa(p.Artist.TotalWorks)},
			{Label: "Recent Works", Value: strings.Join(works, ", ")},
		}
	default:
		keys := make([]string, 0, len(p.Generic))
		for k := range p.Generic {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			s, ok := p.Generic[k].(string)
			if !ok {
				continue
			}
			v.Stats = append(v.Stats, Stat{Label: sanitize(k), Value: sanitize(s)})
		}
	}
	return v
}

// RenderSession builds the session view.
func RenderSession(s *domain.Session) SessionView {
	return SessionView{
		Role:        s.Role,
		Route:       domain.RouteFor(s.Role),
		DisplayName: sanitize(s.User.DisplayName()),
		User:        s.User,
	}
}
