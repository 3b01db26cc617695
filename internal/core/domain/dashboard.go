package domain

// SuperAdminStats is the super_admin dashboard payload.
type SuperAdminStats struct {
	TotalUsers           int `json:"total_users"`
	TotalApprovedArtists int `json:"total_approved_artists"`
}

// ArtistManagerStats is the artist_manager dashboard payload.
type ArtistManagerStats struct {
	TotalArtists     int `json:"total_artists"`
	PendingApprovals int `json:"pending_approvals"`
}

// ArtistStats is the artist dashboard payload.
type ArtistStats struct {
	TotalWorks  int      `json:"total_works"`
	RecentWorks []string `json:"recent_works"`
}

// DashboardPayload holds exactly one role-shaped variant, selected by Role.
// A payload fetched for an unrecognised role carries the raw object in Generic.
type DashboardPayload struct {
	Role          Role                `json:"role"`
	SuperAdmin    *SuperAdminStats    `json:"super_admin,omitempty"`
	ArtistManager *ArtistManagerStats `json:"artist_manager,omitempty"`
	Artist        *ArtistStats        `json:"artist,omitempty"`
	Generic       map[string]any      `json:"generic,omitempty"`
}
