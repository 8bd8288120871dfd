package dto

// AnnouncementRequest is the admin payload for creating or updating an
// announcement. Timestamps are RFC 3339; a missing published_at means "now".
type AnnouncementRequest struct {
	Title       string  `json:"title"`
	Content     string  `json:"content"`
	Priority    string  `json:"priority"`
	IsPinned    bool    `json:"is_pinned"`
	PublishedAt *string `json:"published_at"`
	ExpiresAt   *string `json:"expires_at"`
}
