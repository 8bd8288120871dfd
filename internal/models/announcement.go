package models

import "time"

// AnnouncementPriority defines ordering for announcements on the display.
type AnnouncementPriority string

const (
	AnnouncementPriorityLow    AnnouncementPriority = "LOW"
	AnnouncementPriorityNormal AnnouncementPriority = "NORMAL"
	AnnouncementPriorityHigh   AnnouncementPriority = "HIGH"
)

// Announcement represents a persisted announcement row shown on the public
// display alongside the schedule.
type Announcement struct {
	ID          string               `db:"id" json:"id"`
	ShulID      string               `db:"shul_id" json:"shul_id"`
	Title       string               `db:"title" json:"title"`
	Content     string               `db:"content" json:"content"`
	Priority    AnnouncementPriority `db:"priority" json:"priority"`
	IsPinned    bool                 `db:"is_pinned" json:"is_pinned"`
	PublishedAt time.Time            `db:"published_at" json:"published_at"`
	ExpiresAt   *time.Time           `db:"expires_at" json:"expires_at,omitempty"`
	CreatedBy   string               `db:"created_by" json:"created_by"`
	CreatedAt   time.Time            `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time            `db:"updated_at" json:"updated_at"`
}

// ActiveOn reports whether the announcement should render at the given time.
func (a *Announcement) ActiveOn(at time.Time) bool {
	if a.PublishedAt.After(at) {
		return false
	}
	if a.ExpiresAt != nil && a.ExpiresAt.Before(at) {
		return false
	}
	return true
}

// AnnouncementFilter narrows announcement listings.
type AnnouncementFilter struct {
	ShulID     string
	ActiveAt   *time.Time
	OnlyPinned bool
	Page       int
	PageSize   int
}
