package models

import "time"

// LayoutSourceType identifies what a display layout slot renders.
type LayoutSourceType string

const (
	LayoutSourceZman         LayoutSourceType = "ZMAN"
	LayoutSourceCustomTime   LayoutSourceType = "CUSTOM_TIME"
	LayoutSourceAnnouncement LayoutSourceType = "ANNOUNCEMENT"
)

// LayoutSlot is one box on the display layout. The layout builder itself is
// managed by the admin frontend; the API only stores slots and removes
// references when the entity behind a slot is deleted.
type LayoutSlot struct {
	ID         string           `db:"id" json:"id"`
	ShulID     string           `db:"shul_id" json:"shul_id"`
	Position   int              `db:"position" json:"position"`
	SourceType LayoutSourceType `db:"source_type" json:"source_type"`
	SourceKey  string           `db:"source_key" json:"source_key"`
	CreatedAt  time.Time        `db:"created_at" json:"created_at"`
	UpdatedAt  time.Time        `db:"updated_at" json:"updated_at"`
}
