package models

import "time"

// Shul is the tenant entity owning settings, custom times and the display.
type Shul struct {
	ID        string    `db:"id" json:"id"`
	Name      string    `db:"name" json:"name"`
	Nusach    string    `db:"nusach" json:"nusach"`
	Address   string    `db:"address" json:"address"`
	Latitude  float64   `db:"latitude" json:"latitude"`
	Longitude float64   `db:"longitude" json:"longitude"`
	Elevation float64   `db:"elevation" json:"elevation"`
	Timezone  string    `db:"timezone" json:"timezone"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Location returns the shul's IANA timezone, falling back to UTC when the
// stored name does not load.
func (s *Shul) Location() *time.Location {
	if s == nil || s.Timezone == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(s.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
