package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// ZmanimTimes maps a zman field key to its absolute point in time for one
// day. Stored as JSONB; a field absent from the map means the event does not
// occur on that date (or was not computed).
type ZmanimTimes map[string]time.Time

// Value implements driver.Valuer.
func (t ZmanimTimes) Value() (driver.Value, error) {
	if t == nil {
		return []byte("{}"), nil
	}
	return json.Marshal(t)
}

// Scan implements sql.Scanner.
func (t *ZmanimTimes) Scan(src interface{}) error {
	switch v := src.(type) {
	case nil:
		*t = nil
		return nil
	case []byte:
		return json.Unmarshal(v, t)
	case string:
		return json.Unmarshal([]byte(v), t)
	default:
		return fmt.Errorf("unsupported zmanim times type %T", src)
	}
}

// ZmanimDay is one precomputed row of the zmanim table for a shul.
type ZmanimDay struct {
	ID         string      `db:"id" json:"id"`
	ShulID     string      `db:"shul_id" json:"shul_id"`
	Date       time.Time   `db:"date" json:"date"`
	HebrewDate string      `db:"hebrew_date" json:"hebrew_date"`
	Parsha     string      `db:"parsha" json:"parsha"`
	Times      ZmanimTimes `db:"times" json:"times"`
	ComputedAt time.Time   `db:"computed_at" json:"computed_at"`
}

// ZmanimField describes one entry of the enumerable field catalog consumed by
// the admin UI to populate the base-time selector.
type ZmanimField struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ZmanimFields is the catalog of named time fields the table provider can
// supply, in display order.
var ZmanimFields = []ZmanimField{
	{Key: "alos_hashachar", Label: "Alos HaShachar (Dawn)"},
	{Key: "misheyakir", Label: "Misheyakir"},
	{Key: "neitz_hachamah", Label: "Neitz HaChamah (Sunrise)"},
	{Key: "sof_zman_shema_mga", Label: "Sof Zman Krias Shema (MG\"A)"},
	{Key: "sof_zman_shema_gra", Label: "Sof Zman Krias Shema (GR\"A)"},
	{Key: "sof_zman_tefillah", Label: "Sof Zman Tefillah"},
	{Key: "chatzos", Label: "Chatzos"},
	{Key: "mincha_gedola", Label: "Mincha Gedola"},
	{Key: "mincha_ketana", Label: "Mincha Ketana"},
	{Key: "plag_hamincha", Label: "Plag HaMincha"},
	{Key: "candle_lighting", Label: "Candle Lighting"},
	{Key: "shkiah", Label: "Shkiah (Sunset)"},
	{Key: "tzeis_hakochavim", Label: "Tzeis HaKochavim"},
	{Key: "tzeis_72", Label: "Tzeis (72 minutes)"},
	{Key: "chatzos_halayla", Label: "Chatzos HaLayla"},
}

// IsZmanimField reports whether key names a catalog field.
func IsZmanimField(key string) bool {
	for _, f := range ZmanimFields {
		if f.Key == key {
			return true
		}
	}
	return false
}
