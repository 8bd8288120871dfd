package dto

// DisplayLine is one resolved custom time entry on the public display. A line
// is present only when its rule displays on the date; a line whose value is
// not yet available carries Pending=true instead of a time string.
type DisplayLine struct {
	InternalName string `json:"internal_name"`
	DisplayName  string `json:"display_name"`
	Time         string `json:"time,omitempty"`
	Pending      bool   `json:"pending,omitempty"`
}

// DisplayAnnouncement is an announcement as rendered on the display.
type DisplayAnnouncement struct {
	Title    string `json:"title"`
	Content  string `json:"content"`
	Priority string `json:"priority"`
	IsPinned bool   `json:"is_pinned"`
}

// DisplaySchedule is the full resolved payload for one date.
type DisplaySchedule struct {
	Date          string                `json:"date"`
	HebrewDate    string                `json:"hebrew_date,omitempty"`
	Parsha        string                `json:"parsha,omitempty"`
	Zmanim        map[string]string     `json:"zmanim,omitempty"`
	CustomTimes   []DisplayLine         `json:"custom_times"`
	Announcements []DisplayAnnouncement `json:"announcements,omitempty"`
}
