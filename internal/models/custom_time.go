package models

import (
	"time"

	"github.com/lib/pq"
)

// TimeType selects how a custom time entry gets its value.
type TimeType string

const (
	TimeTypeFixed   TimeType = "fixed"
	TimeTypeDynamic TimeType = "dynamic"
)

// CalculationMode selects which date's zmanim row supplies the base value for
// a dynamic entry.
type CalculationMode string

const (
	CalculationModeDaily        CalculationMode = "daily"
	CalculationModeWeeklyTarget CalculationMode = "weekly_target"
	CalculationModeSpecificDate CalculationMode = "specific_date"
)

// CustomTimeDefinition is one admin-authored scheduling rule owned by a shul.
//
// Weekdays are numbered 0=Sunday through 6=Saturday, both in TargetWeekday and
// in DaysOfWeek. Daily=true is the "show every day" sentinel; when it is false
// DaysOfWeek must be non-empty.
type CustomTimeDefinition struct {
	ID              string          `db:"id" json:"id"`
	ShulID          string          `db:"shul_id" json:"shul_id"`
	InternalName    string          `db:"internal_name" json:"internal_name"`
	DisplayName     string          `db:"display_name" json:"display_name"`
	Description     string          `db:"description" json:"description"`
	TimeType        TimeType        `db:"time_type" json:"time_type"`
	FixedTime       *string         `db:"fixed_time" json:"fixed_time,omitempty"`
	BaseTime        *string         `db:"base_time" json:"base_time,omitempty"`
	OffsetMinutes   int             `db:"offset_minutes" json:"offset_minutes"`
	CalculationMode CalculationMode `db:"calculation_mode" json:"calculation_mode"`
	TargetWeekday   *int            `db:"target_weekday" json:"target_weekday,omitempty"`
	SpecificDate    *time.Time      `db:"specific_date" json:"specific_date,omitempty"`
	Daily           bool            `db:"daily" json:"daily"`
	DaysOfWeek      pq.Int64Array   `db:"days_of_week" json:"days_of_week,omitempty"`
	CreatedAt       time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt       time.Time       `db:"updated_at" json:"updated_at"`
}

// ShowsOn reports whether the rule displays on the given weekday (0=Sunday).
func (d *CustomTimeDefinition) ShowsOn(weekday int) bool {
	if d.Daily {
		return true
	}
	for _, day := range d.DaysOfWeek {
		if int(day) == weekday {
			return true
		}
	}
	return false
}
