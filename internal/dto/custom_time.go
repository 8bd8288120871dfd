package dto

import (
	"sort"
	"time"

	"github.com/lib/pq"

	"github.com/zmanview/zmanview-api/internal/models"
)

// CustomTimeRequest is the admin payload for creating or updating a custom
// time definition. Weekdays use 0=Sunday..6=Saturday throughout.
type CustomTimeRequest struct {
	InternalName    string  `json:"internal_name"`
	DisplayName     string  `json:"display_name"`
	Description     string  `json:"description"`
	TimeType        string  `json:"time_type"`
	FixedTime       *string `json:"fixed_time"`
	BaseTime        *string `json:"base_time"`
	OffsetMinutes   int     `json:"offset_minutes"`
	CalculationMode string  `json:"calculation_mode"`
	TargetWeekday   *int    `json:"target_weekday"`
	SpecificDate    *string `json:"specific_date"`
	Daily           bool    `json:"daily"`
	DaysOfWeek      []int   `json:"days_of_week"`
}

// CustomTimeResponse mirrors the stored definition on the wire with the
// specific date rendered as an ISO calendar date.
type CustomTimeResponse struct {
	ID              string  `json:"id"`
	ShulID          string  `json:"shul_id"`
	InternalName    string  `json:"internal_name"`
	DisplayName     string  `json:"display_name"`
	Description     string  `json:"description"`
	TimeType        string  `json:"time_type"`
	FixedTime       *string `json:"fixed_time,omitempty"`
	BaseTime        *string `json:"base_time,omitempty"`
	OffsetMinutes   int     `json:"offset_minutes"`
	CalculationMode string  `json:"calculation_mode"`
	TargetWeekday   *int    `json:"target_weekday,omitempty"`
	SpecificDate    *string `json:"specific_date,omitempty"`
	Daily           bool    `json:"daily"`
	DaysOfWeek      []int   `json:"days_of_week,omitempty"`
	CreatedAt       string  `json:"created_at"`
	UpdatedAt       string  `json:"updated_at"`
}

// NewCustomTimeResponse converts a stored definition to its wire shape.
func NewCustomTimeResponse(def *models.CustomTimeDefinition) CustomTimeResponse {
	resp := CustomTimeResponse{
		ID:              def.ID,
		ShulID:          def.ShulID,
		InternalName:    def.InternalName,
		DisplayName:     def.DisplayName,
		Description:     def.Description,
		TimeType:        string(def.TimeType),
		FixedTime:       def.FixedTime,
		BaseTime:        def.BaseTime,
		OffsetMinutes:   def.OffsetMinutes,
		CalculationMode: string(def.CalculationMode),
		TargetWeekday:   def.TargetWeekday,
		Daily:           def.Daily,
		CreatedAt:       def.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:       def.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if def.SpecificDate != nil {
		iso := def.SpecificDate.Format("2006-01-02")
		resp.SpecificDate = &iso
	}
	if !def.Daily {
		resp.DaysOfWeek = NormalizeWeekdays(def.DaysOfWeek)
	}
	return resp
}

// NormalizeWeekdays collapses duplicates and sorts a weekday set.
func NormalizeWeekdays(days pq.Int64Array) []int {
	seen := make(map[int]struct{}, len(days))
	out := make([]int, 0, len(days))
	for _, day := range days {
		d := int(day)
		if _, ok := seen[d]; ok {
			continue
		}
		seen[d] = struct{}{}
		out = append(out, d)
	}
	sort.Ints(out)
	return out
}
