package resolver

import (
	"fmt"
	"time"

	"github.com/zmanview/zmanview-api/internal/models"
)

// Lookup returns the absolute value of a named zman field on the given date,
// or nil when the field is unknown, the date is outside the precomputed
// horizon, or the event does not occur there. Implementations must be pure
// with respect to a fixed zmanim table snapshot.
type Lookup func(date time.Time, field string) *time.Time

// Resolved is the outcome of resolving one definition for one display date.
//
// Shown=false means the day-of-week gate suppressed the entry. Shown=true
// with a nil Instant means the entry applies today but no value is available
// yet (pending), which callers must not collapse into "hidden".
type Resolved struct {
	Instant *time.Time
	Shown   bool
}

// InvalidDefinitionError reports a stored definition that violates a model
// invariant. It is a data-integrity failure, not a user input error.
type InvalidDefinitionError struct {
	Field  string
	Reason string
}

func (e *InvalidDefinitionError) Error() string {
	return fmt.Sprintf("invalid custom time definition: %s %s", e.Field, e.Reason)
}

// Validate checks the invariants a definition must satisfy before it can be
// resolved. The write boundary enforces the same rules, but stored rows may
// predate a rule change, so Resolve runs the checks again.
func Validate(def *models.CustomTimeDefinition) error {
	switch def.TimeType {
	case models.TimeTypeFixed:
		if def.FixedTime == nil || *def.FixedTime == "" {
			return &InvalidDefinitionError{Field: "fixed_time", Reason: "required for fixed entries"}
		}
		if _, err := time.Parse("15:04", *def.FixedTime); err != nil {
			return &InvalidDefinitionError{Field: "fixed_time", Reason: "must be HH:MM"}
		}
	case models.TimeTypeDynamic:
		if def.BaseTime == nil || *def.BaseTime == "" {
			return &InvalidDefinitionError{Field: "base_time", Reason: "required for dynamic entries"}
		}
	default:
		return &InvalidDefinitionError{Field: "time_type", Reason: fmt.Sprintf("unknown value %q", def.TimeType)}
	}

	switch def.CalculationMode {
	case models.CalculationModeDaily:
	case models.CalculationModeWeeklyTarget:
		if def.TargetWeekday == nil {
			return &InvalidDefinitionError{Field: "target_weekday", Reason: "required for weekly_target mode"}
		}
		if *def.TargetWeekday < 0 || *def.TargetWeekday > 6 {
			return &InvalidDefinitionError{Field: "target_weekday", Reason: "must be between 0 and 6"}
		}
	case models.CalculationModeSpecificDate:
		if def.SpecificDate == nil || def.SpecificDate.IsZero() {
			return &InvalidDefinitionError{Field: "specific_date", Reason: "required for specific_date mode"}
		}
	default:
		return &InvalidDefinitionError{Field: "calculation_mode", Reason: fmt.Sprintf("unknown value %q", def.CalculationMode)}
	}

	if !def.Daily {
		if len(def.DaysOfWeek) == 0 {
			return &InvalidDefinitionError{Field: "days_of_week", Reason: "must not be empty when daily is false"}
		}
		for _, day := range def.DaysOfWeek {
			if day < 0 || day > 6 {
				return &InvalidDefinitionError{Field: "days_of_week", Reason: "entries must be between 0 and 6"}
			}
		}
	}

	return nil
}

// Resolve computes the displayed instant for one definition on one target
// date. It is pure and stateless: safe to call concurrently for any number of
// (definition, date) pairs against the same zmanim snapshot.
//
// Weekdays follow the 0=Sunday..6=Saturday numbering used by the admin layer,
// which matches time.Weekday directly.
func Resolve(def *models.CustomTimeDefinition, targetDate time.Time, lookup Lookup) (Resolved, error) {
	if err := Validate(def); err != nil {
		return Resolved{}, err
	}

	targetDate = dateOf(targetDate)

	// Display gate first: a day that is masked out never resolves, no matter
	// the mode or the table contents.
	if !def.ShowsOn(int(targetDate.Weekday())) {
		return Resolved{Instant: nil, Shown: false}, nil
	}

	if def.TimeType == models.TimeTypeFixed {
		// A fixed time always means "this clock time, today" regardless of
		// calculation mode.
		parsed, err := time.Parse("15:04", *def.FixedTime)
		if err != nil {
			return Resolved{}, &InvalidDefinitionError{Field: "fixed_time", Reason: "must be HH:MM"}
		}
		instant := time.Date(targetDate.Year(), targetDate.Month(), targetDate.Day(),
			parsed.Hour(), parsed.Minute(), 0, 0, targetDate.Location())
		return Resolved{Instant: &instant, Shown: true}, nil
	}

	reference := referenceDate(def, targetDate)
	base := lookup(reference, *def.BaseTime)
	if base == nil {
		// No data for the reference date is a normal outcome, not an error:
		// the entry applies today but its value is pending.
		return Resolved{Instant: nil, Shown: true}, nil
	}

	instant := base.Add(time.Duration(def.OffsetMinutes) * time.Minute)
	return Resolved{Instant: &instant, Shown: true}, nil
}

// referenceDate picks the date whose zmanim row supplies the base value.
// Weeks are anchored on Sunday: for weekly_target the reference is the
// occurrence of the target weekday inside the Sunday..Saturday span that
// contains the target date, whether that falls before or after it.
func referenceDate(def *models.CustomTimeDefinition, targetDate time.Time) time.Time {
	switch def.CalculationMode {
	case models.CalculationModeWeeklyTarget:
		offset := *def.TargetWeekday - int(targetDate.Weekday())
		return targetDate.AddDate(0, 0, offset)
	case models.CalculationModeSpecificDate:
		// Keep the stored calendar date; only the date part matters for the
		// table lookup.
		d := *def.SpecificDate
		return time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, targetDate.Location())
	default:
		return targetDate
	}
}

// dateOf truncates an instant to midnight in its own location.
func dateOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
