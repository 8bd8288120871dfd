package resolver

import (
	"testing"
	"time"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmanview/zmanview-api/internal/models"
)

func strPtr(s string) *string        { return &s }
func intPtr(i int) *int              { return &i }
func datePtr(t time.Time) *time.Time { return &t }

// date builds a UTC calendar date.
func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// tableLookup builds a Lookup over a static map keyed by "2006-01-02|field".
func tableLookup(table map[string]time.Time) Lookup {
	return func(day time.Time, field string) *time.Time {
		if v, ok := table[day.Format("2006-01-02")+"|"+field]; ok {
			return &v
		}
		return nil
	}
}

func emptyLookup(day time.Time, field string) *time.Time { return nil }

func fixedSundayDef() *models.CustomTimeDefinition {
	return &models.CustomTimeDefinition{
		InternalName:    "shacharis",
		TimeType:        models.TimeTypeFixed,
		FixedTime:       strPtr("08:00"),
		CalculationMode: models.CalculationModeDaily,
		DaysOfWeek:      pq.Int64Array{0},
	}
}

func TestResolveFixedTimeOnDisplayedDay(t *testing.T) {
	def := fixedSundayDef()
	sunday := date(2025, time.March, 2)
	require.Equal(t, time.Sunday, sunday.Weekday())

	res, err := Resolve(def, sunday, emptyLookup)
	require.NoError(t, err)
	assert.True(t, res.Shown)
	require.NotNil(t, res.Instant)
	assert.Equal(t, date(2025, time.March, 2).Add(8*time.Hour), *res.Instant)
}

func TestResolveGateSuppressesMaskedDay(t *testing.T) {
	def := fixedSundayDef()
	monday := date(2025, time.March, 3)

	res, err := Resolve(def, monday, emptyLookup)
	require.NoError(t, err)
	assert.False(t, res.Shown)
	assert.Nil(t, res.Instant)
}

func TestResolveGateIndependentOfModeAndTable(t *testing.T) {
	// A masked-out weekday suppresses the entry no matter the time type,
	// calculation mode or table contents.
	monday := date(2025, time.March, 3)
	table := tableLookup(map[string]time.Time{
		"2025-03-03|shkiah": date(2025, time.March, 3).Add(18 * time.Hour),
	})

	defs := []*models.CustomTimeDefinition{
		{
			TimeType: models.TimeTypeFixed, FixedTime: strPtr("10:00"),
			CalculationMode: models.CalculationModeDaily,
			DaysOfWeek:      pq.Int64Array{0, 6},
		},
		{
			TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
			CalculationMode: models.CalculationModeWeeklyTarget, TargetWeekday: intPtr(5),
			DaysOfWeek: pq.Int64Array{2},
		},
		{
			TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
			CalculationMode: models.CalculationModeSpecificDate,
			SpecificDate:    datePtr(date(2025, time.March, 3)),
			DaysOfWeek:      pq.Int64Array{4, 5},
		},
	}

	for _, def := range defs {
		res, err := Resolve(def, monday, table)
		require.NoError(t, err)
		assert.False(t, res.Shown)
		assert.Nil(t, res.Instant)
	}
}

func TestResolveDynamicDaily(t *testing.T) {
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("shkiah"),
		OffsetMinutes:   -18,
		CalculationMode: models.CalculationModeDaily,
		Daily:           true,
	}
	table := tableLookup(map[string]time.Time{
		"2025-03-04|shkiah": date(2025, time.March, 4).Add(18*time.Hour + 2*time.Minute),
		"2025-03-05|shkiah": date(2025, time.March, 5).Add(18 * time.Hour),
	})

	tue, err := Resolve(def, date(2025, time.March, 4), table)
	require.NoError(t, err)
	require.NotNil(t, tue.Instant)
	assert.Equal(t, date(2025, time.March, 4).Add(17*time.Hour+44*time.Minute), *tue.Instant)

	wed, err := Resolve(def, date(2025, time.March, 5), table)
	require.NoError(t, err)
	require.NotNil(t, wed.Instant)
	assert.Equal(t, date(2025, time.March, 5).Add(17*time.Hour+42*time.Minute), *wed.Instant)
}

func TestResolveWeeklyTargetSharesFridayValue(t *testing.T) {
	// Sunday 2025-03-02 .. Friday 2025-03-07 all reference that week's Friday.
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("shkiah"),
		OffsetMinutes:   -10,
		CalculationMode: models.CalculationModeWeeklyTarget,
		TargetWeekday:   intPtr(5),
		DaysOfWeek:      pq.Int64Array{0, 1, 2, 3, 4, 5},
	}
	fridayShkiah := date(2025, time.March, 7).Add(17*time.Hour + 45*time.Minute)
	table := tableLookup(map[string]time.Time{
		"2025-03-07|shkiah": fridayShkiah,
	})
	want := fridayShkiah.Add(-10 * time.Minute)

	for day := 2; day <= 7; day++ {
		res, err := Resolve(def, date(2025, time.March, day), table)
		require.NoError(t, err)
		assert.True(t, res.Shown)
		require.NotNil(t, res.Instant, "day %d", day)
		assert.Equal(t, want, *res.Instant, "day %d", day)
	}
}

func TestResolveWeeklyTargetSundayAnchor(t *testing.T) {
	// Saturday with target weekday Sunday: the week is Sunday-anchored, so the
	// reference is the Sunday at the start of the same week, not the next one.
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("neitz_hachamah"),
		CalculationMode: models.CalculationModeWeeklyTarget,
		TargetWeekday:   intPtr(0),
		Daily:           true,
	}
	sundayNeitz := date(2025, time.March, 2).Add(6*time.Hour + 30*time.Minute)
	table := tableLookup(map[string]time.Time{
		"2025-03-02|neitz_hachamah": sundayNeitz,
	})

	saturday := date(2025, time.March, 8)
	require.Equal(t, time.Saturday, saturday.Weekday())

	res, err := Resolve(def, saturday, table)
	require.NoError(t, err)
	require.NotNil(t, res.Instant)
	assert.Equal(t, sundayNeitz, *res.Instant)
}

func TestResolveSpecificDateConstantReference(t *testing.T) {
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("neitz_hachamah"),
		OffsetMinutes:   30,
		CalculationMode: models.CalculationModeSpecificDate,
		SpecificDate:    datePtr(date(2025, time.October, 17)),
		Daily:           true,
	}
	neitz := date(2025, time.October, 17).Add(7*time.Hour + 5*time.Minute)
	table := tableLookup(map[string]time.Time{
		"2025-10-17|neitz_hachamah": neitz,
	})
	want := neitz.Add(30 * time.Minute)

	targets := []time.Time{
		date(2025, time.September, 1),
		date(2025, time.October, 17),
		date(2026, time.January, 15),
	}
	for _, target := range targets {
		res, err := Resolve(def, target, table)
		require.NoError(t, err)
		require.NotNil(t, res.Instant, "target %s", target)
		assert.Equal(t, want, *res.Instant, "target %s", target)
	}
}

func TestResolveMissingDataIsPendingNotHidden(t *testing.T) {
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("shkiah"),
		CalculationMode: models.CalculationModeDaily,
		Daily:           true,
	}

	res, err := Resolve(def, date(2030, time.June, 1), emptyLookup)
	require.NoError(t, err)
	assert.True(t, res.Shown, "pending must stay distinguishable from day-gated")
	assert.Nil(t, res.Instant)
}

func TestResolveFixedIgnoresModeAndTable(t *testing.T) {
	sunday := date(2025, time.March, 2)
	want := sunday.Add(8 * time.Hour)
	table := tableLookup(map[string]time.Time{
		"2025-03-02|shkiah": sunday.Add(18 * time.Hour),
	})

	modes := []models.CalculationMode{
		models.CalculationModeDaily,
		models.CalculationModeWeeklyTarget,
		models.CalculationModeSpecificDate,
	}
	for _, mode := range modes {
		def := fixedSundayDef()
		def.CalculationMode = mode
		def.TargetWeekday = intPtr(3)
		def.SpecificDate = datePtr(date(2024, time.January, 1))

		res, err := Resolve(def, sunday, table)
		require.NoError(t, err, "mode %s", mode)
		require.NotNil(t, res.Instant)
		assert.Equal(t, want, *res.Instant, "mode %s", mode)
	}
}

func TestResolveOffsetLinearity(t *testing.T) {
	table := tableLookup(map[string]time.Time{
		"2025-03-04|mincha_gedola": date(2025, time.March, 4).Add(12*time.Hour + 45*time.Minute),
	})
	baseDef := func(offset int) *models.CustomTimeDefinition {
		return &models.CustomTimeDefinition{
			TimeType:        models.TimeTypeDynamic,
			BaseTime:        strPtr("mincha_gedola"),
			OffsetMinutes:   offset,
			CalculationMode: models.CalculationModeDaily,
			Daily:           true,
		}
	}

	zero, err := Resolve(baseDef(0), date(2025, time.March, 4), table)
	require.NoError(t, err)
	require.NotNil(t, zero.Instant)

	for _, k := range []int{-90, -1, 1, 15, 120} {
		res, err := Resolve(baseDef(k), date(2025, time.March, 4), table)
		require.NoError(t, err)
		require.NotNil(t, res.Instant)
		assert.Equal(t, time.Duration(k)*time.Minute, res.Instant.Sub(*zero.Instant), "offset %d", k)
	}
}

func TestResolveDeterministic(t *testing.T) {
	def := &models.CustomTimeDefinition{
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("shkiah"),
		OffsetMinutes:   -18,
		CalculationMode: models.CalculationModeWeeklyTarget,
		TargetWeekday:   intPtr(5),
		Daily:           true,
	}
	table := tableLookup(map[string]time.Time{
		"2025-03-07|shkiah": date(2025, time.March, 7).Add(17*time.Hour + 45*time.Minute),
	})

	first, err := Resolve(def, date(2025, time.March, 4), table)
	require.NoError(t, err)
	for i := 0; i < 50; i++ {
		again, err := Resolve(def, date(2025, time.March, 4), table)
		require.NoError(t, err)
		assert.Equal(t, first.Shown, again.Shown)
		require.NotNil(t, again.Instant)
		assert.Equal(t, *first.Instant, *again.Instant)
	}
}

func TestResolveFixedTimeUsesTargetLocation(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)

	def := fixedSundayDef()
	def.Daily = true
	target := time.Date(2025, time.March, 2, 0, 0, 0, 0, loc)

	res, err := Resolve(def, target, emptyLookup)
	require.NoError(t, err)
	require.NotNil(t, res.Instant)
	assert.Equal(t, time.Date(2025, time.March, 2, 8, 0, 0, 0, loc), *res.Instant)
}

func TestValidateRejectsInvalidDefinitions(t *testing.T) {
	cases := []struct {
		name  string
		def   models.CustomTimeDefinition
		field string
	}{
		{
			name:  "fixed without fixed_time",
			def:   models.CustomTimeDefinition{TimeType: models.TimeTypeFixed, CalculationMode: models.CalculationModeDaily, Daily: true},
			field: "fixed_time",
		},
		{
			name: "fixed with malformed clock time",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeFixed, FixedTime: strPtr("25:99"),
				CalculationMode: models.CalculationModeDaily, Daily: true},
			field: "fixed_time",
		},
		{
			name:  "dynamic without base_time",
			def:   models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, CalculationMode: models.CalculationModeDaily, Daily: true},
			field: "base_time",
		},
		{
			name: "weekly_target without target_weekday",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
				CalculationMode: models.CalculationModeWeeklyTarget, Daily: true},
			field: "target_weekday",
		},
		{
			name: "target_weekday out of range",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
				CalculationMode: models.CalculationModeWeeklyTarget, TargetWeekday: intPtr(7), Daily: true},
			field: "target_weekday",
		},
		{
			name: "specific_date without date",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
				CalculationMode: models.CalculationModeSpecificDate, Daily: true},
			field: "specific_date",
		},
		{
			name: "empty days_of_week without daily sentinel",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
				CalculationMode: models.CalculationModeDaily},
			field: "days_of_week",
		},
		{
			name: "unknown time type",
			def: models.CustomTimeDefinition{TimeType: "sometimes",
				CalculationMode: models.CalculationModeDaily, Daily: true},
			field: "time_type",
		},
		{
			name: "unknown calculation mode",
			def: models.CustomTimeDefinition{TimeType: models.TimeTypeDynamic, BaseTime: strPtr("shkiah"),
				CalculationMode: "monthly", Daily: true},
			field: "calculation_mode",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			def := tc.def
			_, err := Resolve(&def, date(2025, time.March, 2), emptyLookup)
			require.Error(t, err)
			var invalid *InvalidDefinitionError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tc.field, invalid.Field)
		})
	}
}
