package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmanview/zmanview-api/internal/models"
)

type fakeZmanimRepo struct {
	days     map[string]*models.ZmanimDay
	getCalls int
	upserts  []*models.ZmanimDay
}

func (f *fakeZmanimRepo) GetDay(_ context.Context, _ string, date time.Time) (*models.ZmanimDay, error) {
	f.getCalls++
	day, ok := f.days[date.Format("2006-01-02")]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return day, nil
}

func (f *fakeZmanimRepo) ListRange(context.Context, string, time.Time, time.Time) ([]models.ZmanimDay, error) {
	return nil, nil
}

func (f *fakeZmanimRepo) Upsert(_ context.Context, day *models.ZmanimDay) error {
	f.upserts = append(f.upserts, day)
	return nil
}

func (f *fakeZmanimRepo) Horizon(context.Context, string) (*time.Time, error) {
	return nil, nil
}

type fakeCalculator struct {
	calls int
}

func (f *fakeCalculator) Compute(_ context.Context, _ *models.Shul, date time.Time) (*models.ZmanimDay, error) {
	f.calls++
	return &models.ZmanimDay{
		Date:  date,
		Times: models.ZmanimTimes{"shkiah": date.Add(18 * time.Hour)},
	}, nil
}

func TestSnapshotLookupMemoizesPerDate(t *testing.T) {
	loc, err := time.LoadLocation("America/New_York")
	require.NoError(t, err)
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, loc)
	shkiah := time.Date(2025, 3, 2, 17, 48, 0, 0, loc)

	repo := &fakeZmanimRepo{days: map[string]*models.ZmanimDay{
		"2025-03-02": {Times: models.ZmanimTimes{"shkiah": shkiah}},
	}}
	svc := NewZmanimService(repo, &fakeShulGetter{}, UnconfiguredCalculator{}, nil, NewMetricsService(), nil, 180, 1, 1)

	lookup := svc.SnapshotLookup(context.Background(), "shul-1")

	got := lookup(date, "shkiah")
	require.NotNil(t, got)
	assert.True(t, got.Equal(shkiah))

	// Same date again, different field: no second query.
	assert.Nil(t, lookup(date, "alos_hashachar"))
	assert.Equal(t, 1, repo.getCalls)

	// Missing date resolves to nil and is memoized too.
	missing := date.AddDate(0, 0, 1)
	assert.Nil(t, lookup(missing, "shkiah"))
	assert.Nil(t, lookup(missing, "shkiah"))
	assert.Equal(t, 2, repo.getCalls)
}

func TestListRangeRejectsInvertedRange(t *testing.T) {
	svc := NewZmanimService(&fakeZmanimRepo{}, &fakeShulGetter{}, UnconfiguredCalculator{}, nil, NewMetricsService(), nil, 180, 1, 1)

	start := time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)
	end := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	_, err := svc.ListRange(context.Background(), "shul-1", start, end)
	assert.Error(t, err)
}

func TestRefreshWalksHorizon(t *testing.T) {
	repo := &fakeZmanimRepo{}
	calc := &fakeCalculator{}
	shuls := &fakeShulGetter{shul: &models.Shul{ID: "shul-1", Timezone: "America/New_York"}}
	svc := NewZmanimService(repo, shuls, calc, nil, NewMetricsService(), nil, 180, 1, 1)

	require.NoError(t, svc.refresh(context.Background(), "shul-1", 14))

	assert.Equal(t, 14, calc.calls)
	require.Len(t, repo.upserts, 14)
	for _, day := range repo.upserts {
		assert.Equal(t, "shul-1", day.ShulID)
	}
	// Consecutive calendar dates starting today.
	first := repo.upserts[0].Date
	last := repo.upserts[13].Date
	assert.Equal(t, first.AddDate(0, 0, 13).Format("2006-01-02"), last.Format("2006-01-02"))
}

func TestFieldsCatalogCoversBaseTimes(t *testing.T) {
	svc := NewZmanimService(&fakeZmanimRepo{}, &fakeShulGetter{}, UnconfiguredCalculator{}, nil, NewMetricsService(), nil, 180, 1, 1)

	fields := svc.Fields()
	require.NotEmpty(t, fields)
	for _, field := range fields {
		assert.True(t, models.IsZmanimField(field.Key), field.Key)
	}
}
