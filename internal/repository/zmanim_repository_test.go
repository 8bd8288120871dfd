package repository

import (
	"context"
	"regexp"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"

	"github.com/zmanview/zmanview-api/internal/models"
)

func TestZmanimRepositoryGetDayDecodesTimes(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewZmanimRepository(db)
	date := time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC)
	times := []byte(`{"shkiah":"2025-03-02T22:48:00Z"}`)

	rows := sqlmock.NewRows([]string{"id", "shul_id", "date", "hebrew_date", "parsha", "times", "computed_at"}).
		AddRow("day-1", "shul-1", date, "2 Adar 5785", "Terumah", times, time.Now())
	mock.ExpectQuery(regexp.QuoteMeta("SELECT id, shul_id, date, hebrew_date, parsha, times, computed_at")).
		WithArgs("shul-1", "2025-03-02").
		WillReturnRows(rows)

	day, err := repo.GetDay(context.Background(), "shul-1", date)
	require.NoError(t, err)
	require.Equal(t, "2 Adar 5785", day.HebrewDate)

	shkiah, ok := day.Times["shkiah"]
	require.True(t, ok)
	require.Equal(t, time.Date(2025, 3, 2, 22, 48, 0, 0, time.UTC), shkiah.UTC())
}

func TestZmanimRepositoryUpsertAssignsID(t *testing.T) {
	db, mock, cleanup := newRepoMock(t)
	defer cleanup()

	repo := NewZmanimRepository(db)
	mock.ExpectExec(regexp.QuoteMeta("INSERT INTO zmanim_days")).
		WillReturnResult(sqlmock.NewResult(1, 1))

	day := &models.ZmanimDay{
		ShulID: "shul-1",
		Date:   time.Date(2025, 3, 2, 0, 0, 0, 0, time.UTC),
		Times:  models.ZmanimTimes{"shkiah": time.Date(2025, 3, 2, 22, 48, 0, 0, time.UTC)},
	}
	require.NoError(t, repo.Upsert(context.Background(), day))
	require.NotEmpty(t, day.ID)
	require.False(t, day.ComputedAt.IsZero())
	require.NoError(t, mock.ExpectationsWereMet())
}
