package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zmanview/zmanview-api/internal/models"
)

// ZmanimRepository persists precomputed zmanim table rows.
type ZmanimRepository struct {
	db *sqlx.DB
}

// NewZmanimRepository constructs a zmanim repository.
func NewZmanimRepository(db *sqlx.DB) *ZmanimRepository {
	return &ZmanimRepository{db: db}
}

// GetDay fetches the row for one calendar date. Dates are matched on the day
// only, independent of the stored time component.
func (r *ZmanimRepository) GetDay(ctx context.Context, shulID string, date time.Time) (*models.ZmanimDay, error) {
	const query = `SELECT id, shul_id, date, hebrew_date, parsha, times, computed_at
FROM zmanim_days WHERE shul_id = $1 AND date = $2 LIMIT 1`
	var day models.ZmanimDay
	if err := r.db.GetContext(ctx, &day, query, shulID, date.Format("2006-01-02")); err != nil {
		return nil, err
	}
	return &day, nil
}

// ListRange returns rows for an inclusive date range in ascending order.
func (r *ZmanimRepository) ListRange(ctx context.Context, shulID string, start, end time.Time) ([]models.ZmanimDay, error) {
	const query = `SELECT id, shul_id, date, hebrew_date, parsha, times, computed_at
FROM zmanim_days WHERE shul_id = $1 AND date >= $2 AND date <= $3 ORDER BY date ASC`
	var days []models.ZmanimDay
	if err := r.db.SelectContext(ctx, &days, query, shulID, start.Format("2006-01-02"), end.Format("2006-01-02")); err != nil {
		return nil, fmt.Errorf("list zmanim range: %w", err)
	}
	return days, nil
}

// Upsert writes or replaces the row for one date.
func (r *ZmanimRepository) Upsert(ctx context.Context, day *models.ZmanimDay) error {
	if day.ID == "" {
		day.ID = uuid.NewString()
	}
	day.ComputedAt = time.Now().UTC()
	const query = `INSERT INTO zmanim_days (id, shul_id, date, hebrew_date, parsha, times, computed_at)
VALUES (:id, :shul_id, :date, :hebrew_date, :parsha, :times, :computed_at)
ON CONFLICT (shul_id, date) DO UPDATE SET hebrew_date = EXCLUDED.hebrew_date, parsha = EXCLUDED.parsha, times = EXCLUDED.times, computed_at = EXCLUDED.computed_at`
	if _, err := r.db.NamedExecContext(ctx, query, day); err != nil {
		return fmt.Errorf("upsert zmanim day: %w", err)
	}
	return nil
}

// Horizon returns the last date a shul has precomputed rows for.
func (r *ZmanimRepository) Horizon(ctx context.Context, shulID string) (*time.Time, error) {
	const query = `SELECT MAX(date) FROM zmanim_days WHERE shul_id = $1`
	var horizon *time.Time
	if err := r.db.GetContext(ctx, &horizon, query, shulID); err != nil {
		return nil, fmt.Errorf("zmanim horizon: %w", err)
	}
	return horizon, nil
}
