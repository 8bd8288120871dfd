package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/zmanview/zmanview-api/internal/models"
)

// ShulRepository provides read access to shul tenant records.
type ShulRepository struct {
	db *sqlx.DB
}

// NewShulRepository constructs a shul repository.
func NewShulRepository(db *sqlx.DB) *ShulRepository {
	return &ShulRepository{db: db}
}

// GetByID fetches one shul.
func (r *ShulRepository) GetByID(ctx context.Context, id string) (*models.Shul, error) {
	const query = `SELECT id, name, nusach, address, latitude, longitude, elevation, timezone, created_at, updated_at
FROM shuls WHERE id = $1 LIMIT 1`
	var shul models.Shul
	if err := r.db.GetContext(ctx, &shul, query, id); err != nil {
		return nil, err
	}
	return &shul, nil
}

// List returns all shuls, for the refresh job to walk.
func (r *ShulRepository) List(ctx context.Context) ([]models.Shul, error) {
	const query = `SELECT id, name, nusach, address, latitude, longitude, elevation, timezone, created_at, updated_at
FROM shuls ORDER BY name ASC`
	var shuls []models.Shul
	if err := r.db.SelectContext(ctx, &shuls, query); err != nil {
		return nil, fmt.Errorf("list shuls: %w", err)
	}
	return shuls, nil
}

// Update persists editable shul settings.
func (r *ShulRepository) Update(ctx context.Context, shul *models.Shul) error {
	shul.UpdatedAt = time.Now().UTC()
	const query = `UPDATE shuls SET name = :name, nusach = :nusach, address = :address, latitude = :latitude,
longitude = :longitude, elevation = :elevation, timezone = :timezone, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, shul); err != nil {
		return fmt.Errorf("update shul: %w", err)
	}
	return nil
}
