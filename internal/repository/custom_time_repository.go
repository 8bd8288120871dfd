package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zmanview/zmanview-api/internal/models"
)

const customTimeColumns = `id, shul_id, internal_name, display_name, description, time_type, fixed_time, base_time, offset_minutes, calculation_mode, target_weekday, specific_date, daily, days_of_week, created_at, updated_at`

// CustomTimeRepository persists custom time definitions.
type CustomTimeRepository struct {
	db *sqlx.DB
}

// NewCustomTimeRepository constructs a custom time repository.
func NewCustomTimeRepository(db *sqlx.DB) *CustomTimeRepository {
	return &CustomTimeRepository{db: db}
}

// ListByShul returns all definitions owned by a shul, ordered by internal name.
func (r *CustomTimeRepository) ListByShul(ctx context.Context, shulID string) ([]models.CustomTimeDefinition, error) {
	query := fmt.Sprintf(`SELECT %s FROM custom_times WHERE shul_id = $1 ORDER BY internal_name ASC`, customTimeColumns)
	var defs []models.CustomTimeDefinition
	if err := r.db.SelectContext(ctx, &defs, query, shulID); err != nil {
		return nil, fmt.Errorf("list custom times: %w", err)
	}
	return defs, nil
}

// GetByInternalName fetches one definition by its per-shul stable key.
func (r *CustomTimeRepository) GetByInternalName(ctx context.Context, shulID, internalName string) (*models.CustomTimeDefinition, error) {
	query := fmt.Sprintf(`SELECT %s FROM custom_times WHERE shul_id = $1 AND internal_name = $2 LIMIT 1`, customTimeColumns)
	var def models.CustomTimeDefinition
	if err := r.db.GetContext(ctx, &def, query, shulID, internalName); err != nil {
		return nil, err
	}
	return &def, nil
}

// ExistsByInternalName reports whether another definition already uses the
// internal name within the shul.
func (r *CustomTimeRepository) ExistsByInternalName(ctx context.Context, shulID, internalName, excludeID string) (bool, error) {
	const query = `SELECT COUNT(*) FROM custom_times WHERE shul_id = $1 AND internal_name = $2 AND id <> $3`
	var count int
	if err := r.db.GetContext(ctx, &count, query, shulID, internalName, excludeID); err != nil {
		return false, fmt.Errorf("check internal name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a definition.
func (r *CustomTimeRepository) Create(ctx context.Context, def *models.CustomTimeDefinition) error {
	if def.ID == "" {
		def.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if def.CreatedAt.IsZero() {
		def.CreatedAt = now
	}
	def.UpdatedAt = now
	const query = `INSERT INTO custom_times (id, shul_id, internal_name, display_name, description, time_type, fixed_time, base_time, offset_minutes, calculation_mode, target_weekday, specific_date, daily, days_of_week, created_at, updated_at)
VALUES (:id, :shul_id, :internal_name, :display_name, :description, :time_type, :fixed_time, :base_time, :offset_minutes, :calculation_mode, :target_weekday, :specific_date, :daily, :days_of_week, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, def); err != nil {
		return fmt.Errorf("create custom time: %w", err)
	}
	return nil
}

// Update replaces the mutable fields of a definition. Mode and type switches
// overwrite the now-irrelevant columns with whatever the caller set (nil).
func (r *CustomTimeRepository) Update(ctx context.Context, def *models.CustomTimeDefinition) error {
	def.UpdatedAt = time.Now().UTC()
	const query = `UPDATE custom_times SET display_name = :display_name, description = :description, time_type = :time_type,
fixed_time = :fixed_time, base_time = :base_time, offset_minutes = :offset_minutes, calculation_mode = :calculation_mode,
target_weekday = :target_weekday, specific_date = :specific_date, daily = :daily, days_of_week = :days_of_week, updated_at = :updated_at
WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, def); err != nil {
		return fmt.Errorf("update custom time: %w", err)
	}
	return nil
}

// Delete removes a definition.
func (r *CustomTimeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM custom_times WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete custom time: %w", err)
	}
	return nil
}
