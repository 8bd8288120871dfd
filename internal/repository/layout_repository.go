package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/zmanview/zmanview-api/internal/models"
)

// LayoutRepository manages display layout slot references. The layout builder
// lives in the admin frontend; the API only needs to clean up slots when the
// entity they reference goes away.
type LayoutRepository struct {
	db *sqlx.DB
}

// NewLayoutRepository constructs a layout repository.
func NewLayoutRepository(db *sqlx.DB) *LayoutRepository {
	return &LayoutRepository{db: db}
}

// ListByShul returns the shul's slots in display order.
func (r *LayoutRepository) ListByShul(ctx context.Context, shulID string) ([]models.LayoutSlot, error) {
	const query = `SELECT id, shul_id, position, source_type, source_key, created_at, updated_at
FROM layout_slots WHERE shul_id = $1 ORDER BY position ASC`
	var slots []models.LayoutSlot
	if err := r.db.SelectContext(ctx, &slots, query, shulID); err != nil {
		return nil, fmt.Errorf("list layout slots: %w", err)
	}
	return slots, nil
}

// DeleteBySource removes every slot referencing the given source. Used when a
// custom time or announcement is deleted so the display never points at a
// dangling key.
func (r *LayoutRepository) DeleteBySource(ctx context.Context, shulID string, sourceType models.LayoutSourceType, sourceKey string) error {
	const query = `DELETE FROM layout_slots WHERE shul_id = $1 AND source_type = $2 AND source_key = $3`
	if _, err := r.db.ExecContext(ctx, query, shulID, sourceType, sourceKey); err != nil {
		return fmt.Errorf("delete layout slots by source: %w", err)
	}
	return nil
}
