package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/zmanview/zmanview-api/internal/models"
)

const announcementColumns = `id, shul_id, title, content, priority, is_pinned, published_at, expires_at, created_by, created_at, updated_at`

// AnnouncementRepository persists display announcements.
type AnnouncementRepository struct {
	db *sqlx.DB
}

// NewAnnouncementRepository constructs an announcement repository.
func NewAnnouncementRepository(db *sqlx.DB) *AnnouncementRepository {
	return &AnnouncementRepository{db: db}
}

// List returns announcements matching the filter with total count.
func (r *AnnouncementRepository) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error) {
	base := "FROM announcements"
	where := []string{"shul_id = $1"}
	args := []interface{}{filter.ShulID}
	if filter.ActiveAt != nil {
		where = append(where, fmt.Sprintf("published_at <= $%d AND (expires_at IS NULL OR expires_at >= $%d)", len(args)+1, len(args)+1))
		args = append(args, *filter.ActiveAt)
	}
	if filter.OnlyPinned {
		where = append(where, "is_pinned = TRUE")
	}
	whereClause := strings.Join(where, " AND ")

	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	offset := (page - 1) * size

	query := fmt.Sprintf(`SELECT %s %s WHERE %s ORDER BY is_pinned DESC, priority DESC, published_at DESC LIMIT %d OFFSET %d`,
		announcementColumns, base, whereClause, size, offset)
	var items []models.Announcement
	if err := r.db.SelectContext(ctx, &items, query, args...); err != nil {
		return nil, 0, fmt.Errorf("list announcements: %w", err)
	}

	countQuery := fmt.Sprintf("SELECT COUNT(*) %s WHERE %s", base, whereClause)
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("count announcements: %w", err)
	}
	return items, total, nil
}

// GetByID fetches one announcement.
func (r *AnnouncementRepository) GetByID(ctx context.Context, id string) (*models.Announcement, error) {
	query := fmt.Sprintf(`SELECT %s FROM announcements WHERE id = $1 LIMIT 1`, announcementColumns)
	var item models.Announcement
	if err := r.db.GetContext(ctx, &item, query, id); err != nil {
		return nil, err
	}
	return &item, nil
}

// Create inserts an announcement.
func (r *AnnouncementRepository) Create(ctx context.Context, item *models.Announcement) error {
	if item.ID == "" {
		item.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now
	}
	item.UpdatedAt = now
	const query = `INSERT INTO announcements (id, shul_id, title, content, priority, is_pinned, published_at, expires_at, created_by, created_at, updated_at)
VALUES (:id, :shul_id, :title, :content, :priority, :is_pinned, :published_at, :expires_at, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("create announcement: %w", err)
	}
	return nil
}

// Update modifies an announcement.
func (r *AnnouncementRepository) Update(ctx context.Context, item *models.Announcement) error {
	item.UpdatedAt = time.Now().UTC()
	const query = `UPDATE announcements SET title = :title, content = :content, priority = :priority, is_pinned = :is_pinned,
published_at = :published_at, expires_at = :expires_at, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, item); err != nil {
		return fmt.Errorf("update announcement: %w", err)
	}
	return nil
}

// Delete removes an announcement.
func (r *AnnouncementRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, "DELETE FROM announcements WHERE id = $1", id); err != nil {
		return fmt.Errorf("delete announcement: %w", err)
	}
	return nil
}
