package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/models"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
)

type announcementRepository interface {
	List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, int, error)
	GetByID(ctx context.Context, id string) (*models.Announcement, error)
	Create(ctx context.Context, item *models.Announcement) error
	Update(ctx context.Context, item *models.Announcement) error
	Delete(ctx context.Context, id string) error
}

// AnnouncementService manages the announcements shown beside the schedule.
type AnnouncementService struct {
	repo   announcementRepository
	layout layoutCleaner
	cache  *CacheService
	logger *zap.Logger
}

// NewAnnouncementService constructs the service.
func NewAnnouncementService(repo announcementRepository, layout layoutCleaner, cache *CacheService, logger *zap.Logger) *AnnouncementService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AnnouncementService{repo: repo, layout: layout, cache: cache, logger: logger}
}

// List returns announcements for a shul with pagination metadata.
func (s *AnnouncementService) List(ctx context.Context, filter models.AnnouncementFilter) ([]models.Announcement, *models.Pagination, error) {
	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list announcements")
	}
	page := filter.Page
	if page < 1 {
		page = 1
	}
	size := filter.PageSize
	if size <= 0 || size > 200 {
		size = 50
	}
	return items, &models.Pagination{Page: page, PageSize: size, TotalCount: total}, nil
}

// Get fetches one announcement scoped to the shul.
func (s *AnnouncementService) Get(ctx context.Context, shulID, id string) (*models.Announcement, error) {
	item, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch announcement")
	}
	if item.ShulID != shulID {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "announcement not found")
	}
	return item, nil
}

// Create validates and persists a new announcement.
func (s *AnnouncementService) Create(ctx context.Context, shulID string, req dto.AnnouncementRequest, actor *models.JWTClaims) (*models.Announcement, error) {
	item, fieldErrs := buildAnnouncement(shulID, req)
	if len(fieldErrs) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fieldErrs)
	}
	if actor != nil {
		item.CreatedBy = actor.UserID
	}
	if err := s.repo.Create(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create announcement")
	}
	s.invalidateDisplay(ctx, shulID)
	return item, nil
}

// Update validates and replaces an existing announcement.
func (s *AnnouncementService) Update(ctx context.Context, shulID, id string, req dto.AnnouncementRequest) (*models.Announcement, error) {
	existing, err := s.Get(ctx, shulID, id)
	if err != nil {
		return nil, err
	}

	item, fieldErrs := buildAnnouncement(shulID, req)
	if len(fieldErrs) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fieldErrs)
	}
	item.ID = existing.ID
	item.CreatedBy = existing.CreatedBy
	item.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, item); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update announcement")
	}
	s.invalidateDisplay(ctx, shulID)
	return item, nil
}

// Delete removes an announcement and cascades to layout slots pinning it.
func (s *AnnouncementService) Delete(ctx context.Context, shulID, id string) error {
	if _, err := s.Get(ctx, shulID, id); err != nil {
		return err
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete announcement")
	}
	if s.layout != nil {
		if err := s.layout.DeleteBySource(ctx, shulID, models.LayoutSourceAnnouncement, id); err != nil {
			s.logger.Warn("failed to cascade layout slots", zap.String("announcement_id", id), zap.Error(err))
		}
	}
	s.invalidateDisplay(ctx, shulID)
	return nil
}

func buildAnnouncement(shulID string, req dto.AnnouncementRequest) (*models.Announcement, map[string]string) {
	fieldErrs := map[string]string{}
	if req.Title == "" {
		fieldErrs["title"] = "is required"
	}
	if req.Content == "" {
		fieldErrs["content"] = "is required"
	}

	item := &models.Announcement{
		ShulID:   shulID,
		Title:    req.Title,
		Content:  req.Content,
		IsPinned: req.IsPinned,
	}

	switch models.AnnouncementPriority(req.Priority) {
	case models.AnnouncementPriorityLow, models.AnnouncementPriorityNormal, models.AnnouncementPriorityHigh:
		item.Priority = models.AnnouncementPriority(req.Priority)
	case "":
		item.Priority = models.AnnouncementPriorityNormal
	default:
		fieldErrs["priority"] = "must be LOW, NORMAL or HIGH"
	}

	item.PublishedAt = time.Now().UTC()
	if req.PublishedAt != nil && *req.PublishedAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.PublishedAt)
		if err != nil {
			fieldErrs["published_at"] = "must be an RFC 3339 timestamp"
		} else {
			item.PublishedAt = parsed.UTC()
		}
	}
	if req.ExpiresAt != nil && *req.ExpiresAt != "" {
		parsed, err := time.Parse(time.RFC3339, *req.ExpiresAt)
		if err != nil {
			fieldErrs["expires_at"] = "must be an RFC 3339 timestamp"
		} else {
			utc := parsed.UTC()
			if !utc.After(item.PublishedAt) {
				fieldErrs["expires_at"] = "must be after published_at"
			} else {
				item.ExpiresAt = &utc
			}
		}
	}

	return item, fieldErrs
}

func (s *AnnouncementService) invalidateDisplay(ctx context.Context, shulID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("display:%s:*", shulID)); err != nil {
		s.logger.Warn("failed to invalidate display cache", zap.String("shul_id", shulID), zap.Error(err))
	}
}
