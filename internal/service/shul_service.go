package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/zmanview/zmanview-api/internal/models"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
)

type shulRepository interface {
	GetByID(ctx context.Context, id string) (*models.Shul, error)
	List(ctx context.Context) ([]models.Shul, error)
	Update(ctx context.Context, shul *models.Shul) error
}

// ShulUpdateRequest carries the editable settings of a shul.
type ShulUpdateRequest struct {
	Name      string  `json:"name"`
	Nusach    string  `json:"nusach"`
	Address   string  `json:"address"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Elevation float64 `json:"elevation"`
	Timezone  string  `json:"timezone"`
}

// ShulService manages shul tenant settings. Location and timezone edits feed
// the zmanim table, so the display cache is flushed on every update.
type ShulService struct {
	repo   shulRepository
	cache  *CacheService
	logger *zap.Logger
}

// NewShulService constructs the service.
func NewShulService(repo shulRepository, cache *CacheService, logger *zap.Logger) *ShulService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ShulService{repo: repo, cache: cache, logger: logger}
}

// Get fetches one shul.
func (s *ShulService) Get(ctx context.Context, id string) (*models.Shul, error) {
	shul, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "shul not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch shul")
	}
	return shul, nil
}

// List returns all shuls.
func (s *ShulService) List(ctx context.Context) ([]models.Shul, error) {
	shuls, err := s.repo.List(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list shuls")
	}
	return shuls, nil
}

// Update validates and persists shul settings.
func (s *ShulService) Update(ctx context.Context, id string, req ShulUpdateRequest) (*models.Shul, error) {
	shul, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	fieldErrs := map[string]string{}
	if req.Name == "" {
		fieldErrs["name"] = "is required"
	}
	if req.Latitude < -90 || req.Latitude > 90 {
		fieldErrs["latitude"] = "must be between -90 and 90"
	}
	if req.Longitude < -180 || req.Longitude > 180 {
		fieldErrs["longitude"] = "must be between -180 and 180"
	}
	if req.Timezone == "" {
		fieldErrs["timezone"] = "is required"
	} else if _, err := time.LoadLocation(req.Timezone); err != nil {
		fieldErrs["timezone"] = "must be a valid IANA timezone name"
	}
	if len(fieldErrs) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fieldErrs)
	}

	shul.Name = req.Name
	shul.Nusach = req.Nusach
	shul.Address = req.Address
	shul.Latitude = req.Latitude
	shul.Longitude = req.Longitude
	shul.Elevation = req.Elevation
	shul.Timezone = req.Timezone

	if err := s.repo.Update(ctx, shul); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update shul")
	}

	if s.cache != nil {
		if err := s.cache.Invalidate(ctx, fmt.Sprintf("display:%s:*", id)); err != nil {
			s.logger.Warn("failed to invalidate display cache", zap.String("shul_id", id), zap.Error(err))
		}
	}
	return shul, nil
}
