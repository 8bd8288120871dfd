package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/models"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
)

var internalNamePattern = regexp.MustCompile(`^[a-z0-9_-]+$`)

type customTimeRepository interface {
	ListByShul(ctx context.Context, shulID string) ([]models.CustomTimeDefinition, error)
	GetByInternalName(ctx context.Context, shulID, internalName string) (*models.CustomTimeDefinition, error)
	ExistsByInternalName(ctx context.Context, shulID, internalName, excludeID string) (bool, error)
	Create(ctx context.Context, def *models.CustomTimeDefinition) error
	Update(ctx context.Context, def *models.CustomTimeDefinition) error
	Delete(ctx context.Context, id string) error
}

type layoutCleaner interface {
	DeleteBySource(ctx context.Context, shulID string, sourceType models.LayoutSourceType, sourceKey string) error
}

type auditLogger interface {
	CreateAuditLog(ctx context.Context, log *models.AuditLog) error
}

// CustomTimeService is the write boundary for custom time definitions. It
// enforces every invariant the resolver relies on, so that stored rows only
// fail resolver validation when a rule changed after the row was written.
type CustomTimeService struct {
	repo   customTimeRepository
	layout layoutCleaner
	audit  auditLogger
	cache  *CacheService
	logger *zap.Logger
}

// NewCustomTimeService constructs the service.
func NewCustomTimeService(repo customTimeRepository, layout layoutCleaner, audit auditLogger, cache *CacheService, logger *zap.Logger) *CustomTimeService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CustomTimeService{repo: repo, layout: layout, audit: audit, cache: cache, logger: logger}
}

// List returns a shul's definitions on the wire shape.
func (s *CustomTimeService) List(ctx context.Context, shulID string) ([]dto.CustomTimeResponse, error) {
	defs, err := s.repo.ListByShul(ctx, shulID)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list custom times")
	}
	out := make([]dto.CustomTimeResponse, 0, len(defs))
	for i := range defs {
		out = append(out, dto.NewCustomTimeResponse(&defs[i]))
	}
	return out, nil
}

// Get returns one definition by internal name.
func (s *CustomTimeService) Get(ctx context.Context, shulID, internalName string) (*dto.CustomTimeResponse, error) {
	def, err := s.repo.GetByInternalName(ctx, shulID, internalName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "custom time not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch custom time")
	}
	resp := dto.NewCustomTimeResponse(def)
	return &resp, nil
}

// Create validates and persists a new definition.
func (s *CustomTimeService) Create(ctx context.Context, shulID string, req dto.CustomTimeRequest, actor *models.JWTClaims) (*dto.CustomTimeResponse, error) {
	def, fieldErrs := s.buildDefinition(shulID, req)
	if len(fieldErrs) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fieldErrs)
	}

	taken, err := s.repo.ExistsByInternalName(ctx, shulID, def.InternalName, "")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check internal name")
	}
	if taken {
		return nil, appErrors.WithDetails(appErrors.ErrConflict, map[string]string{
			"internal_name": "already in use for this shul",
		})
	}

	if err := s.repo.Create(ctx, def); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create custom time")
	}

	s.writeAudit(ctx, actor, models.AuditActionCustomTimeCreate, def.ID)
	s.invalidateDisplay(ctx, shulID)

	resp := dto.NewCustomTimeResponse(def)
	return &resp, nil
}

// Update validates and replaces an existing definition. Mode and type
// switches are allowed; fields irrelevant to the new mode are nulled out.
func (s *CustomTimeService) Update(ctx context.Context, shulID, internalName string, req dto.CustomTimeRequest, actor *models.JWTClaims) (*dto.CustomTimeResponse, error) {
	existing, err := s.repo.GetByInternalName(ctx, shulID, internalName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "custom time not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch custom time")
	}

	// The internal name is the stable layout key; renames go through
	// delete+create so layout references never drift silently.
	req.InternalName = internalName

	def, fieldErrs := s.buildDefinition(shulID, req)
	if len(fieldErrs) > 0 {
		return nil, appErrors.WithDetails(appErrors.ErrValidation, fieldErrs)
	}
	def.ID = existing.ID
	def.CreatedAt = existing.CreatedAt

	if err := s.repo.Update(ctx, def); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update custom time")
	}

	s.writeAudit(ctx, actor, models.AuditActionCustomTimeUpdate, def.ID)
	s.invalidateDisplay(ctx, shulID)

	resp := dto.NewCustomTimeResponse(def)
	return &resp, nil
}

// Delete removes a definition and cascades to layout slots referencing it.
func (s *CustomTimeService) Delete(ctx context.Context, shulID, internalName string, actor *models.JWTClaims) error {
	def, err := s.repo.GetByInternalName(ctx, shulID, internalName)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return appErrors.Clone(appErrors.ErrNotFound, "custom time not found")
		}
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to fetch custom time")
	}

	if err := s.repo.Delete(ctx, def.ID); err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete custom time")
	}

	if s.layout != nil {
		if err := s.layout.DeleteBySource(ctx, shulID, models.LayoutSourceCustomTime, internalName); err != nil {
			s.logger.Warn("failed to cascade layout slots", zap.String("internal_name", internalName), zap.Error(err))
		}
	}

	s.writeAudit(ctx, actor, models.AuditActionCustomTimeDelete, def.ID)
	s.invalidateDisplay(ctx, shulID)
	return nil
}

// buildDefinition converts a request into a stored definition, collecting
// field-keyed validation errors. Fields not applicable under the selected
// time type or calculation mode come back nil regardless of the request.
func (s *CustomTimeService) buildDefinition(shulID string, req dto.CustomTimeRequest) (*models.CustomTimeDefinition, map[string]string) {
	fieldErrs := map[string]string{}

	if req.InternalName == "" {
		fieldErrs["internal_name"] = "is required"
	} else if !internalNamePattern.MatchString(req.InternalName) {
		fieldErrs["internal_name"] = "may only contain lowercase letters, digits, underscores and hyphens"
	}
	if req.DisplayName == "" {
		fieldErrs["display_name"] = "is required"
	}

	def := &models.CustomTimeDefinition{
		ShulID:       shulID,
		InternalName: req.InternalName,
		DisplayName:  req.DisplayName,
		Description:  req.Description,
	}

	switch models.TimeType(req.TimeType) {
	case models.TimeTypeFixed:
		def.TimeType = models.TimeTypeFixed
		if req.FixedTime == nil || *req.FixedTime == "" {
			fieldErrs["fixed_time"] = "is required for fixed entries"
		} else if _, err := time.Parse("15:04", *req.FixedTime); err != nil {
			fieldErrs["fixed_time"] = "must be a valid HH:MM clock time"
		} else {
			def.FixedTime = req.FixedTime
		}
	case models.TimeTypeDynamic:
		def.TimeType = models.TimeTypeDynamic
		if req.BaseTime == nil || *req.BaseTime == "" {
			fieldErrs["base_time"] = "is required for dynamic entries"
		} else if !models.IsZmanimField(*req.BaseTime) {
			fieldErrs["base_time"] = fmt.Sprintf("unknown zman field %q", *req.BaseTime)
		} else {
			def.BaseTime = req.BaseTime
			def.OffsetMinutes = req.OffsetMinutes
		}
	default:
		fieldErrs["time_type"] = "must be fixed or dynamic"
	}

	switch models.CalculationMode(req.CalculationMode) {
	case models.CalculationModeDaily:
		def.CalculationMode = models.CalculationModeDaily
	case models.CalculationModeWeeklyTarget:
		def.CalculationMode = models.CalculationModeWeeklyTarget
		if req.TargetWeekday == nil {
			fieldErrs["target_weekday"] = "is required for weekly_target mode"
		} else if *req.TargetWeekday < 0 || *req.TargetWeekday > 6 {
			fieldErrs["target_weekday"] = "must be between 0 (Sunday) and 6 (Saturday)"
		} else {
			def.TargetWeekday = req.TargetWeekday
		}
	case models.CalculationModeSpecificDate:
		def.CalculationMode = models.CalculationModeSpecificDate
		if req.SpecificDate == nil || *req.SpecificDate == "" {
			fieldErrs["specific_date"] = "is required for specific_date mode"
		} else if parsed, err := time.Parse("2006-01-02", *req.SpecificDate); err != nil {
			fieldErrs["specific_date"] = "must be an ISO calendar date (YYYY-MM-DD)"
		} else {
			def.SpecificDate = &parsed
		}
	default:
		fieldErrs["calculation_mode"] = "must be daily, weekly_target or specific_date"
	}

	def.Daily = req.Daily
	if !req.Daily {
		days := dto.NormalizeWeekdays(toInt64Array(req.DaysOfWeek))
		if len(days) == 0 {
			// "Show on no days" must be expressed by deleting the rule, not
			// by an empty set.
			fieldErrs["days_of_week"] = "select at least one day or enable daily"
		}
		for _, day := range days {
			if day < 0 || day > 6 {
				fieldErrs["days_of_week"] = "days must be between 0 (Sunday) and 6 (Saturday)"
				break
			}
		}
		def.DaysOfWeek = toInt64Array(days)
	}

	return def, fieldErrs
}

func (s *CustomTimeService) writeAudit(ctx context.Context, actor *models.JWTClaims, action, resourceID string) {
	if s.audit == nil {
		return
	}
	log := &models.AuditLog{Action: action, Resource: "custom_time", ResourceID: &resourceID}
	if actor != nil {
		log.UserID = &actor.UserID
	}
	if err := s.audit.CreateAuditLog(ctx, log); err != nil {
		s.logger.Warn("failed to write audit log", zap.String("action", action), zap.Error(err))
	}
}

func (s *CustomTimeService) invalidateDisplay(ctx context.Context, shulID string) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, fmt.Sprintf("display:%s:*", shulID)); err != nil {
		s.logger.Warn("failed to invalidate display cache", zap.String("shul_id", shulID), zap.Error(err))
	}
}

func toInt64Array(days []int) pq.Int64Array {
	out := make(pq.Int64Array, 0, len(days))
	for _, day := range days {
		out = append(out, int64(day))
	}
	return out
}
