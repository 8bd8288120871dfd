package service

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/models"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
)

type fakeCustomTimeRepo struct {
	defs    map[string]*models.CustomTimeDefinition
	taken   bool
	created *models.CustomTimeDefinition
	updated *models.CustomTimeDefinition
	deleted []string
}

func (f *fakeCustomTimeRepo) ListByShul(context.Context, string) ([]models.CustomTimeDefinition, error) {
	out := make([]models.CustomTimeDefinition, 0, len(f.defs))
	for _, def := range f.defs {
		out = append(out, *def)
	}
	return out, nil
}

func (f *fakeCustomTimeRepo) GetByInternalName(_ context.Context, _, internalName string) (*models.CustomTimeDefinition, error) {
	def, ok := f.defs[internalName]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return def, nil
}

func (f *fakeCustomTimeRepo) ExistsByInternalName(context.Context, string, string, string) (bool, error) {
	return f.taken, nil
}

func (f *fakeCustomTimeRepo) Create(_ context.Context, def *models.CustomTimeDefinition) error {
	f.created = def
	return nil
}

func (f *fakeCustomTimeRepo) Update(_ context.Context, def *models.CustomTimeDefinition) error {
	f.updated = def
	return nil
}

func (f *fakeCustomTimeRepo) Delete(_ context.Context, id string) error {
	f.deleted = append(f.deleted, id)
	return nil
}

type fakeLayoutCleaner struct {
	calls []string
}

func (f *fakeLayoutCleaner) DeleteBySource(_ context.Context, _ string, _ models.LayoutSourceType, sourceKey string) error {
	f.calls = append(f.calls, sourceKey)
	return nil
}

type fakeAuditLogger struct {
	actions []string
}

func (f *fakeAuditLogger) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.actions = append(f.actions, log.Action)
	return nil
}

func strPtr(s string) *string { return &s }
func intPtr(i int) *int       { return &i }

func validDynamicRequest() dto.CustomTimeRequest {
	return dto.CustomTimeRequest{
		InternalName:    "mincha",
		DisplayName:     "Mincha",
		TimeType:        "dynamic",
		BaseTime:        strPtr("shkiah"),
		OffsetMinutes:   -18,
		CalculationMode: "daily",
		Daily:           true,
	}
}

func TestCustomTimeServiceCreateDynamic(t *testing.T) {
	repo := &fakeCustomTimeRepo{}
	audit := &fakeAuditLogger{}
	svc := NewCustomTimeService(repo, &fakeLayoutCleaner{}, audit, nil, nil)

	resp, err := svc.Create(context.Background(), "shul-1", validDynamicRequest(), &models.JWTClaims{UserID: "user-1"})
	require.NoError(t, err)
	require.NotNil(t, repo.created)
	assert.Equal(t, "mincha", resp.InternalName)
	assert.Equal(t, -18, resp.OffsetMinutes)
	assert.True(t, resp.Daily)
	assert.Equal(t, []string{models.AuditActionCustomTimeCreate}, audit.actions)
}

func TestCustomTimeServiceCreateFieldErrors(t *testing.T) {
	svc := NewCustomTimeService(&fakeCustomTimeRepo{}, nil, nil, nil, nil)

	req := dto.CustomTimeRequest{
		InternalName:    "Bad Name!",
		TimeType:        "dynamic",
		BaseTime:        strPtr("not_a_field"),
		CalculationMode: "weekly_target",
		TargetWeekday:   intPtr(9),
		Daily:           false,
	}

	_, err := svc.Create(context.Background(), "shul-1", req, nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrValidation.Code, appErr.Code)
	assert.Contains(t, appErr.Details, "internal_name")
	assert.Contains(t, appErr.Details, "display_name")
	assert.Contains(t, appErr.Details, "base_time")
	assert.Contains(t, appErr.Details, "target_weekday")
	assert.Contains(t, appErr.Details, "days_of_week")
}

func TestCustomTimeServiceCreateConflict(t *testing.T) {
	svc := NewCustomTimeService(&fakeCustomTimeRepo{taken: true}, nil, nil, nil, nil)

	_, err := svc.Create(context.Background(), "shul-1", validDynamicRequest(), nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrConflict.Code, appErr.Code)
}

func TestCustomTimeServiceUpdateSwitchesType(t *testing.T) {
	existing := &models.CustomTimeDefinition{
		ID:              "def-1",
		ShulID:          "shul-1",
		InternalName:    "mincha",
		DisplayName:     "Mincha",
		TimeType:        models.TimeTypeDynamic,
		BaseTime:        strPtr("shkiah"),
		OffsetMinutes:   -18,
		CalculationMode: models.CalculationModeDaily,
		Daily:           true,
	}
	repo := &fakeCustomTimeRepo{defs: map[string]*models.CustomTimeDefinition{"mincha": existing}}
	svc := NewCustomTimeService(repo, nil, nil, nil, nil)

	req := dto.CustomTimeRequest{
		InternalName:    "renamed-ignored",
		DisplayName:     "Mincha",
		TimeType:        "fixed",
		FixedTime:       strPtr("19:00"),
		CalculationMode: "daily",
		Daily:           true,
	}

	resp, err := svc.Update(context.Background(), "shul-1", "mincha", req, nil)
	require.NoError(t, err)
	require.NotNil(t, repo.updated)

	assert.Equal(t, "mincha", resp.InternalName)
	assert.Equal(t, "fixed", resp.TimeType)
	require.NotNil(t, resp.FixedTime)
	assert.Equal(t, "19:00", *resp.FixedTime)
	assert.Nil(t, repo.updated.BaseTime)
	assert.Equal(t, "def-1", repo.updated.ID)
}

func TestCustomTimeServiceUpdateNotFound(t *testing.T) {
	svc := NewCustomTimeService(&fakeCustomTimeRepo{}, nil, nil, nil, nil)

	_, err := svc.Update(context.Background(), "shul-1", "missing", validDynamicRequest(), nil)
	require.Error(t, err)

	var appErr *appErrors.Error
	require.True(t, errors.As(err, &appErr))
	assert.Equal(t, appErrors.ErrNotFound.Code, appErr.Code)
}

func TestCustomTimeServiceDeleteCascadesLayout(t *testing.T) {
	existing := &models.CustomTimeDefinition{
		ID:           "def-1",
		ShulID:       "shul-1",
		InternalName: "mincha",
	}
	repo := &fakeCustomTimeRepo{defs: map[string]*models.CustomTimeDefinition{"mincha": existing}}
	layout := &fakeLayoutCleaner{}
	audit := &fakeAuditLogger{}
	svc := NewCustomTimeService(repo, layout, audit, nil, nil)

	require.NoError(t, svc.Delete(context.Background(), "shul-1", "mincha", nil))
	assert.Equal(t, []string{"def-1"}, repo.deleted)
	assert.Equal(t, []string{"mincha"}, layout.calls)
	assert.Equal(t, []string{models.AuditActionCustomTimeDelete}, audit.actions)
}
