package handler

import (
	"context"
	"database/sql"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/models"
	"github.com/zmanview/zmanview-api/internal/resolver"
	"github.com/zmanview/zmanview-api/internal/service"
	"github.com/zmanview/zmanview-api/pkg/export"
)

type fakeShuls struct {
	shul *models.Shul
}

func (f *fakeShuls) GetByID(context.Context, string) (*models.Shul, error) {
	if f.shul == nil {
		return nil, sql.ErrNoRows
	}
	return f.shul, nil
}

type fakeSnapshots struct {
	times map[string]models.ZmanimTimes
}

func (f *fakeSnapshots) SnapshotLookup(context.Context, string) resolver.Lookup {
	return func(date time.Time, field string) *time.Time {
		day, ok := f.times[date.Format("2006-01-02")]
		if !ok {
			return nil
		}
		instant, ok := day[field]
		if !ok {
			return nil
		}
		return &instant
	}
}

func (f *fakeSnapshots) GetDay(context.Context, string, time.Time) (*models.ZmanimDay, error) {
	return nil, sql.ErrNoRows
}

type fakeAnnouncementLister struct{}

func (fakeAnnouncementLister) List(context.Context, models.AnnouncementFilter) ([]models.Announcement, int, error) {
	return nil, 0, nil
}

func displayHandlerFixture(defs map[string]*models.CustomTimeDefinition) *DisplayHandler {
	shuls := &fakeShuls{shul: &models.Shul{ID: "shul-1", Name: "Test Shul", Timezone: "America/New_York"}}
	svc := service.NewDisplayService(shuls, &fakeCustomTimeRepo{defs: defs}, &fakeSnapshots{}, fakeAnnouncementLister{}, nil, nil, service.NewMetricsService(), nil, 0)
	return NewDisplayHandler(svc, export.NewCSVExporter(), export.NewPDFExporter())
}

func fixedDef(name, clock string) *models.CustomTimeDefinition {
	return &models.CustomTimeDefinition{
		InternalName:    name,
		DisplayName:     name,
		TimeType:        models.TimeTypeFixed,
		FixedTime:       &clock,
		CalculationMode: models.CalculationModeDaily,
		Daily:           true,
	}
}

func TestDisplayHandlerScheduleForDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := displayHandlerFixture(map[string]*models.CustomTimeDefinition{
		"shacharis": fixedDef("shacharis", "08:30"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display?date=2025-03-02", nil)
	c.Params = gin.Params{{Key: "shulId", Value: "shul-1"}}

	h.Schedule(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	var schedule dto.DisplaySchedule
	require.NoError(t, json.Unmarshal(envelope.Data, &schedule))
	assert.Equal(t, "2025-03-02", schedule.Date)
	require.Len(t, schedule.CustomTimes, 1)
	assert.Equal(t, "8:30 AM", schedule.CustomTimes[0].Time)
}

func TestDisplayHandlerScheduleBadDate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := displayHandlerFixture(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display?date=03-02-2025", nil)
	c.Params = gin.Params{{Key: "shulId", Value: "shul-1"}}

	h.Schedule(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestDisplayHandlerScheduleRange(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := displayHandlerFixture(map[string]*models.CustomTimeDefinition{
		"shacharis": fixedDef("shacharis", "08:30"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display?start=2025-03-02&end=2025-03-08", nil)
	c.Params = gin.Params{{Key: "shulId", Value: "shul-1"}}

	h.Schedule(c)

	require.Equal(t, http.StatusOK, rec.Code)
	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))

	var schedules []dto.DisplaySchedule
	require.NoError(t, json.Unmarshal(envelope.Data, &schedules))
	require.Len(t, schedules, 7)
	assert.Equal(t, "2025-03-02", schedules[0].Date)
	assert.Equal(t, "2025-03-08", schedules[6].Date)
}

func TestDisplayHandlerExportCSV(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := displayHandlerFixture(map[string]*models.CustomTimeDefinition{
		"shacharis": fixedDef("shacharis", "08:30"),
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display/export?start=2025-03-02&format=csv", nil)
	c.Params = gin.Params{{Key: "shulId", Value: "shul-1"}}

	h.Export(c)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Body.String(), "Entry")
	assert.Contains(t, rec.Body.String(), "8:30 AM")
}

func TestDisplayHandlerExportUnknownFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	h := displayHandlerFixture(nil)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display/export?start=2025-03-02&format=docx", nil)
	c.Params = gin.Params{{Key: "shulId", Value: "shul-1"}}

	h.Export(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
