package handler

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/service"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/export"
	"github.com/zmanview/zmanview-api/pkg/response"
)

// DisplayHandler serves the resolved schedule payload and its exports.
type DisplayHandler struct {
	service *service.DisplayService
	csv     *export.CSVExporter
	pdf     *export.PDFExporter
}

// NewDisplayHandler constructs a display handler.
func NewDisplayHandler(svc *service.DisplayService, csv *export.CSVExporter, pdf *export.PDFExporter) *DisplayHandler {
	return &DisplayHandler{service: svc, csv: csv, pdf: pdf}
}

// Schedule godoc
// @Summary Resolved display schedule
// @Description Returns the resolved schedule for one date, or for an inclusive range when start and end are given
// @Tags Display
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param date query string false "Date (YYYY-MM-DD, default today)"
// @Param start query string false "Range start (YYYY-MM-DD)"
// @Param end query string false "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId}/display [get]
func (h *DisplayHandler) Schedule(c *gin.Context) {
	shulID := c.Param("shulId")

	if startRaw := c.Query("start"); startRaw != "" {
		start, err := parseISODate(startRaw, "start")
		if err != nil {
			response.Error(c, err)
			return
		}
		end, err := parseISODate(c.Query("end"), "end")
		if err != nil {
			response.Error(c, err)
			return
		}
		days := int(end.Sub(start).Hours()/24) + 1
		schedules, err := h.service.ScheduleForRange(c.Request.Context(), shulID, start, days)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.JSON(c, http.StatusOK, schedules, nil)
		return
	}

	// Zero date means "today"; the service resolves it in the shul's
	// timezone, not the server's.
	var date time.Time
	if raw := c.Query("date"); raw != "" {
		parsed, err := parseISODate(raw, "date")
		if err != nil {
			response.Error(c, err)
			return
		}
		date = parsed
	}

	schedule, err := h.service.ScheduleForDate(c.Request.Context(), shulID, date)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, schedule, nil)
}

// Layout godoc
// @Summary Display layout slots
// @Tags Display
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Success 200 {object} response.Envelope
// @Router /shuls/{shulId}/display/layout [get]
func (h *DisplayHandler) Layout(c *gin.Context) {
	slots, err := h.service.Layout(c.Request.Context(), c.Param("shulId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, slots, nil)
}

// Export godoc
// @Summary Weekly schedule sheet
// @Description Downloads the resolved week starting at the given date as CSV or PDF
// @Tags Display
// @Produce octet-stream
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param start query string true "Week start (YYYY-MM-DD)"
// @Param format query string false "csv or pdf (default csv)"
// @Success 200 {file} binary
// @Failure 400 {object} response.Envelope
// @Router /shuls/{shulId}/display/export [get]
func (h *DisplayHandler) Export(c *gin.Context) {
	start, err := parseISODate(c.Query("start"), "start")
	if err != nil {
		response.Error(c, err)
		return
	}

	dataset, subtitle, err := h.service.WeeklyDataset(c.Request.Context(), c.Param("shulId"), start)
	if err != nil {
		response.Error(c, err)
		return
	}

	filename := fmt.Sprintf("schedule-%s", start.Format("2006-01-02"))
	switch c.DefaultQuery("format", "csv") {
	case "csv":
		payload, err := h.csv.Render(dataset)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", filename))
		c.Data(http.StatusOK, "text/csv", payload)
	case "pdf":
		payload, err := h.pdf.Render(dataset, "Weekly Schedule", subtitle)
		if err != nil {
			response.Error(c, err)
			return
		}
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.pdf", filename))
		c.Data(http.StatusOK, "application/pdf", payload)
	default:
		response.Error(c, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{
			"format": "must be csv or pdf",
		}))
	}
}

func parseISODate(raw, field string) (time.Time, error) {
	if raw == "" {
		return time.Time{}, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{
			field: "is required",
		})
	}
	parsed, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, appErrors.WithDetails(appErrors.ErrValidation, map[string]string{
			field: "must be a calendar date (YYYY-MM-DD)",
		})
	}
	return parsed, nil
}
