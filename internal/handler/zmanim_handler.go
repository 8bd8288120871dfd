package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/service"
	"github.com/zmanview/zmanview-api/pkg/response"
)

// ZmanimHandler serves the field catalog, raw table rows and refresh trigger.
type ZmanimHandler struct {
	service *service.ZmanimService
}

// NewZmanimHandler constructs a zmanim handler.
func NewZmanimHandler(svc *service.ZmanimService) *ZmanimHandler {
	return &ZmanimHandler{service: svc}
}

// Fields godoc
// @Summary Zmanim field catalog
// @Description Lists the named time fields usable as dynamic base times
// @Tags Zmanim
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /zmanim/fields [get]
func (h *ZmanimHandler) Fields(c *gin.Context) {
	response.JSON(c, http.StatusOK, h.service.Fields(), nil)
}

// Range godoc
// @Summary Raw zmanim table rows
// @Tags Zmanim
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param start query string true "Range start (YYYY-MM-DD)"
// @Param end query string true "Range end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Router /shuls/{shulId}/zmanim [get]
func (h *ZmanimHandler) Range(c *gin.Context) {
	start, err := parseISODate(c.Query("start"), "start")
	if err != nil {
		response.Error(c, err)
		return
	}
	end, err := parseISODate(c.Query("end"), "end")
	if err != nil {
		response.Error(c, err)
		return
	}

	days, err := h.service.ListRange(c.Request.Context(), c.Param("shulId"), start, end)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, days, nil)
}

// Refresh godoc
// @Summary Enqueue zmanim refresh
// @Description Schedules a background recompute of the precomputed table out to the horizon
// @Tags Zmanim
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Success 202 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId}/zmanim/refresh [post]
func (h *ZmanimHandler) Refresh(c *gin.Context) {
	shulID := c.Param("shulId")
	if err := h.service.EnqueueRefresh(c.Request.Context(), shulID, claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, gin.H{"status": "queued", "shul_id": shulID}, nil)
}
