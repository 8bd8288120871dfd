package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/dto"
	"github.com/zmanview/zmanview-api/internal/service"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/response"
)

// CustomTimeHandler exposes custom time definition CRUD endpoints.
type CustomTimeHandler struct {
	service *service.CustomTimeService
}

// NewCustomTimeHandler constructs a custom time handler.
func NewCustomTimeHandler(svc *service.CustomTimeService) *CustomTimeHandler {
	return &CustomTimeHandler{service: svc}
}

// List godoc
// @Summary List custom times
// @Tags CustomTimes
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Success 200 {object} response.Envelope
// @Router /shuls/{shulId}/custom-times [get]
func (h *CustomTimeHandler) List(c *gin.Context) {
	items, err := h.service.List(c.Request.Context(), c.Param("shulId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, items, nil)
}

// Get godoc
// @Summary Get one custom time
// @Tags CustomTimes
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param internalName path string true "Internal name"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId}/custom-times/{internalName} [get]
func (h *CustomTimeHandler) Get(c *gin.Context) {
	item, err := h.service.Get(c.Request.Context(), c.Param("shulId"), c.Param("internalName"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Create godoc
// @Summary Create custom time
// @Tags CustomTimes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param payload body dto.CustomTimeRequest true "Definition payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 409 {object} response.Envelope
// @Router /shuls/{shulId}/custom-times [post]
func (h *CustomTimeHandler) Create(c *gin.Context) {
	var req dto.CustomTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Create(c.Request.Context(), c.Param("shulId"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, item)
}

// Update godoc
// @Summary Update custom time
// @Tags CustomTimes
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param internalName path string true "Internal name"
// @Param payload body dto.CustomTimeRequest true "Definition payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId}/custom-times/{internalName} [put]
func (h *CustomTimeHandler) Update(c *gin.Context) {
	var req dto.CustomTimeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	item, err := h.service.Update(c.Request.Context(), c.Param("shulId"), c.Param("internalName"), req, claimsFromContext(c))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, item, nil)
}

// Delete godoc
// @Summary Delete custom time
// @Tags CustomTimes
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param internalName path string true "Internal name"
// @Success 204 "No Content"
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId}/custom-times/{internalName} [delete]
func (h *CustomTimeHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("shulId"), c.Param("internalName"), claimsFromContext(c)); err != nil {
		response.Error(c, err)
		return
	}
	response.NoContent(c)
}
