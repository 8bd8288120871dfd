package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/service"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/response"
)

// ShulHandler exposes shul settings endpoints.
type ShulHandler struct {
	service *service.ShulService
}

// NewShulHandler constructs a shul handler.
func NewShulHandler(svc *service.ShulService) *ShulHandler {
	return &ShulHandler{service: svc}
}

// List godoc
// @Summary List shuls
// @Tags Shuls
// @Produce json
// @Security BearerAuth
// @Success 200 {object} response.Envelope
// @Router /shuls [get]
func (h *ShulHandler) List(c *gin.Context) {
	shuls, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shuls, nil)
}

// Get godoc
// @Summary Get shul settings
// @Tags Shuls
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId} [get]
func (h *ShulHandler) Get(c *gin.Context) {
	shul, err := h.service.Get(c.Request.Context(), c.Param("shulId"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shul, nil)
}

// Update godoc
// @Summary Update shul settings
// @Tags Shuls
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param shulId path string true "Shul ID"
// @Param payload body service.ShulUpdateRequest true "Settings payload"
// @Success 200 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /shuls/{shulId} [put]
func (h *ShulHandler) Update(c *gin.Context) {
	var req service.ShulUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid payload"))
		return
	}
	shul, err := h.service.Update(c.Request.Context(), c.Param("shulId"), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, shul, nil)
}
