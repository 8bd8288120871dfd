package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/middleware"
	"github.com/zmanview/zmanview-api/internal/models"
)

func claimsFromContext(c *gin.Context) *models.JWTClaims {
	return middleware.Claims(c)
}
