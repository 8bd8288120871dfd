package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/zmanview/zmanview-api/internal/models"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
	"github.com/zmanview/zmanview-api/pkg/response"
)

// ClaimsContextKey is the gin context key carrying the verified JWT claims.
const ClaimsContextKey = "auth_claims"

type tokenValidator interface {
	ValidateToken(token string) (*models.JWTClaims, error)
}

// JWT verifies the bearer token and stores claims on the context.
func JWT(auth tokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" || !strings.HasPrefix(header, "Bearer ") {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		claims, err := auth.ValidateToken(strings.TrimPrefix(header, "Bearer "))
		if err != nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		c.Set(ClaimsContextKey, claims)
		c.Next()
	}
}

// RequireRoles rejects requests whose claims carry none of the given roles.
func RequireRoles(roles ...models.UserRole) gin.HandlerFunc {
	allowed := make(map[models.UserRole]struct{}, len(roles))
	for _, role := range roles {
		allowed[role] = struct{}{}
	}
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if _, ok := allowed[claims.Role]; !ok {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireShulAccess checks the :shulId path parameter against the claims.
// Superadmins pass for any shul.
func RequireShulAccess() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims := Claims(c)
		if claims == nil {
			response.Error(c, appErrors.ErrUnauthorized)
			c.Abort()
			return
		}
		if !claims.CanAccessShul(c.Param("shulId")) {
			response.Error(c, appErrors.ErrForbidden)
			c.Abort()
			return
		}
		c.Next()
	}
}

// Claims extracts verified claims from the context, nil when absent.
func Claims(c *gin.Context) *models.JWTClaims {
	value, ok := c.Get(ClaimsContextKey)
	if !ok {
		return nil
	}
	claims, ok := value.(*models.JWTClaims)
	if !ok {
		return nil
	}
	return claims
}
