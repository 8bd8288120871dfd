package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/zmanview/zmanview-api/internal/models"
)

type fakeValidator struct {
	claims *models.JWTClaims
	err    error
}

func (f *fakeValidator) ValidateToken(string) (*models.JWTClaims, error) {
	return f.claims, f.err
}

func runChain(t *testing.T, header string, validator tokenValidator, extra ...gin.HandlerFunc) *httptest.ResponseRecorder {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rec := httptest.NewRecorder()
	_, r := gin.CreateTestContext(rec)

	handlers := append([]gin.HandlerFunc{JWT(validator)}, extra...)
	handlers = append(handlers, func(c *gin.Context) { c.Status(http.StatusOK) })
	r.GET("/shuls/:shulId/display", handlers...)

	req := httptest.NewRequest(http.MethodGet, "/shuls/shul-1/display", nil)
	if header != "" {
		req.Header.Set("Authorization", header)
	}
	r.ServeHTTP(rec, req)
	return rec
}

func TestJWTMissingHeader(t *testing.T) {
	rec := runChain(t, "", &fakeValidator{})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTInvalidToken(t *testing.T) {
	rec := runChain(t, "Bearer bad", &fakeValidator{err: errors.New("bad token")})
	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestJWTValidTokenPasses(t *testing.T) {
	rec := runChain(t, "Bearer good", &fakeValidator{claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleShulAdmin}})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestRequireRolesRejectsDisplayRole(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleDisplay}}
	rec := runChain(t, "Bearer good", validator, RequireRoles(models.RoleSuperAdmin, models.RoleShulAdmin))
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireShulAccessScopesAdmin(t *testing.T) {
	other := "shul-2"
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleShulAdmin, ShulID: &other}}
	rec := runChain(t, "Bearer good", validator, RequireShulAccess())
	assert.Equal(t, http.StatusForbidden, rec.Code)
}

func TestRequireShulAccessAllowsSuperadmin(t *testing.T) {
	validator := &fakeValidator{claims: &models.JWTClaims{UserID: "user-1", Role: models.RoleSuperAdmin}}
	rec := runChain(t, "Bearer good", validator, RequireShulAccess())
	assert.Equal(t, http.StatusOK, rec.Code)
}
