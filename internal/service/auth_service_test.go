package service

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/zmanview/zmanview-api/internal/models"
	"github.com/zmanview/zmanview-api/pkg/config"
	appErrors "github.com/zmanview/zmanview-api/pkg/errors"
)

type fakeUserRepo struct {
	users    map[string]*models.User
	sessions map[string]*models.RefreshToken
	revoked  []string
	audits   []string
}

func newFakeUserRepo() *fakeUserRepo {
	return &fakeUserRepo{
		users:    map[string]*models.User{},
		sessions: map[string]*models.RefreshToken{},
	}
}

func (f *fakeUserRepo) FindByEmail(_ context.Context, email string) (*models.User, error) {
	for _, u := range f.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, sql.ErrNoRows
}

func (f *fakeUserRepo) FindByID(_ context.Context, id string) (*models.User, error) {
	u, ok := f.users[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return u, nil
}

func (f *fakeUserRepo) UpdateLastLogin(context.Context, string, time.Time) error { return nil }

func (f *fakeUserRepo) CreateRefreshToken(_ context.Context, token *models.RefreshToken) error {
	f.sessions[token.Token] = token
	return nil
}

func (f *fakeUserRepo) FindRefreshToken(_ context.Context, token string) (*models.RefreshToken, error) {
	record, ok := f.sessions[token]
	if !ok {
		return nil, sql.ErrNoRows
	}
	return record, nil
}

func (f *fakeUserRepo) RevokeRefreshToken(_ context.Context, id string, _ time.Time) error {
	for _, record := range f.sessions {
		if record.ID == id {
			record.Revoked = true
		}
	}
	f.revoked = append(f.revoked, id)
	return nil
}

func (f *fakeUserRepo) RevokeUserRefreshTokens(_ context.Context, userID string) error {
	for _, record := range f.sessions {
		if record.UserID == userID {
			record.Revoked = true
		}
	}
	return nil
}

func (f *fakeUserRepo) CreateAuditLog(_ context.Context, log *models.AuditLog) error {
	f.audits = append(f.audits, log.Action)
	return nil
}

func authFixture(t *testing.T) (*AuthService, *fakeUserRepo) {
	t.Helper()
	repo := newFakeUserRepo()
	hash, err := bcrypt.GenerateFromPassword([]byte("secret123"), bcrypt.MinCost)
	require.NoError(t, err)
	shulID := "shul-1"
	repo.users["user-1"] = &models.User{
		ID:           "user-1",
		Email:        "admin@example.org",
		PasswordHash: string(hash),
		FullName:     "Admin",
		Role:         models.RoleShulAdmin,
		ShulID:       &shulID,
		Active:       true,
	}
	cfg := config.JWTConfig{Secret: "test-secret", Expiration: time.Hour, RefreshExpiration: 24 * time.Hour}
	return NewAuthService(repo, nil, cfg, nil), repo
}

func TestAuthLoginSuccess(t *testing.T) {
	svc, repo := authFixture(t)

	res, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.org", Password: "secret123"})
	require.NoError(t, err)

	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)
	assert.Equal(t, "user-1", res.User.ID)
	assert.Contains(t, repo.sessions, res.RefreshToken)
	assert.Contains(t, repo.audits, models.AuditActionLogin)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.UserID)
	assert.Equal(t, models.RoleShulAdmin, claims.Role)
	require.NotNil(t, claims.ShulID)
	assert.Equal(t, "shul-1", *claims.ShulID)
	assert.True(t, claims.CanAccessShul("shul-1"))
	assert.False(t, claims.CanAccessShul("shul-2"))
}

func TestAuthLoginWrongPassword(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.org", Password: "nope"})
	assert.ErrorIs(t, err, appErrors.ErrInvalidCredentials)
}

func TestAuthLoginInactiveAccount(t *testing.T) {
	svc, repo := authFixture(t)
	repo.users["user-1"].Active = false

	_, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.org", Password: "secret123"})
	assert.ErrorIs(t, err, appErrors.ErrInactiveAccount)
}

func TestAuthRefreshRotatesSession(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.org", Password: "secret123"})
	require.NoError(t, err)

	res, err := svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	require.NoError(t, err)
	assert.NotEqual(t, login.RefreshToken, res.RefreshToken)
	assert.True(t, repo.sessions[login.RefreshToken].Revoked)

	// Replaying the consumed token fails.
	_, err = svc.Refresh(context.Background(), models.RefreshTokenRequest{RefreshToken: login.RefreshToken})
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthValidateTokenRejectsGarbage(t *testing.T) {
	svc, _ := authFixture(t)

	_, err := svc.ValidateToken("not-a-token")
	assert.ErrorIs(t, err, appErrors.ErrUnauthorized)
}

func TestAuthLogoutRevokesAllSessions(t *testing.T) {
	svc, repo := authFixture(t)

	login, err := svc.Login(context.Background(), models.LoginRequest{Email: "admin@example.org", Password: "secret123"})
	require.NoError(t, err)

	require.NoError(t, svc.Logout(context.Background(), "user-1", "", ""))
	assert.True(t, repo.sessions[login.RefreshToken].Revoked)
	assert.Contains(t, repo.audits, models.AuditActionLogout)
}
