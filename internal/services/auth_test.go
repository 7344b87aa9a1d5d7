package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"tap-goose-backend/internal/models"
	"tap-goose-backend/internal/testutils"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func newTestAuthService(db *gorm.DB, autoRegister bool) *AuthService {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return NewAuthService(db, "test-secret-key", time.Hour, autoRegister, log)
}

func TestAuthService_TokenRoundTrip(t *testing.T) {
	svc := newTestAuthService(nil, true)
	user := &models.User{ID: uuid.New(), Username: "nikita", Role: models.RoleNikita}

	token, err := svc.GenerateToken(user)
	require.NoError(t, err)

	claims, err := svc.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, user.ID.String(), claims.Subject)
	assert.Equal(t, "nikita", claims.Username)
	assert.Equal(t, models.RoleNikita, claims.Role)
}

func TestAuthService_ValidateTokenRejects(t *testing.T) {
	svc := newTestAuthService(nil, true)
	user := &models.User{ID: uuid.New(), Username: "goose", Role: models.RoleSurvivor}

	other := newTestAuthService(nil, true)
	other.jwtSecret = []byte("another-secret")
	foreign, err := other.GenerateToken(user)
	require.NoError(t, err)

	expired := newTestAuthService(nil, true)
	expired.tokenTTL = -time.Minute
	stale, err := expired.GenerateToken(user)
	require.NoError(t, err)

	none := jwt.NewWithClaims(jwt.SigningMethodNone, Claims{Username: "goose", Role: models.RoleAdmin})
	unsigned, err := none.SignedString(jwt.UnsafeAllowNoneSignatureType)
	require.NoError(t, err)

	tests := []struct {
		name  string
		token string
	}{
		{"garbage", "not.a.token"},
		{"wrong secret", foreign},
		{"expired", stale},
		{"alg none", unsigned},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.ValidateToken(tt.token)
			assert.Error(t, err)
		})
	}
}

func TestAuthService_RegisterThenLogin(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := newTestAuthService(db, true)
	ctx := context.Background()
	username := testutils.UniqueUsername("survivor")

	reg, err := svc.Register(ctx, username, "password123")
	require.NoError(t, err)
	t.Cleanup(func() { db.Delete(&models.User{}, "id = ?", reg.User.ID) })
	assert.NotEmpty(t, reg.AccessToken)
	assert.Equal(t, models.RoleSurvivor, reg.User.Role)
	assert.NotEqual(t, "password123", reg.User.PasswordHash)

	_, err = svc.Register(ctx, username, "another")
	assert.ErrorIs(t, err, ErrUsernameTaken)

	login, err := svc.Login(ctx, username, "password123")
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, login.User.ID)

	var count int64
	db.Model(&models.User{}).Where("username = ?", username).Count(&count)
	assert.Equal(t, int64(1), count)

	_, err = svc.Login(ctx, username, "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_LoginAutoRegisters(t *testing.T) {
	db := testutils.SetupTestDB(t)
	ctx := context.Background()

	username := testutils.UniqueUsername("newcomer")

	svc := newTestAuthService(db, true)
	res, err := svc.Login(ctx, username, "secret1")
	require.NoError(t, err)
	t.Cleanup(func() { db.Delete(&models.User{}, "id = ?", res.User.ID) })
	assert.Equal(t, models.RoleSurvivor, res.User.Role)

	claims, err := svc.ValidateToken(res.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, res.User.ID.String(), claims.Subject)

	got, err := svc.GetUser(ctx, res.User.ID.String())
	require.NoError(t, err)
	assert.Equal(t, username, got.Username)
}

func TestAuthService_LoginWithoutAutoRegister(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := newTestAuthService(db, false)

	_, err := svc.Login(context.Background(), testutils.UniqueUsername("ghost"), "secret1")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_RegisterAssignsRoleByName(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := newTestAuthService(db, true)
	ctx := context.Background()

	for _, name := range []string{"Admin", "NIKITA"} {
		var existing models.User
		if err := db.Where("LOWER(username) = ?", strings.ToLower(name)).First(&existing).Error; err == nil {
			t.Skipf("username %q already present in test database", name)
		}

		res, err := svc.Register(ctx, name, "password123")
		require.NoError(t, err)
		id := res.User.ID
		t.Cleanup(func() { db.Delete(&models.User{}, "id = ?", id) })
		assert.Equal(t, models.RoleForUsername(name), res.User.Role)
	}
}

func TestAuthService_GetUserNotFound(t *testing.T) {
	db := testutils.SetupTestDB(t)
	svc := newTestAuthService(db, true)

	_, err := svc.GetUser(context.Background(), uuid.NewString())
	assert.ErrorIs(t, err, ErrUserNotFound)

	_, err = svc.GetUser(context.Background(), "nope")
	assert.ErrorIs(t, err, ErrUserNotFound)
}
