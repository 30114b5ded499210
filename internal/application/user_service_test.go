package application

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chambanica/chambanica-api/pkg/apperr"
	"github.com/chambanica/chambanica-api/pkg/helpers"
)

func newUserTestSvc() (*UserService, *fakeUserRepo) {
	users := newFakeUserRepo()
	jwt := helpers.NewJWTManager("access-secret", "refresh-secret", time.Hour, 24*time.Hour)
	return NewUserService(users, jwt, nil, nil, "", testLogger()), users
}

func TestRegisterNormalizesAndRejectsDuplicates(t *testing.T) {
	svc, _ := newUserTestSvc()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email:    "  Maria.Garcia@Example.NI ",
		Password: "password123",
		FullName: "  María García ",
		Phone:    "8888-1234",
	})
	require.NoError(t, err)
	assert.Equal(t, "maria.garcia@example.ni", u.Email)
	assert.Equal(t, "María García", u.FullName)
	assert.NotEqual(t, "password123", u.Password)

	_, err = svc.Register(ctx, RegisterInput{
		Email:    "maria.garcia@example.ni",
		Password: "otherpassword",
		FullName: "Otra María",
	})
	assert.ErrorIs(t, err, apperr.ErrValidation)
}

func TestRegisterValidation(t *testing.T) {
	svc, _ := newUserTestSvc()
	ctx := context.Background()

	cases := []RegisterInput{
		{Email: "", Password: "password123", FullName: "X"},
		{Email: "a@b.ni", Password: "short", FullName: "X"},
		{Email: "a@b.ni", Password: "password123", FullName: "  "},
	}
	for _, in := range cases {
		_, err := svc.Register(ctx, in)
		assert.ErrorIs(t, err, apperr.ErrValidation)
	}
}

func TestLoginAndRefresh(t *testing.T) {
	svc, _ := newUserTestSvc()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email: "carlos@example.ni", Password: "password123", FullName: "Carlos López",
	})
	require.NoError(t, err)

	u, pair, err := svc.Login(ctx, "carlos@example.ni", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Carlos López", u.FullName)
	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	assert.NotEmpty(t, pair.SessionID)

	// Both tokens carry the session.
	claims, err := svc.JWT.ParseAccessToken(pair.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, u.ID, claims.UserID)
	assert.Equal(t, pair.SessionID, claims.SessionID)

	next, err := svc.Refresh(ctx, pair.RefreshToken)
	require.NoError(t, err)
	assert.Equal(t, pair.SessionID, next.SessionID)

	_, err = svc.Refresh(ctx, "not-a-token")
	assert.ErrorIs(t, err, apperr.ErrPermissionDenied)
}

func TestLoginWrongCredentials(t *testing.T) {
	svc, _ := newUserTestSvc()
	ctx := context.Background()

	_, err := svc.Register(ctx, RegisterInput{
		Email: "ana@example.ni", Password: "password123", FullName: "Ana Martínez",
	})
	require.NoError(t, err)

	_, _, wrongPwd := svc.Login(ctx, "ana@example.ni", "incorrecta")
	_, _, unknown := svc.Login(ctx, "nadie@example.ni", "password123")

	// Same answer either way, so login probing leaks nothing.
	assert.ErrorIs(t, wrongPwd, apperr.ErrValidation)
	assert.ErrorIs(t, unknown, apperr.ErrValidation)
	assert.Equal(t, wrongPwd.Error(), unknown.Error())
}

func TestUpdateProfileKeepsUnsetFields(t *testing.T) {
	svc, _ := newUserTestSvc()
	ctx := context.Background()

	u, err := svc.Register(ctx, RegisterInput{
		Email: "jorge@example.ni", Password: "password123", FullName: "Jorge Méndez",
		Phone: "8555-3456", Bio: "Carpintero",
	})
	require.NoError(t, err)

	updated, err := svc.UpdateProfile(ctx, u.ID, UpdateProfileInput{Bio: "Carpintero, muebles a medida"})
	require.NoError(t, err)
	assert.Equal(t, "Jorge Méndez", updated.FullName)
	assert.Equal(t, "8555-3456", updated.Phone)
	assert.Equal(t, "Carpintero, muebles a medida", updated.Bio)
}
