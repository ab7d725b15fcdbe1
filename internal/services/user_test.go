package services

import (
	"context"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-system/internal/dto"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/service"
	"equipment-system/pkg/utils"
)

func newUserFixture() (UserServiceInterface, *fakeUserRepository) {
	userRepo := newFakeUserRepository()
	cacheRepo := newFakeCacheRepository()
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, newTestLogger())
	authSvc := NewAuthService(userRepo, cacheRepo, jwtSvc, newTestLogger())
	svc := NewUserService(userRepo, &fakeTxManager{}, authSvc, newTestLogger())
	return svc, userRepo
}

func TestRegister(t *testing.T) {
	svc, userRepo := newUserFixture()

	res, err := svc.Register(context.Background(), dto.RegisterUserDTO{
		Username:  "ivan",
		FirstName: "Иван",
		Password:  "secret",
		Password2: "secret",
	})
	require.NoError(t, err)

	assert.Equal(t, "ivan", res.User.Username)
	assert.NotEmpty(t, res.AccessToken)
	assert.NotEmpty(t, res.RefreshToken)

	// Пароль сохранён хешем
	stored := userRepo.items[res.User.ID]
	assert.NotEqual(t, "secret", stored.Password)
	assert.NoError(t, utils.ComparePasswords(stored.Password, "secret"))
}

func TestRegisterPasswordMismatch(t *testing.T) {
	svc, userRepo := newUserFixture()

	_, err := svc.Register(context.Background(), dto.RegisterUserDTO{
		Username:  "ivan",
		Password:  "secret",
		Password2: "другой",
	})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "Пароли не совпадают", invalid.Message)
	assert.Empty(t, userRepo.items)
}

func TestRegisterDuplicateUsername(t *testing.T) {
	svc, userRepo := newUserFixture()
	userRepo.addWithPassword("Ivan", "secret")

	_, err := svc.Register(context.Background(), dto.RegisterUserDTO{
		Username:  "ivan",
		Password:  "secret",
		Password2: "secret",
	})

	var invalid *apperrors.InvalidInputError
	require.ErrorAs(t, err, &invalid)
	assert.Equal(t, "User with username='ivan' is already exist", invalid.Message)
}

func TestGetUserByID(t *testing.T) {
	svc, userRepo := newUserFixture()
	u := userRepo.addWithPassword("ivan", "secret")

	res, err := svc.GetUserByID(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, "ivan", res.Username)

	_, err = svc.GetUserByID(context.Background(), 99)
	var httpErr *apperrors.HttpError
	require.ErrorAs(t, err, &httpErr)
	assert.Equal(t, http.StatusNotFound, httpErr.Code)
	assert.Equal(t, "User with id='99' was not found", httpErr.Message)
}
