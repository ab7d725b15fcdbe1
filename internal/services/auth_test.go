package services

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/service"
	"equipment-system/pkg/utils"
)

type fakeUserRepository struct {
	items  map[uint64]entities.User
	nextID uint64
}

func newFakeUserRepository() *fakeUserRepository {
	return &fakeUserRepository{items: make(map[uint64]entities.User), nextID: 1}
}

func (r *fakeUserRepository) addWithPassword(username, password string) entities.User {
	hashed, err := utils.HashPassword(password)
	if err != nil {
		panic(err)
	}
	u := entities.User{ID: r.nextID, Username: username, Password: hashed}
	r.items[u.ID] = u
	r.nextID++
	return u
}

func (r *fakeUserRepository) CreateUser(ctx context.Context, q repositories.Querier, user entities.User) (*entities.User, error) {
	user.ID = r.nextID
	r.items[user.ID] = user
	r.nextID++
	return &user, nil
}

func (r *fakeUserRepository) FindUserByID(ctx context.Context, id uint64) (*entities.User, error) {
	u, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &u, nil
}

func (r *fakeUserRepository) FindUserByUsername(ctx context.Context, q repositories.Querier, username string) (*entities.User, error) {
	for _, u := range r.items {
		if strings.EqualFold(u.Username, username) {
			found := u
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeUserRepository) IsStaff(ctx context.Context, userID uint64) (bool, error) {
	u, ok := r.items[userID]
	if !ok {
		return false, apperrors.ErrNotFound
	}
	return u.IsStaff, nil
}

type fakeCacheRepository struct {
	items map[string]string
}

func newFakeCacheRepository() *fakeCacheRepository {
	return &fakeCacheRepository{items: make(map[string]string)}
}

func (r *fakeCacheRepository) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error {
	r.items[key] = "1"
	return nil
}

func (r *fakeCacheRepository) Get(ctx context.Context, key string) (string, error) {
	v, ok := r.items[key]
	if !ok {
		return "", repositories.ErrCacheMiss
	}
	return v, nil
}

func (r *fakeCacheRepository) Del(ctx context.Context, keys ...string) error {
	for _, key := range keys {
		delete(r.items, key)
	}
	return nil
}

func newAuthFixture() (AuthServiceInterface, *fakeUserRepository, *fakeCacheRepository) {
	userRepo := newFakeUserRepository()
	cacheRepo := newFakeCacheRepository()
	jwtSvc := service.NewJWTService("test-secret", time.Minute, time.Hour, newTestLogger())
	svc := NewAuthService(userRepo, cacheRepo, jwtSvc, newTestLogger())
	return svc, userRepo, cacheRepo
}

func TestLogin(t *testing.T) {
	svc, userRepo, cacheRepo := newAuthFixture()
	userRepo.addWithPassword("ivan", "secret")

	pair, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ivan", Password: "secret"})
	require.NoError(t, err)

	assert.NotEmpty(t, pair.AccessToken)
	assert.NotEmpty(t, pair.RefreshToken)
	// JTI refresh-токена попал в allow-list
	assert.Len(t, cacheRepo.items, 1)
}

func TestLoginWrongPassword(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userRepo.addWithPassword("ivan", "secret")

	_, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ivan", Password: "wrong"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestLoginUnknownUser(t *testing.T) {
	svc, _, _ := newAuthFixture()

	_, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ghost", Password: "secret"})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
}

func TestRefreshTokenRotation(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userRepo.addWithPassword("ivan", "secret")

	pair, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ivan", Password: "secret"})
	require.NoError(t, err)

	rotated, err := svc.RefreshToken(context.Background(), dto.RefreshTokenDTO{RefreshToken: pair.RefreshToken})
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)

	// Старый refresh-токен после ротации отозван
	_, err = svc.RefreshToken(context.Background(), dto.RefreshTokenDTO{RefreshToken: pair.RefreshToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
}

func TestRefreshTokenRejectsAccessToken(t *testing.T) {
	svc, userRepo, _ := newAuthFixture()
	userRepo.addWithPassword("ivan", "secret")

	pair, err := svc.Login(context.Background(), dto.LoginDTO{Username: "ivan", Password: "secret"})
	require.NoError(t, err)

	_, err = svc.RefreshToken(context.Background(), dto.RefreshTokenDTO{RefreshToken: pair.AccessToken})
	assert.ErrorIs(t, err, apperrors.ErrTokenIsNotRefresh)
}
