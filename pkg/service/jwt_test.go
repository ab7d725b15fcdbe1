package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	apperrors "equipment-system/pkg/errors"
)

func newTestJWTService() JWTService {
	return NewJWTService("test-secret", time.Minute, time.Hour, zap.NewNop())
}

func TestGenerateAndValidateTokens(t *testing.T) {
	svc := newTestJWTService()

	access, refresh, refreshJTI, err := svc.GenerateTokens(42)
	require.NoError(t, err)
	require.NotEmpty(t, access)
	require.NotEmpty(t, refresh)
	require.NotEmpty(t, refreshJTI)
	assert.NotEqual(t, access, refresh)

	accessClaims, err := svc.ValidateToken(access)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), accessClaims.UserID)
	assert.False(t, accessClaims.IsRefreshToken)

	refreshClaims, err := svc.ValidateToken(refresh)
	require.NoError(t, err)
	assert.Equal(t, uint64(42), refreshClaims.UserID)
	assert.True(t, refreshClaims.IsRefreshToken)
	assert.Equal(t, refreshJTI, refreshClaims.ID)
}

func TestValidateTokenWrongKey(t *testing.T) {
	other := NewJWTService("another-secret", time.Minute, time.Hour, zap.NewNop())
	access, _, _, err := other.GenerateTokens(42)
	require.NoError(t, err)

	_, err = newTestJWTService().ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrInvalidToken)
}

func TestValidateTokenExpired(t *testing.T) {
	expired := NewJWTService("test-secret", -time.Minute, time.Hour, zap.NewNop())
	access, _, _, err := expired.GenerateTokens(42)
	require.NoError(t, err)

	_, err = expired.ValidateToken(access)
	assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
}

func TestValidateTokenGarbage(t *testing.T) {
	_, err := newTestJWTService().ValidateToken("не.токен.вовсе")
	assert.Error(t, err)
}

func TestTokenTTLs(t *testing.T) {
	svc := newTestJWTService()
	assert.Equal(t, time.Minute, svc.GetAccessTokenTTL())
	assert.Equal(t, time.Hour, svc.GetRefreshTokenTTL())
}
