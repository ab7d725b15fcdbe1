package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/service"
	"equipment-system/pkg/utils"
)

type AuthServiceInterface interface {
	Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error)
	RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error)
	IssueTokens(ctx context.Context, userID uint64) (*dto.TokenPairDTO, error)
}

type AuthService struct {
	userRepository  repositories.UserRepositoryInterface
	cacheRepository repositories.CacheRepositoryInterface
	jwtService      service.JWTService
	logger          *zap.Logger
}

func NewAuthService(
	userRepository repositories.UserRepositoryInterface,
	cacheRepository repositories.CacheRepositoryInterface,
	jwtService service.JWTService,
	logger *zap.Logger,
) AuthServiceInterface {
	return &AuthService{
		userRepository:  userRepository,
		cacheRepository: cacheRepository,
		jwtService:      jwtService,
		logger:          logger,
	}
}

func refreshJTIKey(jti string) string {
	return fmt.Sprintf("refresh_jti:%s", jti)
}

// IssueTokens выдаёт пару токенов и регистрирует JTI refresh-токена
// в allow-list. Refresh без записи в кэше считается отозванным.
func (s *AuthService) IssueTokens(ctx context.Context, userID uint64) (*dto.TokenPairDTO, error) {
	access, refresh, refreshJTI, err := s.jwtService.GenerateTokens(userID)
	if err != nil {
		return nil, err
	}

	err = s.cacheRepository.Set(ctx, refreshJTIKey(refreshJTI), userID, s.jwtService.GetRefreshTokenTTL())
	if err != nil {
		s.logger.Error("Не удалось сохранить JTI refresh-токена в кэше",
			zap.Uint64("user_id", userID), zap.Error(err))
		return nil, err
	}

	return &dto.TokenPairDTO{AccessToken: access, RefreshToken: refresh}, nil
}

func (s *AuthService) Login(ctx context.Context, payload dto.LoginDTO) (*dto.TokenPairDTO, error) {
	user, err := s.userRepository.FindUserByUsername(ctx, nil, payload.Username)
	if err != nil {
		s.logger.Error("Ошибка поиска пользователя при входе", zap.Error(err))
		return nil, err
	}
	if user == nil {
		// Не раскрываем, что именно не подошло
		return nil, apperrors.ErrInvalidCredentials
	}

	if err := utils.ComparePasswords(user.Password, payload.Password); err != nil {
		s.logger.Warn("Неудачная попытка входа", zap.String("username", payload.Username))
		return nil, apperrors.ErrInvalidCredentials
	}

	pair, err := s.IssueTokens(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	s.logger.Info("Пользователь вошёл в систему", zap.Uint64("user_id", user.ID))
	return pair, nil
}

// RefreshToken ротирует пару: старый JTI удаляется из allow-list,
// новый регистрируется. Повторное использование старого refresh-токена
// отклоняется как отозванный.
func (s *AuthService) RefreshToken(ctx context.Context, payload dto.RefreshTokenDTO) (*dto.TokenPairDTO, error) {
	claims, err := s.jwtService.ValidateToken(payload.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !claims.IsRefreshToken {
		return nil, apperrors.ErrTokenIsNotRefresh
	}

	jti := claims.ID
	if _, err := s.cacheRepository.Get(ctx, refreshJTIKey(jti)); err != nil {
		if errors.Is(err, repositories.ErrCacheMiss) {
			s.logger.Warn("Попытка использовать отозванный refresh-токен",
				zap.Uint64("user_id", claims.UserID))
			return nil, apperrors.ErrTokenRevoked
		}
		s.logger.Error("Ошибка чтения allow-list refresh-токенов", zap.Error(err))
		return nil, err
	}

	if err := s.cacheRepository.Del(ctx, refreshJTIKey(jti)); err != nil {
		s.logger.Error("Не удалось удалить старый JTI из allow-list", zap.Error(err))
		return nil, err
	}

	return s.IssueTokens(ctx, claims.UserID)
}
