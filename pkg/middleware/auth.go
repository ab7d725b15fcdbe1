package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/pkg/contextkeys"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/service"
	"equipment-system/pkg/utils"
)

// StaffChecker отвечает, является ли пользователь администратором.
// Реализуется репозиторием пользователей.
type StaffChecker interface {
	IsStaff(ctx context.Context, userID uint64) (bool, error)
}

type AuthMiddleware struct {
	jwtService   service.JWTService
	staffChecker StaffChecker
	logger       *zap.Logger
}

func NewAuthMiddleware(jwtSvc service.JWTService, staffChecker StaffChecker, logger *zap.Logger) *AuthMiddleware {
	return &AuthMiddleware{
		jwtService:   jwtSvc,
		staffChecker: staffChecker,
		logger:       logger,
	}
}

// Auth проверяет bearer-токен и кладёт UserID в контекст запроса.
func (m *AuthMiddleware) Auth(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		authHeader := c.Request().Header.Get("Authorization")
		if authHeader == "" {
			m.logger.Warn("AuthMiddleware: Пустой заголовок Authorization")
			return utils.ErrorResponse(c, apperrors.ErrEmptyAuthHeader, m.logger)
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
			m.logger.Warn("AuthMiddleware: Неверный формат заголовка Authorization")
			return utils.ErrorResponse(c, apperrors.ErrInvalidAuthHeader, m.logger)
		}

		claims, err := m.jwtService.ValidateToken(parts[1])
		if err != nil {
			m.logger.Warn("AuthMiddleware: Ошибка валидации токена", zap.Error(err))
			return utils.ErrorResponse(c, err, m.logger)
		}

		if claims.IsRefreshToken {
			m.logger.Warn("AuthMiddleware: Попытка доступа с refresh токеном")
			return utils.ErrorResponse(c, apperrors.ErrTokenIsNotAccess, m.logger)
		}

		ctx := context.WithValue(c.Request().Context(), contextkeys.UserIDKey, claims.UserID)
		c.SetRequest(c.Request().WithContext(ctx))

		return next(c)
	}
}

// AdminOnly пропускает только пользователей с is_staff. Вешается поверх Auth.
func (m *AuthMiddleware) AdminOnly(next echo.HandlerFunc) echo.HandlerFunc {
	return func(c echo.Context) error {
		userID, err := utils.GetUserIDFromCtx(c.Request().Context())
		if err != nil {
			return utils.ErrorResponse(c, apperrors.ErrUnauthorized, m.logger)
		}

		isStaff, err := m.staffChecker.IsStaff(c.Request().Context(), userID)
		if err != nil {
			m.logger.Error("AdminOnly: не удалось проверить права пользователя",
				zap.Uint64("userID", userID), zap.Error(err))
			return utils.ErrorResponse(c,
				apperrors.NewHttpError(http.StatusInternalServerError, "Не удалось проверить права доступа", err, nil),
				m.logger)
		}

		if !isStaff {
			m.logger.Warn("AdminOnly: доступ запрещён", zap.Uint64("userID", userID))
			return utils.ErrorResponse(c, apperrors.ErrForbidden, m.logger)
		}

		return next(c)
	}
}
