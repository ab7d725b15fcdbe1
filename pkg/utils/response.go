package utils

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	apperrors "equipment-system/pkg/errors"
)

// MaskCharsetMessage — текст ошибки для маски с посторонними символами.
const MaskCharsetMessage = "Serial number mask must consist of the characters 'N', 'A', 'a', 'X', and 'Z' only"

// Envelope отдаёт результат в стандартном конверте. extInfo равный nil
// заменяется пустой строкой, как в ответах без дополнительной информации.
func Envelope(ctx echo.Context, result interface{}, extInfo interface{}, retMsg string) error {
	if extInfo == nil {
		extInfo = ""
	}
	return ctx.JSON(http.StatusOK, &dto.BaseResponse{
		RetCode:    0,
		RetMsg:     retMsg,
		Result:     result,
		RetExtInfo: extInfo,
		RetTime:    time.Now().UnixMilli(),
	})
}

// Ошибки конверт обходят: клиент получает {status:false, message} со
// статусом из таксономии (400/401/403/404/500).
func ErrorResponse(c echo.Context, err error, logger *zap.Logger) error {
	var httpErr *apperrors.HttpError
	if errors.As(err, &httpErr) {
		if httpErr.Err != nil {
			logger.Error("HTTP Error",
				zap.Int("code", httpErr.Code),
				zap.String("message", httpErr.Message),
				zap.Error(httpErr.Err),
				zap.Any("context", httpErr.Context),
			)
		}
		return errorJSON(c, httpErr.Code, httpErr.Message)
	}

	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return errorJSON(c, http.StatusBadRequest, invalidInput.Message)
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			if e.Tag() == "serialmask" {
				msgs = append(msgs, MaskCharsetMessage)
				continue
			}
			msgs = append(msgs, "Field '"+e.Field()+"' failed '"+e.Tag()+"' validation")
		}
		return errorJSON(c, http.StatusBadRequest, strings.Join(msgs, "; "))
	}

	if code, ok := statusOf(err); ok {
		logger.Warn("Request Error", zap.Int("code", code), zap.Error(err))
		return errorJSON(c, code, err.Error())
	}

	logger.Error("Unexpected Error", zap.Error(err))
	return errorJSON(c, http.StatusInternalServerError, "Внутренняя ошибка сервера")
}

func errorJSON(c echo.Context, code int, message string) error {
	return c.JSON(code, map[string]interface{}{
		"status":  false,
		"message": message,
	})
}

func statusOf(err error) (int, bool) {
	switch {
	case errors.Is(err, apperrors.ErrNotFound) || errors.Is(err, pgx.ErrNoRows):
		return http.StatusNotFound, true
	case errors.Is(err, apperrors.ErrBadRequest):
		return http.StatusBadRequest, true
	case errors.Is(err, apperrors.ErrForbidden):
		return http.StatusForbidden, true
	case errors.Is(err, apperrors.ErrUnauthorized),
		errors.Is(err, apperrors.ErrEmptyAuthHeader),
		errors.Is(err, apperrors.ErrInvalidAuthHeader),
		errors.Is(err, apperrors.ErrInvalidCredentials),
		errors.Is(err, apperrors.ErrInvalidToken),
		errors.Is(err, apperrors.ErrTokenExpired),
		errors.Is(err, apperrors.ErrTokenNotYetValid),
		errors.Is(err, apperrors.ErrTokenRevoked),
		errors.Is(err, apperrors.ErrTokenIsNotRefresh),
		errors.Is(err, apperrors.ErrTokenIsNotAccess),
		errors.Is(err, apperrors.ErrInvalidSigningMethod):
		return http.StatusUnauthorized, true
	}
	return 0, false
}
