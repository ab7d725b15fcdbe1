package controllers

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/utils"
)

type AuthController struct {
	authService services.AuthServiceInterface
	logger      *zap.Logger
}

func NewAuthController(service services.AuthServiceInterface, logger *zap.Logger) *AuthController {
	return &AuthController{authService: service, logger: logger}
}

func (c *AuthController) Login(ctx echo.Context) error {
	var payload dto.LoginDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.authService.Login(ctx.Request().Context(), payload)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}

func (c *AuthController) RefreshToken(ctx echo.Context) error {
	var payload dto.RefreshTokenDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.authService.RefreshToken(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("RefreshToken: отказ в обновлении токенов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}
