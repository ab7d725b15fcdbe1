package controllers

import (
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/utils"
)

type UserController struct {
	userService services.UserServiceInterface
	logger      *zap.Logger
}

func NewUserController(service services.UserServiceInterface, logger *zap.Logger) *UserController {
	return &UserController{userService: service, logger: logger}
}

func (c *UserController) Register(ctx echo.Context) error {
	var payload dto.RegisterUserDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.userService.Register(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("Register: пользователь не создан", zap.String("username", payload.Username), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}

func (c *UserController) GetUserByID(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID пользователя", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	res, err := c.userService.GetUserByID(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}
