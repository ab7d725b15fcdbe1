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

type EquipmentTypeController struct {
	equipmentTypeService services.EquipmentTypeServiceInterface
	logger               *zap.Logger
}

func NewEquipmentTypeController(
	service services.EquipmentTypeServiceInterface,
	logger *zap.Logger,
) *EquipmentTypeController {
	return &EquipmentTypeController{
		equipmentTypeService: service,
		logger:               logger,
	}
}

func (c *EquipmentTypeController) GetEquipmentTypes(ctx echo.Context) error {
	filter := utils.ParseListFilter(ctx.Request().URL.Query(), "name", "serial_number_mask")

	res, total, err := c.equipmentTypeService.GetEquipmentTypes(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipmentTypes: ошибка при получении списка типов", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	retMsg := dto.RetMsgOk
	if total == 0 {
		retMsg = dto.RetMsgEmptySet
	}
	return utils.Envelope(ctx, res, utils.BuildPageInfo(total, filter), retMsg)
}

func (c *EquipmentTypeController) CreateEquipmentType(ctx echo.Context) error {
	var payload dto.CreateEquipmentTypeDTO
	if err := ctx.Bind(&payload); err != nil {
		c.logger.Error("CreateEquipmentType: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, err := c.equipmentTypeService.CreateEquipmentType(ctx.Request().Context(), payload)
	if err != nil {
		c.logger.Warn("CreateEquipmentType: тип не создан", zap.Any("payload", payload), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}

func (c *EquipmentTypeController) UpdateEquipmentType(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID типа оборудования", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	var payload dto.UpdateEquipmentTypeDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, retMsg, err := c.equipmentTypeService.UpdateEquipmentType(ctx.Request().Context(), id, payload)
	if err != nil {
		c.logger.Warn("UpdateEquipmentType: тип не обновлён", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, retMsg)
}
