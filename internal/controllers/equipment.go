package controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/services"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/utils"
)

var equipmentFilterFields = []string{"equipment_type_name", "serial_number", "description"}

type EquipmentController struct {
	equipmentService services.EquipmentServiceInterface
	exportService    services.EquipmentExportServiceInterface
	logger           *zap.Logger
}

func NewEquipmentController(
	service services.EquipmentServiceInterface,
	exportService services.EquipmentExportServiceInterface,
	logger *zap.Logger,
) *EquipmentController {
	return &EquipmentController{
		equipmentService: service,
		exportService:    exportService,
		logger:           logger,
	}
}

func (c *EquipmentController) GetEquipments(ctx echo.Context) error {
	filter := utils.ParseListFilter(ctx.Request().URL.Query(), equipmentFilterFields...)

	res, total, err := c.equipmentService.GetEquipments(ctx.Request().Context(), filter)
	if err != nil {
		c.logger.Error("GetEquipments: ошибка при получении списка оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	retMsg := dto.RetMsgOk
	if total == 0 {
		retMsg = dto.RetMsgEmptySet
	}
	return utils.Envelope(ctx, res, utils.BuildPageInfo(total, filter), retMsg)
}

func (c *EquipmentController) FindEquipment(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID оборудования", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	res, err := c.equipmentService.FindEquipment(ctx.Request().Context(), id)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, dto.RetMsgOk)
}

// CreateEquipment принимает один объект или массив объектов. Каждый
// элемент обрабатывается независимо: ошибка одного не отменяет остальных.
func (c *EquipmentController) CreateEquipment(ctx echo.Context) error {
	body, err := io.ReadAll(ctx.Request().Body)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Не удалось прочитать тело запроса", err, nil),
			c.logger)
	}

	payloads, err := decodeEquipmentPayloads(body)
	if err != nil {
		c.logger.Error("CreateEquipment: ошибка привязки данных", zap.Error(err))
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, info, err := c.equipmentService.CreateEquipments(ctx.Request().Context(), payloads, userID)
	if err != nil {
		c.logger.Error("CreateEquipment: ошибка при создании оборудования", zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	retMsg := dto.RetMsgOk
	if info.Failed > 0 {
		retMsg = dto.RetMsgBatchErrors
	}
	return utils.Envelope(ctx, res, info, retMsg)
}

// decodeEquipmentPayloads нормализует тело запроса: одиночный объект
// превращается в список из одного элемента.
func decodeEquipmentPayloads(body []byte) ([]dto.CreateEquipmentDTO, error) {
	trimmed := bytes.TrimLeft(body, " \t\r\n")
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("пустое тело запроса")
	}

	if trimmed[0] == '[' {
		var payloads []dto.CreateEquipmentDTO
		if err := json.Unmarshal(trimmed, &payloads); err != nil {
			return nil, err
		}
		return payloads, nil
	}

	var payload dto.CreateEquipmentDTO
	if err := json.Unmarshal(trimmed, &payload); err != nil {
		return nil, err
	}
	return []dto.CreateEquipmentDTO{payload}, nil
}

func (c *EquipmentController) UpdateEquipment(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID оборудования", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	var payload dto.UpdateEquipmentDTO
	if err := ctx.Bind(&payload); err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат данных в теле запроса", err, nil),
			c.logger)
	}
	if err := ctx.Validate(&payload); err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	res, retMsg, err := c.equipmentService.UpdateEquipment(ctx.Request().Context(), id, payload, userID)
	if err != nil {
		c.logger.Warn("UpdateEquipment: оборудование не обновлено", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, res, nil, retMsg)
}

func (c *EquipmentController) DeleteEquipment(ctx echo.Context) error {
	id, err := strconv.ParseUint(ctx.Param("id"), 10, 64)
	if err != nil {
		return utils.ErrorResponse(ctx,
			apperrors.NewHttpError(http.StatusBadRequest, "Неверный формат ID оборудования", err,
				map[string]interface{}{"param": ctx.Param("id")}),
			c.logger)
	}

	userID, err := utils.GetUserIDFromCtx(ctx.Request().Context())
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	if err := c.equipmentService.DeleteEquipment(ctx.Request().Context(), id, userID); err != nil {
		c.logger.Warn("DeleteEquipment: оборудование не удалено", zap.Uint64("id", id), zap.Error(err))
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	return utils.Envelope(ctx, struct{}{}, nil, dto.RetMsgOk)
}

func (c *EquipmentController) ExportEquipments(ctx echo.Context) error {
	filter := utils.ParseListFilter(ctx.Request().URL.Query(), equipmentFilterFields...)

	f, err := c.exportService.ExportEquipments(ctx.Request().Context(), filter)
	if err != nil {
		return utils.ErrorResponse(ctx, err, c.logger)
	}

	fileName := fmt.Sprintf("equipment_%s.xlsx", time.Now().Format("2006-01-02"))
	ctx.Response().Header().Set(echo.HeaderContentType, "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	ctx.Response().Header().Set("Content-Disposition", "attachment; filename="+fileName)
	ctx.Response().WriteHeader(http.StatusOK)
	return f.Write(ctx.Response().Writer)
}
