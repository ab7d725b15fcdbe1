package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/aarondl/null/v8"
	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/mask"
	"equipment-system/pkg/types"
)

type EquipmentServiceInterface interface {
	GetEquipments(ctx context.Context, filter types.ListFilter) ([]dto.EquipmentDTO, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error)
	CreateEquipments(ctx context.Context, payloads []dto.CreateEquipmentDTO, userID uint64) ([]dto.EquipmentDTO, dto.CreateEquipmentInfoDTO, error)
	UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO, userID uint64) (*dto.EquipmentDTO, string, error)
	DeleteEquipment(ctx context.Context, id uint64, userID uint64) error
}

type EquipmentService struct {
	equipmentRepository     repositories.EquipmentRepositoryInterface
	equipmentTypeRepository repositories.EquipmentTypeRepositoryInterface
	txManager               repositories.TxManagerInterface
	validate                *validator.Validate
	logger                  *zap.Logger
}

func NewEquipmentService(
	equipmentRepository repositories.EquipmentRepositoryInterface,
	equipmentTypeRepository repositories.EquipmentTypeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	validate *validator.Validate,
	logger *zap.Logger,
) EquipmentServiceInterface {
	return &EquipmentService{
		equipmentRepository:     equipmentRepository,
		equipmentTypeRepository: equipmentTypeRepository,
		txManager:               txManager,
		validate:                validate,
		logger:                  logger,
	}
}

func equipmentToDTO(e *entities.Equipment) *dto.EquipmentDTO {
	return &dto.EquipmentDTO{
		ID:                e.ID,
		EquipmentTypeID:   e.EquipmentTypeID,
		EquipmentTypeName: e.EquipmentTypeName,
		SerialNumber:      e.SerialNumber,
		Description:       e.Description,
	}
}

func (s *EquipmentService) GetEquipments(ctx context.Context, filter types.ListFilter) ([]dto.EquipmentDTO, uint64, error) {
	equipments, total, err := s.equipmentRepository.GetEquipments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EquipmentDTO, 0, len(equipments))
	for i := range equipments {
		result = append(result, *equipmentToDTO(&equipments[i]))
	}
	return result, total, nil
}

func (s *EquipmentService) FindEquipment(ctx context.Context, id uint64) (*dto.EquipmentDTO, error) {
	equipment, err := s.equipmentRepository.FindEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewHttpError(http.StatusNotFound, equipmentNotFoundMessage(id), nil, nil)
		}
		return nil, err
	}
	return equipmentToDTO(equipment), nil
}

// validateEquipment — кросс-валидация пары (тип, серийный номер):
// серийный номер по маске типа, затем уникальность пары среди всех записей,
// включая архивные.
func (s *EquipmentService) validateEquipment(ctx context.Context, q repositories.Querier, equipmentTypeID uint64, serialNumber string, excludeID uint64) error {
	equipmentType, err := s.equipmentTypeRepository.FindEquipmentType(ctx, q, equipmentTypeID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewInvalidInputError("Equipment type with id='%d' was not found", equipmentTypeID)
		}
		return err
	}

	if !mask.Compile(equipmentType.SerialNumberMask).Matches(serialNumber) {
		return apperrors.NewInvalidInputError(
			"Serial number '%s' does not match '%s' equipment type mask '%s' where %s",
			serialNumber, equipmentType.Name, equipmentType.SerialNumberMask, mask.Legend)
	}

	conflict, err := s.equipmentRepository.FindConflicting(ctx, q, equipmentTypeID, serialNumber, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return s.identityConflictError(equipmentType.Name, serialNumber, conflict)
	}

	return nil
}

func (s *EquipmentService) identityConflictError(typeName, serialNumber string, conflict *entities.Equipment) error {
	archiveFlag := ""
	if conflict.IsArchived {
		archiveFlag = "-archived"
	}
	return apperrors.NewInvalidInputError(
		"Equipment with type '%s' and serial number '%s' is already exist (id=%d%s)",
		typeName, serialNumber, conflict.ID, archiveFlag)
}

func (s *EquipmentService) createOne(ctx context.Context, payload dto.CreateEquipmentDTO, userID uint64) (*entities.Equipment, error) {
	if err := s.validate.Struct(payload); err != nil {
		return nil, err
	}

	var created *entities.Equipment
	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.validateEquipment(ctx, tx, payload.EquipmentTypeID, payload.SerialNumber, 0); err != nil {
			return err
		}

		var err error
		created, err = s.equipmentRepository.CreateEquipment(ctx, tx, entities.Equipment{
			EquipmentTypeID: payload.EquipmentTypeID,
			SerialNumber:    payload.SerialNumber,
			Description:     payload.Description,
			CreatedBy:       null.Uint64From(userID),
			UpdatedBy:       null.Uint64From(userID),
		})
		return err
	})
	if err != nil {
		if repositories.IsUniqueViolation(err, repositories.EquipmentIdentityConstraint) {
			return nil, s.refreshedIdentityConflict(ctx, payload.EquipmentTypeID, payload.SerialNumber, 0)
		}
		return nil, err
	}

	// Имя типа для схемы ответа
	if equipmentType, typeErr := s.equipmentTypeRepository.FindEquipmentType(ctx, nil, created.EquipmentTypeID); typeErr == nil {
		created.EquipmentTypeName = equipmentType.Name
	}

	return created, nil
}

// CreateEquipments обрабатывает каждую позицию независимо: ошибка одной
// не прерывает остальные, а попадает в список ошибок ответа.
func (s *EquipmentService) CreateEquipments(ctx context.Context, payloads []dto.CreateEquipmentDTO, userID uint64) ([]dto.EquipmentDTO, dto.CreateEquipmentInfoDTO, error) {
	saved := make([]dto.EquipmentDTO, 0, len(payloads))
	failed := make([]dto.CreateEquipmentErrorDTO, 0)

	for i, payload := range payloads {
		created, err := s.createOne(ctx, payload, userID)
		if err != nil {
			if isInternal(err) {
				return nil, dto.CreateEquipmentInfoDTO{}, err
			}
			failed = append(failed, dto.CreateEquipmentErrorDTO{
				Index: i,
				Error: validationMessage(err),
				Data:  payload,
			})
			continue
		}
		saved = append(saved, *equipmentToDTO(created))
	}

	info := dto.CreateEquipmentInfoDTO{
		Count:  len(payloads),
		Saved:  len(saved),
		Failed: len(failed),
		Errors: failed,
	}

	s.logger.Info("Пакетное создание оборудования завершено",
		zap.Int("count", info.Count), zap.Int("saved", info.Saved), zap.Int("failed", info.Failed))
	return saved, info, nil
}

func (s *EquipmentService) UpdateEquipment(ctx context.Context, id uint64, payload dto.UpdateEquipmentDTO, userID uint64) (*dto.EquipmentDTO, string, error) {
	instance, err := s.equipmentRepository.FindEquipment(ctx, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.NewHttpError(http.StatusNotFound, equipmentNotFoundMessage(id), nil, nil)
		}
		return nil, "", err
	}

	if payload.Empty() {
		return equipmentToDTO(instance), dto.RetMsgNoChanges, nil
	}

	merged := *instance
	if payload.EquipmentTypeID != nil {
		merged.EquipmentTypeID = *payload.EquipmentTypeID
	}
	if payload.SerialNumber != nil {
		merged.SerialNumber = *payload.SerialNumber
	}
	if payload.Description != nil {
		merged.Description = *payload.Description
	}
	merged.UpdatedBy = null.Uint64From(userID)

	// Если тип и серийный номер не менялись, кросс-валидация не нужна
	crossCheck := payload.EquipmentTypeID != nil || payload.SerialNumber != nil

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if crossCheck {
			if err := s.validateEquipment(ctx, tx, merged.EquipmentTypeID, merged.SerialNumber, id); err != nil {
				return err
			}
		}
		return s.equipmentRepository.UpdateEquipment(ctx, tx, merged)
	})
	if err != nil {
		if repositories.IsUniqueViolation(err, repositories.EquipmentIdentityConstraint) {
			return nil, "", s.refreshedIdentityConflict(ctx, merged.EquipmentTypeID, merged.SerialNumber, id)
		}
		s.logger.Error("Ошибка при изменении оборудования", zap.Uint64("id", id), zap.Error(err))
		return nil, "", err
	}

	if payload.EquipmentTypeID != nil {
		if equipmentType, typeErr := s.equipmentTypeRepository.FindEquipmentType(ctx, nil, merged.EquipmentTypeID); typeErr == nil {
			merged.EquipmentTypeName = equipmentType.Name
		}
	}

	return equipmentToDTO(&merged), dto.RetMsgOk, nil
}

func (s *EquipmentService) DeleteEquipment(ctx context.Context, id uint64, userID uint64) error {
	if err := s.equipmentRepository.ArchiveEquipment(ctx, id, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return apperrors.NewHttpError(http.StatusNotFound, equipmentNotFoundMessage(id), nil, nil)
		}
		return err
	}

	s.logger.Info("Оборудование перенесено в архив", zap.Uint64("id", id), zap.Uint64("userID", userID))
	return nil
}

// refreshedIdentityConflict перечитывает конфликтующую запись после срыва
// на ограничении БД, чтобы собрать полноценный текст ошибки.
func (s *EquipmentService) refreshedIdentityConflict(ctx context.Context, equipmentTypeID uint64, serialNumber string, excludeID uint64) error {
	typeName := ""
	if equipmentType, err := s.equipmentTypeRepository.FindEquipmentType(ctx, nil, equipmentTypeID); err == nil {
		typeName = equipmentType.Name
	}

	conflict, err := s.equipmentRepository.FindConflicting(ctx, nil, equipmentTypeID, serialNumber, excludeID)
	if err == nil && conflict != nil {
		return s.identityConflictError(typeName, serialNumber, conflict)
	}
	return apperrors.NewInvalidInputError(
		"Equipment with type '%s' and serial number '%s' is already exist", typeName, serialNumber)
}

func equipmentNotFoundMessage(id uint64) string {
	return fmt.Sprintf("Equipment with id='%d' was not found", id)
}

// isInternal отличает инфраструктурные сбои от ошибок валидации:
// первые прерывают пакет, вторые остаются в списке ошибок позиции.
func isInternal(err error) bool {
	var invalidInput *apperrors.InvalidInputError
	var validationErrors validator.ValidationErrors
	return !errors.As(err, &invalidInput) && !errors.As(err, &validationErrors)
}

// validationMessage приводит ошибку позиции к тексту для списка ошибок.
func validationMessage(err error) string {
	var invalidInput *apperrors.InvalidInputError
	if errors.As(err, &invalidInput) {
		return invalidInput.Message
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) {
		var msgs []string
		for _, e := range validationErrors {
			msgs = append(msgs, "Field '"+e.Field()+"' failed '"+e.Tag()+"' validation")
		}
		return strings.Join(msgs, "; ")
	}

	return err.Error()
}
