package services

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-system/internal/dto"
	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/types"
)

type EquipmentTypeServiceInterface interface {
	GetEquipmentTypes(ctx context.Context, filter types.ListFilter) ([]dto.EquipmentTypeDTO, uint64, error)
	CreateEquipmentType(ctx context.Context, payload dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error)
	UpdateEquipmentType(ctx context.Context, id uint64, payload dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, string, error)
}

type EquipmentTypeService struct {
	equipmentTypeRepository repositories.EquipmentTypeRepositoryInterface
	txManager               repositories.TxManagerInterface
	logger                  *zap.Logger
}

func NewEquipmentTypeService(
	equipmentTypeRepository repositories.EquipmentTypeRepositoryInterface,
	txManager repositories.TxManagerInterface,
	logger *zap.Logger,
) EquipmentTypeServiceInterface {
	return &EquipmentTypeService{
		equipmentTypeRepository: equipmentTypeRepository,
		txManager:               txManager,
		logger:                  logger,
	}
}

func equipmentTypeToDTO(et *entities.EquipmentType) *dto.EquipmentTypeDTO {
	return &dto.EquipmentTypeDTO{
		ID:               et.ID,
		Name:             et.Name,
		SerialNumberMask: et.SerialNumberMask,
	}
}

func (s *EquipmentTypeService) GetEquipmentTypes(ctx context.Context, filter types.ListFilter) ([]dto.EquipmentTypeDTO, uint64, error) {
	equipmentTypes, total, err := s.equipmentTypeRepository.GetEquipmentTypes(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	result := make([]dto.EquipmentTypeDTO, 0, len(equipmentTypes))
	for i := range equipmentTypes {
		result = append(result, *equipmentTypeToDTO(&equipmentTypes[i]))
	}
	return result, total, nil
}

// validateTypeName: имя уникально без учёта регистра; excludeID исключает
// собственную запись при изменении.
func (s *EquipmentTypeService) validateTypeName(ctx context.Context, q repositories.Querier, name string, excludeID uint64) error {
	conflict, err := s.equipmentTypeRepository.FindByNameInsensitive(ctx, q, name, excludeID)
	if err != nil {
		return err
	}
	if conflict != nil {
		return apperrors.NewInvalidInputError(
			"Equipment type with name='%s' is already exist (id=%d)", name, conflict.ID)
	}
	return nil
}

func (s *EquipmentTypeService) CreateEquipmentType(ctx context.Context, payload dto.CreateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, error) {
	var created *entities.EquipmentType

	err := s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if err := s.validateTypeName(ctx, tx, payload.Name, 0); err != nil {
			return err
		}

		var err error
		created, err = s.equipmentTypeRepository.CreateEquipmentType(ctx, tx, entities.EquipmentType{
			Name:             payload.Name,
			SerialNumberMask: payload.SerialNumberMask,
		})
		return err
	})
	if err != nil {
		// Гонку параллельных созданий ловит ограничение в БД
		if repositories.IsUniqueViolation(err, repositories.EquipmentTypeNameConstraint) {
			return nil, s.nameConflictError(ctx, payload.Name)
		}
		s.logger.Error("Ошибка при создании типа оборудования", zap.Error(err))
		return nil, err
	}

	s.logger.Info("Тип оборудования создан",
		zap.Uint64("id", created.ID), zap.String("name", created.Name))
	return equipmentTypeToDTO(created), nil
}

func (s *EquipmentTypeService) UpdateEquipmentType(ctx context.Context, id uint64, payload dto.UpdateEquipmentTypeDTO) (*dto.EquipmentTypeDTO, string, error) {
	instance, err := s.equipmentTypeRepository.FindEquipmentType(ctx, nil, id)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, "", apperrors.NewHttpError(http.StatusNotFound,
				fmt.Sprintf("Equipment type with id='%d' was not found", id), nil, nil)
		}
		return nil, "", err
	}

	if payload.Empty() {
		return equipmentTypeToDTO(instance), dto.RetMsgNoChanges, nil
	}

	merged := *instance
	if payload.Name != nil {
		merged.Name = *payload.Name
	}
	if payload.SerialNumberMask != nil {
		merged.SerialNumberMask = *payload.SerialNumberMask
	}

	err = s.txManager.RunInTransaction(ctx, func(tx pgx.Tx) error {
		if payload.Name != nil {
			if err := s.validateTypeName(ctx, tx, merged.Name, id); err != nil {
				return err
			}
		}
		return s.equipmentTypeRepository.UpdateEquipmentType(ctx, tx, merged)
	})
	if err != nil {
		if repositories.IsUniqueViolation(err, repositories.EquipmentTypeNameConstraint) {
			return nil, "", s.nameConflictError(ctx, merged.Name)
		}
		s.logger.Error("Ошибка при изменении типа оборудования", zap.Uint64("id", id), zap.Error(err))
		return nil, "", err
	}

	return equipmentTypeToDTO(&merged), dto.RetMsgOk, nil
}

// nameConflictError перечитывает конфликтующую запись вне транзакции,
// чтобы в тексте ошибки был её id.
func (s *EquipmentTypeService) nameConflictError(ctx context.Context, name string) error {
	conflict, err := s.equipmentTypeRepository.FindByNameInsensitive(ctx, nil, name, 0)
	if err == nil && conflict != nil {
		return apperrors.NewInvalidInputError(
			"Equipment type with name='%s' is already exist (id=%d)", name, conflict.ID)
	}
	return apperrors.NewInvalidInputError("Equipment type with name='%s' is already exist", name)
}
