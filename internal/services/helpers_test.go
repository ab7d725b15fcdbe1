package services

// Фейковые репозитории в памяти для юнит-тестов сервисного слоя.
// Параметр q игнорируется: фейкам транзакции не нужны.

import (
	"context"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"

	"equipment-system/internal/entities"
	"equipment-system/internal/repositories"
	"equipment-system/pkg/customvalidator"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/types"
)

type fakeTxManager struct{}

func (m *fakeTxManager) RunInTransaction(ctx context.Context, fn func(tx pgx.Tx) error) error {
	return fn(nil)
}

type fakeEquipmentTypeRepository struct {
	items  map[uint64]entities.EquipmentType
	nextID uint64
}

func newFakeEquipmentTypeRepository() *fakeEquipmentTypeRepository {
	return &fakeEquipmentTypeRepository{items: make(map[uint64]entities.EquipmentType), nextID: 1}
}

func (r *fakeEquipmentTypeRepository) add(name, mask string) entities.EquipmentType {
	et := entities.EquipmentType{ID: r.nextID, Name: name, SerialNumberMask: mask}
	r.items[et.ID] = et
	r.nextID++
	return et
}

func (r *fakeEquipmentTypeRepository) GetEquipmentTypes(ctx context.Context, filter types.ListFilter) ([]entities.EquipmentType, uint64, error) {
	result := make([]entities.EquipmentType, 0, len(r.items))
	for _, et := range r.items {
		result = append(result, et)
	}
	return result, uint64(len(result)), nil
}

func (r *fakeEquipmentTypeRepository) FindEquipmentType(ctx context.Context, q repositories.Querier, id uint64) (*entities.EquipmentType, error) {
	et, ok := r.items[id]
	if !ok {
		return nil, apperrors.ErrNotFound
	}
	return &et, nil
}

func (r *fakeEquipmentTypeRepository) FindByNameInsensitive(ctx context.Context, q repositories.Querier, name string, excludeID uint64) (*entities.EquipmentType, error) {
	for _, et := range r.items {
		if et.ID != excludeID && strings.EqualFold(et.Name, name) {
			found := et
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeEquipmentTypeRepository) CreateEquipmentType(ctx context.Context, q repositories.Querier, et entities.EquipmentType) (*entities.EquipmentType, error) {
	et.ID = r.nextID
	r.items[et.ID] = et
	r.nextID++
	return &et, nil
}

func (r *fakeEquipmentTypeRepository) UpdateEquipmentType(ctx context.Context, q repositories.Querier, et entities.EquipmentType) error {
	if _, ok := r.items[et.ID]; !ok {
		return apperrors.ErrNotFound
	}
	r.items[et.ID] = et
	return nil
}

type fakeEquipmentRepository struct {
	items  map[uint64]entities.Equipment
	nextID uint64
}

func newFakeEquipmentRepository() *fakeEquipmentRepository {
	return &fakeEquipmentRepository{items: make(map[uint64]entities.Equipment), nextID: 1}
}

func (r *fakeEquipmentRepository) add(e entities.Equipment) entities.Equipment {
	e.ID = r.nextID
	r.items[e.ID] = e
	r.nextID++
	return e
}

func (r *fakeEquipmentRepository) GetEquipments(ctx context.Context, filter types.ListFilter) ([]entities.Equipment, uint64, error) {
	result := make([]entities.Equipment, 0, len(r.items))
	for _, e := range r.items {
		if !e.IsArchived {
			result = append(result, e)
		}
	}
	return result, uint64(len(result)), nil
}

func (r *fakeEquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	e, ok := r.items[id]
	if !ok || e.IsArchived {
		return nil, apperrors.ErrNotFound
	}
	return &e, nil
}

func (r *fakeEquipmentRepository) FindConflicting(ctx context.Context, q repositories.Querier, equipmentTypeID uint64, serialNumber string, excludeID uint64) (*entities.Equipment, error) {
	// Архивные записи тоже участвуют в проверке уникальности
	for _, e := range r.items {
		if e.ID != excludeID && e.EquipmentTypeID == equipmentTypeID && e.SerialNumber == serialNumber {
			found := e
			return &found, nil
		}
	}
	return nil, nil
}

func (r *fakeEquipmentRepository) CreateEquipment(ctx context.Context, q repositories.Querier, e entities.Equipment) (*entities.Equipment, error) {
	e.ID = r.nextID
	r.items[e.ID] = e
	r.nextID++
	return &e, nil
}

func (r *fakeEquipmentRepository) UpdateEquipment(ctx context.Context, q repositories.Querier, e entities.Equipment) error {
	existing, ok := r.items[e.ID]
	if !ok || existing.IsArchived {
		return apperrors.ErrNotFound
	}
	r.items[e.ID] = e
	return nil
}

func (r *fakeEquipmentRepository) ArchiveEquipment(ctx context.Context, id uint64, updatedBy uint64) error {
	e, ok := r.items[id]
	if !ok || e.IsArchived {
		return apperrors.ErrNotFound
	}
	e.IsArchived = true
	r.items[id] = e
	return nil
}

func listAll() types.ListFilter {
	return types.ListFilter{Page: 1, Limit: 100}
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	if err := customvalidator.RegisterCustomValidations(v); err != nil {
		panic(err)
	}
	return v
}

func newTestLogger() *zap.Logger {
	return zap.NewNop()
}
