package repositories

import (
	"context"
	"errors"
	"fmt"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"equipment-system/internal/entities"
	apperrors "equipment-system/pkg/errors"
	"equipment-system/pkg/types"
)

const (
	equipmentTypeTable  = "equipment_types"
	equipmentTypeFields = "id, name, serial_number_mask, created_at, updated_at"
)

// Ограничение уникальности имени типа в БД (см. миграции).
const EquipmentTypeNameConstraint = "equ_typ__name__unq"

type EquipmentTypeRepositoryInterface interface {
	GetEquipmentTypes(ctx context.Context, filter types.ListFilter) ([]entities.EquipmentType, uint64, error)
	FindEquipmentType(ctx context.Context, q Querier, id uint64) (*entities.EquipmentType, error)
	FindByNameInsensitive(ctx context.Context, q Querier, name string, excludeID uint64) (*entities.EquipmentType, error)
	CreateEquipmentType(ctx context.Context, q Querier, et entities.EquipmentType) (*entities.EquipmentType, error)
	UpdateEquipmentType(ctx context.Context, q Querier, et entities.EquipmentType) error
}

type EquipmentTypeRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentTypeRepository(storage *pgxpool.Pool) EquipmentTypeRepositoryInterface {
	return &EquipmentTypeRepository{storage: storage}
}

// q подставляет пул, если метод вызван вне транзакции.
func (r *EquipmentTypeRepository) q(q Querier) Querier {
	if q == nil {
		return r.storage
	}
	return q
}

func typeListConditions(builder sq.SelectBuilder, filter types.ListFilter) sq.SelectBuilder {
	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		builder = builder.Where(sq.Or{
			sq.Expr("name ILIKE ?", pattern),
			sq.Expr("serial_number_mask ILIKE ?", pattern),
		})
	}
	if v, ok := filter.Fields["name"]; ok {
		builder = builder.Where(sq.Expr("name ILIKE ?", fmt.Sprintf("%%%s%%", v)))
	}
	if v, ok := filter.Fields["serial_number_mask"]; ok {
		builder = builder.Where(sq.Expr("serial_number_mask ILIKE ?", fmt.Sprintf("%%%s%%", v)))
	}
	return builder
}

func (r *EquipmentTypeRepository) GetEquipmentTypes(ctx context.Context, filter types.ListFilter) ([]entities.EquipmentType, uint64, error) {
	builder := sq.Select(equipmentTypeFields).
		From(equipmentTypeTable).
		PlaceholderFormat(sq.Dollar).
		OrderBy("id")
	builder = typeListConditions(builder, filter)
	builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset()))

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	equipmentTypes := make([]entities.EquipmentType, 0)
	for rows.Next() {
		var et entities.EquipmentType
		if err := rows.Scan(&et.ID, &et.Name, &et.SerialNumberMask, &et.CreatedAt, &et.UpdatedAt); err != nil {
			return nil, 0, err
		}
		equipmentTypes = append(equipmentTypes, et)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := typeListConditions(
		sq.Select("COUNT(*)").From(equipmentTypeTable).PlaceholderFormat(sq.Dollar),
		filter,
	)
	countQuery, countArgs, err := countBuilder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	var total uint64
	if err := r.storage.QueryRow(ctx, countQuery, countArgs...).Scan(&total); err != nil {
		return nil, 0, err
	}

	return equipmentTypes, total, nil
}

func (r *EquipmentTypeRepository) FindEquipmentType(ctx context.Context, q Querier, id uint64) (*entities.EquipmentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, equipmentTypeFields, equipmentTypeTable)

	var et entities.EquipmentType
	err := r.q(q).QueryRow(ctx, query, id).Scan(&et.ID, &et.Name, &et.SerialNumberMask, &et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return &et, nil
}

// FindByNameInsensitive ищет тип с таким же именем без учёта регистра,
// исключая excludeID (0 — ничего не исключать). Отсутствие совпадений —
// не ошибка: возвращается (nil, nil).
func (r *EquipmentTypeRepository) FindByNameInsensitive(ctx context.Context, q Querier, name string, excludeID uint64) (*entities.EquipmentType, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE LOWER(name) = LOWER($1) AND id <> $2 ORDER BY id LIMIT 1`,
		equipmentTypeFields, equipmentTypeTable)

	var et entities.EquipmentType
	err := r.q(q).QueryRow(ctx, query, name, excludeID).Scan(&et.ID, &et.Name, &et.SerialNumberMask, &et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return &et, nil
}

func (r *EquipmentTypeRepository) CreateEquipmentType(ctx context.Context, q Querier, et entities.EquipmentType) (*entities.EquipmentType, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (name, serial_number_mask)
        VALUES ($1, $2)
        RETURNING id, created_at, updated_at
    `, equipmentTypeTable)

	err := r.q(q).QueryRow(ctx, query, et.Name, et.SerialNumberMask).
		Scan(&et.ID, &et.CreatedAt, &et.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &et, nil
}

func (r *EquipmentTypeRepository) UpdateEquipmentType(ctx context.Context, q Querier, et entities.EquipmentType) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET name = $1, serial_number_mask = $2, updated_at = CURRENT_TIMESTAMP
        WHERE id = $3
    `, equipmentTypeTable)

	result, err := r.q(q).Exec(ctx, query, et.Name, et.SerialNumberMask, et.ID)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
