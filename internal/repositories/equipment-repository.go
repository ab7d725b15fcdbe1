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
	equipmentTable      = "equipments"
	equipmentJoinFields = "e.id, e.equipment_type_id, et.name, e.serial_number, e.description, e.is_archived, e.created_by, e.updated_by, e.created_at, e.updated_at"
)

// Ограничение уникальности пары (тип, серийный номер) в БД (см. миграции).
const EquipmentIdentityConstraint = "equ__type_serial_number__unq"

type EquipmentRepositoryInterface interface {
	GetEquipments(ctx context.Context, filter types.ListFilter) ([]entities.Equipment, uint64, error)
	FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error)
	FindConflicting(ctx context.Context, q Querier, equipmentTypeID uint64, serialNumber string, excludeID uint64) (*entities.Equipment, error)
	CreateEquipment(ctx context.Context, q Querier, e entities.Equipment) (*entities.Equipment, error)
	UpdateEquipment(ctx context.Context, q Querier, e entities.Equipment) error
	ArchiveEquipment(ctx context.Context, id uint64, updatedBy uint64) error
}

type EquipmentRepository struct {
	storage *pgxpool.Pool
}

func NewEquipmentRepository(storage *pgxpool.Pool) EquipmentRepositoryInterface {
	return &EquipmentRepository{storage: storage}
}

func (r *EquipmentRepository) q(q Querier) Querier {
	if q == nil {
		return r.storage
	}
	return q
}

func equipmentListConditions(builder sq.SelectBuilder, filter types.ListFilter) sq.SelectBuilder {
	// Архивные записи в выборку не попадают
	builder = builder.Where(sq.Eq{"e.is_archived": false})

	if filter.Q != "" {
		pattern := fmt.Sprintf("%%%s%%", filter.Q)
		builder = builder.Where(sq.Or{
			sq.Expr("et.name ILIKE ?", pattern),
			sq.Expr("e.serial_number ILIKE ?", pattern),
			sq.Expr("e.description ILIKE ?", pattern),
		})
	}
	if v, ok := filter.Fields["equipment_type_name"]; ok {
		builder = builder.Where(sq.Expr("et.name ILIKE ?", fmt.Sprintf("%%%s%%", v)))
	}
	if v, ok := filter.Fields["serial_number"]; ok {
		builder = builder.Where(sq.Expr("e.serial_number ILIKE ?", fmt.Sprintf("%%%s%%", v)))
	}
	if v, ok := filter.Fields["description"]; ok {
		builder = builder.Where(sq.Expr("e.description ILIKE ?", fmt.Sprintf("%%%s%%", v)))
	}
	return builder
}

func equipmentJoin(builder sq.SelectBuilder) sq.SelectBuilder {
	return builder.
		From(equipmentTable + " e").
		Join("equipment_types et ON et.id = e.equipment_type_id")
}

func scanEquipment(row pgx.Row) (*entities.Equipment, error) {
	var e entities.Equipment
	err := row.Scan(
		&e.ID,
		&e.EquipmentTypeID,
		&e.EquipmentTypeName,
		&e.SerialNumber,
		&e.Description,
		&e.IsArchived,
		&e.CreatedBy,
		&e.UpdatedBy,
		&e.CreatedAt,
		&e.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &e, nil
}

func (r *EquipmentRepository) GetEquipments(ctx context.Context, filter types.ListFilter) ([]entities.Equipment, uint64, error) {
	builder := equipmentJoin(sq.Select(equipmentJoinFields)).
		PlaceholderFormat(sq.Dollar).
		OrderBy("e.equipment_type_id", "e.serial_number")
	builder = equipmentListConditions(builder, filter)
	// Limit <= 0 — выборка без пагинации (используется экспортом)
	if filter.Limit > 0 {
		builder = builder.Limit(uint64(filter.Limit)).Offset(uint64(filter.Offset()))
	}

	query, args, err := builder.ToSql()
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.storage.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	equipments := make([]entities.Equipment, 0)
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, 0, err
		}
		equipments = append(equipments, *e)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}

	countBuilder := equipmentListConditions(
		equipmentJoin(sq.Select("COUNT(*)")).PlaceholderFormat(sq.Dollar),
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

	return equipments, total, nil
}

// FindEquipment возвращает неархивную запись; архивные для единичных
// операций невидимы, как и в списке.
func (r *EquipmentRepository) FindEquipment(ctx context.Context, id uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
			JOIN equipment_types et ON et.id = e.equipment_type_id
		WHERE e.id = $1 AND NOT e.is_archived
	`, equipmentJoinFields, equipmentTable)

	e, err := scanEquipment(r.storage.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrNotFound
		}
		return nil, err
	}

	return e, nil
}

// FindConflicting ищет запись с той же парой (тип, серийный номер),
// включая архивные; excludeID исключает собственную запись при изменении.
// Отсутствие конфликта — не ошибка: возвращается (nil, nil).
func (r *EquipmentRepository) FindConflicting(ctx context.Context, q Querier, equipmentTypeID uint64, serialNumber string, excludeID uint64) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s e
			JOIN equipment_types et ON et.id = e.equipment_type_id
		WHERE e.equipment_type_id = $1 AND e.serial_number = $2 AND e.id <> $3
		ORDER BY e.id
		LIMIT 1
	`, equipmentJoinFields, equipmentTable)

	e, err := scanEquipment(r.q(q).QueryRow(ctx, query, equipmentTypeID, serialNumber, excludeID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, err
	}

	return e, nil
}

func (r *EquipmentRepository) CreateEquipment(ctx context.Context, q Querier, e entities.Equipment) (*entities.Equipment, error) {
	query := fmt.Sprintf(`
        INSERT INTO %s (equipment_type_id, serial_number, description, created_by, updated_by)
        VALUES ($1, $2, $3, $4, $5)
        RETURNING id, created_at, updated_at
    `, equipmentTable)

	err := r.q(q).QueryRow(ctx, query,
		e.EquipmentTypeID,
		e.SerialNumber,
		e.Description,
		e.CreatedBy,
		e.UpdatedBy,
	).Scan(&e.ID, &e.CreatedAt, &e.UpdatedAt)
	if err != nil {
		return nil, err
	}

	return &e, nil
}

func (r *EquipmentRepository) UpdateEquipment(ctx context.Context, q Querier, e entities.Equipment) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET equipment_type_id = $1, serial_number = $2, description = $3, updated_by = $4, updated_at = CURRENT_TIMESTAMP
        WHERE id = $5 AND NOT is_archived
    `, equipmentTable)

	result, err := r.q(q).Exec(ctx, query,
		e.EquipmentTypeID,
		e.SerialNumber,
		e.Description,
		e.UpdatedBy,
		e.ID,
	)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}

// ArchiveEquipment — "мягкое" удаление: строка остаётся, поднимается флаг.
func (r *EquipmentRepository) ArchiveEquipment(ctx context.Context, id uint64, updatedBy uint64) error {
	query := fmt.Sprintf(`
        UPDATE %s
        SET is_archived = TRUE, updated_by = $1, updated_at = CURRENT_TIMESTAMP
        WHERE id = $2 AND NOT is_archived
    `, equipmentTable)

	result, err := r.storage.Exec(ctx, query, updatedBy, id)
	if err != nil {
		return err
	}

	if result.RowsAffected() == 0 {
		return apperrors.ErrNotFound
	}
	return nil
}
