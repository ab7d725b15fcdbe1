package entities

import (
	"github.com/aarondl/null/v8"

	"equipment-system/pkg/types"
)

type Equipment struct {
	ID              uint64      `json:"id" db:"id"`
	EquipmentTypeID uint64      `json:"equipment_type_id" db:"equipment_type_id"`
	SerialNumber    string      `json:"serial_number" db:"serial_number"`
	Description     null.String `json:"description" db:"description"`
	IsArchived      bool        `json:"is_archived" db:"is_archived"`
	CreatedBy       null.Uint64 `json:"created_by" db:"created_by"`
	UpdatedBy       null.Uint64 `json:"updated_by" db:"updated_by"`

	types.BaseEntity

	// Имя типа из JOIN (не колонка таблицы equipments)
	EquipmentTypeName string `json:"-" db:"-"`
}
