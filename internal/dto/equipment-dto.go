package dto

import "github.com/aarondl/null/v8"

type CreateEquipmentDTO struct {
	EquipmentTypeID uint64      `json:"equipment_type" validate:"required,gt=0"`
	SerialNumber    string      `json:"serial_number" validate:"required"`
	Description     null.String `json:"description"`
}

type UpdateEquipmentDTO struct {
	EquipmentTypeID *uint64      `json:"equipment_type,omitempty" validate:"omitempty,gt=0"`
	SerialNumber    *string      `json:"serial_number,omitempty" validate:"omitempty,min=1"`
	Description     *null.String `json:"description,omitempty"`
}

// Empty — в запросе нет ни одного изменяемого поля.
func (d UpdateEquipmentDTO) Empty() bool {
	return d.EquipmentTypeID == nil && d.SerialNumber == nil && d.Description == nil
}

// EquipmentDTO — стандартная схема оборудования во всех ответах.
type EquipmentDTO struct {
	ID                uint64      `json:"id"`
	EquipmentTypeID   uint64      `json:"equipment_type"`
	EquipmentTypeName string      `json:"equipment_type_name"`
	SerialNumber      string      `json:"serial_number"`
	Description       null.String `json:"description"`
}
