package entities

import "equipment-system/pkg/types"

type EquipmentType struct {
	ID               uint64 `json:"id" db:"id"`
	Name             string `json:"name" db:"name"`
	SerialNumberMask string `json:"serial_number_mask" db:"serial_number_mask"`

	types.BaseEntity
}
