package dto

type CreateEquipmentTypeDTO struct {
	Name             string `json:"name" validate:"required"`
	SerialNumberMask string `json:"serial_number_mask" validate:"required,serialmask"`
}

type UpdateEquipmentTypeDTO struct {
	Name             *string `json:"name,omitempty" validate:"omitempty,min=1"`
	SerialNumberMask *string `json:"serial_number_mask,omitempty" validate:"omitempty,serialmask"`
}

// Empty — в запросе нет ни одного изменяемого поля.
func (d UpdateEquipmentTypeDTO) Empty() bool {
	return d.Name == nil && d.SerialNumberMask == nil
}

type EquipmentTypeDTO struct {
	ID               uint64 `json:"id"`
	Name             string `json:"name"`
	SerialNumberMask string `json:"serial_number_mask"`
}
