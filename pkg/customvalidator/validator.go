package customvalidator

import (
	"github.com/go-playground/validator/v10"

	"equipment-system/pkg/mask"
)

// RegisterCustomValidations регистрирует кастомные правила валидации
// в переданном экземпляре валидатора.
func RegisterCustomValidations(v *validator.Validate) error {
	if err := v.RegisterValidation("serialmask", isSerialNumberMask); err != nil {
		return err
	}
	return nil
}

// isSerialNumberMask: маска состоит только из символов N, A, a, X, Z.
func isSerialNumberMask(fl validator.FieldLevel) bool {
	return mask.ValidCharset(fl.Field().String())
}
