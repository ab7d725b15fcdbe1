package entities

import "equipment-system/pkg/types"

type User struct {
	ID        uint64 `json:"id" db:"id"`
	Username  string `json:"username" db:"username"`
	FirstName string `json:"first_name" db:"first_name"`
	LastName  string `json:"last_name" db:"last_name"`
	Email     string `json:"email" db:"email"`

	Password string `json:"-" db:"password"`

	IsStaff bool `json:"is_staff" db:"is_staff"`

	types.BaseEntity
}
