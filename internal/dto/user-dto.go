package dto

type RegisterUserDTO struct {
	Username  string `json:"username" validate:"required,min=1,max=150"`
	FirstName string `json:"first_name" validate:"omitempty,max=150"`
	LastName  string `json:"last_name" validate:"omitempty,max=150"`
	Email     string `json:"email" validate:"omitempty,email"`
	Password  string `json:"password" validate:"required,min=1"`
	Password2 string `json:"password2" validate:"required"`
}

type UserDTO struct {
	ID        uint64 `json:"id"`
	Username  string `json:"username"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
}

// RegisterResultDTO — профиль нового пользователя вместе с парой токенов.
// Токены выдаются явным шагом сервиса регистрации.
type RegisterResultDTO struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}
