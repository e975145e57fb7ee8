package auth

import "time"

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type LoginResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	User      *User     `json:"user"`
}

type CreateUserRequest struct {
	Email    string   `json:"email" validate:"required,email"`
	Password string   `json:"password" validate:"required,min=8"`
	Name     string   `json:"nome" validate:"required"`
	Sector   string   `json:"setor" validate:"required"`
	Role     UserRole `json:"role" validate:"omitempty,oneof=colaborador gestor admin"`
	Position string   `json:"cargo"`
}
