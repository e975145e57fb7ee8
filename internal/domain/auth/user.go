package auth

import "time"

type UserRole string

const (
	RoleEmployee UserRole = "colaborador"
	RoleManager  UserRole = "gestor"
	RoleAdmin    UserRole = "admin"
)

// Sectors known to the portal. Sector values are free text in storage; this
// list only feeds validation of new accounts.
var Sectors = []string{"TEI", "RH", "Financeiro", "Comercial", "Operacoes", "Juridico", "Marketing", "Diretoria"}

type User struct {
	ID           int64     `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:255;uniqueIndex;not null"`
	PasswordHash string    `json:"-" gorm:"not null"`
	Name         string    `json:"nome" gorm:"size:255;not null"`
	Sector       string    `json:"setor" gorm:"size:64;index"`
	Role         UserRole  `json:"role" gorm:"size:32;not null;default:colaborador"`
	Position     string    `json:"cargo,omitempty" gorm:"size:128"`
	Active       bool      `json:"ativo" gorm:"not null"`
	CreatedAt    time.Time `json:"criadoEm"`
	UpdatedAt    time.Time `json:"atualizadoEm"`
}

func (User) TableName() string { return "users" }

// IsPrivileged reports whether the user may act on records owned by others.
func (u *User) IsPrivileged() bool {
	return u.Role == RoleAdmin || u.Role == RoleManager
}
