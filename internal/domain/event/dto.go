package event

import "time"

type CreateRequest struct {
	Title        string     `json:"titulo" validate:"required,max=200"`
	Description  *string    `json:"descricao"`
	Start        time.Time  `json:"dataInicio" validate:"required"`
	End          time.Time  `json:"dataFim" validate:"required"`
	AllDay       bool       `json:"diaInteiro"`
	Location     *string    `json:"local" validate:"omitempty,max=255"`
	Type         Type       `json:"tipo" validate:"omitempty,oneof=reuniao treinamento social feriado outro"`
	Visibility   Visibility `json:"visibilidade" validate:"omitempty,oneof=publico setor privado"`
	Sector       *string    `json:"setor" validate:"omitempty,max=64"`
	Participants []int64    `json:"participantes" validate:"omitempty,dive,gt=0"`
}

type UpdateRequest struct {
	Title        *string     `json:"titulo" validate:"omitempty,max=200"`
	Description  *string     `json:"descricao"`
	Start        *time.Time  `json:"dataInicio"`
	End          *time.Time  `json:"dataFim"`
	AllDay       *bool       `json:"diaInteiro"`
	Location     *string     `json:"local" validate:"omitempty,max=255"`
	Type         *Type       `json:"tipo" validate:"omitempty,oneof=reuniao treinamento social feriado outro"`
	Visibility   *Visibility `json:"visibilidade" validate:"omitempty,oneof=publico setor privado"`
	Sector       *string     `json:"setor" validate:"omitempty,max=64"`
	Participants *[]int64    `json:"participantes"`
}

// Filter selects events intersecting [From, To).
type Filter struct {
	From *time.Time
	To   *time.Time
	Type Type
}
