package reservation

import "time"

type CreateRequest struct {
	RoomID      int64     `json:"salaId" validate:"required,gt=0"`
	Start       time.Time `json:"dataInicio" validate:"required"`
	End         time.Time `json:"dataFim" validate:"required"`
	Title       string    `json:"titulo" validate:"required,max=200"`
	Description *string   `json:"descricao"`
	Headcount   *int      `json:"participantes" validate:"omitempty,gt=0"`
	Resources   []string  `json:"recursos" validate:"omitempty,dive,required,max=64"`
}

// UpdateRequest is a partial update; nil fields are left untouched.
// Status only accepts "Cancelada", which turns the call into a cancel and
// may only be combined with motivoCancelamento.
type UpdateRequest struct {
	Start              *time.Time `json:"dataInicio"`
	End                *time.Time `json:"dataFim"`
	Title              *string    `json:"titulo" validate:"omitempty,max=200"`
	Description        *string    `json:"descricao"`
	Headcount          *int       `json:"participantes" validate:"omitempty,gt=0"`
	Resources          *[]string  `json:"recursos"`
	Status             *Status    `json:"status"`
	CancellationReason *string    `json:"motivoCancelamento" validate:"omitempty,max=500"`
}

func (r UpdateRequest) touchesInterval() bool {
	return r.Start != nil || r.End != nil
}

func (r UpdateRequest) editsFields() bool {
	return r.touchesInterval() || r.Title != nil || r.Description != nil || r.Headcount != nil || r.Resources != nil
}

func (r UpdateRequest) isCancel() bool {
	return r.Status != nil && *r.Status == StatusCancelled
}
