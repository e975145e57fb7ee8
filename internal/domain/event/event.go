package event

import (
	"time"

	"portal/internal/domain/auth"
)

type Visibility string

const (
	VisibilityPublic  Visibility = "publico"
	VisibilitySector  Visibility = "setor"
	VisibilityPrivate Visibility = "privado"
)

type Type string

const (
	TypeMeeting  Type = "reuniao"
	TypeTraining Type = "treinamento"
	TypeSocial   Type = "social"
	TypeHoliday  Type = "feriado"
	TypeOther    Type = "outro"
)

type Event struct {
	ID           int64      `json:"id" gorm:"primaryKey"`
	Title        string     `json:"titulo" gorm:"size:200;not null"`
	Description  *string    `json:"descricao,omitempty" gorm:"type:text"`
	Start        time.Time  `json:"dataInicio" gorm:"column:start_time;not null;index"`
	End          time.Time  `json:"dataFim" gorm:"column:end_time;not null;index"`
	AllDay       bool       `json:"diaInteiro"`
	Location     *string    `json:"local,omitempty" gorm:"size:255"`
	Type         Type       `json:"tipo" gorm:"size:32;not null;index"`
	Visibility   Visibility `json:"visibilidade" gorm:"size:16;not null"`
	Sector       *string    `json:"setor,omitempty" gorm:"size:64;index"`
	CreatorID    int64      `json:"criadorId" gorm:"not null;index"`
	CreatorName  string     `json:"criadorNome" gorm:"size:255"`
	Participants []int64    `json:"participantes" gorm:"serializer:json;type:text"`
	CreatedAt    time.Time  `json:"criadoEm"`
	UpdatedAt    time.Time  `json:"atualizadoEm"`
}

func (Event) TableName() string { return "eventos" }

// VisibleTo applies the calendar visibility rules for a viewer.
func (e *Event) VisibleTo(viewer auth.Actor) bool {
	if viewer.IsAdmin() || e.CreatorID == viewer.UserID {
		return true
	}
	switch e.Visibility {
	case VisibilityPublic:
		return true
	case VisibilitySector:
		return e.Sector != nil && *e.Sector == viewer.Sector
	case VisibilityPrivate:
		for _, id := range e.Participants {
			if id == viewer.UserID {
				return true
			}
		}
	}
	return false
}

// span normalizes an interval to UTC. All-day events cover whole days.
func span(start, end time.Time, allDay bool) (time.Time, time.Time) {
	start, end = start.UTC(), end.UTC()
	if !allDay {
		return start.Truncate(time.Second), end.Truncate(time.Second)
	}
	s := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, time.UTC)
	e := time.Date(end.Year(), end.Month(), end.Day(), 0, 0, 0, 0, time.UTC).Add(24 * time.Hour)
	return s, e
}
