package reservation

import "time"

type Status string

// StatusPending is accepted as a filter value but nothing produces it yet.
const (
	StatusConfirmed Status = "Confirmada"
	StatusPending   Status = "Pendente"
	StatusCancelled Status = "Cancelada"
)

func (s Status) Valid() bool {
	switch s {
	case StatusConfirmed, StatusPending, StatusCancelled:
		return true
	}
	return false
}

// Reservation books one room for the half-open interval [StartTime, EndTime).
// Room and requester fields are copied at creation and never resynced.
type Reservation struct {
	ID                 int64      `json:"id" gorm:"primaryKey"`
	RoomID             int64      `json:"salaId" gorm:"not null;index:idx_reservas_room_window,priority:1"`
	RoomName           string     `json:"salaNome" gorm:"size:128"`
	UserID             int64      `json:"usuarioId" gorm:"not null;index"`
	UserName           string     `json:"usuarioNome" gorm:"size:255"`
	UserSector         string     `json:"usuarioSetor" gorm:"size:64"`
	StartTime          time.Time  `json:"dataInicio" gorm:"not null;index:idx_reservas_room_window,priority:2;index:idx_reservas_start"`
	EndTime            time.Time  `json:"dataFim" gorm:"not null;index:idx_reservas_room_window,priority:3"`
	Title              string     `json:"titulo" gorm:"size:200;not null"`
	Description        *string    `json:"descricao,omitempty"`
	Headcount          *int       `json:"participantes,omitempty"`
	Resources          []string   `json:"recursos" gorm:"serializer:json;type:text"`
	Status             Status     `json:"status" gorm:"size:16;not null;index"`
	CreatedAt          time.Time  `json:"criadoEm"`
	UpdatedAt          time.Time  `json:"atualizadoEm"`
	CancelledAt        *time.Time `json:"dataCancelamento,omitempty"`
	CancellationReason *string    `json:"motivoCancelamento,omitempty"`
}

func (Reservation) TableName() string { return "reservas" }

// Overlaps reports whether [s1,e1) and [s2,e2) intersect. Touching endpoints do not.
func Overlaps(s1, e1, s2, e2 time.Time) bool {
	return s1.Before(e2) && s2.Before(e1)
}

// Slot is a busy interval in a room's agenda.
type Slot struct {
	ReservationID int64     `json:"reservaId"`
	Start         time.Time `json:"inicio"`
	End           time.Time `json:"fim"`
	Title         string    `json:"titulo"`
	UserName      string    `json:"usuarioNome"`
}

func normalize(t time.Time) time.Time {
	return t.UTC().Truncate(time.Second)
}
