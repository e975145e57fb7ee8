package room

import "time"

// Room is a bookable meeting room. Rooms are never deleted; they are
// deactivated through Active.
type Room struct {
	ID              int64     `json:"id" gorm:"primaryKey"`
	Name            string    `json:"nome" gorm:"size:128;uniqueIndex;not null"`
	Capacity        int       `json:"capacidade" gorm:"not null"`
	Floor           string    `json:"andar,omitempty" gorm:"size:64"`
	Location        string    `json:"localizacao,omitempty" gorm:"size:255"`
	Projector       bool      `json:"projetor"`
	TV              bool      `json:"tv"`
	Whiteboard      bool      `json:"quadroBranco"`
	Videoconference bool      `json:"videoconferencia"`
	Computer        bool      `json:"computador"`
	Coffee          bool      `json:"cafe"`
	Active          bool      `json:"ativa" gorm:"not null;index"`
	CreatedAt       time.Time `json:"criadoEm"`
	UpdatedAt       time.Time `json:"atualizadoEm"`
}

func (Room) TableName() string { return "salas" }

// Resources lists the equipment tags the room offers.
func (r *Room) Resources() []string {
	out := make([]string, 0, 6)
	if r.Projector {
		out = append(out, "projetor")
	}
	if r.TV {
		out = append(out, "tv")
	}
	if r.Whiteboard {
		out = append(out, "quadroBranco")
	}
	if r.Videoconference {
		out = append(out, "videoconferencia")
	}
	if r.Computer {
		out = append(out, "computador")
	}
	if r.Coffee {
		out = append(out, "cafe")
	}
	return out
}
