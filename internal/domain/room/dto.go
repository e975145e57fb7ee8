package room

// UpsertRoomRequest is the admin payload for creating or editing a room.
type UpsertRoomRequest struct {
	Name            string `json:"nome" validate:"required,max=128"`
	Capacity        int    `json:"capacidade" validate:"required,gt=0"`
	Floor           string `json:"andar"`
	Location        string `json:"localizacao"`
	Projector       bool   `json:"projetor"`
	TV              bool   `json:"tv"`
	Whiteboard      bool   `json:"quadroBranco"`
	Videoconference bool   `json:"videoconferencia"`
	Computer        bool   `json:"computador"`
	Coffee          bool   `json:"cafe"`
	Active          *bool  `json:"ativa"`
}

func (req UpsertRoomRequest) apply(r *Room) {
	r.Name = req.Name
	r.Capacity = req.Capacity
	r.Floor = req.Floor
	r.Location = req.Location
	r.Projector = req.Projector
	r.TV = req.TV
	r.Whiteboard = req.Whiteboard
	r.Videoconference = req.Videoconference
	r.Computer = req.Computer
	r.Coffee = req.Coffee
	if req.Active != nil {
		r.Active = *req.Active
	}
}
