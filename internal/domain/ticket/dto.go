package ticket

type CreateRequest struct {
	Title       string   `json:"titulo" validate:"required,max=200"`
	Description string   `json:"descricao" validate:"required"`
	Sector      string   `json:"setor" validate:"required,max=64,excludes=-"`
	Category    string   `json:"categoria" validate:"max=64"`
	Priority    Priority `json:"prioridade" validate:"omitempty,oneof=Baixa Media Alta Urgente"`
}

type UpdateRequest struct {
	Title       *string   `json:"titulo" validate:"omitempty,max=200"`
	Description *string   `json:"descricao"`
	Category    *string   `json:"categoria" validate:"omitempty,max=64"`
	Priority    *Priority `json:"prioridade" validate:"omitempty,oneof=Baixa Media Alta Urgente"`
	Status      *Status   `json:"status" validate:"omitempty,oneof=Aberto EmAndamento Resolvido Fechado"`
	AssigneeID  *int64    `json:"responsavelId" validate:"omitempty,gt=0"`
	Resolution  *string   `json:"solucao"`
}

// Filter selects tickets; zero fields are ignored.
type Filter struct {
	Sector      string
	Status      Status
	Priority    Priority
	RequesterID int64
	AssigneeID  int64
}

type Stats struct {
	Total    int64            `json:"total"`
	ByStatus map[Status]int64 `json:"porStatus"`
}
