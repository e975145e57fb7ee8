package evaluation

type CreateRequest struct {
	EvaluateeID int64       `json:"avaliadoId" validate:"required,gt=0"`
	Period      string      `json:"periodo" validate:"required,max=32"`
	Type        string      `json:"tipo" validate:"omitempty,max=64"`
	// Criteria names the criteria to be scored on submit.
	Criteria []string `json:"criterios" validate:"omitempty,dive,required,max=128"`
}

type SubmitRequest struct {
	Criteria []Criterion `json:"criterios" validate:"required,min=1,dive"`
	Comments *string     `json:"comentariosGerais" validate:"omitempty,max=5000"`
}

// Filter selects evaluations. ParticipantID restricts to rows where the user
// is the evaluator or the evaluatee.
type Filter struct {
	EvaluatorID   int64
	EvaluateeID   int64
	ParticipantID int64
	Status        Status
	Period        string
}

type LogFilter struct {
	EvaluationID int64
	EvaluateeID  int64
	Limit        int
}

type SectorAverage struct {
	Sector  string  `json:"setor"`
	Average float64 `json:"media"`
	Total   int64   `json:"total"`
}

type Stats struct {
	Total     int64           `json:"total"`
	Pending   int64           `json:"pendentes"`
	Concluded int64           `json:"concluidas"`
	Average   float64         `json:"mediaGeral"`
	BySector  []SectorAverage `json:"porSetor"`
}
