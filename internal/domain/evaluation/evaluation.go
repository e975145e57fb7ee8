package evaluation

import (
	"math"
	"time"
)

type Status string

const (
	StatusPending   Status = "Pendente"
	StatusConcluded Status = "Concluída"
)

type Action string

const (
	ActionCreated   Action = "criada"
	ActionConcluded Action = "concluida"
)

const (
	MinScore = 1
	MaxScore = 5
)

type Criterion struct {
	Name    string  `json:"nome" validate:"required,max=128"`
	Score   float64 `json:"nota" validate:"gte=1,lte=5"`
	Comment string  `json:"comentario,omitempty" validate:"max=1000"`
}

type Evaluation struct {
	ID              int64       `json:"id" gorm:"primaryKey"`
	EvaluatorID     int64       `json:"avaliadorId" gorm:"not null;index"`
	EvaluatorName   string      `json:"avaliadorNome" gorm:"size:255"`
	EvaluateeID     int64       `json:"avaliadoId" gorm:"not null;index"`
	EvaluateeName   string      `json:"avaliadoNome" gorm:"size:255"`
	EvaluateeSector string      `json:"avaliadoSetor" gorm:"size:64;index"`
	Period          string      `json:"periodo" gorm:"size:32;not null;index"`
	Type            string      `json:"tipo" gorm:"size:64;not null"`
	Criteria        []Criterion `json:"criterios" gorm:"serializer:json;type:text"`
	Comments        *string     `json:"comentariosGerais,omitempty" gorm:"type:text"`
	FinalScore      *float64    `json:"notaFinal,omitempty"`
	Status          Status      `json:"status" gorm:"size:16;not null;index"`
	ConcludedAt     *time.Time  `json:"dataConclusao,omitempty"`
	CreatedAt       time.Time   `json:"criadoEm" gorm:"index"`
	UpdatedAt       time.Time   `json:"atualizadoEm"`
}

func (Evaluation) TableName() string { return "avaliacoes" }

// Log is an append-only audit entry. Rows are never updated.
type Log struct {
	ID            int64     `json:"id" gorm:"primaryKey"`
	EvaluationID  int64     `json:"avaliacaoId" gorm:"not null;index"`
	Action        Action    `json:"acao" gorm:"size:16;not null"`
	ActorID       int64     `json:"usuarioId" gorm:"not null"`
	ActorName     string    `json:"usuarioNome" gorm:"size:255"`
	EvaluateeID   int64     `json:"avaliadoId" gorm:"not null;index"`
	EvaluateeName string    `json:"avaliadoNome" gorm:"size:255"`
	FinalScore    *float64  `json:"notaFinal,omitempty"`
	Description   string    `json:"descricao" gorm:"type:text"`
	CreatedAt     time.Time `json:"criadoEm" gorm:"index"`
}

func (Log) TableName() string { return "avaliacao_logs" }

// MeanScore is the arithmetic mean rounded to two decimals. Empty input yields 0.
func MeanScore(scores []float64) float64 {
	if len(scores) == 0 {
		return 0
	}
	var sum float64
	for _, s := range scores {
		sum += s
	}
	return round2(sum / float64(len(scores)))
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
