package ticket

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "Baixa"
	PriorityMedium Priority = "Media"
	PriorityHigh   Priority = "Alta"
	PriorityUrgent Priority = "Urgente"
)

type Status string

const (
	StatusOpen       Status = "Aberto"
	StatusInProgress Status = "EmAndamento"
	StatusResolved   Status = "Resolvido"
	StatusClosed     Status = "Fechado"
)

var Statuses = []Status{StatusOpen, StatusInProgress, StatusResolved, StatusClosed}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type Ticket struct {
	ID            int64      `json:"id" gorm:"primaryKey"`
	Number        string     `json:"numero" gorm:"size:32;uniqueIndex;not null"`
	Title         string     `json:"titulo" gorm:"size:200;not null"`
	Description   string     `json:"descricao" gorm:"type:text"`
	Sector        string     `json:"setor" gorm:"size:64;not null;index"`
	Category      string     `json:"categoria" gorm:"size:64"`
	Priority      Priority   `json:"prioridade" gorm:"size:16;not null"`
	Status        Status     `json:"status" gorm:"size:16;not null;index"`
	RequesterID   int64      `json:"solicitanteId" gorm:"not null;index"`
	RequesterName string     `json:"solicitanteNome" gorm:"size:255"`
	AssigneeID    *int64     `json:"responsavelId,omitempty" gorm:"index"`
	AssigneeName  *string    `json:"responsavelNome,omitempty" gorm:"size:255"`
	Resolution    *string    `json:"solucao,omitempty" gorm:"type:text"`
	CreatedAt     time.Time  `json:"criadoEm" gorm:"index"`
	UpdatedAt     time.Time  `json:"atualizadoEm"`
	ResolvedAt    *time.Time `json:"resolvidoEm,omitempty"`
	ClosedAt      *time.Time `json:"fechadoEm,omitempty"`
}

func (Ticket) TableName() string { return "chamados" }

// NumberPrefix returns the series prefix, e.g. "TEI-2025-".
func NumberPrefix(sector string, year int) string {
	return fmt.Sprintf("%s-%d-", strings.ToUpper(strings.TrimSpace(sector)), year)
}

// NextNumber increments the numeric suffix of last, the highest number
// issued so far in the prefix's series. An empty last starts at 001.
func NextNumber(prefix, last string) (string, error) {
	if last == "" {
		return prefix + "001", nil
	}
	if !strings.HasPrefix(last, prefix) {
		return "", fmt.Errorf("number %q is outside series %q", last, prefix)
	}
	n, err := strconv.Atoi(strings.TrimPrefix(last, prefix))
	if err != nil {
		return "", fmt.Errorf("parse ticket number %q: %w", last, err)
	}
	return fmt.Sprintf("%s%03d", prefix, n+1), nil
}
