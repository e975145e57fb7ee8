package ticket

import (
	"context"
	"errors"
	"strings"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
)

type Repository interface {
	LastNumber(ctx context.Context, prefix string) (string, error)
	Create(ctx context.Context, t *Ticket) error
	GetByID(ctx context.Context, id int64) (*Ticket, error)
	List(ctx context.Context, f Filter) ([]Ticket, error)
	Updates(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	CountByStatus(ctx context.Context, sector string) (map[Status]int64, error)
}

type ticketRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &ticketRepository{db: db}
}

// LastNumber returns the highest number in the series. Longer suffixes
// sort first so "-1000" beats "-999".
func (r *ticketRepository) LastNumber(ctx context.Context, prefix string) (string, error) {
	var numbers []string
	err := r.db.WithContext(ctx).
		Model(&Ticket{}).
		Where(`number LIKE ? ESCAPE '\'`, escapeLike(prefix)+"%").
		Order("LENGTH(number) DESC").
		Order("number DESC").
		Limit(1).
		Pluck("number", &numbers).Error
	if err != nil {
		return "", err
	}
	if len(numbers) == 0 {
		return "", nil
	}
	return numbers[0], nil
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string { return likeEscaper.Replace(s) }

func (r *ticketRepository) Create(ctx context.Context, t *Ticket) error {
	if err := r.db.WithContext(ctx).Create(t).Error; err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicateNumber
		}
		return err
	}
	return nil
}

func (r *ticketRepository) GetByID(ctx context.Context, id int64) (*Ticket, error) {
	var t Ticket
	if err := r.db.WithContext(ctx).First(&t, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &t, nil
}

func (r *ticketRepository) List(ctx context.Context, f Filter) ([]Ticket, error) {
	q := r.db.WithContext(ctx).Model(&Ticket{})
	if f.Sector != "" {
		q = q.Where("sector = ?", f.Sector)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Priority != "" {
		q = q.Where("priority = ?", f.Priority)
	}
	if f.RequesterID > 0 {
		q = q.Where("requester_id = ?", f.RequesterID)
	}
	if f.AssigneeID > 0 {
		q = q.Where("assignee_id = ?", f.AssigneeID)
	}

	var out []Ticket
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *ticketRepository) Updates(ctx context.Context, id int64, fields map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&Ticket{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Ticket{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *ticketRepository) CountByStatus(ctx context.Context, sector string) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	q := r.db.WithContext(ctx).Model(&Ticket{}).Select("status, COUNT(*) AS total")
	if sector != "" {
		q = q.Where("sector = ?", sector)
	}
	if err := q.Group("status").Scan(&rows).Error; err != nil {
		return nil, err
	}

	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505"
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
