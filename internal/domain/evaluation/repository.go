package evaluation

import (
	"context"
	"database/sql"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type Repository interface {
	Create(ctx context.Context, e *Evaluation) error
	GetByID(ctx context.Context, id int64) (*Evaluation, error)
	// GetForUpdate reads the row under a write lock inside a transaction.
	GetForUpdate(ctx context.Context, id int64) (*Evaluation, error)
	List(ctx context.Context, f Filter) ([]Evaluation, error)
	// Conclude moves a pending evaluation to concluded. It reports
	// ErrAlreadyConcluded when the row is no longer pending.
	Conclude(ctx context.Context, id int64, fields map[string]any) error
	DeletePending(ctx context.Context, id int64) error
	AppendLog(ctx context.Context, l *Log) error
	Logs(ctx context.Context, f LogFilter) ([]Log, error)
	CountByStatus(ctx context.Context) (map[Status]int64, error)
	AverageScore(ctx context.Context) (float64, error)
	AverageBySector(ctx context.Context) ([]SectorAverage, error)
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

type evaluationRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &evaluationRepository{db: db}
}

func (r *evaluationRepository) Create(ctx context.Context, e *Evaluation) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *evaluationRepository) GetByID(ctx context.Context, id int64) (*Evaluation, error) {
	return r.get(r.db.WithContext(ctx), id)
}

func (r *evaluationRepository) GetForUpdate(ctx context.Context, id int64) (*Evaluation, error) {
	return r.get(r.db.WithContext(ctx).Clauses(clause.Locking{Strength: "UPDATE"}), id)
}

func (r *evaluationRepository) get(q *gorm.DB, id int64) (*Evaluation, error) {
	var e Evaluation
	if err := q.First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *evaluationRepository) List(ctx context.Context, f Filter) ([]Evaluation, error) {
	q := r.db.WithContext(ctx).Model(&Evaluation{})
	if f.EvaluatorID > 0 {
		q = q.Where("evaluator_id = ?", f.EvaluatorID)
	}
	if f.EvaluateeID > 0 {
		q = q.Where("evaluatee_id = ?", f.EvaluateeID)
	}
	if f.ParticipantID > 0 {
		q = q.Where("evaluator_id = ? OR evaluatee_id = ?", f.ParticipantID, f.ParticipantID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.Period != "" {
		q = q.Where("period = ?", f.Period)
	}

	var out []Evaluation
	if err := q.Order("created_at DESC").Order("id DESC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evaluationRepository) Conclude(ctx context.Context, id int64, fields map[string]any) error {
	fields["status"] = string(StatusConcluded)
	tx := r.db.WithContext(ctx).
		Model(&Evaluation{}).
		Where("id = ? AND status = ?", id, StatusPending).
		Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyConcluded
	}
	return nil
}

func (r *evaluationRepository) DeletePending(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).
		Where("id = ? AND status = ?", id, StatusPending).
		Delete(&Evaluation{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrAlreadyConcluded
	}
	return nil
}

func (r *evaluationRepository) AppendLog(ctx context.Context, l *Log) error {
	return r.db.WithContext(ctx).Create(l).Error
}

func (r *evaluationRepository) Logs(ctx context.Context, f LogFilter) ([]Log, error) {
	q := r.db.WithContext(ctx).Model(&Log{})
	if f.EvaluationID > 0 {
		q = q.Where("evaluation_id = ?", f.EvaluationID)
	}
	if f.EvaluateeID > 0 {
		q = q.Where("evaluatee_id = ?", f.EvaluateeID)
	}
	limit := f.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}

	var out []Log
	if err := q.Order("created_at DESC").Order("id DESC").Limit(limit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *evaluationRepository) CountByStatus(ctx context.Context) (map[Status]int64, error) {
	var rows []struct {
		Status Status
		Total  int64
	}
	err := r.db.WithContext(ctx).
		Model(&Evaluation{}).
		Select("status, COUNT(*) AS total").
		Group("status").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[Status]int64, len(rows))
	for _, row := range rows {
		out[row.Status] = row.Total
	}
	return out, nil
}

func (r *evaluationRepository) AverageScore(ctx context.Context) (float64, error) {
	var avg sql.NullFloat64
	row := r.db.WithContext(ctx).
		Model(&Evaluation{}).
		Select("AVG(final_score)").
		Where("status = ?", StatusConcluded).
		Row()
	if err := row.Scan(&avg); err != nil {
		return 0, err
	}
	return avg.Float64, nil
}

func (r *evaluationRepository) AverageBySector(ctx context.Context) ([]SectorAverage, error) {
	var rows []SectorAverage
	err := r.db.WithContext(ctx).
		Model(&Evaluation{}).
		Select("evaluatee_sector AS sector, AVG(final_score) AS average, COUNT(*) AS total").
		Where("status = ?", StatusConcluded).
		Group("evaluatee_sector").
		Order("evaluatee_sector ASC").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	return rows, nil
}

func (r *evaluationRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&evaluationRepository{db: tx})
	})
}
