package event

import (
	"context"
	"errors"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, e *Event) error
	GetByID(ctx context.Context, id int64) (*Event, error)
	List(ctx context.Context, f Filter) ([]Event, error)
	Save(ctx context.Context, e *Event) error
	Delete(ctx context.Context, id int64) error
}

type eventRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Create(e).Error
}

func (r *eventRepository) GetByID(ctx context.Context, id int64) (*Event, error) {
	var e Event
	if err := r.db.WithContext(ctx).First(&e, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &e, nil
}

func (r *eventRepository) List(ctx context.Context, f Filter) ([]Event, error) {
	q := r.db.WithContext(ctx).Model(&Event{})
	if f.To != nil {
		q = q.Where("start_time < ?", f.To.UTC())
	}
	if f.From != nil {
		q = q.Where("end_time > ?", f.From.UTC())
	}
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}

	var out []Event
	if err := q.Order("start_time ASC").Order("id ASC").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *eventRepository) Save(ctx context.Context, e *Event) error {
	return r.db.WithContext(ctx).Save(e).Error
}

func (r *eventRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Event{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
