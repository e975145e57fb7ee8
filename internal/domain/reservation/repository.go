package reservation

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"portal/internal/domain/room"
)

type Repository interface {
	List(ctx context.Context, f Filter) ([]Reservation, error)
	HasConflict(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error)
	GetByID(ctx context.Context, id int64) (*Reservation, error)
	Create(ctx context.Context, r *Reservation) error
	Updates(ctx context.Context, id int64, fields map[string]any) error
	Delete(ctx context.Context, id int64) error
	DeleteCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error)
	// LockRoom row-locks the room for the rest of the transaction.
	LockRoom(ctx context.Context, roomID int64) error
	Transaction(ctx context.Context, fn func(tx Repository) error) error
}

type reservationRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &reservationRepository{db: db}
}

func (r *reservationRepository) List(ctx context.Context, f Filter) ([]Reservation, error) {
	var out []Reservation
	if err := f.Apply(r.db.WithContext(ctx).Model(&Reservation{})).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *reservationRepository) HasConflict(ctx context.Context, roomID int64, start, end time.Time, excludeID int64) (bool, error) {
	var cnt int64
	q := conflictFilter(roomID, start, end, excludeID).Apply(r.db.WithContext(ctx).Model(&Reservation{}))
	if err := q.Count(&cnt).Error; err != nil {
		return false, err
	}
	return cnt > 0, nil
}

func (r *reservationRepository) GetByID(ctx context.Context, id int64) (*Reservation, error) {
	var res Reservation
	if err := r.db.WithContext(ctx).First(&res, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &res, nil
}

func (r *reservationRepository) Create(ctx context.Context, res *Reservation) error {
	return r.db.WithContext(ctx).Create(res).Error
}

func (r *reservationRepository) Updates(ctx context.Context, id int64, fields map[string]any) error {
	fields["updated_at"] = time.Now().UTC()
	tx := r.db.WithContext(ctx).Model(&Reservation{}).Where("id = ?", id).Updates(fields)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) Delete(ctx context.Context, id int64) error {
	tx := r.db.WithContext(ctx).Delete(&Reservation{}, id)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *reservationRepository) DeleteCancelledBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	tx := r.db.WithContext(ctx).
		Where("status = ? AND cancelled_at < ?", StatusCancelled, cutoff.UTC()).
		Delete(&Reservation{})
	return tx.RowsAffected, tx.Error
}

func (r *reservationRepository) LockRoom(ctx context.Context, roomID int64) error {
	var rm room.Room
	err := r.db.WithContext(ctx).
		Clauses(clause.Locking{Strength: "UPDATE"}).
		Select("id").
		First(&rm, roomID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrRoomNotFound
	}
	return err
}

func (r *reservationRepository) Transaction(ctx context.Context, fn func(tx Repository) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&reservationRepository{db: tx})
	})
}
