package room

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
)

type Repository interface {
	ListActive(ctx context.Context) ([]Room, error)
	ListAll(ctx context.Context) ([]Room, error)
	GetByID(ctx context.Context, id int64) (*Room, error)
	GetByName(ctx context.Context, name string) (*Room, error)
	Create(ctx context.Context, r *Room) error
	Save(ctx context.Context, r *Room) error
}

type roomRepository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &roomRepository{db: db}
}

func (r *roomRepository) ListActive(ctx context.Context) ([]Room, error) {
	var rooms []Room
	err := r.db.WithContext(ctx).
		Where("active = ?", true).
		Order("name ASC").
		Find(&rooms).Error
	if err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) ListAll(ctx context.Context) ([]Room, error) {
	var rooms []Room
	if err := r.db.WithContext(ctx).Order("name ASC").Find(&rooms).Error; err != nil {
		return nil, err
	}
	return rooms, nil
}

func (r *roomRepository) GetByID(ctx context.Context, id int64) (*Room, error) {
	var room Room
	if err := r.db.WithContext(ctx).First(&room, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) GetByName(ctx context.Context, name string) (*Room, error) {
	var room Room
	err := r.db.WithContext(ctx).Where("name = ?", strings.TrimSpace(name)).First(&room).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	return &room, nil
}

func (r *roomRepository) Create(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Create(room).Error
}

// Save writes every column, including false flags.
func (r *roomRepository) Save(ctx context.Context, room *Room) error {
	return r.db.WithContext(ctx).Save(room).Error
}
