package room

import (
	"context"
	"errors"
)

type Service struct {
	rooms Repository
}

func NewService(rooms Repository) *Service {
	return &Service{rooms: rooms}
}

// ListRooms returns active rooms ordered by name.
func (s *Service) ListRooms(ctx context.Context) ([]Room, error) {
	return s.rooms.ListActive(ctx)
}

func (s *Service) ListAllRooms(ctx context.Context) ([]Room, error) {
	return s.rooms.ListAll(ctx)
}

func (s *Service) GetRoom(ctx context.Context, id int64) (*Room, error) {
	if id <= 0 {
		return nil, ErrInvalidRoomID
	}
	return s.rooms.GetByID(ctx, id)
}

func (s *Service) CreateRoom(ctx context.Context, req UpsertRoomRequest) (*Room, error) {
	if err := s.ensureNameFree(ctx, req.Name, 0); err != nil {
		return nil, err
	}

	r := &Room{Active: true}
	req.apply(r)
	if err := s.rooms.Create(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) UpdateRoom(ctx context.Context, id int64, req UpsertRoomRequest) (*Room, error) {
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.ensureNameFree(ctx, req.Name, id); err != nil {
		return nil, err
	}

	req.apply(r)
	if err := s.rooms.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

// SetActive toggles a room in or out of the bookable catalog.
func (s *Service) SetActive(ctx context.Context, id int64, active bool) (*Room, error) {
	r, err := s.rooms.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	r.Active = active
	if err := s.rooms.Save(ctx, r); err != nil {
		return nil, err
	}
	return r, nil
}

func (s *Service) ensureNameFree(ctx context.Context, name string, selfID int64) error {
	existing, err := s.rooms.GetByName(ctx, name)
	if errors.Is(err, ErrRoomNotFound) {
		return nil
	}
	if err != nil {
		return err
	}
	if existing.ID != selfID {
		return ErrNameTaken
	}
	return nil
}
