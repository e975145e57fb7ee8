package event

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"portal/internal/domain/auth"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	repo  Repository
	users UserReader
}

func NewService(repo Repository, users UserReader) *Service {
	return &Service{repo: repo, users: users}
}

func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Event, error) {
	creator, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	e := &Event{
		Title:        strings.TrimSpace(req.Title),
		Description:  req.Description,
		AllDay:       req.AllDay,
		Location:     req.Location,
		Type:         req.Type,
		Visibility:   req.Visibility,
		Sector:       req.Sector,
		CreatorID:    creator.ID,
		CreatorName:  creator.Name,
		Participants: req.Participants,
	}
	e.Start, e.End = span(req.Start, req.End, req.AllDay)
	if e.Type == "" {
		e.Type = TypeOther
	}
	if e.Visibility == "" {
		e.Visibility = VisibilityPublic
	}
	if e.Visibility == VisibilitySector && (e.Sector == nil || *e.Sector == "") {
		sector := creator.Sector
		e.Sector = &sector
	}
	if e.Participants == nil {
		e.Participants = []int64{}
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	if err := s.repo.Create(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

// Get hides events the viewer may not see behind ErrNotFound.
func (s *Service) Get(ctx context.Context, viewer auth.Actor, id int64) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !e.VisibleTo(viewer) {
		return nil, ErrNotFound
	}
	return e, nil
}

// List returns the events in the window the viewer may see, by start time.
func (s *Service) List(ctx context.Context, viewer auth.Actor, f Filter) ([]Event, error) {
	rows, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, err
	}

	out := make([]Event, 0, len(rows))
	for i := range rows {
		if rows[i].VisibleTo(viewer) {
			out = append(out, rows[i])
		}
	}
	return out, nil
}

func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Event, error) {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if e.CreatorID != actor.UserID && !actor.IsAdmin() {
		return nil, ErrForbidden
	}

	if req.Title != nil {
		e.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		e.Description = req.Description
	}
	if req.Location != nil {
		e.Location = req.Location
	}
	if req.Type != nil {
		e.Type = *req.Type
	}
	if req.Visibility != nil {
		e.Visibility = *req.Visibility
	}
	if req.Sector != nil {
		e.Sector = req.Sector
	}
	if req.Participants != nil {
		e.Participants = *req.Participants
		if e.Participants == nil {
			e.Participants = []int64{}
		}
	}
	wasAllDay := e.AllDay
	if req.AllDay != nil {
		e.AllDay = *req.AllDay
	}
	if req.Start != nil || req.End != nil || req.AllDay != nil {
		start, end := e.Start, e.End
		if req.Start != nil {
			start = *req.Start
		}
		if req.End != nil {
			end = *req.End
		} else if wasAllDay && e.AllDay {
			// stored end is exclusive; span wants the last day
			end = e.End.Add(-24 * time.Hour)
		}
		e.Start, e.End = span(start, end, e.AllDay)
	}
	if err := validate(e); err != nil {
		return nil, err
	}

	if err := s.repo.Save(ctx, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	e, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if e.CreatorID != actor.UserID && !actor.IsAdmin() {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

func validate(e *Event) error {
	if e.Title == "" {
		return fmt.Errorf("%w: titulo is required", ErrValidation)
	}
	if !e.Start.Before(e.End) {
		return fmt.Errorf("%w: dataInicio must be before dataFim", ErrValidation)
	}
	if e.Visibility == VisibilitySector && (e.Sector == nil || *e.Sector == "") {
		return fmt.Errorf("%w: setor is required for sector events", ErrValidation)
	}
	return nil
}
