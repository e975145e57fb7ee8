package ticket

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"portal/internal/domain/auth"
	"portal/internal/pkg/events"
	"portal/internal/pkg/keylock"
)

// maxNumberAttempts bounds retries when another process took the number first.
const maxNumberAttempts = 3

const (
	EventCreated = "ticket.created"
	EventUpdated = "ticket.updated"
)

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	repo      Repository
	users     UserReader
	locker    keylock.Locker
	publisher events.Publisher
	now       func() time.Time
}

func NewService(repo Repository, users UserReader, locker keylock.Locker, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		users:     users,
		locker:    locker,
		publisher: publisher,
		now:       time.Now,
	}
}

// Create opens a ticket numbered SECTOR-YEAR-NNN.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Ticket, error) {
	title := strings.TrimSpace(req.Title)
	sector := strings.TrimSpace(req.Sector)
	if title == "" || sector == "" {
		return nil, fmt.Errorf("%w: titulo and setor are required", ErrValidation)
	}
	if strings.Contains(sector, "-") {
		return nil, fmt.Errorf("%w: setor must not contain '-'", ErrValidation)
	}

	requester, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	priority := req.Priority
	if priority == "" {
		priority = PriorityMedium
	}

	t := &Ticket{
		Title:         title,
		Description:   req.Description,
		Sector:        sector,
		Category:      req.Category,
		Priority:      priority,
		Status:        StatusOpen,
		RequesterID:   requester.ID,
		RequesterName: requester.Name,
	}

	for attempt := 1; attempt <= maxNumberAttempts; attempt++ {
		err = s.insertNumbered(ctx, t)
		if !errors.Is(err, ErrDuplicateNumber) {
			break
		}
		log.Printf("ticket_number_collision number=%s attempt=%d", t.Number, attempt)
		t.ID = 0
	}
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, t)
	return t, nil
}

func (s *Service) insertNumbered(ctx context.Context, t *Ticket) error {
	prefix := NumberPrefix(t.Sector, s.now().Year())

	unlock, err := s.locker.Lock(ctx, "ticket:"+strings.TrimSuffix(prefix, "-"))
	if err != nil {
		return fmt.Errorf("lock ticket series %s: %w", prefix, err)
	}
	defer unlock()

	last, err := s.repo.LastNumber(ctx, prefix)
	if err != nil {
		return err
	}
	number, err := NextNumber(prefix, last)
	if err != nil {
		return err
	}
	t.Number = number
	return s.repo.Create(ctx, t)
}

func (s *Service) Get(ctx context.Context, id int64) (*Ticket, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Ticket, error) {
	return s.repo.List(ctx, f)
}

// Update changes the given fields. The requester, the assignee and managers
// may update a ticket.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Ticket, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	isAssignee := current.AssigneeID != nil && *current.AssigneeID == actor.UserID
	if !actor.CanManage(current.RequesterID) && !isAssignee {
		return nil, ErrForbidden
	}

	now := s.now().UTC()
	fields := map[string]any{"updated_at": now}
	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: titulo cannot be empty", ErrValidation)
		}
		fields["title"] = title
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.Priority != nil {
		fields["priority"] = string(*req.Priority)
	}
	if req.Resolution != nil {
		fields["resolution"] = *req.Resolution
	}
	if req.AssigneeID != nil {
		assignee, err := s.users.GetByID(ctx, *req.AssigneeID)
		if err != nil {
			if errors.Is(err, auth.ErrUserNotFound) {
				return nil, fmt.Errorf("%w: responsavelId does not exist", ErrValidation)
			}
			return nil, err
		}
		fields["assignee_id"] = assignee.ID
		fields["assignee_name"] = assignee.Name
	}
	if req.Status != nil {
		if !req.Status.Valid() {
			return nil, fmt.Errorf("%w: unknown status %q", ErrValidation, *req.Status)
		}
		fields["status"] = string(*req.Status)
		switch *req.Status {
		case StatusResolved:
			fields["resolved_at"] = now
		case StatusClosed:
			fields["closed_at"] = now
		}
	}

	if err := s.repo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}
	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(current.RequesterID) {
		return ErrForbidden
	}
	return s.repo.Delete(ctx, id)
}

// Stats counts tickets per status, optionally within one sector.
func (s *Service) Stats(ctx context.Context, sector string) (*Stats, error) {
	counts, err := s.repo.CountByStatus(ctx, sector)
	if err != nil {
		return nil, err
	}

	out := &Stats{ByStatus: make(map[Status]int64, len(Statuses))}
	for _, st := range Statuses {
		out.ByStatus[st] = counts[st]
		out.Total += counts[st]
	}
	return out, nil
}

func (s *Service) publish(ctx context.Context, eventType string, t *Ticket) {
	ev, err := events.New(eventType, "chamado:"+strings.ToUpper(t.Sector), t)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		log.Printf("ticket_event_publish_failed type=%s id=%d err=%v", eventType, t.ID, err)
	}
}
