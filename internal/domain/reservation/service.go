package reservation

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"portal/internal/domain/auth"
	"portal/internal/domain/room"
	"portal/internal/pkg/events"
	"portal/internal/pkg/keylock"
)

const (
	EventCreated   = "reservation.created"
	EventUpdated   = "reservation.updated"
	EventCancelled = "reservation.cancelled"
	EventDeleted   = "reservation.deleted"
)

type RoomReader interface {
	GetByID(ctx context.Context, id int64) (*room.Room, error)
}

type UserReader interface {
	GetByID(ctx context.Context, id int64) (*auth.User, error)
}

type Service struct {
	repo      Repository
	rooms     RoomReader
	users     UserReader
	locker    keylock.Locker
	publisher events.Publisher
}

func NewService(repo Repository, rooms RoomReader, users UserReader, locker keylock.Locker, publisher events.Publisher) *Service {
	if publisher == nil {
		publisher = events.Nop{}
	}
	return &Service{
		repo:      repo,
		rooms:     rooms,
		users:     users,
		locker:    locker,
		publisher: publisher,
	}
}

// RoomKey names the lock and the event stream of a room.
func RoomKey(roomID int64) string {
	return fmt.Sprintf("sala:%d", roomID)
}

func (s *Service) List(ctx context.Context, f Filter) ([]Reservation, error) {
	return s.repo.List(ctx, f)
}

func (s *Service) Get(ctx context.Context, id int64) (*Reservation, error) {
	return s.repo.GetByID(ctx, id)
}

// Create books a room for the actor. The conflict check and the insert run
// under the room's lock and inside one transaction.
func (s *Service) Create(ctx context.Context, actor auth.Actor, req CreateRequest) (*Reservation, error) {
	start, end := normalize(req.Start), normalize(req.End)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: dataInicio must be before dataFim", ErrValidation)
	}
	title := strings.TrimSpace(req.Title)
	if title == "" {
		return nil, fmt.Errorf("%w: titulo is required", ErrValidation)
	}

	rm, err := s.rooms.GetByID(ctx, req.RoomID)
	if err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}
	if !rm.Active {
		return nil, ErrRoomInactive
	}

	user, err := s.users.GetByID(ctx, actor.UserID)
	if err != nil {
		if errors.Is(err, auth.ErrUserNotFound) {
			return nil, ErrForbidden
		}
		return nil, err
	}

	resources := req.Resources
	if resources == nil {
		resources = []string{}
	}
	res := &Reservation{
		RoomID:      rm.ID,
		RoomName:    rm.Name,
		UserID:      user.ID,
		UserName:    user.Name,
		UserSector:  user.Sector,
		StartTime:   start,
		EndTime:     end,
		Title:       title,
		Description: req.Description,
		Headcount:   req.Headcount,
		Resources:   resources,
		Status:      StatusConfirmed,
	}

	unlock, err := s.locker.Lock(ctx, RoomKey(rm.ID))
	if err != nil {
		return nil, fmt.Errorf("lock room %d: %w", rm.ID, err)
	}
	defer unlock()

	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockRoom(ctx, rm.ID); err != nil {
			return err
		}
		conflict, err := tx.HasConflict(ctx, rm.ID, start, end, 0)
		if err != nil {
			return err
		}
		if conflict {
			return ErrConflict
		}
		return tx.Create(ctx, res)
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventCreated, res)
	return res, nil
}

// Update applies a partial update. A changed interval is re-validated
// against the room's other occupied reservations.
func (s *Service) Update(ctx context.Context, actor auth.Actor, id int64, req UpdateRequest) (*Reservation, error) {
	if req.Status != nil && *req.Status != StatusCancelled {
		return nil, fmt.Errorf("%w: status can only be set to %s", ErrValidation, StatusCancelled)
	}
	if req.isCancel() {
		if req.editsFields() {
			return nil, fmt.Errorf("%w: status %s cannot be combined with other changes", ErrValidation, StatusCancelled)
		}
		return s.Cancel(ctx, actor, id, req.CancellationReason)
	}

	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(current.UserID) {
		return nil, ErrForbidden
	}

	unlock, err := s.locker.Lock(ctx, RoomKey(current.RoomID))
	if err != nil {
		return nil, fmt.Errorf("lock room %d: %w", current.RoomID, err)
	}
	defer unlock()

	var updated *Reservation
	err = s.repo.Transaction(ctx, func(tx Repository) error {
		if err := tx.LockRoom(ctx, current.RoomID); err != nil {
			return err
		}
		cur, err := tx.GetByID(ctx, id)
		if err != nil {
			return err
		}

		fields, err := updateFields(cur, req)
		if err != nil {
			return err
		}
		// cancelled rows never occupy the room
		if req.touchesInterval() && cur.Status != StatusCancelled {
			start := fields["start_time"].(time.Time)
			end := fields["end_time"].(time.Time)
			conflict, err := tx.HasConflict(ctx, cur.RoomID, start, end, cur.ID)
			if err != nil {
				return err
			}
			if conflict {
				return ErrConflict
			}
		}

		if err := tx.Updates(ctx, id, fields); err != nil {
			return err
		}
		updated, err = tx.GetByID(ctx, id)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, EventUpdated, updated)
	return updated, nil
}

func updateFields(cur *Reservation, req UpdateRequest) (map[string]any, error) {
	fields := map[string]any{}

	if req.touchesInterval() {
		start, end := cur.StartTime, cur.EndTime
		if req.Start != nil {
			start = normalize(*req.Start)
		}
		if req.End != nil {
			end = normalize(*req.End)
		}
		if !start.Before(end) {
			return nil, fmt.Errorf("%w: dataInicio must be before dataFim", ErrValidation)
		}
		fields["start_time"] = start
		fields["end_time"] = end
	}
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
	if req.Headcount != nil {
		fields["headcount"] = *req.Headcount
	}
	if req.Resources != nil {
		resources := *req.Resources
		if resources == nil {
			resources = []string{}
		}
		raw, err := json.Marshal(resources)
		if err != nil {
			return nil, err
		}
		fields["resources"] = string(raw)
	}
	return fields, nil
}

// Cancel marks the reservation Cancelada and keeps the row. Cancelling twice
// only refreshes the update timestamp.
func (s *Service) Cancel(ctx context.Context, actor auth.Actor, id int64, reason *string) (*Reservation, error) {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.CanManage(current.UserID) {
		return nil, ErrForbidden
	}

	alreadyCancelled := current.Status == StatusCancelled
	fields := map[string]any{}
	if !alreadyCancelled {
		fields["status"] = string(StatusCancelled)
		fields["cancelled_at"] = time.Now().UTC()
		if reason != nil {
			fields["cancellation_reason"] = strings.TrimSpace(*reason)
		}
	}
	if err := s.repo.Updates(ctx, id, fields); err != nil {
		return nil, err
	}

	updated, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !alreadyCancelled {
		s.publish(ctx, EventCancelled, updated)
	}
	return updated, nil
}

// Delete removes the reservation whatever its status.
func (s *Service) Delete(ctx context.Context, actor auth.Actor, id int64) error {
	current, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if !actor.CanManage(current.UserID) {
		return ErrForbidden
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	s.publish(ctx, EventDeleted, current)
	return nil
}

// Availability lists the occupied slots of a room on the given UTC day.
func (s *Service) Availability(ctx context.Context, roomID int64, day time.Time) ([]Slot, error) {
	if _, err := s.rooms.GetByID(ctx, roomID); err != nil {
		if errors.Is(err, room.ErrRoomNotFound) {
			return nil, ErrRoomNotFound
		}
		return nil, err
	}

	day = day.UTC()
	from := time.Date(day.Year(), day.Month(), day.Day(), 0, 0, 0, 0, time.UTC)
	to := from.Add(24 * time.Hour)

	rows, err := s.repo.List(ctx, conflictFilter(roomID, from, to, 0))
	if err != nil {
		return nil, err
	}

	slots := make([]Slot, 0, len(rows))
	for _, r := range rows {
		slots = append(slots, Slot{
			ReservationID: r.ID,
			Start:         r.StartTime,
			End:           r.EndTime,
			Title:         r.Title,
			UserName:      r.UserName,
		})
	}
	return slots, nil
}

// PurgeCancelled hard-deletes reservations cancelled before now-retention.
func (s *Service) PurgeCancelled(ctx context.Context, retention time.Duration) (int64, error) {
	if retention <= 0 {
		return 0, fmt.Errorf("%w: retention must be positive", ErrValidation)
	}
	return s.repo.DeleteCancelledBefore(ctx, time.Now().UTC().Add(-retention))
}

func (s *Service) publish(ctx context.Context, eventType string, r *Reservation) {
	ev, err := events.New(eventType, RoomKey(r.RoomID), r)
	if err == nil {
		err = s.publisher.Publish(ctx, ev)
	}
	if err != nil {
		log.Printf("reservation_event_publish_failed type=%s id=%d err=%v", eventType, r.ID, err)
	}
}
