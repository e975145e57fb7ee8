package reservation

import (
	"time"

	"gorm.io/gorm"
)

// Filter is the single query shape for reservations. Zero fields are ignored.
type Filter struct {
	RoomID int64
	UserID int64
	Status Status
	From   *time.Time
	To     *time.Time
	// ExcludeCancelled keeps only reservations that occupy the room.
	ExcludeCancelled bool
	ExcludeID        int64
	Ascending        bool
}

// Apply adds the filter's conditions to q. The window matches every
// reservation intersecting [From, To).
func (f Filter) Apply(q *gorm.DB) *gorm.DB {
	if f.RoomID > 0 {
		q = q.Where("room_id = ?", f.RoomID)
	}
	if f.UserID > 0 {
		q = q.Where("user_id = ?", f.UserID)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.ExcludeCancelled {
		q = q.Where("status <> ?", StatusCancelled)
	}
	if f.ExcludeID > 0 {
		q = q.Where("id <> ?", f.ExcludeID)
	}
	if f.To != nil {
		q = q.Where("start_time < ?", normalize(*f.To))
	}
	if f.From != nil {
		q = q.Where("end_time > ?", normalize(*f.From))
	}

	if f.Ascending {
		return q.Order("start_time ASC").Order("id ASC")
	}
	return q.Order("start_time DESC").Order("id DESC")
}

// conflictFilter selects the occupied reservations of roomID intersecting [start, end).
func conflictFilter(roomID int64, start, end time.Time, excludeID int64) Filter {
	return Filter{
		RoomID:           roomID,
		From:             &start,
		To:               &end,
		ExcludeCancelled: true,
		ExcludeID:        excludeID,
		Ascending:        true,
	}
}
