package service

import (
	"context"
	"fmt"
	"time"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/repository"
)

var (
	ErrUserAlreadyBooked = apperror.Forbidden("User already has any booking at same time")
	ErrRoomAlreadyBooked = apperror.Forbidden("Room already booked at same time")
)

// ConflictDetector rejects a window that overlaps an active booking of the
// same user or the same room.
//
// Only windows containing one of the new endpoints are found, so a new window
// that strictly encloses an existing one passes. Check and insert are not
// atomic; two concurrent requests can both pass.
type ConflictDetector struct {
	repo repository.BookingRepository
}

func NewConflictDetector(repo repository.BookingRepository) *ConflictDetector {
	return &ConflictDetector{repo: repo}
}

// Check looks at the first overlapping booking only. The user rule wins over
// the room rule when that booking matches both.
func (d *ConflictDetector) Check(ctx context.Context, checkIn, checkOut time.Time, userID, roomID string) error {
	existing, err := d.repo.FindConflict(ctx, checkIn, checkOut, userID, roomID)
	if err != nil {
		return fmt.Errorf("find conflict: %w", err)
	}
	if existing == nil {
		return nil
	}

	if existing.UserID == userID {
		return ErrUserAlreadyBooked
	}
	if existing.RoomID == roomID {
		return ErrRoomAlreadyBooked
	}
	return nil
}
