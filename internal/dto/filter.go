package dto

import (
	"time"

	"github.com/google/uuid"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/models"
)

const (
	DefaultPage  = 1
	DefaultLimit = 20
	MaxLimit     = 100
)

// ParseInstant reads an RFC3339 timestamp with offset.
func ParseInstant(field, value string) (time.Time, error) {
	t, err := time.Parse(time.RFC3339, value)
	if err != nil {
		return time.Time{}, apperror.BadRequest("%s is not a valid date", field)
	}
	return t, nil
}

// ParseID returns the canonical lowercase form of a UUID.
func ParseID(field, value string) (string, error) {
	id, err := uuid.Parse(value)
	if err != nil {
		return "", apperror.BadRequest("%s must be a valid UUID", field)
	}
	return id.String(), nil
}

func ParseStatus(value string) (models.BookingStatus, error) {
	st, ok := models.ParseStatus(value)
	if !ok {
		return "", apperror.BadRequest("%s is not valid status. %s", value, models.StatusList())
	}
	return st, nil
}

// ToFilter applies defaults and parses the typed fields of the query.
func (r FilterBookingRequest) ToFilter() (models.BookingFilter, error) {
	f := models.BookingFilter{
		Page:  DefaultPage,
		Limit: DefaultLimit,
	}

	if r.Page > 0 {
		f.Page = r.Page
	}
	if r.Limit > 0 {
		f.Limit = r.Limit
	}
	if f.Limit > MaxLimit {
		f.Limit = MaxLimit
	}

	if r.MinRating > 0 {
		minRating := r.MinRating
		f.MinRating = &minRating
	}
	if r.MaxRating > 0 {
		maxRating := r.MaxRating
		f.MaxRating = &maxRating
	}

	if r.UserID != "" {
		userID, err := ParseID("userId", r.UserID)
		if err != nil {
			return f, err
		}
		f.UserID = &userID
	}
	if r.RoomID != "" {
		roomID, err := ParseID("roomId", r.RoomID)
		if err != nil {
			return f, err
		}
		f.RoomID = &roomID
	}

	if r.CheckIn != "" {
		t, err := ParseInstant("checkIn", r.CheckIn)
		if err != nil {
			return f, err
		}
		f.CheckIn = &t
	}
	if r.CheckOut != "" {
		t, err := ParseInstant("checkOut", r.CheckOut)
		if err != nil {
			return f, err
		}
		f.CheckOut = &t
	}

	if r.Status != "" {
		st, err := ParseStatus(r.Status)
		if err != nil {
			return f, err
		}
		f.Status = &st
	}

	return f, nil
}
