package models

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type BookingStatus string

const (
	StatusBooked     BookingStatus = "BOOKED"
	StatusCancelled  BookingStatus = "CANCELLED"
	StatusInUse      BookingStatus = "IN_USE"
	StatusNotPresent BookingStatus = "NOT_PRESENT"
	StatusDelivered  BookingStatus = "DELIVERED"
)

// Statuses lists every status in declaration order. Any status may follow any other.
var Statuses = []BookingStatus{
	StatusBooked,
	StatusCancelled,
	StatusInUse,
	StatusNotPresent,
	StatusDelivered,
}

// StatusList renders the accepted values for error messages.
func StatusList() string {
	names := make([]string, len(Statuses))
	for i, st := range Statuses {
		names[i] = string(st)
	}
	return "[" + strings.Join(names, ", ") + "]"
}

// ParseStatus matches s exactly against the declared statuses.
func ParseStatus(s string) (BookingStatus, bool) {
	for _, st := range Statuses {
		if string(st) == s {
			return st, true
		}
	}
	return "", false
}

type Booking struct {
	ID         string        `gorm:"type:uuid;primaryKey" json:"id"`
	CreatedAt  time.Time     `json:"created_at"`
	CheckIn    time.Time     `gorm:"type:timestamptz;not null" json:"check_in"`
	CheckOut   time.Time     `gorm:"type:timestamptz;not null" json:"check_out"`
	UserID     string        `gorm:"type:uuid;not null;index:idx_bookings_user_status" json:"user_id"`
	RoomID     string        `gorm:"type:uuid;not null;index:idx_bookings_room_status" json:"room_id"`
	Status     BookingStatus `gorm:"type:varchar(20);not null;index:idx_bookings_user_status;index:idx_bookings_room_status" json:"status"`
	Rating     *int          `json:"rating,omitempty"`
	Review     *string       `gorm:"type:varchar(255)" json:"review,omitempty"`
	ReceiptURL *string       `json:"receipt_url,omitempty"`
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Reviewed reports whether the single allowed review has been stored.
func (b *Booking) Reviewed() bool {
	return b.Rating != nil
}

// BookingFilter holds the optional listing criteria. Nil fields are ignored.
type BookingFilter struct {
	UserID    *string
	RoomID    *string
	CheckIn   *time.Time
	CheckOut  *time.Time
	Status    *BookingStatus
	MinRating *int
	MaxRating *int
	Page      int
	Limit     int
}
