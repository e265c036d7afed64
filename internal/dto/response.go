package dto

import (
	"time"

	"github.com/Eursukkul/room-booking-service/internal/client"
	"github.com/Eursukkul/room-booking-service/internal/models"
)

type BookingResponse struct {
	ID         string               `json:"id"`
	CreatedAt  string               `json:"createdAt"`
	ReceiptURL *string              `json:"receiptUrl"`
	CheckIn    string               `json:"checkIn"`
	CheckOut   string               `json:"checkOut"`
	UserID     string               `json:"userId"`
	RoomID     string               `json:"roomId"`
	Status     models.BookingStatus `json:"status"`
	Rating     *int                 `json:"rating"`
	Review     *string              `json:"review"`
}

// BookingEvent is the denormalized booking snapshot exchanged on the broker.
// Receipt-generated messages reuse the shape with ReceiptURL filled in.
type BookingEvent struct {
	ID         string               `json:"id"`
	CreatedAt  string               `json:"createdAt"`
	ReceiptURL *string              `json:"receiptUrl"`
	CheckIn    string               `json:"checkIn"`
	CheckOut   string               `json:"checkOut"`
	Status     models.BookingStatus `json:"status"`
	Rating     *int                 `json:"rating"`
	Review     *string              `json:"review"`
	User       *client.User         `json:"user,omitempty"`
	Room       *client.Room         `json:"room,omitempty"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Status  int      `json:"status"`
	Errors  []string `json:"errors"`
}

func formatTime(t time.Time) string {
	return t.Format(time.RFC3339)
}

// createdAt is rendered in the check-in offset so both read in the same zone.
func createdAt(b *models.Booking) string {
	return formatTime(b.CreatedAt.In(b.CheckIn.Location()))
}

func ToBookingResponse(b *models.Booking) BookingResponse {
	return BookingResponse{
		ID:         b.ID,
		CreatedAt:  createdAt(b),
		ReceiptURL: b.ReceiptURL,
		CheckIn:    formatTime(b.CheckIn),
		CheckOut:   formatTime(b.CheckOut),
		UserID:     b.UserID,
		RoomID:     b.RoomID,
		Status:     b.Status,
		Rating:     b.Rating,
		Review:     b.Review,
	}
}

func ToBookingResponses(bookings []models.Booking) []BookingResponse {
	resp := make([]BookingResponse, len(bookings))
	for i := range bookings {
		resp[i] = ToBookingResponse(&bookings[i])
	}
	return resp
}

func ToBookingEvent(b *models.Booking, room *client.Room, user *client.User) BookingEvent {
	return BookingEvent{
		ID:         b.ID,
		CreatedAt:  createdAt(b),
		ReceiptURL: b.ReceiptURL,
		CheckIn:    formatTime(b.CheckIn),
		CheckOut:   formatTime(b.CheckOut),
		Status:     b.Status,
		Rating:     b.Rating,
		Review:     b.Review,
		User:       user,
		Room:       room,
	}
}
