package dto

type CreateBookingRequest struct {
	CheckIn  string `json:"checkIn" validate:"required"`
	CheckOut string `json:"checkOut" validate:"required"`
	RoomID   string `json:"roomId" validate:"required,uuid_rfc4122"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

type CreateReviewRequest struct {
	Rating *int    `json:"rating" validate:"required,min=1,max=10"`
	Review *string `json:"review" validate:"omitempty,min=3,max=255"`
}

// FilterBookingRequest is bound from the listing query string.
type FilterBookingRequest struct {
	UserID    string `query:"userId" validate:"omitempty,uuid_rfc4122"`
	RoomID    string `query:"roomId" validate:"omitempty,uuid_rfc4122"`
	CheckIn   string `query:"checkIn"`
	CheckOut  string `query:"checkOut"`
	Status    string `query:"status"`
	MinRating int    `query:"minRating" validate:"omitempty,min=1,max=10"`
	MaxRating int    `query:"maxRating" validate:"omitempty,min=1,max=10"`
	Page      int    `query:"page" validate:"omitempty,min=1"`
	Limit     int    `query:"limit" validate:"omitempty,min=1,max=100"`
}
