package handler

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/internal/middleware"
	"github.com/Eursukkul/room-booking-service/internal/service"
)

type BookingHandler struct {
	svc service.BookingService
}

func NewBookingHandler(svc service.BookingService) *BookingHandler {
	return &BookingHandler{svc: svc}
}

func (h *BookingHandler) RegisterRoutes(e *echo.Echo) {
	bookings := e.Group("/api/bookings")
	bookings.POST("", h.CreateBooking)
	bookings.GET("", h.ListBookings)
	bookings.GET("/:id", h.GetBooking)
	bookings.PATCH("/:id/status", h.UpdateStatus)
	bookings.POST("/:id/review", h.CreateReview)
}

// callerID reads the caller from the gateway header, normalized to lower-case UUID form.
func callerID(c echo.Context) (string, error) {
	raw := c.Request().Header.Get(middleware.HeaderUserID)
	if raw == "" {
		return "", apperror.BadRequest("%s header is required", middleware.HeaderUserID)
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperror.BadRequest("%s header must be a valid UUID", middleware.HeaderUserID)
	}
	return id.String(), nil
}

func bookingID(c echo.Context) (string, error) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		return "", apperror.BadRequest("%s is not a valid id", c.Param("id"))
	}
	return id.String(), nil
}

func bindAndValidate(c echo.Context, req any) error {
	if err := c.Bind(req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid request body")
	}
	return c.Validate(req)
}

func (h *BookingHandler) CreateBooking(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}

	var req dto.CreateBookingRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}
	roomID := uuid.MustParse(req.RoomID).String()

	booking, err := h.svc.Create(c.Request().Context(), service.CreateBookingInput{
		CheckIn:  req.CheckIn,
		CheckOut: req.CheckOut,
		RoomID:   roomID,
	}, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) GetBooking(c echo.Context) error {
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	booking, err := h.svc.Get(c.Request().Context(), id)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) ListBookings(c echo.Context) error {
	var req dto.FilterBookingRequest
	if err := (&echo.DefaultBinder{}).BindQueryParams(c, &req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid query parameters")
	}
	if err := c.Validate(&req); err != nil {
		return err
	}

	filter, err := req.ToFilter()
	if err != nil {
		return err
	}

	bookings, err := h.svc.List(c.Request().Context(), filter)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponses(bookings))
}

func (h *BookingHandler) UpdateStatus(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	var req dto.UpdateStatusRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.ChangeStatus(c.Request().Context(), id, req.Status, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}

func (h *BookingHandler) CreateReview(c echo.Context) error {
	userID, err := callerID(c)
	if err != nil {
		return err
	}
	id, err := bookingID(c)
	if err != nil {
		return err
	}

	var req dto.CreateReviewRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	booking, err := h.svc.Review(c.Request().Context(), id, service.ReviewInput{
		Rating: *req.Rating,
		Review: req.Review,
	}, userID)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, dto.ToBookingResponse(booking))
}
