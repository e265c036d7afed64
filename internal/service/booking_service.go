package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/gorm"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/client"
	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/internal/models"
	"github.com/Eursukkul/room-booking-service/internal/repository"
	"github.com/Eursukkul/room-booking-service/pkg/logger"
	"github.com/Eursukkul/room-booking-service/pkg/metrics"
)

var (
	ErrCheckInInPast       = apperror.BadRequest("checkIn cannot be before current time")
	ErrCheckInAfterOut     = apperror.BadRequest("checkIn must be before checkOut")
	ErrNotRoomOwner        = apperror.Forbidden("Not have permission to update booking of room that belong to another user")
	ErrNotBookingRequester = apperror.Forbidden("Not have permission to review booking that belong to another user")
	ErrAlreadyReviewed     = apperror.Forbidden("Booking already reviewed")
)

type RoomDirectory interface {
	FindByID(ctx context.Context, id string) (*client.Room, error)
}

type UserDirectory interface {
	FindByID(ctx context.Context, id string) (*client.User, error)
}

type EventEmitter interface {
	BookingCreated(ctx context.Context, ev dto.BookingEvent)
	ReviewCreated(ctx context.Context, b dto.BookingResponse)
}

type CreateBookingInput struct {
	CheckIn  string
	CheckOut string
	RoomID   string
}

type ReviewInput struct {
	Rating int
	Review *string
}

type BookingService interface {
	Create(ctx context.Context, in CreateBookingInput, userID string) (*models.Booking, error)
	Get(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	ChangeStatus(ctx context.Context, id, status, callerID string) (*models.Booking, error)
	Review(ctx context.Context, id string, in ReviewInput, callerID string) (*models.Booking, error)
	PatchReceiptURL(ctx context.Context, id, url string) (bool, error)
}

type bookingService struct {
	repo     repository.BookingRepository
	detector *ConflictDetector
	rooms    RoomDirectory
	users    UserDirectory
	events   EventEmitter
	metrics  *metrics.Metrics
	now      func() time.Time
	log      *zap.Logger
}

func NewBookingService(
	repo repository.BookingRepository,
	rooms RoomDirectory,
	users UserDirectory,
	events EventEmitter,
	m *metrics.Metrics,
) BookingService {
	return &bookingService{
		repo:     repo,
		detector: NewConflictDetector(repo),
		rooms:    rooms,
		users:    users,
		events:   events,
		metrics:  m,
		now:      time.Now,
		log:      logger.Named("service"),
	}
}

func (s *bookingService) Create(ctx context.Context, in CreateBookingInput, userID string) (*models.Booking, error) {
	checkIn, err := dto.ParseInstant("checkIn", in.CheckIn)
	if err != nil {
		s.count("rejected")
		return nil, err
	}
	checkOut, err := dto.ParseInstant("checkOut", in.CheckOut)
	if err != nil {
		s.count("rejected")
		return nil, err
	}
	if checkIn.Before(s.now()) {
		s.count("rejected")
		return nil, ErrCheckInInPast
	}
	if !checkIn.Before(checkOut) {
		s.count("rejected")
		return nil, ErrCheckInAfterOut
	}

	room, err := s.rooms.FindByID(ctx, in.RoomID)
	if err != nil {
		return nil, err
	}

	if err := s.detector.Check(ctx, checkIn, checkOut, userID, in.RoomID); err != nil {
		switch {
		case errors.Is(err, ErrUserAlreadyBooked):
			s.count("user_conflict")
		case errors.Is(err, ErrRoomAlreadyBooked):
			s.count("room_conflict")
		default:
			s.count("error")
		}
		return nil, err
	}

	user, err := s.users.FindByID(ctx, userID)
	if err != nil {
		return nil, err
	}
	owner, err := s.users.FindByID(ctx, room.OwnerID)
	if err != nil {
		return nil, err
	}
	room.Owner = owner

	booking := &models.Booking{
		CheckIn:  checkIn,
		CheckOut: checkOut,
		UserID:   userID,
		RoomID:   in.RoomID,
		Status:   models.StatusBooked,
	}
	if err := s.repo.Create(ctx, booking); err != nil {
		s.count("error")
		return nil, fmt.Errorf("create booking: %w", err)
	}
	s.count("created")

	s.log.Info("booking created",
		zap.String("booking_id", booking.ID),
		zap.String("room_id", booking.RoomID),
		zap.String("user_id", booking.UserID),
	)
	s.events.BookingCreated(ctx, dto.ToBookingEvent(booking, room, user))

	return booking, nil
}

func (s *bookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperror.NotFound("Not found booking with id:%s", id)
		}
		return nil, fmt.Errorf("find booking: %w", err)
	}
	return booking, nil
}

func (s *bookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	bookings, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ChangeStatus lets the room owner move a booking to any status.
func (s *bookingService) ChangeStatus(ctx context.Context, id, status, callerID string) (*models.Booking, error) {
	st, err := dto.ParseStatus(status)
	if err != nil {
		return nil, err
	}

	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	room, err := s.rooms.FindByID(ctx, booking.RoomID)
	if err != nil {
		return nil, err
	}
	if room.OwnerID != callerID {
		return nil, ErrNotRoomOwner
	}

	if err := s.repo.UpdateStatus(ctx, booking.ID, st); err != nil {
		return nil, fmt.Errorf("update status: %w", err)
	}
	booking.Status = st

	s.log.Info("booking status changed", zap.String("booking_id", booking.ID), zap.String("status", string(st)))
	return booking, nil
}

// Review stores the requester's single review.
func (s *bookingService) Review(ctx context.Context, id string, in ReviewInput, callerID string) (*models.Booking, error) {
	booking, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if booking.UserID != callerID {
		return nil, ErrNotBookingRequester
	}
	if booking.Reviewed() {
		return nil, ErrAlreadyReviewed
	}

	saved, err := s.repo.SaveReview(ctx, booking.ID, in.Rating, in.Review)
	if err != nil {
		return nil, fmt.Errorf("save review: %w", err)
	}
	if !saved {
		return nil, ErrAlreadyReviewed
	}

	rating := in.Rating
	booking.Rating = &rating
	booking.Review = in.Review

	s.events.ReviewCreated(ctx, dto.ToBookingResponse(booking))
	return booking, nil
}

// PatchReceiptURL reports false without error when the booking is unknown.
func (s *bookingService) PatchReceiptURL(ctx context.Context, id, url string) (bool, error) {
	patched, err := s.repo.UpdateReceiptURL(ctx, id, url)
	if err != nil {
		return false, fmt.Errorf("update receipt url: %w", err)
	}
	return patched, nil
}

func (s *bookingService) count(outcome string) {
	if s.metrics != nil {
		s.metrics.BookingsTotal.WithLabelValues(outcome).Inc()
	}
}
