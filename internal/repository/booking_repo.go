package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/Eursukkul/room-booking-service/internal/models"
)

type BookingRepository interface {
	Create(ctx context.Context, booking *models.Booking) error
	FindByID(ctx context.Context, id string) (*models.Booking, error)
	List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	FindConflict(ctx context.Context, checkIn, checkOut time.Time, userID, roomID string) (*models.Booking, error)
	UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error
	SaveReview(ctx context.Context, id string, rating int, review *string) (bool, error)
	UpdateReceiptURL(ctx context.Context, id, url string) (bool, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

func (r *bookingRepository) Create(ctx context.Context, booking *models.Booking) error {
	return r.db.WithContext(ctx).Create(booking).Error
}

// FindByID returns gorm.ErrRecordNotFound when no row matches.
func (r *bookingRepository) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	var booking models.Booking
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&booking).Error; err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	var bookings []models.Booking
	err := r.db.WithContext(ctx).
		Scopes(BuildPredicate(filter).Scope, Paginate(filter.Page, filter.Limit)).
		Order("created_at ASC, id ASC").
		Find(&bookings).Error
	if err != nil {
		return nil, err
	}
	return bookings, nil
}

// FindConflict returns the first BOOKED row shared by the user or the room
// whose window contains checkIn or checkOut, boundaries included. It returns
// nil when there is none.
func (r *bookingRepository) FindConflict(ctx context.Context, checkIn, checkOut time.Time, userID, roomID string) (*models.Booking, error) {
	var booking models.Booking
	err := r.db.WithContext(ctx).
		Where("status = ?", models.StatusBooked).
		Where("(user_id = ? OR room_id = ?)", userID, roomID).
		Where("((? BETWEEN check_in AND check_out) OR (? BETWEEN check_in AND check_out))", checkIn, checkOut).
		Order("created_at ASC").
		Take(&booking).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &booking, nil
}

func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("status", status).Error
}

// SaveReview stores rating and review together only while the booking has no
// rating. It reports false when another review got there first.
func (r *bookingRepository) SaveReview(ctx context.Context, id string, rating int, review *string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ? AND rating IS NULL", id).
		Updates(map[string]any{"rating": rating, "review": review})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected == 1, nil
}

// UpdateReceiptURL reports false when the booking does not exist.
func (r *bookingRepository) UpdateReceiptURL(ctx context.Context, id, url string) (bool, error) {
	result := r.db.WithContext(ctx).
		Model(&models.Booking{}).
		Where("id = ?", id).
		Update("receipt_url", url)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
