package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"github.com/Eursukkul/room-booking-service/internal/client"
	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/internal/models"
)

// --- In-memory BookingRepository ---

type memoryRepo struct {
	mu       sync.Mutex
	bookings map[string]*models.Booking
	order    []string

	createErr error
}

func newMemoryRepo(seed ...models.Booking) *memoryRepo {
	r := &memoryRepo{bookings: map[string]*models.Booking{}}
	for i := range seed {
		b := seed[i]
		r.bookings[b.ID] = &b
		r.order = append(r.order, b.ID)
	}
	return r
}

func (r *memoryRepo) Create(ctx context.Context, b *models.Booking) error {
	if r.createErr != nil {
		return r.createErr
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	b.CreatedAt = time.Now()
	cp := *b
	r.bookings[b.ID] = &cp
	r.order = append(r.order, b.ID)
	return nil
}

func (r *memoryRepo) FindByID(ctx context.Context, id string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	cp := *b
	return &cp, nil
}

func (r *memoryRepo) List(ctx context.Context, f models.BookingFilter) ([]models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]models.Booking, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, *r.bookings[id])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return out, nil
}

func within(t time.Time, b *models.Booking) bool {
	return !t.Before(b.CheckIn) && !t.After(b.CheckOut)
}

func (r *memoryRepo) FindConflict(ctx context.Context, checkIn, checkOut time.Time, userID, roomID string) (*models.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, id := range r.order {
		b := r.bookings[id]
		if b.Status != models.StatusBooked {
			continue
		}
		if b.UserID != userID && b.RoomID != roomID {
			continue
		}
		if within(checkIn, b) || within(checkOut, b) {
			cp := *b
			return &cp, nil
		}
	}
	return nil, nil
}

func (r *memoryRepo) UpdateStatus(ctx context.Context, id string, status models.BookingStatus) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if b, ok := r.bookings[id]; ok {
		b.Status = status
	}
	return nil
}

func (r *memoryRepo) SaveReview(ctx context.Context, id string, rating int, review *string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok || b.Rating != nil {
		return false, nil
	}
	b.Rating = &rating
	b.Review = review
	return true, nil
}

func (r *memoryRepo) UpdateReceiptURL(ctx context.Context, id, url string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.bookings[id]
	if !ok {
		return false, nil
	}
	b.ReceiptURL = &url
	return true, nil
}

func (r *memoryRepo) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.bookings)
}

// --- Directory mocks ---

type mockRooms struct {
	findByIDFn func(ctx context.Context, id string) (*client.Room, error)
}

func (m *mockRooms) FindByID(ctx context.Context, id string) (*client.Room, error) {
	return m.findByIDFn(ctx, id)
}

type mockUsers struct {
	findByIDFn func(ctx context.Context, id string) (*client.User, error)
}

func (m *mockUsers) FindByID(ctx context.Context, id string) (*client.User, error) {
	return m.findByIDFn(ctx, id)
}

func roomsOwnedBy(ownerID string) *mockRooms {
	return &mockRooms{findByIDFn: func(ctx context.Context, id string) (*client.Room, error) {
		return &client.Room{ID: id, Name: "Room " + id, OwnerID: ownerID}, nil
	}}
}

func anyUser() *mockUsers {
	return &mockUsers{findByIDFn: func(ctx context.Context, id string) (*client.User, error) {
		return &client.User{ID: id, Name: "user " + id}, nil
	}}
}

// --- Emitter mock ---

type MockEmitter struct {
	mock.Mock
}

func (m *MockEmitter) BookingCreated(ctx context.Context, ev dto.BookingEvent) {
	m.Called(ctx, ev)
}

func (m *MockEmitter) ReviewCreated(ctx context.Context, b dto.BookingResponse) {
	m.Called(ctx, b)
}
