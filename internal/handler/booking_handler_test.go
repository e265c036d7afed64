package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Eursukkul/room-booking-service/internal/apperror"
	"github.com/Eursukkul/room-booking-service/internal/dto"
	"github.com/Eursukkul/room-booking-service/internal/middleware"
	"github.com/Eursukkul/room-booking-service/internal/models"
	"github.com/Eursukkul/room-booking-service/internal/service"
)

const (
	testUserID    = "6f1c1a38-0c7b-4f0a-9b1b-0c6f3d3b2a11"
	testRoomID    = "a7d4b7a6-43f5-4a3e-8c5d-91f1a0a0e0b2"
	testBookingID = "0e3f4c55-9a51-4b8e-9d0e-2f5f8b6c7d10"
)

// --- Mock BookingService ---

type mockBookingService struct {
	createFn       func(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error)
	getFn          func(ctx context.Context, id string) (*models.Booking, error)
	listFn         func(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error)
	changeStatusFn func(ctx context.Context, id, status, callerID string) (*models.Booking, error)
	reviewFn       func(ctx context.Context, id string, in service.ReviewInput, callerID string) (*models.Booking, error)
}

func (m *mockBookingService) Create(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error) {
	return m.createFn(ctx, in, userID)
}
func (m *mockBookingService) Get(ctx context.Context, id string) (*models.Booking, error) {
	return m.getFn(ctx, id)
}
func (m *mockBookingService) List(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
	return m.listFn(ctx, filter)
}
func (m *mockBookingService) ChangeStatus(ctx context.Context, id, status, callerID string) (*models.Booking, error) {
	return m.changeStatusFn(ctx, id, status, callerID)
}
func (m *mockBookingService) Review(ctx context.Context, id string, in service.ReviewInput, callerID string) (*models.Booking, error) {
	return m.reviewFn(ctx, id, in, callerID)
}
func (m *mockBookingService) PatchReceiptURL(ctx context.Context, id, url string) (bool, error) {
	return false, nil
}

// --- Helpers ---

func newTestEcho(svc service.BookingService) *echo.Echo {
	e := echo.New()
	e.HTTPErrorHandler = middleware.ErrorHandler
	e.Validator = middleware.NewValidator()
	NewBookingHandler(svc).RegisterRoutes(e)
	return e
}

func doRequest(e *echo.Echo, method, target, body, userID string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	if userID != "" {
		req.Header.Set(middleware.HeaderUserID, userID)
	}
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func sampleBooking() *models.Booking {
	return &models.Booking{
		ID:        testBookingID,
		CreatedAt: time.Now(),
		CheckIn:   time.Now().Add(24 * time.Hour),
		CheckOut:  time.Now().Add(48 * time.Hour),
		UserID:    testUserID,
		RoomID:    testRoomID,
		Status:    models.StatusBooked,
	}
}

func decodeErr(t *testing.T, rec *httptest.ResponseRecorder) dto.ErrorResponse {
	t.Helper()
	var resp dto.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

// --- Tests ---

func TestCreateBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error) {
			assert.Equal(t, testUserID, userID)
			assert.Equal(t, testRoomID, in.RoomID)
			assert.Equal(t, "2030-01-01T14:00:00Z", in.CheckIn)
			return sampleBooking(), nil
		},
	}

	e := echo.New()
	e.Validator = middleware.NewValidator()
	body := `{"checkIn":"2030-01-01T14:00:00Z","checkOut":"2030-01-03T10:00:00Z","roomId":"a7d4b7a6-43f5-4a3e-8c5d-91f1a0a0e0b2"}`
	req := httptest.NewRequest(http.MethodPost, "/api/bookings", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	req.Header.Set(middleware.HeaderUserID, testUserID)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	h := NewBookingHandler(svc)
	err := h.CreateBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusCreated, rec.Code)

	var resp dto.BookingResponse
	assert.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, testBookingID, resp.ID)
	assert.Equal(t, models.StatusBooked, resp.Status)
	assert.Equal(t, testUserID, resp.UserID)
	assert.Equal(t, testRoomID, resp.RoomID)
}

func TestCreateBooking_Handler_MissingUserHeader(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodPost, "/api/bookings", `{"checkIn":"x","checkOut":"y","roomId":"`+testRoomID+`"}`, "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "X-UserId header is required", decodeErr(t, rec).Message)
}

func TestCreateBooking_Handler_ValidationErrors(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodPost, "/api/bookings", `{"roomId":"room-1"}`, testUserID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErr(t, rec)
	assert.Equal(t, http.StatusBadRequest, resp.Status)
	assert.ElementsMatch(t, []string{
		"checkIn is required",
		"checkOut is required",
		"roomId must be a valid UUID",
	}, resp.Errors)
}

func TestCreateBooking_Handler_MalformedBody(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodPost, "/api/bookings", `{"checkIn":`, testUserID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "invalid request body", decodeErr(t, rec).Message)
}

func TestCreateBooking_Handler_Conflict(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error) {
			return nil, service.ErrRoomAlreadyBooked
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPost, "/api/bookings",
		`{"checkIn":"2030-01-01T14:00:00Z","checkOut":"2030-01-03T10:00:00Z","roomId":"`+testRoomID+`"}`, testUserID)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	resp := decodeErr(t, rec)
	assert.Equal(t, "Room already booked at same time", resp.Message)
	assert.Equal(t, http.StatusForbidden, resp.Status)
}

func TestCreateBooking_Handler_DirectoryUnavailable(t *testing.T) {
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error) {
			return nil, apperror.ServiceUnavailable("Rooms")
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPost, "/api/bookings",
		`{"checkIn":"2030-01-01T14:00:00Z","checkOut":"2030-01-03T10:00:00Z","roomId":"`+testRoomID+`"}`, testUserID)

	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Equal(t, "Rooms service not available. Try later", decodeErr(t, rec).Message)
}

func TestGetBooking_Handler_Success(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id string) (*models.Booking, error) {
			assert.Equal(t, testBookingID, id)
			return sampleBooking(), nil
		},
	}

	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/api/bookings/"+testBookingID, nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	c.SetParamNames("id")
	c.SetParamValues(testBookingID)

	h := NewBookingHandler(svc)
	err := h.GetBooking(c)

	assert.NoError(t, err)
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGetBooking_Handler_InvalidID(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodGet, "/api/bookings/abc", "", "")

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, "abc is not a valid id", decodeErr(t, rec).Message)
}

func TestGetBooking_Handler_NotFound(t *testing.T) {
	svc := &mockBookingService{
		getFn: func(ctx context.Context, id string) (*models.Booking, error) {
			return nil, apperror.NotFound("Not found booking with id:%s", id)
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodGet, "/api/bookings/"+testBookingID, "", "")

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Equal(t, "Not found booking with id:"+testBookingID, decodeErr(t, rec).Message)
}

func TestListBookings_Handler_Filters(t *testing.T) {
	var got models.BookingFilter
	svc := &mockBookingService{
		listFn: func(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
			got = filter
			return []models.Booking{*sampleBooking()}, nil
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodGet, "/api/bookings?roomId="+testRoomID+"&status=BOOKED&minRating=3&page=2&limit=2", "", "")

	require.Equal(t, http.StatusOK, rec.Code)
	var resp []dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Len(t, resp, 1)

	require.NotNil(t, got.RoomID)
	assert.Equal(t, testRoomID, *got.RoomID)
	require.NotNil(t, got.Status)
	assert.Equal(t, models.StatusBooked, *got.Status)
	require.NotNil(t, got.MinRating)
	assert.Equal(t, 3, *got.MinRating)
	assert.Nil(t, got.MaxRating)
	assert.Equal(t, 2, got.Page)
	assert.Equal(t, 2, got.Limit)
}

func TestListBookings_Handler_Defaults(t *testing.T) {
	var got models.BookingFilter
	svc := &mockBookingService{
		listFn: func(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
			got = filter
			return nil, nil
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodGet, "/api/bookings", "", "")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "[]", strings.TrimSpace(rec.Body.String()))
	assert.Equal(t, 1, got.Page)
	assert.Equal(t, 20, got.Limit)
}

func TestListBookings_Handler_InvalidQuery(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	tests := []struct {
		query   string
		message string
	}{
		{"?maxRating=11", "validation failed"},
		{"?status=LOST", "LOST is not valid status. [BOOKED, CANCELLED, IN_USE, NOT_PRESENT, DELIVERED]"},
		{"?checkIn=yesterday", "checkIn is not a valid date"},
		{"?page=abc", "invalid query parameters"},
	}
	for _, tt := range tests {
		rec := doRequest(e, http.MethodGet, "/api/bookings"+tt.query, "", "")
		assert.Equal(t, http.StatusBadRequest, rec.Code, tt.query)
		assert.Equal(t, tt.message, decodeErr(t, rec).Message, tt.query)
	}
}

func TestUpdateStatus_Handler(t *testing.T) {
	svc := &mockBookingService{
		changeStatusFn: func(ctx context.Context, id, status, callerID string) (*models.Booking, error) {
			if callerID != testUserID {
				return nil, service.ErrNotRoomOwner
			}
			b := sampleBooking()
			b.Status = models.BookingStatus(status)
			return b, nil
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPatch, "/api/bookings/"+testBookingID+"/status", `{"status":"IN_USE"}`, testUserID)
	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, models.StatusInUse, resp.Status)

	rec = doRequest(e, http.MethodPatch, "/api/bookings/"+testBookingID+"/status", `{"status":"IN_USE"}`, testRoomID)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Not have permission to update booking of room that belong to another user", decodeErr(t, rec).Message)
}

func TestUpdateStatus_Handler_MissingStatus(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodPatch, "/api/bookings/"+testBookingID+"/status", `{}`, testUserID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"status is required"}, decodeErr(t, rec).Errors)
}

func TestCreateReview_Handler(t *testing.T) {
	svc := &mockBookingService{
		reviewFn: func(ctx context.Context, id string, in service.ReviewInput, callerID string) (*models.Booking, error) {
			assert.Equal(t, testBookingID, id)
			assert.Equal(t, 9, in.Rating)
			require.NotNil(t, in.Review)
			assert.Equal(t, "spotless", *in.Review)
			b := sampleBooking()
			b.Rating = &in.Rating
			b.Review = in.Review
			return b, nil
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPost, "/api/bookings/"+testBookingID+"/review", `{"rating":9,"review":"spotless"}`, testUserID)

	require.Equal(t, http.StatusOK, rec.Code)
	var resp dto.BookingResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	require.NotNil(t, resp.Rating)
	assert.Equal(t, 9, *resp.Rating)
}

func TestCreateReview_Handler_RatingOutOfRange(t *testing.T) {
	e := newTestEcho(&mockBookingService{})

	rec := doRequest(e, http.MethodPost, "/api/bookings/"+testBookingID+"/review", `{"rating":0}`, testUserID)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, []string{"rating must be greater than or equal to 1"}, decodeErr(t, rec).Errors)
}

func TestCreateReview_Handler_AlreadyReviewed(t *testing.T) {
	svc := &mockBookingService{
		reviewFn: func(ctx context.Context, id string, in service.ReviewInput, callerID string) (*models.Booking, error) {
			return nil, service.ErrAlreadyReviewed
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPost, "/api/bookings/"+testBookingID+"/review", `{"rating":4}`, testUserID)

	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Equal(t, "Booking already reviewed", decodeErr(t, rec).Message)
}

func TestIDs_Handler_UppercaseIsNormalised(t *testing.T) {
	upperRoom := strings.ToUpper(testRoomID)
	upperUser := strings.ToUpper(testUserID)

	var created service.CreateBookingInput
	var createdBy string
	var listed models.BookingFilter
	svc := &mockBookingService{
		createFn: func(ctx context.Context, in service.CreateBookingInput, userID string) (*models.Booking, error) {
			created, createdBy = in, userID
			return sampleBooking(), nil
		},
		listFn: func(ctx context.Context, filter models.BookingFilter) ([]models.Booking, error) {
			listed = filter
			return nil, nil
		},
	}
	e := newTestEcho(svc)

	rec := doRequest(e, http.MethodPost, "/api/bookings",
		`{"checkIn":"2030-01-01T14:00:00Z","checkOut":"2030-01-03T10:00:00Z","roomId":"`+upperRoom+`"}`, upperUser)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, testRoomID, created.RoomID)
	assert.Equal(t, testUserID, createdBy)

	rec = doRequest(e, http.MethodGet, "/api/bookings?userId="+upperUser+"&roomId="+upperRoom, "", "")
	require.Equal(t, http.StatusOK, rec.Code)
	require.NotNil(t, listed.UserID)
	require.NotNil(t, listed.RoomID)
	assert.Equal(t, testUserID, *listed.UserID)
	assert.Equal(t, testRoomID, *listed.RoomID)
}
