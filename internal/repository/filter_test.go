package repository

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/Eursukkul/room-booking-service/internal/models"
)

func dryRun(t *testing.T, scopes ...func(*gorm.DB) *gorm.DB) *gorm.Statement {
	t.Helper()
	db, _ := newMockDB(t)

	var bookings []models.Booking
	stmt := db.Session(&gorm.Session{DryRun: true}).
		Model(&models.Booking{}).
		Scopes(scopes...).
		Find(&bookings).Statement
	require.NotNil(t, stmt)
	return stmt
}

func TestBuildPredicate_Empty(t *testing.T) {
	p := BuildPredicate(models.BookingFilter{})
	assert.Empty(t, p)

	stmt := dryRun(t, p.Scope)
	assert.NotContains(t, stmt.SQL.String(), "WHERE")
}

func TestBuildPredicate_AllClausesInOrder(t *testing.T) {
	userID := "u-1"
	roomID := "r-1"
	status := models.StatusBooked
	minRating, maxRating := 3, 8
	checkIn := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	checkOut := time.Date(2026, 3, 9, 0, 0, 0, 0, time.UTC)

	p := BuildPredicate(models.BookingFilter{
		UserID:    &userID,
		RoomID:    &roomID,
		Status:    &status,
		MinRating: &minRating,
		MaxRating: &maxRating,
		CheckIn:   &checkIn,
		CheckOut:  &checkOut,
	})
	require.Len(t, p, 7)

	stmt := dryRun(t, p.Scope)
	sql := stmt.SQL.String()

	assert.Contains(t, sql, `"bookings"."user_id" = $1`)
	assert.Contains(t, sql, `"bookings"."room_id" = $2`)
	assert.Contains(t, sql, `"bookings"."status" = $3`)
	assert.Contains(t, sql, `"bookings"."rating" >= $4`)
	assert.Contains(t, sql, `"bookings"."rating" <= $5`)
	assert.Contains(t, sql, `"bookings"."check_in" >= $6`)
	assert.Contains(t, sql, `"bookings"."check_out" <= $7`)
	assert.Equal(t, 6, strings.Count(sql, " AND "))
	assert.Equal(t, []interface{}{userID, roomID, status, minRating, maxRating, checkIn, checkOut}, stmt.Vars)
}

func TestBuildPredicate_MinRatingOnly(t *testing.T) {
	minRating := 3
	p := BuildPredicate(models.BookingFilter{MinRating: &minRating})

	stmt := dryRun(t, p.Scope)

	assert.Contains(t, stmt.SQL.String(), `WHERE "bookings"."rating" >= $1`)
	assert.Equal(t, []interface{}{3}, stmt.Vars)
}

func TestPaginate(t *testing.T) {
	stmt := dryRun(t, Paginate(2, 2))
	sql := stmt.SQL.String()

	assert.Contains(t, sql, "LIMIT")
	assert.Contains(t, sql, "OFFSET")
	assert.Contains(t, stmt.Vars, 2)
}

func TestPaginate_FirstPageHasNoOffset(t *testing.T) {
	stmt := dryRun(t, Paginate(1, 20))

	assert.Contains(t, stmt.SQL.String(), "LIMIT")
	assert.NotContains(t, stmt.SQL.String(), "OFFSET")
}
