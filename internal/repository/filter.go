package repository

import (
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/Eursukkul/room-booking-service/internal/models"
)

// Predicate is an ordered list of conditions joined with AND.
type Predicate []clause.Expression

func column(name string) clause.Column {
	return clause.Column{Table: clause.CurrentTable, Name: name}
}

// BuildPredicate adds one clause per set filter field.
func BuildPredicate(f models.BookingFilter) Predicate {
	var p Predicate

	if f.UserID != nil {
		p = append(p, clause.Eq{Column: column("user_id"), Value: *f.UserID})
	}
	if f.RoomID != nil {
		p = append(p, clause.Eq{Column: column("room_id"), Value: *f.RoomID})
	}
	if f.Status != nil {
		p = append(p, clause.Eq{Column: column("status"), Value: *f.Status})
	}
	if f.MinRating != nil {
		p = append(p, clause.Gte{Column: column("rating"), Value: *f.MinRating})
	}
	if f.MaxRating != nil {
		p = append(p, clause.Lte{Column: column("rating"), Value: *f.MaxRating})
	}
	if f.CheckIn != nil {
		p = append(p, clause.Gte{Column: column("check_in"), Value: *f.CheckIn})
	}
	if f.CheckOut != nil {
		p = append(p, clause.Lte{Column: column("check_out"), Value: *f.CheckOut})
	}

	return p
}

// Scope applies the predicate. An empty predicate matches every row.
func (p Predicate) Scope(db *gorm.DB) *gorm.DB {
	if len(p) == 0 {
		return db
	}
	return db.Clauses(clause.Where{Exprs: p})
}

// Paginate skips (page-1)*limit rows. Page and limit are 1-based and positive.
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		if limit < 1 {
			return db
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
