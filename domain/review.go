package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Review is a guest's rating of a completed stay. One per booking.
type Review struct {
	ID         string    `gorm:"type:varchar(36);primaryKey" json:"id"`
	BookingID  string    `gorm:"type:varchar(36);uniqueIndex;not null" json:"bookingId"`
	PropertyID string    `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	ReviewerID string    `gorm:"type:varchar(36);not null" json:"reviewerId"`
	Reviewer   *User     `gorm:"foreignKey:ReviewerID" json:"reviewer,omitempty"`
	HostID     string    `gorm:"type:varchar(36);not null" json:"hostId"`
	Rating     int       `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    *string   `gorm:"type:text" json:"comment"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

func (Review) TableName() string {
	return "reviews"
}

func (r *Review) BeforeCreate(tx *gorm.DB) error {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	return nil
}

// RatingSummary is the aggregate of all reviews for one property.
type RatingSummary struct {
	PropertyID string
	Average    float64
	Count      int64
}

// Models lists every entity for schema migration.
func Models() []any {
	return []any{&User{}, &Amenity{}, &Property{}, &PropertyImage{}, &Booking{}, &Review{}, &Favorite{}}
}
