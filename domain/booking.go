package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Booking reserves a property for a guest between CheckIn and CheckOut.
type Booking struct {
	ID         string          `gorm:"type:varchar(36);primaryKey" json:"id"`
	PropertyID string          `gorm:"type:varchar(36);not null;index" json:"propertyId"`
	Property   *Property       `gorm:"foreignKey:PropertyID" json:"property,omitempty"`
	GuestID    string          `gorm:"type:varchar(36);not null;index" json:"guestId"`
	Guest      *User           `gorm:"foreignKey:GuestID" json:"guest,omitempty"`
	CheckIn    time.Time       `gorm:"not null" json:"checkIn"`
	CheckOut   time.Time       `gorm:"not null" json:"checkOut"`
	Guests     int             `gorm:"not null" json:"guests"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(10,2);not null" json:"totalPrice"`
	Status     BookingStatus   `gorm:"type:varchar(20);not null;default:'PENDING';index" json:"status"`
	CreatedAt  time.Time       `json:"createdAt"`
	UpdatedAt  time.Time       `json:"updatedAt"`
}

func (Booking) TableName() string {
	return "bookings"
}

func (b *Booking) BeforeCreate(tx *gorm.DB) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	return nil
}

// Nights is the number of whole days between check-in and check-out.
func (b Booking) Nights() int {
	return NightsBetween(b.CheckIn, b.CheckOut)
}

// NightsBetween counts calendar days from in to out, ignoring time of day.
func NightsBetween(in, out time.Time) int {
	a := time.Date(in.Year(), in.Month(), in.Day(), 0, 0, 0, 0, time.UTC)
	b := time.Date(out.Year(), out.Month(), out.Day(), 0, 0, 0, 0, time.UTC)
	return int(b.Sub(a).Hours() / 24)
}
