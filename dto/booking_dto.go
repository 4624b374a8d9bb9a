package dto

import (
	"time"

	"rentals-api/domain"
)

type CreateBookingRequest struct {
	PropertyID string    `json:"propertyId" binding:"required"`
	CheckIn    time.Time `json:"checkIn" binding:"required"`
	CheckOut   time.Time `json:"checkOut" binding:"required"`
	Guests     int       `json:"guests"`
}

type UpdateBookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

type BookingView struct {
	ID            string    `json:"id"`
	PropertyID    string    `json:"propertyId"`
	PropertyTitle string    `json:"propertyTitle,omitempty"`
	GuestID       string    `json:"guestId"`
	CheckIn       time.Time `json:"checkIn"`
	CheckOut      time.Time `json:"checkOut"`
	Nights        int       `json:"nights"`
	Guests        int       `json:"guests"`
	TotalPrice    float64   `json:"totalPrice"`
	Status        string    `json:"status"`
	CreatedAt     time.Time `json:"createdAt"`
}

func NewBookingView(b *domain.Booking) BookingView {
	v := BookingView{
		ID:         b.ID,
		PropertyID: b.PropertyID,
		GuestID:    b.GuestID,
		CheckIn:    b.CheckIn,
		CheckOut:   b.CheckOut,
		Nights:     b.Nights(),
		Guests:     b.Guests,
		TotalPrice: b.TotalPrice.InexactFloat64(),
		Status:     string(b.Status),
		CreatedAt:  b.CreatedAt,
	}
	if b.Property != nil {
		v.PropertyTitle = b.Property.Title
	}
	return v
}

func NewBookingViews(bookings []domain.Booking) []BookingView {
	out := make([]BookingView, 0, len(bookings))
	for i := range bookings {
		out = append(out, NewBookingView(&bookings[i]))
	}
	return out
}
