package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
)

type BookingService interface {
	Create(ctx context.Context, guestID string, req dto.CreateBookingRequest) (*dto.BookingView, error)
	UpdateStatus(ctx context.Context, actorID, bookingID, status string) (*dto.BookingView, error)
	ListForGuest(ctx context.Context, guestID string) ([]dto.BookingView, error)
	ListForHost(ctx context.Context, hostID string) ([]dto.BookingView, error)
	CompleteFinishedStays(ctx context.Context, now time.Time) (int64, error)
}

type bookingService struct {
	bookings   repositories.BookingRepository
	properties repositories.PropertyRepository
	logger     *zap.Logger
}

func NewBookingService(
	bookings repositories.BookingRepository,
	properties repositories.PropertyRepository,
	logger *zap.Logger,
) BookingService {
	return &bookingService{bookings: bookings, properties: properties, logger: logger}
}

// Create reserves a stay. The price is always computed here, never taken
// from the caller.
func (s *bookingService) Create(ctx context.Context, guestID string, req dto.CreateBookingRequest) (*dto.BookingView, error) {
	// 1. Property
	property, err := s.properties.GetByID(ctx, req.PropertyID)
	if err != nil {
		return nil, err
	}
	if property.HostID == guestID {
		return nil, fmt.Errorf("%w: hosts cannot book their own property", domain.ErrForbidden)
	}
	if !property.IsActive {
		return nil, domain.NewValidationError("propertyId", "property is not accepting bookings")
	}

	// 2. Dates and party size
	if !req.CheckIn.Before(req.CheckOut) {
		return nil, domain.NewValidationError("checkOut", "must be after checkIn")
	}
	nights := domain.NightsBetween(req.CheckIn, req.CheckOut)
	if nights < 1 {
		return nil, domain.NewValidationError("checkOut", "must be at least one night after checkIn")
	}
	if nights < property.MinimumStay {
		return nil, domain.NewValidationError("checkOut", "minimum stay is %d nights", property.MinimumStay)
	}
	if property.MaximumStay != nil && nights > *property.MaximumStay {
		return nil, domain.NewValidationError("checkOut", "maximum stay is %d nights", *property.MaximumStay)
	}
	if req.Guests < 1 {
		return nil, domain.NewValidationError("guests", "must be at least 1")
	}
	if req.Guests > property.MaxGuests {
		return nil, domain.NewValidationError("guests", "property sleeps at most %d", property.MaxGuests)
	}

	// 3. Overlap check and insert share one transaction
	booking := &domain.Booking{
		PropertyID: property.ID,
		GuestID:    guestID,
		CheckIn:    req.CheckIn.UTC(),
		CheckOut:   req.CheckOut.UTC(),
		Guests:     req.Guests,
		TotalPrice: TotalPrice(property, nights),
		Status:     domain.BookingStatusPending,
	}
	if err := s.bookings.CreateIfAvailable(ctx, booking); err != nil {
		return nil, err
	}
	s.logger.Info("Booking created",
		zap.String("booking_id", booking.ID),
		zap.String("property_id", property.ID),
		zap.Int("nights", nights))

	booking.Property = property
	view := dto.NewBookingView(booking)
	return &view, nil
}

// TotalPrice is nights times the nightly rate plus the one-off fees.
func TotalPrice(p *domain.Property, nights int) decimal.Decimal {
	total := p.PricePerNight.Mul(decimal.NewFromInt(int64(nights)))
	if p.CleaningFee.Valid {
		total = total.Add(p.CleaningFee.Decimal)
	}
	if p.ServiceFee.Valid {
		total = total.Add(p.ServiceFee.Decimal)
	}
	return total
}

// UpdateStatus moves a booking along its lifecycle. Either party may cancel;
// every other change belongs to the host.
func (s *bookingService) UpdateStatus(ctx context.Context, actorID, bookingID, status string) (*dto.BookingView, error) {
	next := domain.BookingStatus(strings.ToUpper(strings.TrimSpace(status)))
	if !next.Valid() {
		return nil, domain.NewValidationError("status", "unknown booking status %q", status)
	}

	booking, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		return nil, err
	}
	if booking.Property == nil {
		return nil, fmt.Errorf("booking %s has no property: %w", bookingID, domain.ErrNotFound)
	}

	isGuest := booking.GuestID == actorID
	isHost := booking.Property.HostID == actorID
	switch {
	case !isGuest && !isHost:
		return nil, fmt.Errorf("%w: not your booking", domain.ErrForbidden)
	case next != domain.BookingStatusCancelled && !isHost:
		return nil, fmt.Errorf("%w: only the host can set %s", domain.ErrForbidden, next)
	}

	if !booking.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: cannot move booking from %s to %s", domain.ErrConflict, booking.Status, next)
	}
	if err := s.bookings.UpdateStatus(ctx, booking.ID, booking.Status, next); err != nil {
		return nil, err
	}
	s.logger.Info("Booking status changed",
		zap.String("booking_id", booking.ID),
		zap.String("from", string(booking.Status)),
		zap.String("to", string(next)))

	booking.Status = next
	view := dto.NewBookingView(booking)
	return &view, nil
}

func (s *bookingService) ListForGuest(ctx context.Context, guestID string) ([]dto.BookingView, error) {
	bookings, err := s.bookings.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, fmt.Errorf("listing guest bookings: %w", err)
	}
	return dto.NewBookingViews(bookings), nil
}

func (s *bookingService) ListForHost(ctx context.Context, hostID string) ([]dto.BookingView, error) {
	bookings, err := s.bookings.ListByHost(ctx, hostID)
	if err != nil {
		return nil, fmt.Errorf("listing host bookings: %w", err)
	}
	return dto.NewBookingViews(bookings), nil
}

// CompleteFinishedStays closes every confirmed booking whose check-out has
// passed.
func (s *bookingService) CompleteFinishedStays(ctx context.Context, now time.Time) (int64, error) {
	completed, err := s.bookings.CompleteFinished(ctx, now.UTC())
	if err != nil {
		return 0, fmt.Errorf("completing stays: %w", err)
	}
	if completed > 0 {
		s.logger.Info("Stays completed", zap.Int64("bookings", completed))
	}
	return completed, nil
}
