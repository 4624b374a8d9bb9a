package repositories

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentals-api/domain"
)

type BookingRepository interface {
	CreateIfAvailable(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error
	ListByGuest(ctx context.Context, guestID string) ([]domain.Booking, error)
	ListByHost(ctx context.Context, hostID string) ([]domain.Booking, error)
	CompleteFinished(ctx context.Context, now time.Time) (int64, error)
}

type bookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) BookingRepository {
	return &bookingRepository{db: db}
}

// CreateIfAvailable inserts the booking unless a pending or confirmed booking
// of the same property overlaps its dates. The property row is locked for the
// duration of the check so two concurrent requests cannot both succeed.
func (r *bookingRepository) CreateIfAvailable(ctx context.Context, booking *domain.Booking) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var property domain.Property
		err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Select("id").
			First(&property, "id = ?", booking.PropertyID).Error
		if err != nil {
			return err
		}

		var overlapping int64
		err = tx.Model(&domain.Booking{}).
			Where("property_id = ?", booking.PropertyID).
			Where("status IN ?", []domain.BookingStatus{domain.BookingStatusPending, domain.BookingStatusConfirmed}).
			Where("check_in < ? AND check_out > ?", booking.CheckOut, booking.CheckIn).
			Count(&overlapping).Error
		if err != nil {
			return err
		}
		if overlapping > 0 {
			return fmt.Errorf("%w: property is already booked for these dates", domain.ErrConflict)
		}

		return tx.Omit(clause.Associations).Create(booking).Error
	})
	return translateError(err)
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	var booking domain.Booking
	if err := r.db.WithContext(ctx).Preload("Property").First(&booking, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &booking, nil
}

// UpdateStatus moves a booking from one status to another. It fails with
// domain.ErrConflict if the booking is no longer in the expected status.
func (r *bookingRepository) UpdateStatus(ctx context.Context, id string, from, to domain.BookingStatus) error {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: booking status changed concurrently", domain.ErrConflict)
	}
	return nil
}

func (r *bookingRepository) ListByGuest(ctx context.Context, guestID string) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Preload("Property").
		Where("guest_id = ?", guestID).
		Order("created_at DESC").Order("id ASC").
		Find(&bookings).Error
	return bookings, translateError(err)
}

// ListByHost returns bookings for every property the host owns.
func (r *bookingRepository) ListByHost(ctx context.Context, hostID string) ([]domain.Booking, error) {
	bookings := []domain.Booking{}
	err := r.db.WithContext(ctx).
		Preload("Property").
		Joins("JOIN properties ON properties.id = bookings.property_id").
		Where("properties.host_id = ?", hostID).
		Order("bookings.created_at DESC").Order("bookings.id ASC").
		Find(&bookings).Error
	return bookings, translateError(err)
}

// CompleteFinished marks confirmed bookings whose check-out is not after now
// as completed and reports how many changed.
func (r *bookingRepository) CompleteFinished(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Model(&domain.Booking{}).
		Where("status = ? AND check_out <= ?", domain.BookingStatusConfirmed, now).
		Update("status", domain.BookingStatusCompleted)
	return res.RowsAffected, translateError(res.Error)
}
