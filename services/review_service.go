package services

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
)

type ReviewService interface {
	Create(ctx context.Context, reviewerID string, req dto.CreateReviewRequest) (*dto.ReviewView, error)
	ListForProperty(ctx context.Context, propertyID string) ([]dto.ReviewView, error)
}

type reviewService struct {
	reviews  repositories.ReviewRepository
	bookings repositories.BookingRepository
	searcher SearchService
	logger   *zap.Logger
}

func NewReviewService(
	reviews repositories.ReviewRepository,
	bookings repositories.BookingRepository,
	searcher SearchService,
	logger *zap.Logger,
) ReviewService {
	return &reviewService{reviews: reviews, bookings: bookings, searcher: searcher, logger: logger}
}

// Create records the guest's review of a completed stay. Ratings feed the
// search results, so cached pages are dropped afterwards.
func (s *reviewService) Create(ctx context.Context, reviewerID string, req dto.CreateReviewRequest) (*dto.ReviewView, error) {
	if req.Rating < 1 || req.Rating > 5 {
		return nil, domain.NewValidationError("rating", "must be between 1 and 5")
	}

	// 1. Only the guest of a completed stay may review it
	booking, err := s.bookings.GetByID(ctx, req.BookingID)
	if err != nil {
		return nil, err
	}
	if booking.GuestID != reviewerID {
		return nil, fmt.Errorf("%w: only the guest can review a stay", domain.ErrForbidden)
	}
	if booking.Status != domain.BookingStatusCompleted {
		return nil, domain.NewValidationError("bookingId", "booking is %s, only completed stays can be reviewed", booking.Status)
	}
	if booking.Property == nil {
		return nil, fmt.Errorf("booking %s has no property: %w", booking.ID, domain.ErrNotFound)
	}

	// 2. One review per booking
	exists, err := s.reviews.ExistsForBooking(ctx, booking.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, fmt.Errorf("%w: booking already reviewed", domain.ErrConflict)
	}

	// 3. Save
	review := &domain.Review{
		BookingID:  booking.ID,
		PropertyID: booking.PropertyID,
		ReviewerID: reviewerID,
		HostID:     booking.Property.HostID,
		Rating:     req.Rating,
		Comment:    trimmed(req.Comment),
	}
	if err := s.reviews.Create(ctx, review); err != nil {
		return nil, err
	}
	s.logger.Info("Review created",
		zap.String("review_id", review.ID), zap.String("property_id", review.PropertyID))

	s.searcher.Invalidate(ctx)

	view := dto.NewReviewView(review)
	return &view, nil
}

func (s *reviewService) ListForProperty(ctx context.Context, propertyID string) ([]dto.ReviewView, error) {
	reviews, err := s.reviews.ListByProperty(ctx, propertyID)
	if err != nil {
		return nil, fmt.Errorf("listing reviews: %w", err)
	}
	return dto.NewReviewViews(reviews), nil
}

func trimmed(s *string) *string {
	if s == nil {
		return nil
	}
	v := strings.TrimSpace(*s)
	if v == "" {
		return nil
	}
	return &v
}
