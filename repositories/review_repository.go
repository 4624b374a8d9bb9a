package repositories

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentals-api/domain"
)

type ReviewRepository interface {
	Create(ctx context.Context, review *domain.Review) error
	ExistsForBooking(ctx context.Context, bookingID string) (bool, error)
	ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error)
	Summaries(ctx context.Context, propertyIDs []string) (map[string]domain.RatingSummary, error)
}

type reviewRepository struct {
	db *gorm.DB
}

func NewReviewRepository(db *gorm.DB) ReviewRepository {
	return &reviewRepository{db: db}
}

// Create inserts a review. A second review of the same booking hits the
// unique index and surfaces as domain.ErrConflict.
func (r *reviewRepository) Create(ctx context.Context, review *domain.Review) error {
	return translateError(r.db.WithContext(ctx).Omit(clause.Associations).Create(review).Error)
}

func (r *reviewRepository) ExistsForBooking(ctx context.Context, bookingID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&domain.Review{}).Where("booking_id = ?", bookingID).Count(&count).Error
	return count > 0, translateError(err)
}

func (r *reviewRepository) ListByProperty(ctx context.Context, propertyID string) ([]domain.Review, error) {
	reviews := []domain.Review{}
	err := r.db.WithContext(ctx).
		Preload("Reviewer").
		Where("property_id = ?", propertyID).
		Order("created_at DESC").Order("id ASC").
		Find(&reviews).Error
	return reviews, translateError(err)
}

type summaryRow struct {
	PropertyID  string
	Average     float64
	ReviewCount int64
}

// Summaries aggregates rating average and count for each property in one
// grouped query. Properties without reviews are absent from the result.
func (r *reviewRepository) Summaries(ctx context.Context, propertyIDs []string) (map[string]domain.RatingSummary, error) {
	out := make(map[string]domain.RatingSummary, len(propertyIDs))
	if len(propertyIDs) == 0 {
		return out, nil
	}

	var rows []summaryRow
	err := r.db.WithContext(ctx).
		Model(&domain.Review{}).
		Select("property_id, AVG(rating) AS average, COUNT(*) AS review_count").
		Where("property_id IN ?", propertyIDs).
		Group("property_id").
		Scan(&rows).Error
	if err != nil {
		return nil, translateError(err)
	}

	for _, row := range rows {
		out[row.PropertyID] = domain.RatingSummary{
			PropertyID: row.PropertyID,
			Average:    row.Average,
			Count:      row.ReviewCount,
		}
	}
	return out, nil
}
