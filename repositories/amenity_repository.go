package repositories

import (
	"context"

	"gorm.io/gorm"

	"rentals-api/domain"
)

type AmenityRepository interface {
	Create(ctx context.Context, amenity *domain.Amenity) error
	List(ctx context.Context, category string) ([]domain.Amenity, error)
}

type amenityRepository struct {
	db *gorm.DB
}

func NewAmenityRepository(db *gorm.DB) AmenityRepository {
	return &amenityRepository{db: db}
}

func (r *amenityRepository) Create(ctx context.Context, amenity *domain.Amenity) error {
	return translateError(r.db.WithContext(ctx).Create(amenity).Error)
}

// List returns the catalog ordered by name, optionally narrowed to one category.
func (r *amenityRepository) List(ctx context.Context, category string) ([]domain.Amenity, error) {
	q := r.db.WithContext(ctx).Order("name ASC")
	if category != "" {
		q = q.Where("category = ?", category)
	}
	amenities := []domain.Amenity{}
	if err := q.Find(&amenities).Error; err != nil {
		return nil, translateError(err)
	}
	return amenities, nil
}
