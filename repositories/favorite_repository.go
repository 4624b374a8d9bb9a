package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"

	"rentals-api/domain"
)

type FavoriteRepository interface {
	Add(ctx context.Context, userID, propertyID string) (*domain.Favorite, error)
	Remove(ctx context.Context, userID, propertyID string) error
	ListByUser(ctx context.Context, userID string) ([]domain.Property, error)
}

type favoriteRepository struct {
	db *gorm.DB
}

func NewFavoriteRepository(db *gorm.DB) FavoriteRepository {
	return &favoriteRepository{db: db}
}

// Add saves a property for a user. The property must exist; saving it twice
// returns domain.ErrConflict.
func (r *favoriteRepository) Add(ctx context.Context, userID, propertyID string) (*domain.Favorite, error) {
	favorite := &domain.Favorite{UserID: userID, PropertyID: propertyID}
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&domain.Property{}).Where("id = ?", propertyID).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return domain.ErrNotFound
		}

		if err := tx.Model(&domain.Favorite{}).
			Where("user_id = ? AND property_id = ?", userID, propertyID).
			Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fmt.Errorf("%w: property already saved", domain.ErrConflict)
		}
		return tx.Create(favorite).Error
	})
	if err != nil {
		return nil, translateError(err)
	}
	return favorite, nil
}

func (r *favoriteRepository) Remove(ctx context.Context, userID, propertyID string) error {
	res := r.db.WithContext(ctx).
		Where("user_id = ? AND property_id = ?", userID, propertyID).
		Delete(&domain.Favorite{})
	if res.Error != nil {
		return translateError(res.Error)
	}
	if res.RowsAffected == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// ListByUser returns the saved properties, most recently saved first, with
// host, images and amenities loaded.
func (r *favoriteRepository) ListByUser(ctx context.Context, userID string) ([]domain.Property, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&domain.Favorite{}).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Pluck("property_id", &ids).Error
	if err != nil {
		return nil, translateError(err)
	}
	return NewPropertyRepository(r.db).GetByIDs(ctx, ids)
}
