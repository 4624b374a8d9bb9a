package repositories

import (
	"context"
	"fmt"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"rentals-api/domain"
	"rentals-api/search"
)

// PropertyRepository is the system of record for listings. Multi-row writes
// run inside a single transaction.
type PropertyRepository interface {
	Create(ctx context.Context, property *domain.Property, amenityIDs []string) error
	Update(ctx context.Context, property *domain.Property, images *[]domain.PropertyImage, amenityIDs *[]string) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Property, error)
	GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error)
	Search(ctx context.Context, pred search.Predicate, page search.Page) ([]domain.Property, int64, error)
	ListAll(ctx context.Context) ([]domain.Property, error)
}

type propertyRepository struct {
	db *gorm.DB
}

func NewPropertyRepository(db *gorm.DB) PropertyRepository {
	return &propertyRepository{db: db}
}

// withDetails eagerly loads the host, ordered images and amenities.
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Host").
		Preload("Images", func(db *gorm.DB) *gorm.DB {
			return db.Order("sort_order ASC").Order("id ASC")
		}).
		Preload("Amenities", func(db *gorm.DB) *gorm.DB {
			return db.Order("name ASC")
		})
}

// Create inserts the property, its images and its amenity links atomically.
// Unknown amenity ids roll the whole write back.
func (r *propertyRepository) Create(ctx context.Context, property *domain.Property, amenityIDs []string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		images := property.Images
		property.Images = nil
		property.Amenities = nil

		if err := tx.Omit(clause.Associations).Create(property).Error; err != nil {
			return err
		}
		if err := insertImages(tx, property.ID, images); err != nil {
			return err
		}
		if err := linkAmenities(tx, property.ID, amenityIDs); err != nil {
			return err
		}

		property.Images = images
		return nil
	})
	return translateError(err)
}

// Update saves scalar fields and, when given, replaces images and amenity
// links in the same transaction.
func (r *propertyRepository) Update(ctx context.Context, property *domain.Property, images *[]domain.PropertyImage, amenityIDs *[]string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Save(property).Error; err != nil {
			return err
		}
		if images != nil {
			if err := tx.Where("property_id = ?", property.ID).Delete(&domain.PropertyImage{}).Error; err != nil {
				return err
			}
			if err := insertImages(tx, property.ID, *images); err != nil {
				return err
			}
		}
		if amenityIDs != nil {
			if err := tx.Where("property_id = ?", property.ID).Delete(&domain.PropertyAmenity{}).Error; err != nil {
				return err
			}
			if err := linkAmenities(tx, property.ID, *amenityIDs); err != nil {
				return err
			}
		}
		return nil
	})
	return translateError(err)
}

// Delete removes the property together with its images and amenity links.
func (r *propertyRepository) Delete(ctx context.Context, id string) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyImage{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&domain.PropertyAmenity{}).Error; err != nil {
			return err
		}
		if err := tx.Where("property_id = ?", id).Delete(&domain.Favorite{}).Error; err != nil {
			return err
		}
		res := tx.Where("id = ?", id).Delete(&domain.Property{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrNotFound
		}
		return nil
	})
	return translateError(err)
}

func (r *propertyRepository) GetByID(ctx context.Context, id string) (*domain.Property, error) {
	var property domain.Property
	if err := r.db.WithContext(ctx).Scopes(withDetails).First(&property, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return &property, nil
}

// GetByIDs loads properties in the order of ids, skipping ids that no
// longer exist.
func (r *propertyRepository) GetByIDs(ctx context.Context, ids []string) ([]domain.Property, error) {
	if len(ids) == 0 {
		return []domain.Property{}, nil
	}
	var found []domain.Property
	if err := r.db.WithContext(ctx).Scopes(withDetails).Where("id IN ?", ids).Find(&found).Error; err != nil {
		return nil, translateError(err)
	}

	byID := make(map[string]domain.Property, len(found))
	for _, p := range found {
		byID[p.ID] = p
	}
	out := make([]domain.Property, 0, len(ids))
	for _, id := range ids {
		if p, ok := byID[id]; ok {
			out = append(out, p)
		}
	}
	return out, nil
}

// Search runs the predicate as a WHERE clause and returns one ordered page
// plus the total match count.
func (r *propertyRepository) Search(ctx context.Context, pred search.Predicate, page search.Page) ([]domain.Property, int64, error) {
	where, args, err := search.SQL(pred)
	if err != nil {
		return nil, 0, err
	}
	base := func() *gorm.DB {
		q := r.db.WithContext(ctx).Model(&domain.Property{})
		if where != "" {
			q = q.Where(where, args...)
		}
		return q
	}

	var total int64
	if err := base().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("count properties: %w", err)
	}

	properties := []domain.Property{}
	if total > int64(page.Offset) {
		err := base().
			Scopes(withDetails).
			Order(search.OrderSQL).
			Limit(page.Limit).
			Offset(page.Offset).
			Find(&properties).Error
		if err != nil {
			return nil, 0, fmt.Errorf("find properties: %w", err)
		}
	}
	return properties, total, nil
}

// ListAll loads every property with its details. Used to warm the in-memory index.
func (r *propertyRepository) ListAll(ctx context.Context) ([]domain.Property, error) {
	properties := []domain.Property{}
	if err := r.db.WithContext(ctx).Scopes(withDetails).Order(search.OrderSQL).Find(&properties).Error; err != nil {
		return nil, translateError(err)
	}
	return properties, nil
}

func insertImages(tx *gorm.DB, propertyID string, images []domain.PropertyImage) error {
	if len(images) == 0 {
		return nil
	}
	for i := range images {
		images[i].ID = ""
		images[i].PropertyID = propertyID
	}
	return tx.Create(&images).Error
}

func linkAmenities(tx *gorm.DB, propertyID string, amenityIDs []string) error {
	ids := unique(amenityIDs)
	if len(ids) == 0 {
		return nil
	}

	var known int64
	if err := tx.Model(&domain.Amenity{}).Where("id IN ?", ids).Count(&known).Error; err != nil {
		return err
	}
	if known != int64(len(ids)) {
		return domain.NewValidationError("amenityIds", "references an unknown amenity")
	}

	links := make([]domain.PropertyAmenity, 0, len(ids))
	for _, id := range ids {
		links = append(links, domain.PropertyAmenity{PropertyID: propertyID, AmenityID: id})
	}
	return tx.Create(&links).Error
}

func unique(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
