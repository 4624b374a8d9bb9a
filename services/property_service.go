package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
)

// EventPublisher announces committed property writes to whatever keeps the
// search side in sync.
type EventPublisher interface {
	Publish(ctx context.Context, event dto.PropertyEvent) error
}

// PropertyService handles listing writes on behalf of hosts.
type PropertyService interface {
	Create(ctx context.Context, hostID string, req dto.CreatePropertyRequest) (*dto.PropertyDetailView, error)
	Update(ctx context.Context, actorID, id string, req dto.UpdatePropertyRequest) (*dto.PropertyDetailView, error)
	Delete(ctx context.Context, actorID, id string) error
}

type propertyService struct {
	properties repositories.PropertyRepository
	users      repositories.UserRepository
	searcher   SearchService
	publisher  EventPublisher
	logger     *zap.Logger
}

func NewPropertyService(
	properties repositories.PropertyRepository,
	users repositories.UserRepository,
	searcher SearchService,
	publisher EventPublisher,
	logger *zap.Logger,
) PropertyService {
	return &propertyService{
		properties: properties,
		users:      users,
		searcher:   searcher,
		publisher:  publisher,
		logger:     logger,
	}
}

// Create stores a new listing for hostID. The caller must be a host.
func (s *propertyService) Create(ctx context.Context, hostID string, req dto.CreatePropertyRequest) (*dto.PropertyDetailView, error) {
	// 1. Only hosts may list
	host, err := s.users.GetByID(ctx, hostID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, domain.ErrUnauthorized
		}
		return nil, err
	}
	if !host.IsHost {
		return nil, fmt.Errorf("%w: only hosts can create properties", domain.ErrForbidden)
	}

	// 2. Build and validate
	property := &domain.Property{
		HostID:        hostID,
		Title:         strings.TrimSpace(req.Title),
		Description:   strings.TrimSpace(req.Description),
		PropertyType:  domain.PropertyType(req.PropertyType),
		RoomType:      domain.RoomType(req.RoomType),
		MaxGuests:     req.MaxGuests,
		Bedrooms:      req.Bedrooms,
		Beds:          req.Beds,
		Bathrooms:     req.Bathrooms,
		PricePerNight: req.PricePerNight,
		CleaningFee:   nullDecimal(req.CleaningFee),
		ServiceFee:    nullDecimal(req.ServiceFee),
		Address:       req.Address,
		City:          strings.TrimSpace(req.City),
		State:         strings.TrimSpace(req.State),
		Country:       strings.TrimSpace(req.Country),
		Latitude:      req.Latitude,
		Longitude:     req.Longitude,
		MinimumStay:   1,
		MaximumStay:   req.MaximumStay,
		IsActive:      true,
		Images:        buildImages(req.Images),
	}
	if property.Beds == 0 {
		property.Beds = 1
	}
	if req.MinimumStay != nil {
		property.MinimumStay = *req.MinimumStay
	}
	if err := validateProperty(property); err != nil {
		return nil, err
	}

	// 3. Property, images and amenity links in one transaction
	if err := s.properties.Create(ctx, property, req.AmenityIDs); err != nil {
		return nil, err
	}
	s.logger.Info("Property created", zap.String("property_id", property.ID), zap.String("host_id", hostID))

	// 4. Announce
	s.afterWrite(ctx, dto.ActionCreate, property.ID)

	return s.detail(ctx, property.ID)
}

// Update applies a partial update. Only the owner may change a listing.
func (s *propertyService) Update(ctx context.Context, actorID, id string, req dto.UpdatePropertyRequest) (*dto.PropertyDetailView, error) {
	property, err := s.ownedProperty(ctx, actorID, id)
	if err != nil {
		return nil, err
	}

	applyUpdate(property, req)
	var images *[]domain.PropertyImage
	if req.Images != nil {
		built := buildImages(*req.Images)
		images = &built
		property.Images = built
	}
	if err := validateProperty(property); err != nil {
		return nil, err
	}

	if err := s.properties.Update(ctx, property, images, req.AmenityIDs); err != nil {
		return nil, err
	}
	s.logger.Info("Property updated", zap.String("property_id", id))

	s.afterWrite(ctx, dto.ActionUpdate, id)

	return s.detail(ctx, id)
}

// Delete removes the listing with its images and amenity links.
func (s *propertyService) Delete(ctx context.Context, actorID, id string) error {
	if _, err := s.ownedProperty(ctx, actorID, id); err != nil {
		return err
	}
	if err := s.properties.Delete(ctx, id); err != nil {
		return err
	}
	s.logger.Info("Property deleted", zap.String("property_id", id))

	s.afterWrite(ctx, dto.ActionDelete, id)
	return nil
}

func (s *propertyService) ownedProperty(ctx context.Context, actorID, id string) (*domain.Property, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if property.HostID != actorID {
		return nil, fmt.Errorf("%w: property belongs to another host", domain.ErrForbidden)
	}
	return property, nil
}

// afterWrite publishes the event and drops cached search pages. The write
// has already committed, so failures here are logged and not returned.
func (s *propertyService) afterWrite(ctx context.Context, action, propertyID string) {
	event := dto.PropertyEvent{Action: action, PropertyID: propertyID}
	if err := s.publisher.Publish(ctx, event); err != nil {
		s.logger.Error("Error publishing property event",
			zap.String("action", action), zap.String("property_id", propertyID), zap.Error(err))
	}
	s.searcher.Invalidate(ctx)
}

// detail reads the written property back through the search side so the
// response carries the same rating aggregate as GET /api/properties/:id.
func (s *propertyService) detail(ctx context.Context, id string) (*dto.PropertyDetailView, error) {
	return s.searcher.GetProperty(ctx, id)
}

func applyUpdate(p *domain.Property, req dto.UpdatePropertyRequest) {
	if req.Title != nil {
		p.Title = strings.TrimSpace(*req.Title)
	}
	if req.Description != nil {
		p.Description = strings.TrimSpace(*req.Description)
	}
	if req.PropertyType != nil {
		p.PropertyType = domain.PropertyType(*req.PropertyType)
	}
	if req.RoomType != nil {
		p.RoomType = domain.RoomType(*req.RoomType)
	}
	if req.MaxGuests != nil {
		p.MaxGuests = *req.MaxGuests
	}
	if req.Bedrooms != nil {
		p.Bedrooms = *req.Bedrooms
	}
	if req.Beds != nil {
		p.Beds = *req.Beds
	}
	if req.Bathrooms != nil {
		p.Bathrooms = *req.Bathrooms
	}
	if req.PricePerNight != nil {
		p.PricePerNight = *req.PricePerNight
	}
	if req.CleaningFee != nil {
		p.CleaningFee = nullDecimal(req.CleaningFee)
	}
	if req.ServiceFee != nil {
		p.ServiceFee = nullDecimal(req.ServiceFee)
	}
	if req.Address != nil {
		p.Address = req.Address
	}
	if req.City != nil {
		p.City = strings.TrimSpace(*req.City)
	}
	if req.State != nil {
		p.State = strings.TrimSpace(*req.State)
	}
	if req.Country != nil {
		p.Country = strings.TrimSpace(*req.Country)
	}
	if req.Latitude != nil {
		p.Latitude = req.Latitude
	}
	if req.Longitude != nil {
		p.Longitude = req.Longitude
	}
	if req.MinimumStay != nil {
		p.MinimumStay = *req.MinimumStay
	}
	if req.MaximumStay != nil {
		p.MaximumStay = req.MaximumStay
	}
	if req.IsActive != nil {
		p.IsActive = *req.IsActive
	}
}

func validateProperty(p *domain.Property) error {
	switch {
	case p.Title == "":
		return domain.NewValidationError("title", "is required")
	case p.City == "":
		return domain.NewValidationError("city", "is required")
	case p.Country == "":
		return domain.NewValidationError("country", "is required")
	case !p.PropertyType.Valid():
		return domain.NewValidationError("propertyType", "unknown property type %q", p.PropertyType)
	case !p.RoomType.Valid():
		return domain.NewValidationError("roomType", "unknown room type %q", p.RoomType)
	case p.MaxGuests < 1:
		return domain.NewValidationError("maxGuests", "must be at least 1")
	case p.Beds < 1:
		return domain.NewValidationError("beds", "must be at least 1")
	case p.Bedrooms < 0:
		return domain.NewValidationError("bedrooms", "must not be negative")
	case p.Bathrooms < 0:
		return domain.NewValidationError("bathrooms", "must not be negative")
	case p.PricePerNight.IsNegative():
		return domain.NewValidationError("pricePerNight", "must not be negative")
	case p.CleaningFee.Valid && p.CleaningFee.Decimal.IsNegative():
		return domain.NewValidationError("cleaningFee", "must not be negative")
	case p.ServiceFee.Valid && p.ServiceFee.Decimal.IsNegative():
		return domain.NewValidationError("serviceFee", "must not be negative")
	case p.MinimumStay < 1:
		return domain.NewValidationError("minimumStay", "must be at least 1")
	case p.MaximumStay != nil && *p.MaximumStay < p.MinimumStay:
		return domain.NewValidationError("maximumStay", "must not be less than minimumStay")
	}
	for _, img := range p.Images {
		if strings.TrimSpace(img.URL) == "" {
			return domain.NewValidationError("images", "every image needs a url")
		}
	}
	return nil
}

// buildImages keeps the caller's order when none is given explicitly.
func buildImages(inputs []dto.ImageInput) []domain.PropertyImage {
	images := make([]domain.PropertyImage, 0, len(inputs))
	for i, in := range inputs {
		order := i
		if in.Order != nil {
			order = *in.Order
		}
		images = append(images, domain.PropertyImage{
			URL:       strings.TrimSpace(in.URL),
			Caption:   in.Caption,
			AltText:   in.AltText,
			IsPrimary: in.IsPrimary,
			Order:     order,
		})
	}
	return images
}

func nullDecimal(d *decimal.Decimal) decimal.NullDecimal {
	if d == nil {
		return decimal.NullDecimal{}
	}
	return decimal.NewNullDecimal(*d)
}
