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

type AmenityService interface {
	List(ctx context.Context, category string) ([]dto.AmenityView, error)
	Create(ctx context.Context, req dto.CreateAmenityRequest) (*dto.AmenityView, error)
}

type amenityService struct {
	repo   repositories.AmenityRepository
	logger *zap.Logger
}

func NewAmenityService(repo repositories.AmenityRepository, logger *zap.Logger) AmenityService {
	return &amenityService{repo: repo, logger: logger}
}

// List returns the catalog ordered by name, optionally narrowed to one
// category.
func (s *amenityService) List(ctx context.Context, category string) ([]dto.AmenityView, error) {
	category = strings.ToUpper(strings.TrimSpace(category))
	if category != "" && !domain.AmenityCategory(category).Valid() {
		return nil, domain.NewValidationError("category", "unknown amenity category %q", category)
	}

	amenities, err := s.repo.List(ctx, category)
	if err != nil {
		return nil, fmt.Errorf("listing amenities: %w", err)
	}
	return dto.NewAmenityViews(amenities), nil
}

// Create adds a catalog entry. Names are unique.
func (s *amenityService) Create(ctx context.Context, req dto.CreateAmenityRequest) (*dto.AmenityView, error) {
	amenity := &domain.Amenity{
		Name:     strings.TrimSpace(req.Name),
		Icon:     req.Icon,
		Category: domain.AmenityCategory(strings.ToUpper(strings.TrimSpace(req.Category))),
	}
	if amenity.Name == "" {
		return nil, domain.NewValidationError("name", "is required")
	}
	if !amenity.Category.Valid() {
		return nil, domain.NewValidationError("category", "unknown amenity category %q", req.Category)
	}

	if err := s.repo.Create(ctx, amenity); err != nil {
		return nil, err
	}
	s.logger.Info("Amenity created", zap.String("amenity_id", amenity.ID), zap.String("name", amenity.Name))

	view := dto.NewAmenityView(amenity)
	return &view, nil
}
