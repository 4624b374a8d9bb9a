package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"rentals-api/dto"
	"rentals-api/repositories"
)

type FavoriteService interface {
	Add(ctx context.Context, userID string, req dto.AddFavoriteRequest) error
	Remove(ctx context.Context, userID, propertyID string) error
	List(ctx context.Context, userID string) ([]dto.PropertyView, error)
}

type favoriteService struct {
	favorites repositories.FavoriteRepository
	reviews   repositories.ReviewRepository
	logger    *zap.Logger
}

func NewFavoriteService(
	favorites repositories.FavoriteRepository,
	reviews repositories.ReviewRepository,
	logger *zap.Logger,
) FavoriteService {
	return &favoriteService{favorites: favorites, reviews: reviews, logger: logger}
}

func (s *favoriteService) Add(ctx context.Context, userID string, req dto.AddFavoriteRequest) error {
	favorite, err := s.favorites.Add(ctx, userID, req.PropertyID)
	if err != nil {
		return err
	}
	s.logger.Info("Favorite saved",
		zap.String("user_id", userID), zap.String("property_id", favorite.PropertyID))
	return nil
}

func (s *favoriteService) Remove(ctx context.Context, userID, propertyID string) error {
	if err := s.favorites.Remove(ctx, userID, propertyID); err != nil {
		return err
	}
	s.logger.Info("Favorite removed", zap.String("user_id", userID), zap.String("property_id", propertyID))
	return nil
}

// List returns the user's saved properties as search cards, most recently
// saved first.
func (s *favoriteService) List(ctx context.Context, userID string) ([]dto.PropertyView, error) {
	properties, err := s.favorites.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing favorites: %w", err)
	}

	ids := make([]string, 0, len(properties))
	for i := range properties {
		ids = append(ids, properties[i].ID)
	}
	summaries, err := s.reviews.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading rating summaries: %w", err)
	}

	views := make([]dto.PropertyView, 0, len(properties))
	for i := range properties {
		views = append(views, ProjectProperty(&properties[i], summaries[properties[i].ID]))
	}
	return views, nil
}
