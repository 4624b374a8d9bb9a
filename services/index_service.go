package services

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
)

// IndexService applies property events to the search side: the optional
// search index and the result cache.
type IndexService interface {
	Handle(ctx context.Context, event dto.PropertyEvent) error
	Reindex(ctx context.Context) (int, error)
}

type indexService struct {
	index      repositories.SearchIndex
	properties repositories.PropertyRepository
	searcher   SearchService
	logger     *zap.Logger
}

// NewIndexService builds the handler. index is nil when search runs directly
// on the SQL store; events then only invalidate the cache.
func NewIndexService(
	index repositories.SearchIndex,
	properties repositories.PropertyRepository,
	searcher SearchService,
	logger *zap.Logger,
) IndexService {
	return &indexService{
		index:      index,
		properties: properties,
		searcher:   searcher,
		logger:     logger,
	}
}

// Handle processes one event. Unknown actions are rejected so that the
// consumer can drop the message.
func (s *indexService) Handle(ctx context.Context, event dto.PropertyEvent) error {
	if !event.Valid() {
		return domain.NewValidationError("action", "unknown property event %q for %q", event.Action, event.PropertyID)
	}

	if s.index != nil {
		var err error
		switch event.Action {
		case dto.ActionCreate, dto.ActionUpdate:
			err = s.upsert(ctx, event.PropertyID)
		case dto.ActionDelete:
			err = s.index.Delete(ctx, event.PropertyID)
		}
		if err != nil {
			return fmt.Errorf("applying %s event for %s: %w", event.Action, event.PropertyID, err)
		}
		s.logger.Info("Search index updated",
			zap.String("action", event.Action), zap.String("property_id", event.PropertyID))
	}

	s.searcher.Invalidate(ctx)
	return nil
}

// upsert copies the current row into the index. A row deleted before the
// event arrived is removed instead.
func (s *indexService) upsert(ctx context.Context, propertyID string) error {
	property, err := s.properties.GetByID(ctx, propertyID)
	if errors.Is(err, domain.ErrNotFound) {
		s.logger.Warn("Property vanished before indexing", zap.String("property_id", propertyID))
		return s.index.Delete(ctx, propertyID)
	}
	if err != nil {
		return err
	}
	return s.index.Upsert(ctx, property)
}

// Reindex copies every property into the index and returns how many were
// written.
func (s *indexService) Reindex(ctx context.Context) (int, error) {
	if s.index == nil {
		return 0, nil
	}
	properties, err := s.properties.ListAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("listing properties: %w", err)
	}
	for i := range properties {
		if err := s.index.Upsert(ctx, &properties[i]); err != nil {
			return i, fmt.Errorf("indexing %s: %w", properties[i].ID, err)
		}
	}
	s.logger.Info("Search index rebuilt", zap.Int("properties", len(properties)))
	s.searcher.Invalidate(ctx)
	return len(properties), nil
}

type inlinePublisher struct {
	handler IndexService
}

// NewInlinePublisher hands events straight to the index service. Used when
// no broker is configured.
func NewInlinePublisher(handler IndexService) EventPublisher {
	return &inlinePublisher{handler: handler}
}

func (p *inlinePublisher) Publish(ctx context.Context, event dto.PropertyEvent) error {
	return p.handler.Handle(ctx, event)
}
