package repositories

import (
	"context"

	"rentals-api/domain"
	"rentals-api/search"
)

// SearchIndex is a denormalized, query-optimised copy of the property table.
// It answers with ordered ids; callers load the rows from PropertyRepository.
type SearchIndex interface {
	Upsert(ctx context.Context, property *domain.Property) error
	Delete(ctx context.Context, propertyID string) error
	Search(ctx context.Context, pred search.Predicate, page search.Page) ([]string, int64, error)
}
