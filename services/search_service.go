package services

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"rentals-api/domain"
	"rentals-api/dto"
	"rentals-api/repositories"
	"rentals-api/search"
)

const cacheKeyPrefix = "search:"

// PropertyFinder runs a predicate against a property store and returns one
// ordered page plus the total number of matches.
type PropertyFinder interface {
	Search(ctx context.Context, pred search.Predicate, page search.Page) ([]domain.Property, int64, error)
}

// SearchService is the read side of the catalog. Every transport goes
// through it so that filtering, ordering and projection happen in one place.
type SearchService interface {
	Search(ctx context.Context, filter search.Filter, page search.Page) (*dto.SearchResponse, error)
	GetProperty(ctx context.Context, id string) (*dto.PropertyDetailView, error)
	Invalidate(ctx context.Context)
}

type searchService struct {
	finder     PropertyFinder
	properties repositories.PropertyRepository
	reviews    repositories.ReviewRepository
	cacheRepo  repositories.CacheRepository
	cacheTTL   time.Duration
	logger     *zap.Logger
}

// NewSearchService wires the search path. finder decides where matching
// happens (the SQL store or a search index); properties is always used for
// single-property lookups.
func NewSearchService(
	finder PropertyFinder,
	properties repositories.PropertyRepository,
	reviews repositories.ReviewRepository,
	cacheRepo repositories.CacheRepository,
	cacheTTL time.Duration,
	logger *zap.Logger,
) SearchService {
	return &searchService{
		finder:     finder,
		properties: properties,
		reviews:    reviews,
		cacheRepo:  cacheRepo,
		cacheTTL:   cacheTTL,
		logger:     logger,
	}
}

// cacheKey namespaces the filter fingerprint with the current generation so
// that a bump orphans every older page at once.
func (s *searchService) cacheKey(ctx context.Context, filter search.Filter, page search.Page) string {
	return fmt.Sprintf("%s%s:%s", cacheKeyPrefix, s.cacheRepo.Generation(ctx), search.Fingerprint(filter, page))
}

// Search validates the request, then serves it from the cache or the finder.
func (s *searchService) Search(ctx context.Context, filter search.Filter, page search.Page) (*dto.SearchResponse, error) {
	// 1. Validate
	if err := filter.Validate(); err != nil {
		return nil, err
	}
	if err := page.Validate(); err != nil {
		return nil, err
	}

	// 2. Cache
	key := s.cacheKey(ctx, filter, page)
	if cached, found := s.cacheRepo.Get(ctx, key); found {
		s.logger.Debug("Search: cache HIT", zap.String("key", key))
		return &dto.SearchResponse{
			Results: cached.Results,
			Total:   cached.Total,
			Limit:   page.Limit,
			Offset:  page.Offset,
		}, nil
	}
	s.logger.Debug("Search: cache MISS", zap.String("key", key))

	// 3. Query
	properties, total, err := s.finder.Search(ctx, search.Build(filter), page)
	if err != nil {
		return nil, fmt.Errorf("searching properties: %w", err)
	}

	// 4. Project
	results, err := s.project(ctx, properties)
	if err != nil {
		return nil, err
	}

	// 5. Store
	s.cacheRepo.Set(ctx, key, &repositories.CachedSearch{Results: results, Total: total}, s.cacheTTL)
	s.logger.Debug("Search: results cached",
		zap.String("key", key), zap.Int("results", len(results)), zap.Int64("total", total))

	return &dto.SearchResponse{
		Results: results,
		Total:   total,
		Limit:   page.Limit,
		Offset:  page.Offset,
	}, nil
}

func (s *searchService) project(ctx context.Context, properties []domain.Property) ([]dto.PropertyView, error) {
	ids := make([]string, 0, len(properties))
	for i := range properties {
		ids = append(ids, properties[i].ID)
	}

	summaries, err := s.reviews.Summaries(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("loading rating summaries: %w", err)
	}

	results := make([]dto.PropertyView, 0, len(properties))
	for i := range properties {
		results = append(results, ProjectProperty(&properties[i], summaries[properties[i].ID]))
	}
	return results, nil
}

// GetProperty loads one property with its host, images and amenities.
func (s *searchService) GetProperty(ctx context.Context, id string) (*dto.PropertyDetailView, error) {
	property, err := s.properties.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	summaries, err := s.reviews.Summaries(ctx, []string{property.ID})
	if err != nil {
		return nil, fmt.Errorf("loading rating summary: %w", err)
	}

	view := ProjectPropertyDetail(property, summaries[property.ID])
	return &view, nil
}

// Invalidate moves the cache to a new generation and drops the local pages.
func (s *searchService) Invalidate(ctx context.Context) {
	generation := s.cacheRepo.BumpGeneration(ctx)
	dropped := s.cacheRepo.DeletePrefix(cacheKeyPrefix)
	s.logger.Info("Search cache invalidated",
		zap.String("generation", generation), zap.Int("dropped", dropped))
}

type indexedFinder struct {
	index      repositories.SearchIndex
	properties repositories.PropertyRepository
}

// NewIndexedFinder matches against a search index and hydrates the returned
// ids from the system of record. Ids deleted since they were indexed are
// skipped.
func NewIndexedFinder(index repositories.SearchIndex, properties repositories.PropertyRepository) PropertyFinder {
	return &indexedFinder{index: index, properties: properties}
}

func (f *indexedFinder) Search(ctx context.Context, pred search.Predicate, page search.Page) ([]domain.Property, int64, error) {
	ids, total, err := f.index.Search(ctx, pred, page)
	if err != nil {
		return nil, 0, err
	}
	if len(ids) == 0 {
		return []domain.Property{}, total, nil
	}

	properties, err := f.properties.GetByIDs(ctx, ids)
	if err != nil {
		return nil, 0, err
	}
	return properties, total, nil
}
