package search

import (
	"sort"

	"rentals-api/domain"
)

// Less orders properties newest first, breaking ties by ascending id so that
// paging is stable across calls.
func Less(a, b *domain.Property) bool {
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.After(b.CreatedAt)
	}
	return a.ID < b.ID
}

// Execute applies pred to an in-memory collection and returns the requested
// window together with the total number of matches. The input is not modified.
func Execute(collection []domain.Property, pred Predicate, page Page) ([]domain.Property, int) {
	matches := make([]domain.Property, 0, len(collection))
	for i := range collection {
		if pred.Match(&collection[i]) {
			matches = append(matches, collection[i])
		}
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return Less(&matches[i], &matches[j])
	})

	total := len(matches)
	if page.Offset >= total {
		return []domain.Property{}, total
	}
	end := page.Offset + page.Limit
	if end > total {
		end = total
	}
	return matches[page.Offset:end], total
}
