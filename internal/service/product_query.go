package service

import (
	"math"
	"strings"

	"eshop-catalog/internal/domain"
)

// BuildProductQuery translates listing parameters into a store query.
//
// A brand, category or non-zero price bound disables pagination: the whole
// filtered set is returned, sorted. Without those facets the search-filtered
// set is windowed by perPageView/currentPage. A zero price bound counts as
// absent.
func BuildProductQuery(p domain.ListParams) domain.ProductQuery {
	q := domain.ProductQuery{
		Search:   strings.TrimSpace(p.Search),
		Brand:    p.Brand,
		Category: p.Category,
		Sort:     buildSort(p.PriceSort, p.DateSort),
	}

	if p.MinPrice != 0 {
		lo := p.MinPrice
		q.MinPrice = &lo
	}
	if p.MaxPrice != 0 {
		hi := p.MaxPrice
		q.MaxPrice = &hi
	}

	if !p.HasFacetFilter() {
		perPage := p.PerPageView
		if perPage < 1 {
			perPage = domain.DefaultPerPageView
		}
		page := p.CurrentPage
		if page < 1 {
			page = domain.DefaultCurrentPage
		}
		q.Skip = pageOffset(page, perPage)
		q.Limit = int64(perPage)
	}

	return q
}

// pageOffset returns (page-1)*perPage, saturating at math.MaxInt64 so an
// out-of-range page yields an empty window instead of a negative skip.
func pageOffset(page, perPage int) int64 {
	pages, size := int64(page-1), int64(perPage)
	if pages > math.MaxInt64/size {
		return math.MaxInt64
	}
	return pages * size
}

// buildSort puts the price key before the date key. Unrecognized values
// contribute nothing.
func buildSort(priceSort, dateSort string) []domain.SortKey {
	var keys []domain.SortKey

	switch priceSort {
	case domain.PriceLowToHigh:
		keys = append(keys, domain.SortKey{Field: domain.FieldPrice})
	case domain.PriceHighToLow:
		keys = append(keys, domain.SortKey{Field: domain.FieldPrice, Descending: true})
	}

	switch dateSort {
	case domain.DateNewestFirst:
		keys = append(keys, domain.SortKey{Field: domain.FieldCreatedAt, Descending: true})
	case domain.DateOldestFirst:
		keys = append(keys, domain.SortKey{Field: domain.FieldCreatedAt})
	}

	return keys
}
