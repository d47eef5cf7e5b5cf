package domain

// Recognized values for the price sort parameter.
const (
	PriceLowToHigh = "low-to-high"
	PriceHighToLow = "high-to-low"
)

// Recognized values for the date sort parameter.
const (
	DateNewestFirst = "newest-first"
	DateOldestFirst = "oldest-first"
)

// Defaults applied when the pagination parameters are omitted.
const (
	DefaultPerPageView = 10
	DefaultCurrentPage = 1
)

// Upper bounds accepted for the pagination parameters.
const (
	MaxPerPageView = 1000
	MaxCurrentPage = 1_000_000
)

// ListParams is the parsed form of the product listing query string.
//
// Zero values mean "not supplied": an empty string adds no condition and a
// zero price is treated as an absent bound.
type ListParams struct {
	PerPageView int     `query:"perPageView" validate:"gte=1,lte=1000"`
	CurrentPage int     `query:"currentPage" validate:"gte=1,lte=1000000"`
	Search      string  `query:"search"`
	Brand       string  `query:"brand"`
	Category    string  `query:"category"`
	MinPrice    float64 `query:"minPrice"`
	MaxPrice    float64 `query:"maxPrice"`
	PriceSort   string  `query:"sortOrderPrice"`
	DateSort    string  `query:"sortOrderDate"`
}

// DefaultListParams returns params with the pagination defaults set.
func DefaultListParams() ListParams {
	return ListParams{
		PerPageView: DefaultPerPageView,
		CurrentPage: DefaultCurrentPage,
	}
}

// HasFacetFilter reports whether a brand, category or price bound is set.
// Listings with a facet filter are returned unpaginated.
func (p ListParams) HasFacetFilter() bool {
	return p.Brand != "" || p.Category != "" || p.MinPrice != 0 || p.MaxPrice != 0
}

// SortKey is one entry of an ordered sort specification.
type SortKey struct {
	Field      string
	Descending bool
}

// ProductQuery is a store-neutral read: a conjunctive filter, an ordered
// sort and an optional skip/limit window.
type ProductQuery struct {
	// Search is matched case-insensitively as a literal substring of the name.
	Search   string
	Brand    string
	Category string
	// MinPrice and MaxPrice are inclusive; nil means unbounded.
	MinPrice *float64
	MaxPrice *float64
	Sort     []SortKey
	Skip     int64
	// Limit of zero means no limit.
	Limit int64
}

// Paginated reports whether the query carries a skip/limit window.
func (q ProductQuery) Paginated() bool {
	return q.Limit > 0
}
