package repository

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"eshop-catalog/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// MemoryProductRepository keeps the catalog in process memory. It evaluates
// the same queries as the database-backed repositories and is used for local
// development and tests.
type MemoryProductRepository struct {
	mu       sync.RWMutex
	products []*domain.Product
}

// NewMemoryProductRepository creates a repository seeded with products, kept
// in the given order as the natural order
func NewMemoryProductRepository(products ...*domain.Product) *MemoryProductRepository {
	r := &MemoryProductRepository{}
	r.Add(products...)
	return r
}

// Add appends products, assigning IDs to those without one
func (r *MemoryProductRepository) Add(products ...*domain.Product) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, p := range products {
		cp := *p
		if cp.ID.IsZero() {
			cp.ID = primitive.NewObjectID()
		}
		r.products = append(r.products, &cp)
	}
}

// Find evaluates a listing query
func (r *MemoryProductRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := []*domain.Product{}
	for _, p := range r.products {
		if matchesQuery(p, query) {
			matched = append(matched, copyProduct(p))
		}
	}
	r.mu.RUnlock()

	if len(query.Sort) > 0 {
		sort.SliceStable(matched, func(i, j int) bool {
			return lessBySortKeys(matched[i], matched[j], query.Sort)
		})
	}

	if !query.Paginated() {
		return matched, nil
	}

	total := int64(len(matched))
	skip := max(query.Skip, 0)
	if skip >= total {
		return []*domain.Product{}, nil
	}
	end := total
	if query.Limit < total-skip {
		end = skip + query.Limit
	}
	return matched[skip:end], nil
}

// FindByID retrieves a product by ID
func (r *MemoryProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, p := range r.products {
		if p.ID == id {
			return copyProduct(p), nil
		}
	}
	return nil, ErrProductNotFound
}

// FindByIDs retrieves every product whose ID is in ids, in natural order
func (r *MemoryProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	wanted := make(map[primitive.ObjectID]struct{}, len(ids))
	for _, id := range ids {
		wanted[id] = struct{}{}
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	products := []*domain.Product{}
	for _, p := range r.products {
		if _, ok := wanted[p.ID]; ok {
			products = append(products, copyProduct(p))
		}
	}
	return products, nil
}

// EstimatedCount returns the number of stored products
func (r *MemoryProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.products)), nil
}

// FieldValues returns the non-empty brand or category values in natural order
func (r *MemoryProductRepository) FieldValues(ctx context.Context, field string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if !stringFields[field] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	values := []string{}
	for _, p := range r.products {
		var v string
		switch field {
		case domain.FieldBrand:
			v = p.Brand
		case domain.FieldCategory:
			v = p.Category
		default:
			v = p.Name
		}
		if v != "" {
			values = append(values, v)
		}
	}
	return values, nil
}

func matchesQuery(p *domain.Product, q domain.ProductQuery) bool {
	if q.Search != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(q.Search)) {
		return false
	}
	if q.Brand != "" && p.Brand != q.Brand {
		return false
	}
	if q.Category != "" && p.Category != q.Category {
		return false
	}
	if q.MinPrice != nil && p.Price < *q.MinPrice {
		return false
	}
	if q.MaxPrice != nil && p.Price > *q.MaxPrice {
		return false
	}
	return true
}

func lessBySortKeys(a, b *domain.Product, keys []domain.SortKey) bool {
	for _, k := range keys {
		var cmp int
		switch k.Field {
		case domain.FieldPrice:
			cmp = compareFloat(a.Price, b.Price)
		case domain.FieldCreatedAt:
			cmp = a.CreatedAt.Compare(b.CreatedAt)
		case domain.FieldName:
			cmp = strings.Compare(a.Name, b.Name)
		}
		if cmp == 0 {
			continue
		}
		if k.Descending {
			return cmp > 0
		}
		return cmp < 0
	}
	return false
}

func compareFloat(a, b float64) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	default:
		return 0
	}
}

func copyProduct(p *domain.Product) *domain.Product {
	cp := *p
	return &cp
}
