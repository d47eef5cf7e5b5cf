package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eshop-catalog/internal/domain"
	"eshop-catalog/internal/repository"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrInvalidProductID = errors.New("invalid product id")
)

// ProductService defines the catalog read operations
type ProductService interface {
	List(ctx context.Context, params domain.ListParams) ([]*domain.Product, error)
	GetByID(ctx context.Context, id string) (*domain.Product, error)
	EstimatedCount(ctx context.Context) (int64, error)
	BrandNames(ctx context.Context) ([]string, error)
	CategoryNames(ctx context.Context) ([]string, error)
	CartItems(ctx context.Context, ids []string) ([]*domain.Product, error)
}

type productService struct {
	productRepo repository.ProductRepository
}

// NewProductService creates a new instance of ProductService
func NewProductService(productRepo repository.ProductRepository) ProductService {
	return &productService{productRepo: productRepo}
}

// List translates the listing parameters and runs a single store read
func (s *productService) List(ctx context.Context, params domain.ListParams) ([]*domain.Product, error) {
	products, err := s.productRepo.Find(ctx, BuildProductQuery(params))
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}
	return products, nil
}

// GetByID validates the identifier before touching the store
func (s *productService) GetByID(ctx context.Context, id string) (*domain.Product, error) {
	objectID, err := ParseProductID(id)
	if err != nil {
		return nil, err
	}

	product, err := s.productRepo.FindByID(ctx, objectID)
	if err != nil {
		if errors.Is(err, repository.ErrProductNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// EstimatedCount returns the approximate catalog size, not a filtered count
func (s *productService) EstimatedCount(ctx context.Context) (int64, error) {
	count, err := s.productRepo.EstimatedCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// BrandNames returns each brand once, in order of first appearance
func (s *productService) BrandNames(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, domain.FieldBrand)
}

// CategoryNames returns each category once, in order of first appearance
func (s *productService) CategoryNames(ctx context.Context) ([]string, error) {
	return s.distinct(ctx, domain.FieldCategory)
}

// CartItems fetches the products for a cart in one query. Identifiers that do
// not parse are dropped; an empty list never reaches the store.
func (s *productService) CartItems(ctx context.Context, ids []string) ([]*domain.Product, error) {
	objectIDs := make([]primitive.ObjectID, 0, len(ids))
	for _, id := range ids {
		objectID, err := ParseProductID(id)
		if err != nil {
			continue
		}
		objectIDs = append(objectIDs, objectID)
	}

	if len(objectIDs) == 0 {
		return []*domain.Product{}, nil
	}

	products, err := s.productRepo.FindByIDs(ctx, objectIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to get cart items: %w", err)
	}
	return products, nil
}

func (s *productService) distinct(ctx context.Context, field string) ([]string, error) {
	values, err := s.productRepo.FieldValues(ctx, field)
	if err != nil {
		return nil, fmt.Errorf("failed to get %s names: %w", field, err)
	}
	return distinctInOrder(values), nil
}

// ParseProductID converts a hex identifier into an ObjectID
func ParseProductID(id string) (primitive.ObjectID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return primitive.NilObjectID, fmt.Errorf("%w: id is required", ErrInvalidProductID)
	}

	objectID, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, fmt.Errorf("%w: %q", ErrInvalidProductID, id)
	}
	return objectID, nil
}

func distinctInOrder(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v == "" {
			continue
		}
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}
