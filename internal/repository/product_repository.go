package repository

import (
	"context"
	"errors"

	"eshop-catalog/internal/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

var (
	ErrProductNotFound = errors.New("product not found")
	ErrUnknownField    = errors.New("unknown product field")
)

// ProductRepository defines the read operations on the product catalog
type ProductRepository interface {
	// Find runs a translated listing query.
	Find(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error)
	FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error)
	// EstimatedCount returns the approximate size of the whole catalog.
	EstimatedCount(ctx context.Context) (int64, error)
	// FieldValues returns the non-empty values of a string field in natural
	// order, one entry per product that has the field set.
	FieldValues(ctx context.Context, field string) ([]string, error)
}

// Text fields FieldValues can scan.
var stringFields = map[string]bool{
	domain.FieldName:     true,
	domain.FieldBrand:    true,
	domain.FieldCategory: true,
}
