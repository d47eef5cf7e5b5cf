package repository

import (
	"context"
	"errors"
	"time"

	"eshop-catalog/internal/domain"
	"eshop-catalog/internal/metrics"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type instrumentedProductRepository struct {
	next    ProductRepository
	metrics *metrics.Metrics
}

// NewInstrumentedProductRepository wraps a ProductRepository and records the
// duration and failures of every call
func NewInstrumentedProductRepository(next ProductRepository, m *metrics.Metrics) ProductRepository {
	return &instrumentedProductRepository{next: next, metrics: m}
}

func (r *instrumentedProductRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	start := time.Now()
	products, err := r.next.Find(ctx, query)
	r.metrics.RecordStoreOperation("find", time.Since(start), err)
	return products, err
}

func (r *instrumentedProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	start := time.Now()
	product, err := r.next.FindByID(ctx, id)
	// not-found is an answer, not a store failure
	failed := err
	if errors.Is(err, ErrProductNotFound) {
		failed = nil
	}
	r.metrics.RecordStoreOperation("find_by_id", time.Since(start), failed)
	return product, err
}

func (r *instrumentedProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	start := time.Now()
	products, err := r.next.FindByIDs(ctx, ids)
	r.metrics.RecordStoreOperation("find_by_ids", time.Since(start), err)
	return products, err
}

func (r *instrumentedProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	start := time.Now()
	count, err := r.next.EstimatedCount(ctx)
	r.metrics.RecordStoreOperation("estimated_count", time.Since(start), err)
	return count, err
}

func (r *instrumentedProductRepository) FieldValues(ctx context.Context, field string) ([]string, error) {
	start := time.Now()
	values, err := r.next.FieldValues(ctx, field)
	r.metrics.RecordStoreOperation("field_values", time.Since(start), err)
	return values, err
}
