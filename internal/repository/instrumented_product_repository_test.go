package repository

import (
	"context"
	"errors"
	"testing"

	"eshop-catalog/internal/domain"
	"eshop-catalog/internal/metrics"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

type failingRepository struct {
	ProductRepository
	err error
}

func (r failingRepository) Find(context.Context, domain.ProductQuery) ([]*domain.Product, error) {
	return nil, r.err
}

func TestInstrumentedProductRepository_RecordsOperations(t *testing.T) {
	m := metrics.New("test")
	catalog := contractCatalog()
	repo := NewInstrumentedProductRepository(NewMemoryProductRepository(catalog...), m)
	ctx := context.Background()

	_, err := repo.Find(ctx, domain.ProductQuery{Brand: "Square"})
	require.NoError(t, err)
	_, err = repo.FindByID(ctx, catalog[0].ID)
	require.NoError(t, err)
	_, err = repo.FindByIDs(ctx, []primitive.ObjectID{catalog[1].ID})
	require.NoError(t, err)
	_, err = repo.EstimatedCount(ctx)
	require.NoError(t, err)
	_, err = repo.FieldValues(ctx, domain.FieldBrand)
	require.NoError(t, err)

	assert.Equal(t, 5, testutil.CollectAndCount(m.StoreOperationDuration))
	assert.Equal(t, 0, testutil.CollectAndCount(m.StoreErrorsTotal))
}

func TestInstrumentedProductRepository_NotFoundIsNotAFailure(t *testing.T) {
	m := metrics.New("test")
	repo := NewInstrumentedProductRepository(NewMemoryProductRepository(), m)

	_, err := repo.FindByID(context.Background(), primitive.NewObjectID())
	assert.ErrorIs(t, err, ErrProductNotFound)
	assert.Equal(t, 0, testutil.CollectAndCount(m.StoreErrorsTotal))
}

func TestInstrumentedProductRepository_CountsFailures(t *testing.T) {
	m := metrics.New("test")
	storeErr := errors.New("server selection timeout")
	repo := NewInstrumentedProductRepository(failingRepository{err: storeErr}, m)

	_, err := repo.Find(context.Background(), domain.ProductQuery{})
	assert.ErrorIs(t, err, storeErr)
	_, err = repo.Find(context.Background(), domain.ProductQuery{})
	assert.ErrorIs(t, err, storeErr)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.StoreErrorsTotal.WithLabelValues("find")))
}
