package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"

	"eshop-catalog/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type mongoProductRepository struct {
	coll *mongo.Collection
}

// NewMongoProductRepository creates a ProductRepository backed by a MongoDB collection
func NewMongoProductRepository(coll *mongo.Collection) ProductRepository {
	return &mongoProductRepository{coll: coll}
}

// Find executes a listing query with filter, sort and optional skip/limit
func (r *mongoProductRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	opts := options.Find()
	if sort := buildMongoSort(query.Sort); len(sort) > 0 {
		opts.SetSort(sort)
	}
	if query.Paginated() {
		opts.SetSkip(query.Skip).SetLimit(query.Limit)
	}

	cursor, err := r.coll.Find(ctx, buildMongoFilter(query), opts)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	products := []*domain.Product{}
	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// FindByID retrieves a single product by its ObjectID
func (r *mongoProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	product := &domain.Product{}
	err := r.coll.FindOne(ctx, bson.D{{Key: domain.FieldID, Value: id}}).Decode(product)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDs retrieves every product whose ID is in ids with a single query
func (r *mongoProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	products := []*domain.Product{}
	if len(ids) == 0 {
		return products, nil
	}

	filter := bson.D{{Key: domain.FieldID, Value: bson.D{{Key: "$in", Value: ids}}}}
	cursor, err := r.coll.Find(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}

	if err := cursor.All(ctx, &products); err != nil {
		return nil, fmt.Errorf("failed to decode products: %w", err)
	}

	return products, nil
}

// EstimatedCount returns the collection's metadata-based document count
func (r *mongoProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	count, err := r.coll.EstimatedDocumentCount(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return count, nil
}

// FieldValues scans one string field across the collection in natural order
func (r *mongoProductRepository) FieldValues(ctx context.Context, field string) ([]string, error) {
	if !stringFields[field] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}

	filter := bson.D{{Key: field, Value: bson.D{
		{Key: "$type", Value: "string"},
		{Key: "$ne", Value: ""},
	}}}
	projection := bson.D{
		{Key: field, Value: 1},
		{Key: domain.FieldID, Value: 0},
	}

	cursor, err := r.coll.Find(ctx, filter, options.Find().SetProjection(projection))
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s values: %w", field, err)
	}
	defer cursor.Close(ctx)

	values := []string{}
	for cursor.Next(ctx) {
		var doc bson.M
		if err := cursor.Decode(&doc); err != nil {
			return nil, fmt.Errorf("failed to decode %s value: %w", field, err)
		}
		if v, ok := doc[field].(string); ok && v != "" {
			values = append(values, v)
		}
	}

	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("error iterating %s values: %w", field, err)
	}

	return values, nil
}

// buildMongoFilter compiles the conjunctive filter. Search text is quoted so
// it matches literally.
func buildMongoFilter(query domain.ProductQuery) bson.D {
	filter := bson.D{}

	if query.Search != "" {
		filter = append(filter, bson.E{Key: domain.FieldName, Value: primitive.Regex{
			Pattern: regexp.QuoteMeta(query.Search),
			Options: "i",
		}})
	}
	if query.Brand != "" {
		filter = append(filter, bson.E{Key: domain.FieldBrand, Value: query.Brand})
	}
	if query.Category != "" {
		filter = append(filter, bson.E{Key: domain.FieldCategory, Value: query.Category})
	}

	price := bson.D{}
	if query.MinPrice != nil {
		price = append(price, bson.E{Key: "$gte", Value: *query.MinPrice})
	}
	if query.MaxPrice != nil {
		price = append(price, bson.E{Key: "$lte", Value: *query.MaxPrice})
	}
	if len(price) > 0 {
		filter = append(filter, bson.E{Key: domain.FieldPrice, Value: price})
	}

	return filter
}

func buildMongoSort(keys []domain.SortKey) bson.D {
	sort := bson.D{}
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		sort = append(sort, bson.E{Key: k.Field, Value: dir})
	}
	return sort
}
