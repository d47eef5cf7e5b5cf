package database

import (
	"context"
	"fmt"

	"eshop-catalog/internal/config"

	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
)

// MongoService owns the MongoDB client shared by all requests
type MongoService struct {
	client     *mongo.Client
	database   string
	collection string
}

// NewMongo connects to MongoDB with the stable v1 server API and pings the
// primary before returning
func NewMongo(ctx context.Context, cfg config.MongoConfig) (*MongoService, error) {
	serverAPI := options.ServerAPI(options.ServerAPIVersion1).
		SetStrict(true).
		SetDeprecationErrors(true)

	opts := options.Client().
		ApplyURI(cfg.MongoURI()).
		SetServerAPIOptions(serverAPI)

	client, err := mongo.Connect(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to mongodb: %w", err)
	}

	if err := client.Ping(ctx, readpref.Primary()); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("failed to ping mongodb: %w", err)
	}

	return &MongoService{
		client:     client,
		database:   cfg.Database,
		collection: cfg.Collection,
	}, nil
}

// Products returns the product collection
func (s *MongoService) Products() *mongo.Collection {
	return s.client.Database(s.database).Collection(s.collection)
}

// Health pings the primary
func (s *MongoService) Health(ctx context.Context) map[string]string {
	stats := map[string]string{"driver": "mongo", "database": s.database}

	if err := s.client.Ping(ctx, readpref.Primary()); err != nil {
		stats["status"] = "down"
		stats["error"] = err.Error()
		return stats
	}

	stats["status"] = "up"
	return stats
}

// Close disconnects the client
func (s *MongoService) Close(ctx context.Context) error {
	if err := s.client.Disconnect(ctx); err != nil {
		return fmt.Errorf("failed to disconnect from mongodb: %w", err)
	}
	return nil
}
