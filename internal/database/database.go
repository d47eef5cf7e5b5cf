package database

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"eshop-catalog/internal/domain"
)

// Service is a store handle acquired once at startup and released on shutdown
type Service interface {
	// Health reports the store status; the "status" key is "up" or "down".
	Health(ctx context.Context) map[string]string
	Close(ctx context.Context) error
}

// Memory is the Service for the in-process store. It has nothing to release.
type Memory struct{}

func (Memory) Health(ctx context.Context) map[string]string {
	return map[string]string{"status": "up", "driver": "memory"}
}

func (Memory) Close(ctx context.Context) error {
	return nil
}

// LoadSeedFile reads a JSON array of products used to seed the in-memory store
func LoadSeedFile(path string) ([]*domain.Product, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read seed file: %w", err)
	}

	var products []*domain.Product
	if err := json.Unmarshal(data, &products); err != nil {
		return nil, fmt.Errorf("failed to parse seed file: %w", err)
	}

	return products, nil
}
