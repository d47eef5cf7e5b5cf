package repository

import (
	"testing"

	"eshop-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestBuildMongoFilter(t *testing.T) {
	tests := []struct {
		name  string
		query domain.ProductQuery
		want  bson.D
	}{
		{
			name:  "empty",
			query: domain.ProductQuery{},
			want:  bson.D{},
		},
		{
			name:  "search is a quoted case-insensitive regex",
			query: domain.ProductQuery{Search: "c++ (500mg)"},
			want: bson.D{
				{Key: "name", Value: primitive.Regex{Pattern: `c\+\+ \(500mg\)`, Options: "i"}},
			},
		},
		{
			name:  "facets are exact",
			query: domain.ProductQuery{Brand: "Square", Category: "Tablet"},
			want: bson.D{
				{Key: "brand", Value: "Square"},
				{Key: "category", Value: "Tablet"},
			},
		},
		{
			name:  "both price bounds share one clause",
			query: domain.ProductQuery{MinPrice: ptr(10), MaxPrice: ptr(50)},
			want: bson.D{
				{Key: "price", Value: bson.D{{Key: "$gte", Value: 10.0}, {Key: "$lte", Value: 50.0}}},
			},
		},
		{
			name:  "max price only",
			query: domain.ProductQuery{MaxPrice: ptr(50)},
			want: bson.D{
				{Key: "price", Value: bson.D{{Key: "$lte", Value: 50.0}}},
			},
		},
		{
			name: "everything",
			query: domain.ProductQuery{
				Search:   "napa",
				Brand:    "Square",
				Category: "Syrup",
				MinPrice: ptr(5),
			},
			want: bson.D{
				{Key: "name", Value: primitive.Regex{Pattern: "napa", Options: "i"}},
				{Key: "brand", Value: "Square"},
				{Key: "category", Value: "Syrup"},
				{Key: "price", Value: bson.D{{Key: "$gte", Value: 5.0}}},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, buildMongoFilter(tt.query))
		})
	}
}

func TestBuildMongoSort(t *testing.T) {
	assert.Empty(t, buildMongoSort(nil))

	got := buildMongoSort([]domain.SortKey{
		{Field: domain.FieldPrice},
		{Field: domain.FieldCreatedAt, Descending: true},
	})
	assert.Equal(t, bson.D{
		{Key: "price", Value: 1},
		{Key: "created_at", Value: -1},
	}, got)
}
