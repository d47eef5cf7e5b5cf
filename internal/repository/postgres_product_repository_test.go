package repository

import (
	"strings"
	"testing"

	"eshop-catalog/internal/domain"

	"github.com/stretchr/testify/assert"
)

func TestBuildPostgresSelect(t *testing.T) {
	tests := []struct {
		name      string
		query     domain.ProductQuery
		wantWhere string
		wantOrder string
		wantArgs  []any
	}{
		{
			name:      "natural order",
			query:     domain.ProductQuery{},
			wantOrder: " ORDER BY seq ASC",
		},
		{
			name:      "search escapes wildcards",
			query:     domain.ProductQuery{Search: "100%_off"},
			wantWhere: " WHERE name ILIKE $1",
			wantOrder: " ORDER BY seq ASC",
			wantArgs:  []any{`%100\%\_off%`},
		},
		{
			name:      "facets and price bounds",
			query:     domain.ProductQuery{Brand: "Square", Category: "Tablet", MinPrice: ptr(10), MaxPrice: ptr(50)},
			wantWhere: " WHERE brand = $1 AND category = $2 AND price >= $3 AND price <= $4",
			wantOrder: " ORDER BY seq ASC",
			wantArgs:  []any{"Square", "Tablet", 10.0, 50.0},
		},
		{
			name: "sorted and windowed",
			query: domain.ProductQuery{
				Search: "napa",
				Sort: []domain.SortKey{
					{Field: domain.FieldPrice, Descending: true},
					{Field: domain.FieldCreatedAt},
				},
				Skip:  20,
				Limit: 10,
			},
			wantWhere: " WHERE name ILIKE $1",
			wantOrder: " ORDER BY price DESC, created_at ASC, seq ASC LIMIT $2 OFFSET $3",
			wantArgs:  []any{"%napa%", int64(10), int64(20)},
		},
		{
			name:      "unknown sort fields are skipped",
			query:     domain.ProductQuery{Sort: []domain.SortKey{{Field: "stock; DROP TABLE products"}}},
			wantOrder: " ORDER BY seq ASC",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args := buildPostgresSelect(tt.query)

			prefix := "SELECT " + productColumns + " FROM products"
			assert.True(t, strings.HasPrefix(sql, prefix))
			assert.Equal(t, tt.wantWhere+tt.wantOrder, strings.TrimPrefix(sql, prefix))
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestEscapeLike(t *testing.T) {
	assert.Equal(t, "napa", escapeLike("napa"))
	assert.Equal(t, `50\% \_ a\\b`, escapeLike(`50% _ a\b`))
}
