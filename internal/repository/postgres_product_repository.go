package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"eshop-catalog/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

const productColumns = `id, name, COALESCE(brand, ''), COALESCE(category, ''), price::float8,
		COALESCE(description, ''), COALESCE(image, ''), COALESCE(ratings, 0)::float8,
		COALESCE(stock, 0), created_at`

// Columns that may be referenced by name in generated SQL.
var postgresColumns = map[string]string{
	domain.FieldName:      "name",
	domain.FieldBrand:     "brand",
	domain.FieldCategory:  "category",
	domain.FieldPrice:     "price",
	domain.FieldCreatedAt: "created_at",
}

type postgresProductRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresProductRepository creates a ProductRepository backed by the products table
func NewPostgresProductRepository(pool *pgxpool.Pool) ProductRepository {
	return &postgresProductRepository{pool: pool}
}

// Find executes a listing query using parameterized SQL
func (r *postgresProductRepository) Find(ctx context.Context, query domain.ProductQuery) ([]*domain.Product, error) {
	sql, args := buildPostgresSelect(query)

	rows, err := r.pool.Query(ctx, sql, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	return collectProducts(rows)
}

// FindByID retrieves a product by ID
func (r *postgresProductRepository) FindByID(ctx context.Context, id primitive.ObjectID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.pool.QueryRow(ctx, query, id.Hex()))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrProductNotFound
		}
		return nil, fmt.Errorf("failed to find product by ID: %w", err)
	}

	return product, nil
}

// FindByIDs retrieves every product whose ID is in ids with a single query
func (r *postgresProductRepository) FindByIDs(ctx context.Context, ids []primitive.ObjectID) ([]*domain.Product, error) {
	if len(ids) == 0 {
		return []*domain.Product{}, nil
	}

	hexIDs := make([]string, len(ids))
	for i, id := range ids {
		hexIDs[i] = id.Hex()
	}

	query := `SELECT ` + productColumns + ` FROM products WHERE id = ANY($1) ORDER BY seq`
	rows, err := r.pool.Query(ctx, query, hexIDs)
	if err != nil {
		return nil, fmt.Errorf("failed to find products by IDs: %w", err)
	}

	return collectProducts(rows)
}

// EstimatedCount reads the planner's row estimate, counting exactly when the
// table has never been analyzed
func (r *postgresProductRepository) EstimatedCount(ctx context.Context) (int64, error) {
	var estimate int64
	err := r.pool.QueryRow(ctx,
		`SELECT reltuples::bigint FROM pg_class WHERE oid = 'products'::regclass`,
	).Scan(&estimate)
	if err != nil {
		return 0, fmt.Errorf("failed to estimate product count: %w", err)
	}
	if estimate > 0 {
		return estimate, nil
	}

	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM products`).Scan(&total); err != nil {
		return 0, fmt.Errorf("failed to count products: %w", err)
	}
	return total, nil
}

// FieldValues scans one text column in insertion order
func (r *postgresProductRepository) FieldValues(ctx context.Context, field string) ([]string, error) {
	if !stringFields[field] {
		return nil, fmt.Errorf("%w: %q", ErrUnknownField, field)
	}
	column := postgresColumns[field]

	query := fmt.Sprintf(
		`SELECT %[1]s FROM products WHERE %[1]s IS NOT NULL AND %[1]s <> '' ORDER BY seq`,
		column,
	)
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to scan %s values: %w", field, err)
	}

	values, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return nil, fmt.Errorf("error iterating %s values: %w", field, err)
	}
	if values == nil {
		values = []string{}
	}

	return values, nil
}

// buildPostgresSelect compiles a ProductQuery into SQL and its arguments.
// Rows without an explicit sort key come back in insertion order.
func buildPostgresSelect(query domain.ProductQuery) (string, []any) {
	var (
		conditions []string
		args       []any
	)
	arg := func(v any) string {
		args = append(args, v)
		return fmt.Sprintf("$%d", len(args))
	}

	if query.Search != "" {
		conditions = append(conditions, "name ILIKE "+arg("%"+escapeLike(query.Search)+"%"))
	}
	if query.Brand != "" {
		conditions = append(conditions, "brand = "+arg(query.Brand))
	}
	if query.Category != "" {
		conditions = append(conditions, "category = "+arg(query.Category))
	}
	if query.MinPrice != nil {
		conditions = append(conditions, "price >= "+arg(*query.MinPrice))
	}
	if query.MaxPrice != nil {
		conditions = append(conditions, "price <= "+arg(*query.MaxPrice))
	}

	var b strings.Builder
	b.WriteString("SELECT " + productColumns + " FROM products")
	if len(conditions) > 0 {
		b.WriteString(" WHERE " + strings.Join(conditions, " AND "))
	}

	order := make([]string, 0, len(query.Sort)+1)
	for _, k := range query.Sort {
		column, ok := postgresColumns[k.Field]
		if !ok {
			continue
		}
		if k.Descending {
			order = append(order, column+" DESC")
		} else {
			order = append(order, column+" ASC")
		}
	}
	order = append(order, "seq ASC")
	b.WriteString(" ORDER BY " + strings.Join(order, ", "))

	if query.Paginated() {
		b.WriteString(" LIMIT " + arg(query.Limit) + " OFFSET " + arg(query.Skip))
	}

	return b.String(), args
}

// escapeLike escapes LIKE wildcards so the search text matches literally
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func scanProduct(row pgx.Row) (*domain.Product, error) {
	var (
		product = &domain.Product{}
		id      string
	)
	err := row.Scan(
		&id,
		&product.Name,
		&product.Brand,
		&product.Category,
		&product.Price,
		&product.Description,
		&product.Image,
		&product.Ratings,
		&product.Stock,
		&product.CreatedAt,
	)
	if err != nil {
		return nil, err
	}

	product.ID, err = primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil, fmt.Errorf("invalid stored product ID %q: %w", id, err)
	}

	return product, nil
}

func collectProducts(rows pgx.Rows) ([]*domain.Product, error) {
	defer rows.Close()

	products := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, product)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}
