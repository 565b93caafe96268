package repository

import (
	"context"
	"fmt"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
)

const productColumns = `id, name, description, price_paise, stock, image_url, is_active, category_id, average_rating, review_count, created_at, updated_at`

func scanProduct(row interface{ Scan(dest ...any) error }) (domain.Product, error) {
	var p domain.Product
	err := row.Scan(
		&p.ID,
		&p.Name,
		&p.Description,
		&p.Price,
		&p.Stock,
		&p.ImageURL,
		&p.IsActive,
		&p.CategoryID,
		&p.AverageRating,
		&p.ReviewCount,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	return p, err
}

const getProduct = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
`

func (q *Queries) GetProduct(ctx context.Context, id int32) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProduct, id))
}

const getProductForUpdate = `
SELECT ` + productColumns + `
FROM products
WHERE id = $1
FOR UPDATE
`

// GetProductForUpdate locks the product row for the remainder of the
// transaction. Callers must lock products in ascending ID order.
func (q *Queries) GetProductForUpdate(ctx context.Context, id int32) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, getProductForUpdate, id))
}

// ListProductsParams are optional listing filters; nil pointers are
// not applied.
type ListProductsParams struct {
	Search     *string
	CategoryID *int32
	MinPrice   *currency.Paise
	MaxPrice   *currency.Paise
	MinRating  *float64
	InStock    bool
	Sort       string
	Limit      int32
	Offset     int32
}

const listProducts = `
SELECT ` + productColumns + `
FROM products
WHERE is_active = TRUE
  AND ($1::text IS NULL OR name ILIKE '%' || $1 || '%' OR description ILIKE '%' || $1 || '%')
  AND ($2::int IS NULL OR category_id = $2)
  AND ($3::bigint IS NULL OR price_paise >= $3)
  AND ($4::bigint IS NULL OR price_paise <= $4)
  AND ($5::float8 IS NULL OR average_rating >= $5)
  AND (NOT $6::bool OR stock > 0)
ORDER BY
  CASE WHEN $7::text = 'price_asc' THEN price_paise END ASC,
  CASE WHEN $7::text = 'price_desc' THEN price_paise END DESC,
  CASE WHEN $7::text = 'rating' THEN average_rating END DESC,
  created_at DESC
LIMIT $8 OFFSET $9
`

func (q *Queries) ListProducts(ctx context.Context, arg ListProductsParams) ([]domain.Product, error) {
	rows, err := q.db.Query(ctx, listProducts,
		arg.Search,
		arg.CategoryID,
		arg.MinPrice,
		arg.MaxPrice,
		arg.MinRating,
		arg.InStock,
		arg.Sort,
		arg.Limit,
		arg.Offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []domain.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// CreateProductParams contains the columns for a new product row.
type CreateProductParams struct {
	Name        string
	Description string
	Price       currency.Paise
	Stock       int32
	ImageURL    string
	IsActive    bool
	CategoryID  *int32
}

const createProduct = `
INSERT INTO products (name, description, price_paise, stock, image_url, is_active, category_id)
VALUES ($1, $2, $3, $4, $5, $6, $7)
RETURNING ` + productColumns + `
`

func (q *Queries) CreateProduct(ctx context.Context, arg CreateProductParams) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, createProduct,
		arg.Name,
		arg.Description,
		arg.Price,
		arg.Stock,
		arg.ImageURL,
		arg.IsActive,
		arg.CategoryID,
	))
}

const updateProduct = `
UPDATE products
SET name          = COALESCE($2::text, name),
    description   = COALESCE($3::text, description),
    price_paise   = COALESCE($4::bigint, price_paise),
    stock         = COALESCE($5::int, stock),
    image_url     = COALESCE($6::text, image_url),
    is_active     = COALESCE($7::bool, is_active),
    category_id   = COALESCE($8::int, category_id),
    updated_at    = now()
WHERE id = $1
RETURNING ` + productColumns + `
`

// UpdateProduct applies a partial update; nil patch fields keep the
// current column value.
func (q *Queries) UpdateProduct(ctx context.Context, id int32, patch domain.ProductPatch) (domain.Product, error) {
	return scanProduct(q.db.QueryRow(ctx, updateProduct,
		id,
		patch.Name,
		patch.Description,
		patch.Price,
		patch.Stock,
		patch.ImageURL,
		patch.IsActive,
		patch.CategoryID,
	))
}

const decrementProductStock = `
UPDATE products
SET stock = stock - $2, updated_at = now()
WHERE id = $1 AND stock >= $2
`

// DecrementProductStock conditionally reduces stock, returning the
// number of rows changed. Zero means the guard failed and the caller
// must abort.
func (q *Queries) DecrementProductStock(ctx context.Context, id, quantity int32) (int64, error) {
	tag, err := q.db.Exec(ctx, decrementProductStock, id, quantity)
	if err != nil {
		return 0, fmt.Errorf("failed to decrement stock: %w", err)
	}
	return tag.RowsAffected(), nil
}

// UpdateProductRatingParams sets the denormalized review aggregates.
type UpdateProductRatingParams struct {
	ID            int32
	AverageRating float64
	ReviewCount   int32
}

const updateProductRating = `
UPDATE products
SET average_rating = $2, review_count = $3, updated_at = now()
WHERE id = $1
`

func (q *Queries) UpdateProductRating(ctx context.Context, arg UpdateProductRatingParams) error {
	_, err := q.db.Exec(ctx, updateProductRating, arg.ID, arg.AverageRating, arg.ReviewCount)
	return err
}

const listCategories = `
SELECT id, name, slug
FROM categories
ORDER BY name
`

func (q *Queries) ListCategories(ctx context.Context) ([]domain.Category, error) {
	rows, err := q.db.Query(ctx, listCategories)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var categories []domain.Category
	for rows.Next() {
		var c domain.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug); err != nil {
			return nil, err
		}
		categories = append(categories, c)
	}
	return categories, rows.Err()
}
