package domain

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// =============================================================================
// PRODUCT DOMAIN TYPES
// =============================================================================

// Product represents a catalog product.
type Product struct {
	ID          int32
	Name        string
	Description string
	Price       currency.Paise
	Stock       int32
	ImageURL    string
	IsActive    bool
	CategoryID  *int32

	// Denormalized review aggregates, maintained atomically by AddReview.
	AverageRating float64
	ReviewCount   int32

	CreatedAt time.Time
	UpdatedAt time.Time
}

// InStock reports whether the product can satisfy the requested quantity.
func (p *Product) InStock(quantity int32) bool {
	return p.Stock >= quantity
}

// Category groups products for browsing and filtering.
type Category struct {
	ID   int32
	Name string
	Slug string
}

// ProductReview is a customer review of a product.
// Reviews are created unapproved; approval only gates display, the
// rating always counts toward the product aggregates.
type Review struct {
	ID         int32
	ProductID  int32
	UserID     int32
	Rating     int16
	Comment    string
	IsApproved bool
	CreatedAt  time.Time
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// ProductSort identifies a supported listing sort order.
type ProductSort string

const (
	ProductSortNewest    ProductSort = "newest"
	ProductSortPriceAsc  ProductSort = "price_asc"
	ProductSortPriceDesc ProductSort = "price_desc"
	ProductSortRating    ProductSort = "rating"
)

// ProductFilter contains optional filters for product listing.
// Nil pointer fields are not applied.
type ProductFilter struct {
	Search     *string
	CategoryID *int32
	MinPrice   *currency.Paise
	MaxPrice   *currency.Paise
	MinRating  *float64
	InStock    bool
	Sort       ProductSort
	Limit      int32
	Offset     int32
}

// ProductPatch contains optional updates for a product.
// Nil pointer fields indicate no change.
type ProductPatch struct {
	Name        *string
	Description *string
	Price       *currency.Paise
	Stock       *int32
	ImageURL    *string
	IsActive    *bool
	CategoryID  *int32
}

// CreateProductParams contains parameters for creating a product.
type CreateProductParams struct {
	Name        string
	Description string
	Price       currency.Paise
	Stock       int32
	ImageURL    string
	IsActive    bool
	CategoryID  *int32
}

// ProductService provides business logic for catalog operations.
type ProductService interface {
	// ListProducts returns active products matching the filter.
	ListProducts(ctx context.Context, filter ProductFilter) ([]Product, error)

	// GetProduct retrieves a product by ID.
	GetProduct(ctx context.Context, id int32) (*Product, error)

	// CreateProduct creates a new product (admin).
	CreateProduct(ctx context.Context, params CreateProductParams) (*Product, error)

	// UpdateProduct applies a partial update and returns the updated product (admin).
	UpdateProduct(ctx context.Context, id int32, patch ProductPatch) (*Product, error)

	// AddReview records a review and recomputes the product's rating
	// aggregates in the same transaction. One review per user per product.
	AddReview(ctx context.Context, userID, productID int32, rating int16, comment string) (*Review, error)

	// ListReviews returns reviews for a product, newest first.
	// When approvedOnly is true, unapproved reviews are filtered out.
	ListReviews(ctx context.Context, productID int32, approvedOnly bool) ([]Review, error)
}

// =============================================================================
// DOMAIN ERRORS
// =============================================================================

var (
	ErrProductNotFound  = &Error{Code: ENOTFOUND, Message: "Product not found"}
	ErrCategoryNotFound = &Error{Code: ENOTFOUND, Message: "Category not found"}

	ErrDuplicateReview = &Error{Code: ECONFLICT, Message: "You have already reviewed this product"}

	ErrInvalidRating = &Error{Code: EINVALID, Message: "Rating must be between 1 and 5"}
	ErrInvalidPrice  = &Error{Code: EINVALID, Message: "Price must be greater than 0"}
	ErrInvalidStock  = &Error{Code: EINVALID, Message: "Stock cannot be negative"}
)
