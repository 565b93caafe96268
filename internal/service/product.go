package service

import (
	"context"
	"errors"
	"math"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type productService struct {
	store repository.Store
}

var _ domain.ProductService = (*productService)(nil)

// NewProductService creates a product catalog service.
func NewProductService(store repository.Store) domain.ProductService {
	return &productService{store: store}
}

// ListProducts returns active products matching the filter.
func (s *productService) ListProducts(ctx context.Context, filter domain.ProductFilter) ([]domain.Product, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = defaultPageSize
	}
	if limit > maxPageSize {
		limit = maxPageSize
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	products, err := repository.RetryRead(ctx, func() ([]domain.Product, error) {
		return s.store.ListProducts(ctx, repository.ListProductsParams{
			Search:     filter.Search,
			CategoryID: filter.CategoryID,
			MinPrice:   filter.MinPrice,
			MaxPrice:   filter.MaxPrice,
			MinRating:  filter.MinRating,
			InStock:    filter.InStock,
			Sort:       string(filter.Sort),
			Limit:      limit,
			Offset:     offset,
		})
	})
	if err != nil {
		return nil, domain.Internal(err, "product.list", "failed to list products")
	}
	return products, nil
}

// GetProduct retrieves a product by ID.
func (s *productService) GetProduct(ctx context.Context, id int32) (*domain.Product, error) {
	product, err := repository.RetryRead(ctx, func() (domain.Product, error) {
		return s.store.GetProduct(ctx, id)
	})
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.get", "failed to load product")
	}
	return &product, nil
}

// CreateProduct creates a new product.
func (s *productService) CreateProduct(ctx context.Context, params domain.CreateProductParams) (*domain.Product, error) {
	if params.Name == "" {
		return nil, domain.Invalid("product.create", "name is required")
	}
	if params.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if params.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	product, err := s.store.CreateProduct(ctx, repository.CreateProductParams{
		Name:        params.Name,
		Description: params.Description,
		Price:       params.Price,
		Stock:       params.Stock,
		ImageURL:    params.ImageURL,
		IsActive:    params.IsActive,
		CategoryID:  params.CategoryID,
	})
	if err != nil {
		return nil, domain.Internal(err, "product.create", "failed to create product")
	}
	return &product, nil
}

// UpdateProduct applies a partial update; nil patch fields leave the
// corresponding column untouched.
func (s *productService) UpdateProduct(ctx context.Context, id int32, patch domain.ProductPatch) (*domain.Product, error) {
	if patch.Name != nil && *patch.Name == "" {
		return nil, domain.Invalid("product.update", "name cannot be empty")
	}
	if patch.Price != nil && *patch.Price <= 0 {
		return nil, domain.ErrInvalidPrice
	}
	if patch.Stock != nil && *patch.Stock < 0 {
		return nil, domain.ErrInvalidStock
	}

	product, err := s.store.UpdateProduct(ctx, id, patch)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "product.update", "failed to update product")
	}
	return &product, nil
}

// AddReview inserts the review and recomputes the product's rating
// aggregates in one transaction. One review per user per product; the
// product row lock serializes concurrent aggregate updates.
func (s *productService) AddReview(ctx context.Context, userID, productID int32, rating int16, comment string) (*domain.Review, error) {
	if rating < 1 || rating > 5 {
		return nil, domain.ErrInvalidRating
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, domain.Internal(err, "review.add", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	q := tx.Queries()

	product, err := q.GetProductForUpdate(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "review.add", "failed to lock product")
	}

	if _, err := q.GetReviewByUserAndProduct(ctx, userID, productID); err == nil {
		return nil, domain.ErrDuplicateReview
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "review.add", "failed to check existing review")
	}

	review, err := q.CreateReview(ctx, repository.CreateReviewParams{
		ProductID: productID,
		UserID:    userID,
		Rating:    rating,
		Comment:   comment,
	})
	if err != nil {
		return nil, domain.Internal(err, "review.add", "failed to create review")
	}

	newCount := product.ReviewCount + 1
	newAverage := roundRating((product.AverageRating*float64(product.ReviewCount) + float64(rating)) / float64(newCount))

	if err := q.UpdateProductRating(ctx, repository.UpdateProductRatingParams{
		ID:            productID,
		AverageRating: newAverage,
		ReviewCount:   newCount,
	}); err != nil {
		return nil, domain.Internal(err, "review.add", "failed to update product rating")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "review.add", "failed to commit transaction")
	}
	return &review, nil
}

// ListReviews returns reviews for a product, newest first.
func (s *productService) ListReviews(ctx context.Context, productID int32, approvedOnly bool) ([]domain.Review, error) {
	if _, err := s.store.GetProduct(ctx, productID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "review.list", "failed to load product")
	}

	reviews, err := repository.RetryRead(ctx, func() ([]domain.Review, error) {
		return s.store.ListReviews(ctx, productID, approvedOnly)
	})
	if err != nil {
		return nil, domain.Internal(err, "review.list", "failed to list reviews")
	}
	return reviews, nil
}

// roundRating rounds an average rating to one decimal place.
func roundRating(v float64) float64 {
	return math.Round(v*10) / 10
}
