package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

const reviewColumns = `id, product_id, user_id, rating, comment, is_approved, created_at`

// CreateReviewParams contains the columns for a new review row.
// Reviews start unapproved.
type CreateReviewParams struct {
	ProductID int32
	UserID    int32
	Rating    int16
	Comment   string
}

const createReview = `
INSERT INTO product_reviews (product_id, user_id, rating, comment, is_approved)
VALUES ($1, $2, $3, $4, FALSE)
RETURNING ` + reviewColumns + `
`

func (q *Queries) CreateReview(ctx context.Context, arg CreateReviewParams) (domain.Review, error) {
	var r domain.Review
	err := q.db.QueryRow(ctx, createReview, arg.ProductID, arg.UserID, arg.Rating, arg.Comment).Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.IsApproved, &r.CreatedAt,
	)
	return r, err
}

const getReviewByUserAndProduct = `
SELECT ` + reviewColumns + `
FROM product_reviews
WHERE user_id = $1 AND product_id = $2
`

func (q *Queries) GetReviewByUserAndProduct(ctx context.Context, userID, productID int32) (domain.Review, error) {
	var r domain.Review
	err := q.db.QueryRow(ctx, getReviewByUserAndProduct, userID, productID).Scan(
		&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.IsApproved, &r.CreatedAt,
	)
	return r, err
}

const listReviews = `
SELECT ` + reviewColumns + `
FROM product_reviews
WHERE product_id = $1
  AND (NOT $2::bool OR is_approved = TRUE)
ORDER BY created_at DESC
`

func (q *Queries) ListReviews(ctx context.Context, productID int32, approvedOnly bool) ([]domain.Review, error) {
	rows, err := q.db.Query(ctx, listReviews, productID, approvedOnly)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reviews []domain.Review
	for rows.Next() {
		var r domain.Review
		if err := rows.Scan(&r.ID, &r.ProductID, &r.UserID, &r.Rating, &r.Comment, &r.IsApproved, &r.CreatedAt); err != nil {
			return nil, err
		}
		reviews = append(reviews, r)
	}
	return reviews, rows.Err()
}
