package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

const getCouponByCode = `
SELECT id, code, discount_type, coupon_type, value, expiry_date, min_cart_value_paise, max_discount_paise, usage_count, is_active, created_at
FROM coupons
WHERE code = upper($1)
`

// GetCouponByCode looks up a coupon case-insensitively; codes are
// stored uppercase.
func (q *Queries) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	var c domain.Coupon
	err := q.db.QueryRow(ctx, getCouponByCode, code).Scan(
		&c.ID,
		&c.Code,
		&c.DiscountType,
		&c.CouponType,
		&c.Value,
		&c.ExpiryDate,
		&c.MinCartValue,
		&c.MaxDiscount,
		&c.UsageCount,
		&c.IsActive,
		&c.CreatedAt,
	)
	return c, err
}

const incrementCouponUsage = `
UPDATE coupons
SET usage_count = usage_count + 1
WHERE id = $1
`

func (q *Queries) IncrementCouponUsage(ctx context.Context, couponID int32) error {
	_, err := q.db.Exec(ctx, incrementCouponUsage, couponID)
	return err
}

const createCouponUsage = `
INSERT INTO coupon_usages (user_id, coupon_id, coupon_type)
VALUES ($1, $2, $3)
`

func (q *Queries) CreateCouponUsage(ctx context.Context, userID, couponID int32, couponType string) error {
	_, err := q.db.Exec(ctx, createCouponUsage, userID, couponID, couponType)
	return err
}

const hasFreeShippingUsage = `
SELECT EXISTS (
    SELECT 1
    FROM coupon_usages
    WHERE user_id = $1 AND coupon_type = $2
)
`

// HasFreeShippingUsage reports whether the user has ever redeemed a
// free-shipping coupon, which waives delivery charges on later orders.
func (q *Queries) HasFreeShippingUsage(ctx context.Context, userID int32) (bool, error) {
	var exists bool
	err := q.db.QueryRow(ctx, hasFreeShippingUsage, userID, domain.CouponTypeFreeShipping).Scan(&exists)
	return exists, err
}
