package domain

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// =============================================================================
// COUPON DOMAIN ERRORS
// =============================================================================

var (
	// ErrCouponNotFound covers both unknown and deactivated codes so the
	// two are indistinguishable to callers.
	ErrCouponNotFound = &Error{Code: ENOTFOUND, Message: "Invalid coupon code"}

	ErrCouponExpired    = &Error{Code: EINVALID, Message: "Coupon has expired"}
	ErrCouponUsageLimit = &Error{Code: EINVALID, Message: "Coupon usage limit reached"}
)

// MinCartValueError reports a subtotal below the coupon's minimum,
// naming the required amount.
func MinCartValueError(min currency.Paise) error {
	return Errorf(EINVALID, "", "Minimum cart value of %s required", min)
}

// =============================================================================
// COUPON DOMAIN TYPES
// =============================================================================

// DiscountType distinguishes percentage from flat-amount coupons.
type DiscountType string

const (
	DiscountPercentage DiscountType = "percentage"
	DiscountFixed      DiscountType = "fixed"
)

// Coupon is a discount code. Codes are stored uppercase and matched
// case-insensitively.
type Coupon struct {
	ID           int32
	Code         string
	DiscountType DiscountType

	// CouponType is the marketing kind of the coupon, e.g. "discount"
	// or "free_shipping". Free-shipping redemptions grant the user a
	// standing delivery waiver via their usage record.
	CouponType string

	// Value is a percent (0-100) for percentage coupons and a paise
	// amount for fixed coupons.
	Value float64

	// ExpiryDate is compared date-only: a coupon expiring today is
	// still valid all day. Nil means no expiry.
	ExpiryDate *time.Time

	// MinCartValue is the minimum subtotal required. Nil means none.
	MinCartValue *currency.Paise

	// MaxDiscount caps percentage discounts. Nil means uncapped.
	// Ignored for fixed coupons.
	MaxDiscount *currency.Paise

	UsageCount int32
	IsActive   bool
	CreatedAt  time.Time
}

// Expired reports whether the coupon's expiry date has passed as of
// now, comparing dates only.
func (c *Coupon) Expired(now time.Time) bool {
	if c.ExpiryDate == nil {
		return false
	}
	ey, em, ed := c.ExpiryDate.Date()
	ny, nm, nd := now.Date()
	expiry := time.Date(ey, em, ed, 0, 0, 0, 0, time.UTC)
	today := time.Date(ny, nm, nd, 0, 0, 0, 0, time.UTC)
	return expiry.Before(today)
}

// CouponUsage records a user redeeming a coupon. A free_shipping usage
// record also grants the user free shipping on later orders.
type CouponUsage struct {
	ID         int32
	UserID     int32
	CouponID   int32
	CouponType string
	UsedAt     time.Time
}

// CouponTypeFreeShipping marks a usage record that grants free shipping.
const CouponTypeFreeShipping = "free_shipping"

// CouponResult is the outcome of a successful coupon validation.
type CouponResult struct {
	Coupon   *Coupon
	Discount currency.Paise
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// CouponService validates and applies discount codes.
type CouponService interface {
	// ValidateCoupon checks a code against a cart subtotal and computes
	// the discount. Read-only: usage counts are never touched. Codes are
	// matched case-insensitively.
	ValidateCoupon(ctx context.Context, code string, subtotal currency.Paise) (*CouponResult, error)

	// ApplyCoupon validates the code against the user's current cart
	// subtotal and commits the usage (increments usage_count, records a
	// CouponUsage for the user). Fails hard on any validation error.
	ApplyCoupon(ctx context.Context, userID int32, code string) (*CouponResult, error)
}
