package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

type couponService struct {
	store      repository.Store
	usageLimit int32
	now        func() time.Time
}

var _ domain.CouponService = (*couponService)(nil)

// NewCouponService creates a coupon service. usageLimit caps total
// redemptions per coupon.
func NewCouponService(store repository.Store, usageLimit int32) domain.CouponService {
	return &couponService{
		store:      store,
		usageLimit: usageLimit,
		now:        time.Now,
	}
}

// ValidateCoupon checks a code against a subtotal without touching
// usage counts. Unknown and inactive codes are indistinguishable.
func (s *couponService) ValidateCoupon(ctx context.Context, code string, subtotal currency.Paise) (*domain.CouponResult, error) {
	coupon, err := s.store.GetCouponByCode(ctx, code)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrCouponNotFound
		}
		return nil, domain.Internal(err, "coupon.validate", "failed to look up coupon")
	}

	if !coupon.IsActive {
		return nil, domain.ErrCouponNotFound
	}

	if coupon.Expired(s.now()) {
		return nil, domain.ErrCouponExpired
	}

	if coupon.MinCartValue != nil && subtotal < *coupon.MinCartValue {
		return nil, domain.MinCartValueError(*coupon.MinCartValue)
	}

	if coupon.UsageCount >= s.usageLimit {
		return nil, domain.ErrCouponUsageLimit
	}

	discount, err := s.discount(&coupon, subtotal)
	if err != nil {
		return nil, err
	}

	return &domain.CouponResult{Coupon: &coupon, Discount: discount}, nil
}

// discount computes the discount amount for a validated coupon.
func (s *couponService) discount(coupon *domain.Coupon, subtotal currency.Paise) (currency.Paise, error) {
	switch coupon.DiscountType {
	case domain.DiscountPercentage:
		d := currency.Percent(subtotal, coupon.Value)
		if coupon.MaxDiscount != nil {
			d = currency.Min(d, *coupon.MaxDiscount)
		}
		return d, nil

	case domain.DiscountFixed:
		// A fixed discount never exceeds the subtotal.
		return currency.Min(currency.RoundHalfUp(coupon.Value), subtotal), nil

	default:
		return 0, domain.Errorf(domain.EINVALID, "coupon.validate", "Unknown discount type: %s", coupon.DiscountType)
	}
}

// ApplyCoupon validates the code against the user's current cart and
// commits the redemption: usage_count increments, a usage record is
// written, and the code is remembered in cart settings.
func (s *couponService) ApplyCoupon(ctx context.Context, userID int32, code string) (*domain.CouponResult, error) {
	subtotal, err := s.cartSubtotal(ctx, userID)
	if err != nil {
		return nil, err
	}

	result, err := s.ValidateCoupon(ctx, code, subtotal)
	if err != nil {
		return nil, err
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, domain.Internal(err, "coupon.apply", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	q := tx.Queries()

	if err := q.IncrementCouponUsage(ctx, result.Coupon.ID); err != nil {
		return nil, domain.Internal(err, "coupon.apply", "failed to increment coupon usage")
	}

	if err := q.CreateCouponUsage(ctx, userID, result.Coupon.ID, result.Coupon.CouponType); err != nil {
		return nil, domain.Internal(err, "coupon.apply", "failed to record coupon usage")
	}

	settings, err := q.GetCartSettings(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "coupon.apply", "failed to load cart settings")
	}
	settings.UserID = userID
	settings.CouponApplied = result.Coupon.Code
	if err := q.UpsertCartSettings(ctx, settings); err != nil {
		return nil, domain.Internal(err, "coupon.apply", "failed to save cart settings")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "coupon.apply", "failed to commit transaction")
	}

	return result, nil
}

// cartSubtotal prices the user's current cart lines.
func (s *couponService) cartSubtotal(ctx context.Context, userID int32) (currency.Paise, error) {
	cart, err := s.store.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, domain.ErrEmptyCart
		}
		return 0, fmt.Errorf("failed to load cart: %w", err)
	}

	items, err := s.store.GetCartItemsDetailed(ctx, cart.ID)
	if err != nil {
		return 0, fmt.Errorf("failed to load cart items: %w", err)
	}
	if len(items) == 0 {
		return 0, domain.ErrEmptyCart
	}

	var subtotal currency.Paise
	for _, it := range items {
		subtotal += it.Price * currency.Paise(it.Quantity)
	}
	return subtotal, nil
}
