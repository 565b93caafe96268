package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
	"github.com/snuggle-shop/snuggle/internal/shipping"
	"github.com/snuggle-shop/snuggle/internal/tax"
)

type cartService struct {
	repo     repository.Querier
	coupons  domain.CouponService
	shipping shipping.Calculator
	tax      tax.Calculator
}

var _ domain.CartService = (*cartService)(nil)

// NewCartService creates a cart service wired to the pricing
// collaborators.
func NewCartService(repo repository.Querier, coupons domain.CouponService, ship shipping.Calculator, taxes tax.Calculator) domain.CartService {
	return &cartService{
		repo:     repo,
		coupons:  coupons,
		shipping: ship,
		tax:      taxes,
	}
}

// AddItem adds a product to the user's cart, creating the cart lazily.
// Adding a product already present increments its quantity.
func (s *cartService) AddItem(ctx context.Context, userID, productID, quantity int32) (*domain.CartItem, error) {
	if quantity <= 0 {
		return nil, domain.ErrInvalidQuantity
	}

	product, err := s.repo.GetProduct(ctx, productID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrProductNotFound
		}
		return nil, domain.Internal(err, "cart.add_item", "failed to load product")
	}
	if !product.IsActive {
		return nil, domain.ErrProductNotFound
	}

	cart, err := s.repo.UpsertCart(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "cart.add_item", "failed to create cart")
	}

	item, err := s.repo.UpsertCartItem(ctx, cart.ID, productID, quantity)
	if err != nil {
		return nil, domain.Internal(err, "cart.add_item", "failed to add cart item")
	}

	return &item, nil
}

// UpdateItemQuantity sets a line's quantity; zero removes the line.
func (s *cartService) UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int32) error {
	if quantity < 0 {
		return domain.ErrInvalidQuantity
	}

	if err := s.checkItemOwnership(ctx, userID, itemID); err != nil {
		return err
	}

	if quantity == 0 {
		if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
			return domain.Internal(err, "cart.update_item", "failed to remove cart item")
		}
		return nil
	}

	if err := s.repo.SetCartItemQuantity(ctx, itemID, quantity); err != nil {
		return domain.Internal(err, "cart.update_item", "failed to update cart item")
	}
	return nil
}

// RemoveItem deletes a line from the user's cart.
func (s *cartService) RemoveItem(ctx context.Context, userID, itemID int32) error {
	if err := s.checkItemOwnership(ctx, userID, itemID); err != nil {
		return err
	}

	if err := s.repo.DeleteCartItem(ctx, itemID); err != nil {
		return domain.Internal(err, "cart.remove_item", "failed to remove cart item")
	}
	return nil
}

// checkItemOwnership verifies the item exists and belongs to the
// user's cart. Items in other users' carts read as not found.
func (s *cartService) checkItemOwnership(ctx context.Context, userID, itemID int32) error {
	item, err := s.repo.GetCartItem(ctx, itemID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartItemNotFound
		}
		return domain.Internal(err, "cart.item", "failed to load cart item")
	}

	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.ErrCartItemNotFound
		}
		return domain.Internal(err, "cart.item", "failed to load cart")
	}

	if item.CartID != cart.ID {
		return domain.ErrCartItemNotFound
	}
	return nil
}

// GetCartSummary prices the cart. An explicit couponCode wins over the
// code remembered in settings; any coupon failure degrades to a zero
// discount rather than erroring the summary.
func (s *cartService) GetCartSummary(ctx context.Context, userID int32, couponCode string) (*domain.CartSummary, error) {
	cart, err := s.repo.GetCartByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return emptySummary(), nil
		}
		return nil, domain.Internal(err, "cart.summary", "failed to load cart")
	}

	details, err := s.repo.GetCartItemsDetailed(ctx, cart.ID)
	if err != nil {
		return nil, domain.Internal(err, "cart.summary", "failed to load cart items")
	}
	if len(details) == 0 {
		return emptySummary(), nil
	}

	summary := &domain.CartSummary{
		Items:     make([]domain.SummaryItem, len(details)),
		ItemCount: len(details),
	}

	for i, d := range details {
		line := d.Price * currency.Paise(d.Quantity)
		summary.Items[i] = domain.SummaryItem{
			ItemID:    d.ItemID,
			ProductID: d.ProductID,
			Name:      d.Name,
			ImageURL:  d.ImageURL,
			UnitPrice: d.Price,
			Quantity:  d.Quantity,
			LineTotal: line,
		}
		summary.Subtotal += line
	}

	settings, err := s.repo.GetCartSettings(ctx, userID)
	if err != nil && !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "cart.summary", "failed to load cart settings")
	}
	summary.IsGift = settings.IsGift
	summary.GiftMessage = settings.GiftMessage

	code := couponCode
	if code == "" {
		code = settings.CouponApplied
	}
	if code != "" {
		if result, err := s.coupons.ValidateCoupon(ctx, code, summary.Subtotal); err == nil {
			summary.Discount = result.Discount
			summary.CouponCode = result.Coupon.Code
		}
	}

	delivery, err := s.shipping.Cost(ctx, summary.Subtotal, userID)
	if err != nil {
		return nil, domain.Internal(err, "cart.summary", "failed to compute delivery charge")
	}
	summary.DeliveryCharge = delivery
	summary.IsFreeShipping = delivery == 0

	taxAmount, err := s.tax.Calculate(ctx, summary.Subtotal, summary.Discount)
	if err != nil {
		return nil, domain.Internal(err, "cart.summary", "failed to compute tax")
	}
	summary.Tax = taxAmount

	summary.Total = summary.Subtotal - summary.Discount + summary.DeliveryCharge + summary.Tax
	return summary, nil
}

// UpdateSettings stores gift options and the remembered coupon code.
func (s *cartService) UpdateSettings(ctx context.Context, settings domain.CartSettings) error {
	if settings.UserID == 0 {
		return domain.Invalid("cart.settings", "user is required")
	}
	if err := s.repo.UpsertCartSettings(ctx, settings); err != nil {
		return fmt.Errorf("failed to save cart settings: %w", err)
	}
	return nil
}

// emptySummary is the all-zero summary for an absent or empty cart.
// Shipping is free because there is nothing to ship.
func emptySummary() *domain.CartSummary {
	return &domain.CartSummary{
		Items:          []domain.SummaryItem{},
		IsFreeShipping: true,
	}
}
