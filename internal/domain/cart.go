package domain

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// =============================================================================
// CART DOMAIN ERRORS
// =============================================================================

var (
	ErrCartNotFound     = &Error{Code: ENOTFOUND, Message: "Cart not found"}
	ErrCartItemNotFound = &Error{Code: ENOTFOUND, Message: "Cart item not found"}
	ErrInvalidQuantity  = &Error{Code: EINVALID, Message: "Quantity must be greater than 0"}
)

// =============================================================================
// CART DOMAIN TYPES
// =============================================================================

// Cart is a user's shopping cart. Each user has at most one cart,
// created lazily on first use.
type Cart struct {
	ID        int32
	UserID    int32
	CreatedAt time.Time
	UpdatedAt time.Time
}

// CartItem is a product line in a cart. At most one row exists per
// (cart, product); adding the same product again increments quantity.
type CartItem struct {
	ID        int32
	CartID    int32
	ProductID int32
	Quantity  int32
	CreatedAt time.Time
}

// CartSettings carries per-user cart preferences that merge into the
// summary: gift wrapping and a remembered coupon code.
type CartSettings struct {
	UserID        int32
	IsGift        bool
	GiftMessage   string
	CouponApplied string
	UpdatedAt     time.Time
}

// SummaryItem is a cart line with resolved product data and line total.
type SummaryItem struct {
	ItemID    int32
	ProductID int32
	Name      string
	ImageURL  string
	UnitPrice currency.Paise
	Quantity  int32
	LineTotal currency.Paise
}

// CartSummary is the fully priced view of a cart.
//
// Total = Subtotal - Discount + DeliveryCharge + Tax. An empty cart
// yields an all-zero summary with IsFreeShipping true. Coupon failures
// never error the summary; they degrade to a zero discount.
type CartSummary struct {
	Items          []SummaryItem
	ItemCount      int
	Subtotal       currency.Paise
	Discount       currency.Paise
	CouponCode     string
	DeliveryCharge currency.Paise
	IsFreeShipping bool
	Tax            currency.Paise
	Total          currency.Paise
	IsGift         bool
	GiftMessage    string
}

// =============================================================================
// SERVICE INTERFACE
// =============================================================================

// CartService provides business logic for shopping cart operations.
type CartService interface {
	// AddItem adds a product to the user's cart, creating the cart if
	// needed. Adding a product already in the cart increments quantity.
	AddItem(ctx context.Context, userID, productID, quantity int32) (*CartItem, error)

	// UpdateItemQuantity sets a cart item's quantity.
	// A quantity of 0 removes the item.
	UpdateItemQuantity(ctx context.Context, userID, itemID, quantity int32) error

	// RemoveItem removes a cart item.
	RemoveItem(ctx context.Context, userID, itemID int32) error

	// GetCartSummary prices the user's cart. couponCode is optional; when
	// empty, the code remembered in cart settings applies. Coupon
	// validation is read-only here and soft-fails to a zero discount.
	GetCartSummary(ctx context.Context, userID int32, couponCode string) (*CartSummary, error)

	// UpdateSettings stores gift options and the remembered coupon code.
	UpdateSettings(ctx context.Context, settings CartSettings) error
}
