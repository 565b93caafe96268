package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
)

const getCartByUserID = `
SELECT id, user_id, created_at, updated_at
FROM carts
WHERE user_id = $1
`

func (q *Queries) GetCartByUserID(ctx context.Context, userID int32) (domain.Cart, error) {
	var c domain.Cart
	err := q.db.QueryRow(ctx, getCartByUserID, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const upsertCart = `
INSERT INTO carts (user_id)
VALUES ($1)
ON CONFLICT (user_id) DO UPDATE SET updated_at = now()
RETURNING id, user_id, created_at, updated_at
`

// UpsertCart returns the user's cart, creating it on first use.
func (q *Queries) UpsertCart(ctx context.Context, userID int32) (domain.Cart, error) {
	var c domain.Cart
	err := q.db.QueryRow(ctx, upsertCart, userID).Scan(&c.ID, &c.UserID, &c.CreatedAt, &c.UpdatedAt)
	return c, err
}

const upsertCartItem = `
INSERT INTO cart_items (cart_id, product_id, quantity)
VALUES ($1, $2, $3)
ON CONFLICT (cart_id, product_id) DO UPDATE
SET quantity = cart_items.quantity + EXCLUDED.quantity
RETURNING id, cart_id, product_id, quantity, created_at
`

// UpsertCartItem adds a product line or increments the existing one.
func (q *Queries) UpsertCartItem(ctx context.Context, cartID, productID, quantity int32) (domain.CartItem, error) {
	var it domain.CartItem
	err := q.db.QueryRow(ctx, upsertCartItem, cartID, productID, quantity).Scan(
		&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt,
	)
	return it, err
}

const getCartItem = `
SELECT id, cart_id, product_id, quantity, created_at
FROM cart_items
WHERE id = $1
`

func (q *Queries) GetCartItem(ctx context.Context, itemID int32) (domain.CartItem, error) {
	var it domain.CartItem
	err := q.db.QueryRow(ctx, getCartItem, itemID).Scan(
		&it.ID, &it.CartID, &it.ProductID, &it.Quantity, &it.CreatedAt,
	)
	return it, err
}

const setCartItemQuantity = `
UPDATE cart_items
SET quantity = $2
WHERE id = $1
`

func (q *Queries) SetCartItemQuantity(ctx context.Context, itemID, quantity int32) error {
	_, err := q.db.Exec(ctx, setCartItemQuantity, itemID, quantity)
	return err
}

const deleteCartItem = `
DELETE FROM cart_items
WHERE id = $1
`

func (q *Queries) DeleteCartItem(ctx context.Context, itemID int32) error {
	_, err := q.db.Exec(ctx, deleteCartItem, itemID)
	return err
}

const clearCart = `
DELETE FROM cart_items
WHERE cart_id = $1
`

func (q *Queries) ClearCart(ctx context.Context, cartID int32) error {
	_, err := q.db.Exec(ctx, clearCart, cartID)
	return err
}

// CartItemDetail joins a cart line with its product's live data.
type CartItemDetail struct {
	ItemID    int32
	ProductID int32
	Quantity  int32
	Name      string
	Price     currency.Paise
	ImageURL  string
	Stock     int32
}

const getCartItemsDetailed = `
SELECT ci.id, ci.product_id, ci.quantity, p.name, p.price_paise, p.image_url, p.stock
FROM cart_items ci
JOIN products p ON p.id = ci.product_id
WHERE ci.cart_id = $1
ORDER BY ci.product_id
`

// GetCartItemsDetailed returns cart lines with product data, ordered by
// product ID so lock acquisition during checkout is deterministic.
func (q *Queries) GetCartItemsDetailed(ctx context.Context, cartID int32) ([]CartItemDetail, error) {
	rows, err := q.db.Query(ctx, getCartItemsDetailed, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []CartItemDetail
	for rows.Next() {
		var d CartItemDetail
		if err := rows.Scan(&d.ItemID, &d.ProductID, &d.Quantity, &d.Name, &d.Price, &d.ImageURL, &d.Stock); err != nil {
			return nil, err
		}
		items = append(items, d)
	}
	return items, rows.Err()
}

const getCartSettings = `
SELECT user_id, is_gift, gift_message, coupon_applied, updated_at
FROM cart_settings
WHERE user_id = $1
`

func (q *Queries) GetCartSettings(ctx context.Context, userID int32) (domain.CartSettings, error) {
	var s domain.CartSettings
	err := q.db.QueryRow(ctx, getCartSettings, userID).Scan(
		&s.UserID, &s.IsGift, &s.GiftMessage, &s.CouponApplied, &s.UpdatedAt,
	)
	return s, err
}

const upsertCartSettings = `
INSERT INTO cart_settings (user_id, is_gift, gift_message, coupon_applied)
VALUES ($1, $2, $3, $4)
ON CONFLICT (user_id) DO UPDATE
SET is_gift = EXCLUDED.is_gift,
    gift_message = EXCLUDED.gift_message,
    coupon_applied = EXCLUDED.coupon_applied,
    updated_at = now()
`

func (q *Queries) UpsertCartSettings(ctx context.Context, arg domain.CartSettings) error {
	_, err := q.db.Exec(ctx, upsertCartSettings, arg.UserID, arg.IsGift, arg.GiftMessage, arg.CouponApplied)
	return err
}
