package repository

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
)

const orderColumns = `id, user_id, address_id, status, payment_method, total_amount_paise, payment_intent_id, created_at, updated_at`

func scanOrder(row interface{ Scan(dest ...any) error }) (domain.Order, error) {
	var o domain.Order
	err := row.Scan(
		&o.ID,
		&o.UserID,
		&o.AddressID,
		&o.Status,
		&o.PaymentMethod,
		&o.TotalAmount,
		&o.PaymentIntentID,
		&o.CreatedAt,
		&o.UpdatedAt,
	)
	return o, err
}

// CreateOrderParams contains the columns for a new order row.
type CreateOrderParams struct {
	UserID        int32
	AddressID     int32
	Status        domain.OrderStatus
	PaymentMethod string
	TotalAmount   currency.Paise
}

const createOrder = `
INSERT INTO orders (user_id, address_id, status, payment_method, total_amount_paise)
VALUES ($1, $2, $3, $4, $5)
RETURNING ` + orderColumns + `
`

func (q *Queries) CreateOrder(ctx context.Context, arg CreateOrderParams) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, createOrder,
		arg.UserID,
		arg.AddressID,
		arg.Status,
		arg.PaymentMethod,
		arg.TotalAmount,
	))
}

// CreateOrderItemParams snapshots a product line onto an order.
type CreateOrderItemParams struct {
	OrderID         int32
	ProductID       int32
	ProductName     string
	Quantity        int32
	PriceAtPurchase currency.Paise
}

const createOrderItem = `
INSERT INTO order_items (order_id, product_id, product_name, quantity, price_at_purchase_paise)
VALUES ($1, $2, $3, $4, $5)
RETURNING id, order_id, product_id, product_name, quantity, price_at_purchase_paise
`

func (q *Queries) CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (domain.OrderItem, error) {
	var it domain.OrderItem
	err := q.db.QueryRow(ctx, createOrderItem,
		arg.OrderID,
		arg.ProductID,
		arg.ProductName,
		arg.Quantity,
		arg.PriceAtPurchase,
	).Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase)
	return it, err
}

const getOrder = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
`

func (q *Queries) GetOrder(ctx context.Context, id int32) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrder, id))
}

const getOrderForUpdate = `
SELECT ` + orderColumns + `
FROM orders
WHERE id = $1
FOR UPDATE
`

func (q *Queries) GetOrderForUpdate(ctx context.Context, id int32) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, getOrderForUpdate, id))
}

const getOrderItems = `
SELECT id, order_id, product_id, product_name, quantity, price_at_purchase_paise
FROM order_items
WHERE order_id = $1
ORDER BY id
`

func (q *Queries) GetOrderItems(ctx context.Context, orderID int32) ([]domain.OrderItem, error) {
	rows, err := q.db.Query(ctx, getOrderItems, orderID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.OrderItem
	for rows.Next() {
		var it domain.OrderItem
		if err := rows.Scan(&it.ID, &it.OrderID, &it.ProductID, &it.ProductName, &it.Quantity, &it.PriceAtPurchase); err != nil {
			return nil, err
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

const listOrdersByUser = `
SELECT ` + orderColumns + `
FROM orders
WHERE user_id = $1
ORDER BY created_at DESC
`

func (q *Queries) ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	rows, err := q.db.Query(ctx, listOrdersByUser, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

const listOrders = `
SELECT ` + orderColumns + `
FROM orders
ORDER BY created_at DESC
`

func (q *Queries) ListOrders(ctx context.Context) ([]domain.Order, error) {
	rows, err := q.db.Query(ctx, listOrders)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return collectOrders(rows)
}

func collectOrders(rows interface {
	Next() bool
	Scan(dest ...any) error
	Err() error
}) ([]domain.Order, error) {
	var orders []domain.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, rows.Err()
}

const updateOrderStatus = `
UPDATE orders
SET status = $2, updated_at = now()
WHERE id = $1
RETURNING ` + orderColumns + `
`

func (q *Queries) UpdateOrderStatus(ctx context.Context, id int32, status domain.OrderStatus) (domain.Order, error) {
	return scanOrder(q.db.QueryRow(ctx, updateOrderStatus, id, status))
}

const markOrderPaid = `
UPDATE orders
SET status = $3, payment_intent_id = $2, updated_at = now()
WHERE id = $1 AND payment_intent_id = ''
`

// MarkOrderPaid records the payment intent and advances the status.
// Returns zero rows affected when the order was already paid, making
// webhook processing idempotent.
func (q *Queries) MarkOrderPaid(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error) {
	tag, err := q.db.Exec(ctx, markOrderPaid, id, paymentIntentID, status)
	if err != nil {
		return 0, err
	}
	return tag.RowsAffected(), nil
}

const getAddress = `
SELECT id, user_id, line1, line2, city, state, postal_code, phone, is_default
FROM addresses
WHERE id = $1
`

func (q *Queries) GetAddress(ctx context.Context, id int32) (domain.Address, error) {
	var a domain.Address
	err := q.db.QueryRow(ctx, getAddress, id).Scan(
		&a.ID, &a.UserID, &a.Line1, &a.Line2, &a.City, &a.State, &a.PostalCode, &a.Phone, &a.IsDefault,
	)
	return a, err
}

const getUser = `
SELECT id, email, name, is_admin, created_at
FROM users
WHERE id = $1
`

func (q *Queries) GetUser(ctx context.Context, id int32) (domain.User, error) {
	var u domain.User
	err := q.db.QueryRow(ctx, getUser, id).Scan(&u.ID, &u.Email, &u.Name, &u.IsAdmin, &u.CreatedAt)
	return u, err
}
