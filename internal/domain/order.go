package domain

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// =============================================================================
// ORDER DOMAIN ERRORS
// =============================================================================

var (
	ErrOrderNotFound   = &Error{Code: ENOTFOUND, Message: "Order not found"}
	ErrAddressNotFound = &Error{Code: ENOTFOUND, Message: "Address not found"}
	ErrEmptyCart       = &Error{Code: EINVALID, Message: "Cart is empty"}

	ErrPaymentNotSucceeded     = &Error{Code: EPAYMENT, Message: "Payment has not succeeded"}
	ErrPaymentAlreadyProcessed = &Error{Code: ECONFLICT, Message: "Payment intent already processed"}
)

// InsufficientStockError names the product that cannot be fulfilled.
func InsufficientStockError(productName string) error {
	return Errorf(ECONFLICT, "", "Out of stock: %s", productName)
}

// InvalidTransitionError names both states of a rejected status change.
func InvalidTransitionError(from, to OrderStatus) error {
	return Errorf(EINVALID, "", "Cannot change order status from %s to %s", from, to)
}

// =============================================================================
// ORDER STATUS
// =============================================================================

// OrderStatus is the fulfillment state of an order.
type OrderStatus string

const (
	OrderStatusPending    OrderStatus = "Pending"
	OrderStatusProcessing OrderStatus = "Processing"
	OrderStatusPacked     OrderStatus = "Packed"
	OrderStatusShipped    OrderStatus = "Shipped"
	OrderStatusDelivered  OrderStatus = "Delivered"
	OrderStatusCancelled  OrderStatus = "Cancelled"
	OrderStatusReturned   OrderStatus = "Returned"
)

// ValidOrderStatus reports whether s is a known status.
func ValidOrderStatus(s OrderStatus) bool {
	switch s {
	case OrderStatusPending, OrderStatusProcessing, OrderStatusPacked,
		OrderStatusShipped, OrderStatusDelivered, OrderStatusCancelled,
		OrderStatusReturned:
		return true
	}
	return false
}

// Terminal reports whether no further transitions leave s.
func (s OrderStatus) Terminal() bool {
	switch s {
	case OrderStatusDelivered, OrderStatusCancelled, OrderStatusReturned:
		return true
	}
	return false
}

// forwardChain is the fulfillment progression; each status may advance
// only to the next one.
var forwardChain = map[OrderStatus]OrderStatus{
	OrderStatusPending:    OrderStatusProcessing,
	OrderStatusProcessing: OrderStatusPacked,
	OrderStatusPacked:     OrderStatusShipped,
	OrderStatusShipped:    OrderStatusDelivered,
}

// CanTransition reports whether an order may move from one status to
// another. The forward chain advances one step at a time; Cancelled and
// Returned are reachable from any non-terminal status.
func CanTransition(from, to OrderStatus) bool {
	if from.Terminal() || from == to {
		return false
	}
	if to == OrderStatusCancelled || to == OrderStatusReturned {
		return true
	}
	return forwardChain[from] == to
}

// =============================================================================
// ORDER DOMAIN TYPES
// =============================================================================

// Order is a placed order.
type Order struct {
	ID            int32
	UserID        int32
	AddressID     int32
	Status        OrderStatus
	PaymentMethod string

	// TotalAmount is the amount charged for the order in paise.
	TotalAmount currency.Paise

	// PaymentIntentID links the order to its payment, when one exists.
	PaymentIntentID string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// OrderItem is a line of a placed order. PriceAtPurchase snapshots the
// product price at checkout time.
type OrderItem struct {
	ID              int32
	OrderID         int32
	ProductID       int32
	ProductName     string
	Quantity        int32
	PriceAtPurchase currency.Paise
}

// Address is a shipping address owned by a user.
type Address struct {
	ID         int32
	UserID     int32
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Phone      string
	IsDefault  bool
}

// OrderDetail aggregates an order with its items and shipping address.
type OrderDetail struct {
	Order   Order
	Items   []OrderItem
	Address *Address
}

// =============================================================================
// SERVICE INTERFACES
// =============================================================================

// PaymentMethodCOD is the default payment method when none is given.
const PaymentMethodCOD = "COD"

// CheckoutParams contains parameters for placing an order.
type CheckoutParams struct {
	UserID        int32
	AddressID     int32
	PaymentMethod string
	CouponCode    string
}

// CheckoutService converts a cart into an order.
type CheckoutService interface {
	// PlaceOrder atomically checks stock, decrements it, creates the
	// order with item price snapshots, empties the cart, and enqueues
	// the confirmation email. Any failure rolls the whole thing back.
	PlaceOrder(ctx context.Context, params CheckoutParams) (*OrderDetail, error)
}

// OrderService provides business logic for order retrieval and
// fulfillment.
type OrderService interface {
	// GetOrder retrieves an order with items and address. Customers may
	// only read their own orders; admins may read any.
	GetOrder(ctx context.Context, userID int32, isAdmin bool, orderID int32) (*OrderDetail, error)

	// ListOrders returns the user's orders newest first, or every order
	// for admins.
	ListOrders(ctx context.Context, userID int32, isAdmin bool) ([]Order, error)

	// UpdateStatus transitions an order's fulfillment status (admin).
	UpdateStatus(ctx context.Context, orderID int32, status OrderStatus) (*Order, error)

	// MarkPaid records a successful payment and moves the order from
	// Pending to Processing. Idempotent per payment intent.
	MarkPaid(ctx context.Context, orderID int32, paymentIntentID string) error

	// CreateAddress adds a shipping address to the user's address book.
	CreateAddress(ctx context.Context, params CreateAddressParams) (*Address, error)

	// ListAddresses returns the user's saved addresses, default first.
	ListAddresses(ctx context.Context, userID int32) ([]Address, error)
}

// CreateAddressParams contains parameters for adding a shipping address.
type CreateAddressParams struct {
	UserID     int32
	Line1      string
	Line2      string
	City       string
	State      string
	PostalCode string
	Phone      string
	IsDefault  bool
}
