package repository

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

// Querier is the full query set. Services depend on this interface so
// tests can substitute mocks, and transactions expose it via Tx.Queries.
type Querier interface {
	// Products
	GetProduct(ctx context.Context, id int32) (domain.Product, error)
	GetProductForUpdate(ctx context.Context, id int32) (domain.Product, error)
	ListProducts(ctx context.Context, arg ListProductsParams) ([]domain.Product, error)
	CreateProduct(ctx context.Context, arg CreateProductParams) (domain.Product, error)
	UpdateProduct(ctx context.Context, id int32, patch domain.ProductPatch) (domain.Product, error)
	DecrementProductStock(ctx context.Context, id, quantity int32) (int64, error)
	UpdateProductRating(ctx context.Context, arg UpdateProductRatingParams) error
	ListCategories(ctx context.Context) ([]domain.Category, error)

	// Reviews
	CreateReview(ctx context.Context, arg CreateReviewParams) (domain.Review, error)
	GetReviewByUserAndProduct(ctx context.Context, userID, productID int32) (domain.Review, error)
	ListReviews(ctx context.Context, productID int32, approvedOnly bool) ([]domain.Review, error)

	// Carts
	GetCartByUserID(ctx context.Context, userID int32) (domain.Cart, error)
	UpsertCart(ctx context.Context, userID int32) (domain.Cart, error)
	UpsertCartItem(ctx context.Context, cartID, productID, quantity int32) (domain.CartItem, error)
	GetCartItem(ctx context.Context, itemID int32) (domain.CartItem, error)
	SetCartItemQuantity(ctx context.Context, itemID, quantity int32) error
	DeleteCartItem(ctx context.Context, itemID int32) error
	ClearCart(ctx context.Context, cartID int32) error
	GetCartItemsDetailed(ctx context.Context, cartID int32) ([]CartItemDetail, error)
	GetCartSettings(ctx context.Context, userID int32) (domain.CartSettings, error)
	UpsertCartSettings(ctx context.Context, arg domain.CartSettings) error

	// Coupons
	GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error)
	IncrementCouponUsage(ctx context.Context, couponID int32) error
	CreateCouponUsage(ctx context.Context, userID, couponID int32, couponType string) error
	HasFreeShippingUsage(ctx context.Context, userID int32) (bool, error)

	// Orders
	CreateOrder(ctx context.Context, arg CreateOrderParams) (domain.Order, error)
	CreateOrderItem(ctx context.Context, arg CreateOrderItemParams) (domain.OrderItem, error)
	GetOrder(ctx context.Context, id int32) (domain.Order, error)
	GetOrderForUpdate(ctx context.Context, id int32) (domain.Order, error)
	GetOrderItems(ctx context.Context, orderID int32) ([]domain.OrderItem, error)
	ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error)
	ListOrders(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatus(ctx context.Context, id int32, status domain.OrderStatus) (domain.Order, error)
	MarkOrderPaid(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error)
	GetAddress(ctx context.Context, id int32) (domain.Address, error)

	// Addresses
	CreateAddress(ctx context.Context, arg CreateAddressParams) (domain.Address, error)
	ClearDefaultAddress(ctx context.Context, userID int32) error
	ListAddressesByUser(ctx context.Context, userID int32) ([]domain.Address, error)

	// Users
	GetUser(ctx context.Context, id int32) (domain.User, error)
	GetUserByEmail(ctx context.Context, email string) (domain.User, error)
	CreateUser(ctx context.Context, arg CreateUserParams) (domain.User, error)
	SetUserAdmin(ctx context.Context, id int32, isAdmin bool) error

	// Jobs
	EnqueueJob(ctx context.Context, arg EnqueueJobParams) (Job, error)
	ClaimNextJob(ctx context.Context, queue, workerID string) (Job, error)
	CompleteJob(ctx context.Context, id int64) error
	FailJob(ctx context.Context, id int64, errMsg string) (Job, error)
	DeleteCompletedJobsBefore(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ Querier = (*Queries)(nil)
