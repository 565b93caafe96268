package service

import (
	"context"
	"time"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

// mockQuerier implements repository.Querier with function fields.
// Unset methods panic so tests fail loudly on unexpected calls.
type mockQuerier struct {
	GetProductFn            func(ctx context.Context, id int32) (domain.Product, error)
	GetProductForUpdateFn   func(ctx context.Context, id int32) (domain.Product, error)
	ListProductsFn          func(ctx context.Context, arg repository.ListProductsParams) ([]domain.Product, error)
	CreateProductFn         func(ctx context.Context, arg repository.CreateProductParams) (domain.Product, error)
	UpdateProductFn         func(ctx context.Context, id int32, patch domain.ProductPatch) (domain.Product, error)
	DecrementProductStockFn func(ctx context.Context, id, quantity int32) (int64, error)
	UpdateProductRatingFn   func(ctx context.Context, arg repository.UpdateProductRatingParams) error
	ListCategoriesFn        func(ctx context.Context) ([]domain.Category, error)

	CreateReviewFn              func(ctx context.Context, arg repository.CreateReviewParams) (domain.Review, error)
	GetReviewByUserAndProductFn func(ctx context.Context, userID, productID int32) (domain.Review, error)
	ListReviewsFn               func(ctx context.Context, productID int32, approvedOnly bool) ([]domain.Review, error)

	GetCartByUserIDFn      func(ctx context.Context, userID int32) (domain.Cart, error)
	UpsertCartFn           func(ctx context.Context, userID int32) (domain.Cart, error)
	UpsertCartItemFn       func(ctx context.Context, cartID, productID, quantity int32) (domain.CartItem, error)
	GetCartItemFn          func(ctx context.Context, itemID int32) (domain.CartItem, error)
	SetCartItemQuantityFn  func(ctx context.Context, itemID, quantity int32) error
	DeleteCartItemFn       func(ctx context.Context, itemID int32) error
	ClearCartFn            func(ctx context.Context, cartID int32) error
	GetCartItemsDetailedFn func(ctx context.Context, cartID int32) ([]repository.CartItemDetail, error)
	GetCartSettingsFn      func(ctx context.Context, userID int32) (domain.CartSettings, error)
	UpsertCartSettingsFn   func(ctx context.Context, arg domain.CartSettings) error

	GetCouponByCodeFn      func(ctx context.Context, code string) (domain.Coupon, error)
	IncrementCouponUsageFn func(ctx context.Context, couponID int32) error
	CreateCouponUsageFn    func(ctx context.Context, userID, couponID int32, couponType string) error
	HasFreeShippingUsageFn func(ctx context.Context, userID int32) (bool, error)

	CreateOrderFn       func(ctx context.Context, arg repository.CreateOrderParams) (domain.Order, error)
	CreateOrderItemFn   func(ctx context.Context, arg repository.CreateOrderItemParams) (domain.OrderItem, error)
	GetOrderFn          func(ctx context.Context, id int32) (domain.Order, error)
	GetOrderForUpdateFn func(ctx context.Context, id int32) (domain.Order, error)
	GetOrderItemsFn     func(ctx context.Context, orderID int32) ([]domain.OrderItem, error)
	ListOrdersByUserFn  func(ctx context.Context, userID int32) ([]domain.Order, error)
	ListOrdersFn        func(ctx context.Context) ([]domain.Order, error)
	UpdateOrderStatusFn func(ctx context.Context, id int32, status domain.OrderStatus) (domain.Order, error)
	MarkOrderPaidFn     func(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error)
	GetAddressFn        func(ctx context.Context, id int32) (domain.Address, error)

	CreateAddressFn       func(ctx context.Context, arg repository.CreateAddressParams) (domain.Address, error)
	ClearDefaultAddressFn func(ctx context.Context, userID int32) error
	ListAddressesByUserFn func(ctx context.Context, userID int32) ([]domain.Address, error)

	GetUserFn        func(ctx context.Context, id int32) (domain.User, error)
	GetUserByEmailFn func(ctx context.Context, email string) (domain.User, error)
	CreateUserFn     func(ctx context.Context, arg repository.CreateUserParams) (domain.User, error)
	SetUserAdminFn   func(ctx context.Context, id int32, isAdmin bool) error

	EnqueueJobFn                func(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error)
	ClaimNextJobFn              func(ctx context.Context, queue, workerID string) (repository.Job, error)
	CompleteJobFn               func(ctx context.Context, id int64) error
	FailJobFn                   func(ctx context.Context, id int64, errMsg string) (repository.Job, error)
	DeleteCompletedJobsBeforeFn func(ctx context.Context, cutoff time.Time) (int64, error)
}

var _ repository.Querier = (*mockQuerier)(nil)

func (m *mockQuerier) GetProduct(ctx context.Context, id int32) (domain.Product, error) {
	if m.GetProductFn == nil {
		panic("unexpected call: GetProduct")
	}
	return m.GetProductFn(ctx, id)
}

func (m *mockQuerier) GetProductForUpdate(ctx context.Context, id int32) (domain.Product, error) {
	if m.GetProductForUpdateFn == nil {
		panic("unexpected call: GetProductForUpdate")
	}
	return m.GetProductForUpdateFn(ctx, id)
}

func (m *mockQuerier) ListProducts(ctx context.Context, arg repository.ListProductsParams) ([]domain.Product, error) {
	if m.ListProductsFn == nil {
		panic("unexpected call: ListProducts")
	}
	return m.ListProductsFn(ctx, arg)
}

func (m *mockQuerier) CreateProduct(ctx context.Context, arg repository.CreateProductParams) (domain.Product, error) {
	if m.CreateProductFn == nil {
		panic("unexpected call: CreateProduct")
	}
	return m.CreateProductFn(ctx, arg)
}

func (m *mockQuerier) UpdateProduct(ctx context.Context, id int32, patch domain.ProductPatch) (domain.Product, error) {
	if m.UpdateProductFn == nil {
		panic("unexpected call: UpdateProduct")
	}
	return m.UpdateProductFn(ctx, id, patch)
}

func (m *mockQuerier) DecrementProductStock(ctx context.Context, id, quantity int32) (int64, error) {
	if m.DecrementProductStockFn == nil {
		panic("unexpected call: DecrementProductStock")
	}
	return m.DecrementProductStockFn(ctx, id, quantity)
}

func (m *mockQuerier) UpdateProductRating(ctx context.Context, arg repository.UpdateProductRatingParams) error {
	if m.UpdateProductRatingFn == nil {
		panic("unexpected call: UpdateProductRating")
	}
	return m.UpdateProductRatingFn(ctx, arg)
}

func (m *mockQuerier) ListCategories(ctx context.Context) ([]domain.Category, error) {
	if m.ListCategoriesFn == nil {
		panic("unexpected call: ListCategories")
	}
	return m.ListCategoriesFn(ctx)
}

func (m *mockQuerier) CreateReview(ctx context.Context, arg repository.CreateReviewParams) (domain.Review, error) {
	if m.CreateReviewFn == nil {
		panic("unexpected call: CreateReview")
	}
	return m.CreateReviewFn(ctx, arg)
}

func (m *mockQuerier) GetReviewByUserAndProduct(ctx context.Context, userID, productID int32) (domain.Review, error) {
	if m.GetReviewByUserAndProductFn == nil {
		panic("unexpected call: GetReviewByUserAndProduct")
	}
	return m.GetReviewByUserAndProductFn(ctx, userID, productID)
}

func (m *mockQuerier) ListReviews(ctx context.Context, productID int32, approvedOnly bool) ([]domain.Review, error) {
	if m.ListReviewsFn == nil {
		panic("unexpected call: ListReviews")
	}
	return m.ListReviewsFn(ctx, productID, approvedOnly)
}

func (m *mockQuerier) GetCartByUserID(ctx context.Context, userID int32) (domain.Cart, error) {
	if m.GetCartByUserIDFn == nil {
		panic("unexpected call: GetCartByUserID")
	}
	return m.GetCartByUserIDFn(ctx, userID)
}

func (m *mockQuerier) UpsertCart(ctx context.Context, userID int32) (domain.Cart, error) {
	if m.UpsertCartFn == nil {
		panic("unexpected call: UpsertCart")
	}
	return m.UpsertCartFn(ctx, userID)
}

func (m *mockQuerier) UpsertCartItem(ctx context.Context, cartID, productID, quantity int32) (domain.CartItem, error) {
	if m.UpsertCartItemFn == nil {
		panic("unexpected call: UpsertCartItem")
	}
	return m.UpsertCartItemFn(ctx, cartID, productID, quantity)
}

func (m *mockQuerier) GetCartItem(ctx context.Context, itemID int32) (domain.CartItem, error) {
	if m.GetCartItemFn == nil {
		panic("unexpected call: GetCartItem")
	}
	return m.GetCartItemFn(ctx, itemID)
}

func (m *mockQuerier) SetCartItemQuantity(ctx context.Context, itemID, quantity int32) error {
	if m.SetCartItemQuantityFn == nil {
		panic("unexpected call: SetCartItemQuantity")
	}
	return m.SetCartItemQuantityFn(ctx, itemID, quantity)
}

func (m *mockQuerier) DeleteCartItem(ctx context.Context, itemID int32) error {
	if m.DeleteCartItemFn == nil {
		panic("unexpected call: DeleteCartItem")
	}
	return m.DeleteCartItemFn(ctx, itemID)
}

func (m *mockQuerier) ClearCart(ctx context.Context, cartID int32) error {
	if m.ClearCartFn == nil {
		panic("unexpected call: ClearCart")
	}
	return m.ClearCartFn(ctx, cartID)
}

func (m *mockQuerier) GetCartItemsDetailed(ctx context.Context, cartID int32) ([]repository.CartItemDetail, error) {
	if m.GetCartItemsDetailedFn == nil {
		panic("unexpected call: GetCartItemsDetailed")
	}
	return m.GetCartItemsDetailedFn(ctx, cartID)
}

func (m *mockQuerier) GetCartSettings(ctx context.Context, userID int32) (domain.CartSettings, error) {
	if m.GetCartSettingsFn == nil {
		panic("unexpected call: GetCartSettings")
	}
	return m.GetCartSettingsFn(ctx, userID)
}

func (m *mockQuerier) UpsertCartSettings(ctx context.Context, arg domain.CartSettings) error {
	if m.UpsertCartSettingsFn == nil {
		panic("unexpected call: UpsertCartSettings")
	}
	return m.UpsertCartSettingsFn(ctx, arg)
}

func (m *mockQuerier) GetCouponByCode(ctx context.Context, code string) (domain.Coupon, error) {
	if m.GetCouponByCodeFn == nil {
		panic("unexpected call: GetCouponByCode")
	}
	return m.GetCouponByCodeFn(ctx, code)
}

func (m *mockQuerier) IncrementCouponUsage(ctx context.Context, couponID int32) error {
	if m.IncrementCouponUsageFn == nil {
		panic("unexpected call: IncrementCouponUsage")
	}
	return m.IncrementCouponUsageFn(ctx, couponID)
}

func (m *mockQuerier) CreateCouponUsage(ctx context.Context, userID, couponID int32, couponType string) error {
	if m.CreateCouponUsageFn == nil {
		panic("unexpected call: CreateCouponUsage")
	}
	return m.CreateCouponUsageFn(ctx, userID, couponID, couponType)
}

func (m *mockQuerier) HasFreeShippingUsage(ctx context.Context, userID int32) (bool, error) {
	if m.HasFreeShippingUsageFn == nil {
		panic("unexpected call: HasFreeShippingUsage")
	}
	return m.HasFreeShippingUsageFn(ctx, userID)
}

func (m *mockQuerier) CreateOrder(ctx context.Context, arg repository.CreateOrderParams) (domain.Order, error) {
	if m.CreateOrderFn == nil {
		panic("unexpected call: CreateOrder")
	}
	return m.CreateOrderFn(ctx, arg)
}

func (m *mockQuerier) CreateOrderItem(ctx context.Context, arg repository.CreateOrderItemParams) (domain.OrderItem, error) {
	if m.CreateOrderItemFn == nil {
		panic("unexpected call: CreateOrderItem")
	}
	return m.CreateOrderItemFn(ctx, arg)
}

func (m *mockQuerier) GetOrder(ctx context.Context, id int32) (domain.Order, error) {
	if m.GetOrderFn == nil {
		panic("unexpected call: GetOrder")
	}
	return m.GetOrderFn(ctx, id)
}

func (m *mockQuerier) GetOrderForUpdate(ctx context.Context, id int32) (domain.Order, error) {
	if m.GetOrderForUpdateFn == nil {
		panic("unexpected call: GetOrderForUpdate")
	}
	return m.GetOrderForUpdateFn(ctx, id)
}

func (m *mockQuerier) GetOrderItems(ctx context.Context, orderID int32) ([]domain.OrderItem, error) {
	if m.GetOrderItemsFn == nil {
		panic("unexpected call: GetOrderItems")
	}
	return m.GetOrderItemsFn(ctx, orderID)
}

func (m *mockQuerier) ListOrdersByUser(ctx context.Context, userID int32) ([]domain.Order, error) {
	if m.ListOrdersByUserFn == nil {
		panic("unexpected call: ListOrdersByUser")
	}
	return m.ListOrdersByUserFn(ctx, userID)
}

func (m *mockQuerier) ListOrders(ctx context.Context) ([]domain.Order, error) {
	if m.ListOrdersFn == nil {
		panic("unexpected call: ListOrders")
	}
	return m.ListOrdersFn(ctx)
}

func (m *mockQuerier) UpdateOrderStatus(ctx context.Context, id int32, status domain.OrderStatus) (domain.Order, error) {
	if m.UpdateOrderStatusFn == nil {
		panic("unexpected call: UpdateOrderStatus")
	}
	return m.UpdateOrderStatusFn(ctx, id, status)
}

func (m *mockQuerier) MarkOrderPaid(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error) {
	if m.MarkOrderPaidFn == nil {
		panic("unexpected call: MarkOrderPaid")
	}
	return m.MarkOrderPaidFn(ctx, id, paymentIntentID, status)
}

func (m *mockQuerier) GetAddress(ctx context.Context, id int32) (domain.Address, error) {
	if m.GetAddressFn == nil {
		panic("unexpected call: GetAddress")
	}
	return m.GetAddressFn(ctx, id)
}

func (m *mockQuerier) CreateAddress(ctx context.Context, arg repository.CreateAddressParams) (domain.Address, error) {
	if m.CreateAddressFn == nil {
		panic("unexpected call: CreateAddress")
	}
	return m.CreateAddressFn(ctx, arg)
}

func (m *mockQuerier) ClearDefaultAddress(ctx context.Context, userID int32) error {
	if m.ClearDefaultAddressFn == nil {
		panic("unexpected call: ClearDefaultAddress")
	}
	return m.ClearDefaultAddressFn(ctx, userID)
}

func (m *mockQuerier) ListAddressesByUser(ctx context.Context, userID int32) ([]domain.Address, error) {
	if m.ListAddressesByUserFn == nil {
		panic("unexpected call: ListAddressesByUser")
	}
	return m.ListAddressesByUserFn(ctx, userID)
}

func (m *mockQuerier) GetUser(ctx context.Context, id int32) (domain.User, error) {
	if m.GetUserFn == nil {
		panic("unexpected call: GetUser")
	}
	return m.GetUserFn(ctx, id)
}

func (m *mockQuerier) GetUserByEmail(ctx context.Context, email string) (domain.User, error) {
	if m.GetUserByEmailFn == nil {
		panic("unexpected call: GetUserByEmail")
	}
	return m.GetUserByEmailFn(ctx, email)
}

func (m *mockQuerier) CreateUser(ctx context.Context, arg repository.CreateUserParams) (domain.User, error) {
	if m.CreateUserFn == nil {
		panic("unexpected call: CreateUser")
	}
	return m.CreateUserFn(ctx, arg)
}

func (m *mockQuerier) SetUserAdmin(ctx context.Context, id int32, isAdmin bool) error {
	if m.SetUserAdminFn == nil {
		panic("unexpected call: SetUserAdmin")
	}
	return m.SetUserAdminFn(ctx, id, isAdmin)
}

func (m *mockQuerier) EnqueueJob(ctx context.Context, arg repository.EnqueueJobParams) (repository.Job, error) {
	if m.EnqueueJobFn == nil {
		panic("unexpected call: EnqueueJob")
	}
	return m.EnqueueJobFn(ctx, arg)
}

func (m *mockQuerier) ClaimNextJob(ctx context.Context, queue, workerID string) (repository.Job, error) {
	if m.ClaimNextJobFn == nil {
		panic("unexpected call: ClaimNextJob")
	}
	return m.ClaimNextJobFn(ctx, queue, workerID)
}

func (m *mockQuerier) CompleteJob(ctx context.Context, id int64) error {
	if m.CompleteJobFn == nil {
		panic("unexpected call: CompleteJob")
	}
	return m.CompleteJobFn(ctx, id)
}

func (m *mockQuerier) FailJob(ctx context.Context, id int64, errMsg string) (repository.Job, error) {
	if m.FailJobFn == nil {
		panic("unexpected call: FailJob")
	}
	return m.FailJobFn(ctx, id, errMsg)
}

func (m *mockQuerier) DeleteCompletedJobsBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	if m.DeleteCompletedJobsBeforeFn == nil {
		panic("unexpected call: DeleteCompletedJobsBefore")
	}
	return m.DeleteCompletedJobsBeforeFn(ctx, cutoff)
}

// mockStore wraps a mockQuerier with transaction control. Transactions
// run against the same querier; commits and rollbacks are recorded.
type mockStore struct {
	mockQuerier
	beginErr  error
	commitErr error
	commits   int
	rollbacks int
}

var _ repository.Store = (*mockStore)(nil)

func (s *mockStore) BeginTx(ctx context.Context) (repository.Tx, error) {
	if s.beginErr != nil {
		return nil, s.beginErr
	}
	return &mockTx{store: s}, nil
}

type mockTx struct {
	store     *mockStore
	committed bool
}

func (t *mockTx) Queries() repository.Querier {
	return &t.store.mockQuerier
}

func (t *mockTx) Commit(ctx context.Context) error {
	if t.store.commitErr != nil {
		return t.store.commitErr
	}
	t.committed = true
	t.store.commits++
	return nil
}

func (t *mockTx) Rollback(ctx context.Context) error {
	if !t.committed {
		t.store.rollbacks++
	}
	return nil
}
