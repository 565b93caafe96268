package service

import (
	"context"
	"errors"
	"log/slog"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/jobs"
	"github.com/snuggle-shop/snuggle/internal/repository"
	"github.com/snuggle-shop/snuggle/internal/shipping"
	"github.com/snuggle-shop/snuggle/internal/tax"
)

// PricingMode selects how the order total is computed at checkout.
type PricingMode string

const (
	// PricingLegacy totals the raw item prices, ignoring coupon,
	// delivery, and tax. Matches the historical storefront behavior.
	PricingLegacy PricingMode = "legacy"

	// PricingUnified prices checkout through the same pipeline as the
	// cart summary and commits coupon usage with the order.
	PricingUnified PricingMode = "unified"
)

type checkoutService struct {
	store    repository.Store
	coupons  domain.CouponService
	shipping shipping.Calculator
	tax      tax.Calculator
	pricing  PricingMode
	logger   *slog.Logger
}

var _ domain.CheckoutService = (*checkoutService)(nil)

// NewCheckoutService creates a checkout service.
func NewCheckoutService(
	store repository.Store,
	coupons domain.CouponService,
	ship shipping.Calculator,
	taxes tax.Calculator,
	pricing PricingMode,
	logger *slog.Logger,
) domain.CheckoutService {
	if pricing == "" {
		pricing = PricingLegacy
	}
	return &checkoutService{
		store:    store,
		coupons:  coupons,
		shipping: ship,
		tax:      taxes,
		pricing:  pricing,
		logger:   logger,
	}
}

// PlaceOrder converts the user's cart into an order in one
// transaction: stock is checked under row locks and conditionally
// decremented, items snapshot the live price, and the cart empties.
// Any failure rolls the whole thing back. The confirmation email is
// enqueued after commit, best-effort.
func (s *checkoutService) PlaceOrder(ctx context.Context, params domain.CheckoutParams) (*domain.OrderDetail, error) {
	if params.PaymentMethod == "" {
		params.PaymentMethod = domain.PaymentMethodCOD
	}

	tx, err := s.store.BeginTx(ctx)
	if err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to begin transaction")
	}
	defer tx.Rollback(ctx)

	q := tx.Queries()

	cart, err := q.GetCartByUserID(ctx, params.UserID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrEmptyCart
		}
		return nil, domain.Internal(err, "checkout.place", "failed to load cart")
	}

	// Lines come back ordered by product ID, so the FOR UPDATE locks
	// below are acquired in a deterministic order across concurrent
	// checkouts.
	lines, err := q.GetCartItemsDetailed(ctx, cart.ID)
	if err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to load cart items")
	}
	if len(lines) == 0 {
		return nil, domain.ErrEmptyCart
	}

	address, err := q.GetAddress(ctx, params.AddressID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrAddressNotFound
		}
		return nil, domain.Internal(err, "checkout.place", "failed to load address")
	}
	if address.UserID != params.UserID {
		return nil, domain.ErrAddressNotFound
	}

	// Lock each product and verify stock before writing anything.
	products := make(map[int32]domain.Product, len(lines))
	var subtotal currency.Paise
	for _, line := range lines {
		product, err := q.GetProductForUpdate(ctx, line.ProductID)
		if err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return nil, domain.ErrProductNotFound
			}
			return nil, domain.Internal(err, "checkout.place", "failed to lock product")
		}
		if !product.InStock(line.Quantity) {
			return nil, domain.InsufficientStockError(product.Name)
		}
		products[line.ProductID] = product
		subtotal += product.Price * currency.Paise(line.Quantity)
	}

	total, couponID, couponType, err := s.orderTotal(ctx, subtotal, params)
	if err != nil {
		return nil, err
	}

	order, err := q.CreateOrder(ctx, repository.CreateOrderParams{
		UserID:        params.UserID,
		AddressID:     params.AddressID,
		Status:        domain.OrderStatusPending,
		PaymentMethod: params.PaymentMethod,
		TotalAmount:   total,
	})
	if err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to create order")
	}

	items := make([]domain.OrderItem, 0, len(lines))
	for _, line := range lines {
		product := products[line.ProductID]

		// The decrement re-checks stock in SQL, guarding against any
		// write that slipped past the row lock.
		affected, err := q.DecrementProductStock(ctx, line.ProductID, line.Quantity)
		if err != nil {
			return nil, domain.Internal(err, "checkout.place", "failed to decrement stock")
		}
		if affected == 0 {
			return nil, domain.InsufficientStockError(product.Name)
		}

		item, err := q.CreateOrderItem(ctx, repository.CreateOrderItemParams{
			OrderID:         order.ID,
			ProductID:       line.ProductID,
			ProductName:     product.Name,
			Quantity:        line.Quantity,
			PriceAtPurchase: product.Price,
		})
		if err != nil {
			return nil, domain.Internal(err, "checkout.place", "failed to create order item")
		}
		items = append(items, item)
	}

	if couponID != 0 {
		if err := q.IncrementCouponUsage(ctx, couponID); err != nil {
			return nil, domain.Internal(err, "checkout.place", "failed to increment coupon usage")
		}
		if err := q.CreateCouponUsage(ctx, params.UserID, couponID, couponType); err != nil {
			return nil, domain.Internal(err, "checkout.place", "failed to record coupon usage")
		}
	}

	if err := q.ClearCart(ctx, cart.ID); err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to clear cart")
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, domain.Internal(err, "checkout.place", "failed to commit transaction")
	}

	s.enqueueConfirmation(ctx, &order, items)

	return &domain.OrderDetail{Order: order, Items: items, Address: &address}, nil
}

// orderTotal computes the amount to charge. Legacy mode totals raw
// item prices; unified mode runs the summary pipeline and reports the
// coupon to commit alongside the order.
func (s *checkoutService) orderTotal(ctx context.Context, subtotal currency.Paise, params domain.CheckoutParams) (currency.Paise, int32, string, error) {
	if s.pricing == PricingLegacy {
		return subtotal, 0, "", nil
	}

	var discount currency.Paise
	var couponID int32
	var couponType string
	if params.CouponCode != "" {
		result, err := s.coupons.ValidateCoupon(ctx, params.CouponCode, subtotal)
		if err != nil {
			return 0, 0, "", err
		}
		discount = result.Discount
		couponID = result.Coupon.ID
		couponType = result.Coupon.CouponType
	}

	delivery, err := s.shipping.Cost(ctx, subtotal, params.UserID)
	if err != nil {
		return 0, 0, "", domain.Internal(err, "checkout.place", "failed to compute delivery charge")
	}

	taxAmount, err := s.tax.Calculate(ctx, subtotal, discount)
	if err != nil {
		return 0, 0, "", domain.Internal(err, "checkout.place", "failed to compute tax")
	}

	return subtotal - discount + delivery + taxAmount, couponID, couponType, nil
}

// enqueueConfirmation enqueues the order confirmation email.
// Best-effort: a queue failure is logged, never surfaced, because the
// order is already committed.
func (s *checkoutService) enqueueConfirmation(ctx context.Context, order *domain.Order, items []domain.OrderItem) {
	user, err := s.store.GetUser(ctx, order.UserID)
	if err != nil {
		s.logger.Error("failed to load user for order confirmation",
			"order_id", order.ID,
			"user_id", order.UserID,
			"error", err,
		)
		return
	}

	payload := jobs.OrderConfirmationPayload{
		OrderID:      order.ID,
		Email:        user.Email,
		CustomerName: user.Name,
		OrderDate:    order.CreatedAt,
		TotalPaise:   int64(order.TotalAmount),
	}
	for _, it := range items {
		payload.Items = append(payload.Items, jobs.OrderItemData{
			Name:       it.ProductName,
			Quantity:   it.Quantity,
			UnitPaise:  int64(it.PriceAtPurchase),
			TotalPaise: int64(it.PriceAtPurchase) * int64(it.Quantity),
		})
	}

	if err := jobs.EnqueueOrderConfirmationEmail(ctx, s.store, payload); err != nil {
		s.logger.Error("failed to enqueue order confirmation email",
			"order_id", order.ID,
			"error", err,
		)
	}
}
