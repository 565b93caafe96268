package service

import (
	"context"
	"errors"
	"strconv"

	"github.com/jackc/pgx/v5"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

type orderService struct {
	repo repository.Querier

	// strictTransitions enforces the forward fulfillment chain. When
	// false, any non-terminal order may jump to any status.
	strictTransitions bool
}

var _ domain.OrderService = (*orderService)(nil)

// NewOrderService creates an order service.
func NewOrderService(repo repository.Querier, strictTransitions bool) domain.OrderService {
	return &orderService{
		repo:              repo,
		strictTransitions: strictTransitions,
	}
}

// GetOrder loads an order with items and address. Customers can only
// see their own orders; other users' orders read as not found.
func (s *orderService) GetOrder(ctx context.Context, userID int32, isAdmin bool, orderID int32) (*domain.OrderDetail, error) {
	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.get", "failed to load order")
	}

	if !isAdmin && order.UserID != userID {
		return nil, domain.ErrOrderNotFound
	}

	items, err := s.repo.GetOrderItems(ctx, orderID)
	if err != nil {
		return nil, domain.Internal(err, "order.get", "failed to load order items")
	}

	detail := &domain.OrderDetail{Order: order, Items: items}

	address, err := s.repo.GetAddress(ctx, order.AddressID)
	if err == nil {
		detail.Address = &address
	} else if !errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.Internal(err, "order.get", "failed to load address")
	}

	return detail, nil
}

// ListOrders returns the caller's orders, or all orders for admins,
// newest first.
func (s *orderService) ListOrders(ctx context.Context, userID int32, isAdmin bool) ([]domain.Order, error) {
	orders, err := repository.RetryRead(ctx, func() ([]domain.Order, error) {
		if isAdmin {
			return s.repo.ListOrders(ctx)
		}
		return s.repo.ListOrdersByUser(ctx, userID)
	})
	if err != nil {
		return nil, domain.Internal(err, "order.list", "failed to list orders")
	}
	return orders, nil
}

// UpdateStatus transitions an order's fulfillment status.
func (s *orderService) UpdateStatus(ctx context.Context, orderID int32, status domain.OrderStatus) (*domain.Order, error) {
	if !domain.ValidOrderStatus(status) {
		return nil, domain.Errorf(domain.EINVALID, "order.update_status", "Invalid order status: %s", status)
	}

	order, err := s.repo.GetOrder(ctx, orderID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, domain.ErrOrderNotFound
		}
		return nil, domain.Internal(err, "order.update_status", "failed to load order")
	}

	if s.strictTransitions {
		if !domain.CanTransition(order.Status, status) {
			return nil, domain.InvalidTransitionError(order.Status, status)
		}
	} else if order.Status.Terminal() {
		return nil, domain.InvalidTransitionError(order.Status, status)
	}

	updated, err := s.repo.UpdateOrderStatus(ctx, orderID, status)
	if err != nil {
		return nil, domain.Internal(err, "order.update_status", "failed to update order status")
	}
	return &updated, nil
}

// MarkPaid records a successful payment and advances the order from
// Pending to Processing. Replayed webhooks are rejected.
func (s *orderService) MarkPaid(ctx context.Context, orderID int32, paymentIntentID string) error {
	affected, err := s.repo.MarkOrderPaid(ctx, orderID, paymentIntentID, domain.OrderStatusProcessing)
	if err != nil {
		return domain.Internal(err, "order.mark_paid", "failed to mark order paid")
	}
	if affected == 0 {
		// Either the order does not exist or a payment was already
		// recorded; distinguish for the caller.
		if _, err := s.repo.GetOrder(ctx, orderID); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return domain.NotFound("order.mark_paid", "order", strconv.Itoa(int(orderID)))
			}
			return domain.Internal(err, "order.mark_paid", "failed to load order")
		}
		return domain.ErrPaymentAlreadyProcessed
	}
	return nil
}

// CreateAddress adds a shipping address for the user. Marking an
// address as default clears the flag from any previous default.
func (s *orderService) CreateAddress(ctx context.Context, params domain.CreateAddressParams) (*domain.Address, error) {
	if params.Line1 == "" || params.City == "" || params.State == "" || params.PostalCode == "" {
		return nil, domain.Invalid("address.create", "line1, city, state and postal_code are required")
	}

	if params.IsDefault {
		if err := s.repo.ClearDefaultAddress(ctx, params.UserID); err != nil {
			return nil, domain.Internal(err, "address.create", "failed to clear previous default address")
		}
	}

	address, err := s.repo.CreateAddress(ctx, repository.CreateAddressParams{
		UserID:     params.UserID,
		Line1:      params.Line1,
		Line2:      params.Line2,
		City:       params.City,
		State:      params.State,
		PostalCode: params.PostalCode,
		Phone:      params.Phone,
		IsDefault:  params.IsDefault,
	})
	if err != nil {
		return nil, domain.Internal(err, "address.create", "failed to create address")
	}
	return &address, nil
}

// ListAddresses returns the user's saved addresses, default first.
func (s *orderService) ListAddresses(ctx context.Context, userID int32) ([]domain.Address, error) {
	addresses, err := s.repo.ListAddressesByUser(ctx, userID)
	if err != nil {
		return nil, domain.Internal(err, "address.list", "failed to list addresses")
	}
	return addresses, nil
}
