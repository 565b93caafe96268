package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

func TestOrderService_GetOrder(t *testing.T) {
	order := domain.Order{ID: 42, UserID: 1, AddressID: 5, Status: domain.OrderStatusPending, TotalAmount: 75000}

	orderStore := func() *mockStore {
		store := &mockStore{}
		store.GetOrderFn = func(ctx context.Context, id int32) (domain.Order, error) {
			if id != 42 {
				return domain.Order{}, pgx.ErrNoRows
			}
			return order, nil
		}
		store.GetOrderItemsFn = func(ctx context.Context, orderID int32) ([]domain.OrderItem, error) {
			return []domain.OrderItem{{ID: 1, OrderID: orderID, ProductName: "Plush Bear", Quantity: 2, PriceAtPurchase: 30000}}, nil
		}
		store.GetAddressFn = func(ctx context.Context, id int32) (domain.Address, error) {
			return domain.Address{ID: id, UserID: 1, City: "Pune"}, nil
		}
		return store
	}

	t.Run("owner reads their order with items and address", func(t *testing.T) {
		svc := NewOrderService(orderStore(), true)

		detail, err := svc.GetOrder(context.Background(), 1, false, 42)
		require.NoError(t, err)
		assert.Equal(t, int32(42), detail.Order.ID)
		assert.Len(t, detail.Items, 1)
		require.NotNil(t, detail.Address)
		assert.Equal(t, "Pune", detail.Address.City)
	})

	t.Run("another user's order reads as not found", func(t *testing.T) {
		svc := NewOrderService(orderStore(), true)
		_, err := svc.GetOrder(context.Background(), 2, false, 42)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})

	t.Run("admins read any order", func(t *testing.T) {
		svc := NewOrderService(orderStore(), true)
		detail, err := svc.GetOrder(context.Background(), 2, true, 42)
		require.NoError(t, err)
		assert.Equal(t, int32(42), detail.Order.ID)
	})

	t.Run("unknown order", func(t *testing.T) {
		svc := NewOrderService(orderStore(), true)
		_, err := svc.GetOrder(context.Background(), 1, false, 7)
		assert.ErrorIs(t, err, domain.ErrOrderNotFound)
	})
}

func TestOrderService_UpdateStatus(t *testing.T) {
	statusStore := func(current domain.OrderStatus) *mockStore {
		store := &mockStore{}
		store.GetOrderFn = func(ctx context.Context, id int32) (domain.Order, error) {
			return domain.Order{ID: id, UserID: 1, Status: current}, nil
		}
		store.UpdateOrderStatusFn = func(ctx context.Context, id int32, status domain.OrderStatus) (domain.Order, error) {
			return domain.Order{ID: id, UserID: 1, Status: status}, nil
		}
		return store
	}

	t.Run("strict mode", func(t *testing.T) {
		tests := []struct {
			name    string
			from    domain.OrderStatus
			to      domain.OrderStatus
			allowed bool
		}{
			{"advances one step", domain.OrderStatusPending, domain.OrderStatusProcessing, true},
			{"ships a packed order", domain.OrderStatusPacked, domain.OrderStatusShipped, true},
			{"cannot skip ahead", domain.OrderStatusPending, domain.OrderStatusShipped, false},
			{"cannot move backward", domain.OrderStatusShipped, domain.OrderStatusPacked, false},
			{"cancel from any active status", domain.OrderStatusPacked, domain.OrderStatusCancelled, true},
			{"return from any active status", domain.OrderStatusShipped, domain.OrderStatusReturned, true},
			{"delivered is terminal", domain.OrderStatusDelivered, domain.OrderStatusReturned, false},
			{"cancelled is terminal", domain.OrderStatusCancelled, domain.OrderStatusProcessing, false},
		}

		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				svc := NewOrderService(statusStore(tt.from), true)
				updated, err := svc.UpdateStatus(context.Background(), 42, tt.to)
				if !tt.allowed {
					assert.ErrorIs(t, err, domain.InvalidTransitionError(tt.from, tt.to))
					return
				}
				require.NoError(t, err)
				assert.Equal(t, tt.to, updated.Status)
			})
		}
	})

	t.Run("any mode allows jumps but keeps terminal states locked", func(t *testing.T) {
		svc := NewOrderService(statusStore(domain.OrderStatusPending), false)
		updated, err := svc.UpdateStatus(context.Background(), 42, domain.OrderStatusShipped)
		require.NoError(t, err)
		assert.Equal(t, domain.OrderStatusShipped, updated.Status)

		svc = NewOrderService(statusStore(domain.OrderStatusDelivered), false)
		_, err = svc.UpdateStatus(context.Background(), 42, domain.OrderStatusPending)
		require.Error(t, err)
	})

	t.Run("rejects unknown statuses", func(t *testing.T) {
		svc := NewOrderService(statusStore(domain.OrderStatusPending), true)
		_, err := svc.UpdateStatus(context.Background(), 42, "Teleported")
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.EINVALID, derr.Code)
	})
}

func TestOrderService_MarkPaid(t *testing.T) {
	t.Run("advances the order to processing", func(t *testing.T) {
		store := &mockStore{}
		store.MarkOrderPaidFn = func(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error) {
			assert.Equal(t, int32(42), id)
			assert.Equal(t, "pi_123", paymentIntentID)
			assert.Equal(t, domain.OrderStatusProcessing, status)
			return 1, nil
		}
		svc := NewOrderService(store, true)
		require.NoError(t, svc.MarkPaid(context.Background(), 42, "pi_123"))
	})

	t.Run("replayed webhook is a conflict", func(t *testing.T) {
		store := &mockStore{}
		store.MarkOrderPaidFn = func(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error) {
			return 0, nil
		}
		store.GetOrderFn = func(ctx context.Context, id int32) (domain.Order, error) {
			return domain.Order{ID: id, PaymentIntentID: "pi_123", Status: domain.OrderStatusProcessing}, nil
		}
		svc := NewOrderService(store, true)

		err := svc.MarkPaid(context.Background(), 42, "pi_123")
		assert.ErrorIs(t, err, domain.ErrPaymentAlreadyProcessed)
	})

	t.Run("unknown order", func(t *testing.T) {
		store := &mockStore{}
		store.MarkOrderPaidFn = func(ctx context.Context, id int32, paymentIntentID string, status domain.OrderStatus) (int64, error) {
			return 0, nil
		}
		store.GetOrderFn = func(ctx context.Context, id int32) (domain.Order, error) {
			return domain.Order{}, pgx.ErrNoRows
		}
		svc := NewOrderService(store, true)

		err := svc.MarkPaid(context.Background(), 7, "pi_123")
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.ENOTFOUND, derr.Code)
	})
}

func TestOrderService_Addresses(t *testing.T) {
	t.Run("requires the core fields", func(t *testing.T) {
		svc := NewOrderService(&mockStore{}, true)
		_, err := svc.CreateAddress(context.Background(), domain.CreateAddressParams{UserID: 1, Line1: "12 Lake Road"})
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.EINVALID, derr.Code)
	})

	t.Run("new default clears the previous one", func(t *testing.T) {
		store := &mockStore{}
		cleared := false
		store.ClearDefaultAddressFn = func(ctx context.Context, userID int32) error {
			cleared = true
			assert.Equal(t, int32(1), userID)
			return nil
		}
		store.CreateAddressFn = func(ctx context.Context, arg repository.CreateAddressParams) (domain.Address, error) {
			return domain.Address{ID: 5, UserID: arg.UserID, Line1: arg.Line1, IsDefault: arg.IsDefault}, nil
		}
		svc := NewOrderService(store, true)

		addr, err := svc.CreateAddress(context.Background(), domain.CreateAddressParams{
			UserID: 1, Line1: "12 Lake Road", City: "Pune", State: "MH", PostalCode: "411001", IsDefault: true,
		})
		require.NoError(t, err)
		assert.True(t, cleared)
		assert.True(t, addr.IsDefault)
	})

	t.Run("non-default leaves existing addresses alone", func(t *testing.T) {
		store := &mockStore{}
		store.CreateAddressFn = func(ctx context.Context, arg repository.CreateAddressParams) (domain.Address, error) {
			return domain.Address{ID: 6, UserID: arg.UserID, Line1: arg.Line1}, nil
		}
		svc := NewOrderService(store, true)

		_, err := svc.CreateAddress(context.Background(), domain.CreateAddressParams{
			UserID: 1, Line1: "4 Hill Street", City: "Pune", State: "MH", PostalCode: "411002",
		})
		require.NoError(t, err)
	})

	t.Run("lists the user's addresses", func(t *testing.T) {
		store := &mockStore{}
		store.ListAddressesByUserFn = func(ctx context.Context, userID int32) ([]domain.Address, error) {
			return []domain.Address{{ID: 5, UserID: userID, IsDefault: true}, {ID: 6, UserID: userID}}, nil
		}
		svc := NewOrderService(store, true)

		addresses, err := svc.ListAddresses(context.Background(), 1)
		require.NoError(t, err)
		require.Len(t, addresses, 2)
		assert.True(t, addresses[0].IsDefault)
	})
}
