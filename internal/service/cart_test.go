package service

import (
	"context"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/repository"
	"github.com/snuggle-shop/snuggle/internal/shipping"
	"github.com/snuggle-shop/snuggle/internal/tax"
)

// newCartFixture wires a cart service against a mock store with the
// standard pricing configuration: free shipping at ₹1000, flat rate
// ₹99, 18% GST.
func newCartFixture(store *mockStore) domain.CartService {
	if store.HasFreeShippingUsageFn == nil {
		store.HasFreeShippingUsageFn = func(ctx context.Context, userID int32) (bool, error) {
			return false, nil
		}
	}
	coupons := NewCouponService(store, 1000)
	ship := shipping.NewThresholdCalculator(100000, 9900, store)
	taxes := tax.NewPercentageCalculator(0.18)
	return NewCartService(store, coupons, ship, taxes)
}

func TestCartService_AddItem(t *testing.T) {
	activeProduct := domain.Product{ID: 7, Name: "Plush Bear", Price: 30000, Stock: 10, IsActive: true}

	t.Run("rejects non-positive quantity", func(t *testing.T) {
		svc := newCartFixture(&mockStore{})
		_, err := svc.AddItem(context.Background(), 1, 7, 0)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("unknown product reads as not found", func(t *testing.T) {
		store := &mockStore{}
		store.GetProductFn = func(ctx context.Context, id int32) (domain.Product, error) {
			return domain.Product{}, pgx.ErrNoRows
		}
		svc := newCartFixture(store)
		_, err := svc.AddItem(context.Background(), 1, 99, 2)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("inactive product reads as not found", func(t *testing.T) {
		store := &mockStore{}
		store.GetProductFn = func(ctx context.Context, id int32) (domain.Product, error) {
			p := activeProduct
			p.IsActive = false
			return p, nil
		}
		svc := newCartFixture(store)
		_, err := svc.AddItem(context.Background(), 1, 7, 2)
		assert.ErrorIs(t, err, domain.ErrProductNotFound)
	})

	t.Run("creates cart lazily and upserts the line", func(t *testing.T) {
		store := &mockStore{}
		store.GetProductFn = func(ctx context.Context, id int32) (domain.Product, error) {
			return activeProduct, nil
		}
		store.UpsertCartFn = func(ctx context.Context, userID int32) (domain.Cart, error) {
			assert.Equal(t, int32(1), userID)
			return domain.Cart{ID: 11, UserID: userID}, nil
		}
		store.UpsertCartItemFn = func(ctx context.Context, cartID, productID, quantity int32) (domain.CartItem, error) {
			assert.Equal(t, int32(11), cartID)
			assert.Equal(t, int32(7), productID)
			assert.Equal(t, int32(3), quantity)
			return domain.CartItem{ID: 21, CartID: cartID, ProductID: productID, Quantity: quantity}, nil
		}
		svc := newCartFixture(store)

		item, err := svc.AddItem(context.Background(), 1, 7, 3)
		require.NoError(t, err)
		assert.Equal(t, int32(21), item.ID)
		assert.Equal(t, int32(3), item.Quantity)
	})
}

func TestCartService_UpdateItemQuantity(t *testing.T) {
	ownedItem := domain.CartItem{ID: 21, CartID: 11, ProductID: 7, Quantity: 2}

	ownedStore := func() *mockStore {
		store := &mockStore{}
		store.GetCartItemFn = func(ctx context.Context, itemID int32) (domain.CartItem, error) {
			return ownedItem, nil
		}
		store.GetCartByUserIDFn = func(ctx context.Context, userID int32) (domain.Cart, error) {
			return domain.Cart{ID: 11, UserID: userID}, nil
		}
		return store
	}

	t.Run("rejects negative quantity", func(t *testing.T) {
		svc := newCartFixture(&mockStore{})
		err := svc.UpdateItemQuantity(context.Background(), 1, 21, -1)
		assert.ErrorIs(t, err, domain.ErrInvalidQuantity)
	})

	t.Run("another user's item reads as not found", func(t *testing.T) {
		store := ownedStore()
		store.GetCartByUserIDFn = func(ctx context.Context, userID int32) (domain.Cart, error) {
			return domain.Cart{ID: 99, UserID: userID}, nil
		}
		svc := newCartFixture(store)
		err := svc.UpdateItemQuantity(context.Background(), 2, 21, 5)
		assert.ErrorIs(t, err, domain.ErrCartItemNotFound)
	})

	t.Run("zero quantity removes the line", func(t *testing.T) {
		store := ownedStore()
		deleted := false
		store.DeleteCartItemFn = func(ctx context.Context, itemID int32) error {
			deleted = true
			assert.Equal(t, int32(21), itemID)
			return nil
		}
		svc := newCartFixture(store)
		require.NoError(t, svc.UpdateItemQuantity(context.Background(), 1, 21, 0))
		assert.True(t, deleted)
	})

	t.Run("positive quantity updates the line", func(t *testing.T) {
		store := ownedStore()
		store.SetCartItemQuantityFn = func(ctx context.Context, itemID, quantity int32) error {
			assert.Equal(t, int32(21), itemID)
			assert.Equal(t, int32(5), quantity)
			return nil
		}
		svc := newCartFixture(store)
		require.NoError(t, svc.UpdateItemQuantity(context.Background(), 1, 21, 5))
	})
}

func TestCartService_GetCartSummary(t *testing.T) {
	lines := []repository.CartItemDetail{
		{ItemID: 1, ProductID: 7, Name: "Plush Bear", Price: 30000, Quantity: 2},
		{ItemID: 2, ProductID: 8, Name: "Blanket", Price: 15000, Quantity: 1},
	}

	baseStore := func() *mockStore {
		store := &mockStore{}
		store.GetCartByUserIDFn = func(ctx context.Context, userID int32) (domain.Cart, error) {
			return domain.Cart{ID: 11, UserID: userID}, nil
		}
		store.GetCartItemsDetailedFn = func(ctx context.Context, cartID int32) ([]repository.CartItemDetail, error) {
			return lines, nil
		}
		store.GetCartSettingsFn = func(ctx context.Context, userID int32) (domain.CartSettings, error) {
			return domain.CartSettings{}, pgx.ErrNoRows
		}
		return store
	}

	t.Run("missing cart yields an empty summary", func(t *testing.T) {
		store := &mockStore{}
		store.GetCartByUserIDFn = func(ctx context.Context, userID int32) (domain.Cart, error) {
			return domain.Cart{}, pgx.ErrNoRows
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "")
		require.NoError(t, err)
		assert.Empty(t, summary.Items)
		assert.Equal(t, currency.Paise(0), summary.Total)
		assert.True(t, summary.IsFreeShipping)
	})

	t.Run("prices lines with flat shipping and GST", func(t *testing.T) {
		svc := newCartFixture(baseStore())

		summary, err := svc.GetCartSummary(context.Background(), 1, "")
		require.NoError(t, err)

		// 2×30000 + 1×15000 = 75000; below the 100000 threshold.
		assert.Equal(t, currency.Paise(75000), summary.Subtotal)
		assert.Equal(t, currency.Paise(0), summary.Discount)
		assert.Equal(t, currency.Paise(9900), summary.DeliveryCharge)
		assert.False(t, summary.IsFreeShipping)
		// 18% of 75000 = 13500.
		assert.Equal(t, currency.Paise(13500), summary.Tax)
		assert.Equal(t, currency.Paise(98400), summary.Total)
		assert.Equal(t, 2, summary.ItemCount)
	})

	t.Run("applies a valid percentage coupon", func(t *testing.T) {
		store := baseStore()
		store.GetCouponByCodeFn = func(ctx context.Context, code string) (domain.Coupon, error) {
			assert.Equal(t, "SAVE10", code)
			return domain.Coupon{
				ID: 3, Code: "SAVE10", DiscountType: domain.DiscountPercentage,
				CouponType: "discount", Value: 10, IsActive: true,
			}, nil
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "SAVE10")
		require.NoError(t, err)

		// Discount 7500; tax on 67500 = 12150.
		assert.Equal(t, currency.Paise(7500), summary.Discount)
		assert.Equal(t, "SAVE10", summary.CouponCode)
		assert.Equal(t, currency.Paise(12150), summary.Tax)
		assert.Equal(t, currency.Paise(75000-7500+9900+12150), summary.Total)
	})

	t.Run("coupon failure degrades to zero discount", func(t *testing.T) {
		store := baseStore()
		store.GetCouponByCodeFn = func(ctx context.Context, code string) (domain.Coupon, error) {
			return domain.Coupon{}, pgx.ErrNoRows
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "BOGUS")
		require.NoError(t, err)
		assert.Equal(t, currency.Paise(0), summary.Discount)
		assert.Empty(t, summary.CouponCode)
	})

	t.Run("remembered settings coupon applies when none is passed", func(t *testing.T) {
		store := baseStore()
		store.GetCartSettingsFn = func(ctx context.Context, userID int32) (domain.CartSettings, error) {
			return domain.CartSettings{UserID: userID, CouponApplied: "SAVE10", IsGift: true, GiftMessage: "Happy birthday"}, nil
		}
		store.GetCouponByCodeFn = func(ctx context.Context, code string) (domain.Coupon, error) {
			assert.Equal(t, "SAVE10", code)
			return domain.Coupon{
				ID: 3, Code: "SAVE10", DiscountType: domain.DiscountPercentage,
				CouponType: "discount", Value: 10, IsActive: true,
			}, nil
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "")
		require.NoError(t, err)
		assert.Equal(t, currency.Paise(7500), summary.Discount)
		assert.True(t, summary.IsGift)
		assert.Equal(t, "Happy birthday", summary.GiftMessage)
	})

	t.Run("subtotal at threshold ships free", func(t *testing.T) {
		store := baseStore()
		store.GetCartItemsDetailedFn = func(ctx context.Context, cartID int32) ([]repository.CartItemDetail, error) {
			return []repository.CartItemDetail{
				{ItemID: 1, ProductID: 7, Name: "Plush Bear", Price: 50000, Quantity: 2},
			}, nil
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "")
		require.NoError(t, err)
		assert.Equal(t, currency.Paise(100000), summary.Subtotal)
		assert.Equal(t, currency.Paise(0), summary.DeliveryCharge)
		assert.True(t, summary.IsFreeShipping)
	})

	t.Run("free-shipping waiver overrides the flat rate", func(t *testing.T) {
		store := baseStore()
		store.HasFreeShippingUsageFn = func(ctx context.Context, userID int32) (bool, error) {
			return true, nil
		}
		svc := newCartFixture(store)

		summary, err := svc.GetCartSummary(context.Background(), 1, "")
		require.NoError(t, err)
		assert.Equal(t, currency.Paise(0), summary.DeliveryCharge)
		assert.True(t, summary.IsFreeShipping)
	})
}

func TestCartService_UpdateSettings(t *testing.T) {
	t.Run("requires a user", func(t *testing.T) {
		svc := newCartFixture(&mockStore{})
		err := svc.UpdateSettings(context.Background(), domain.CartSettings{})
		var derr *domain.Error
		require.ErrorAs(t, err, &derr)
		assert.Equal(t, domain.EINVALID, derr.Code)
	})

	t.Run("persists settings", func(t *testing.T) {
		store := &mockStore{}
		store.UpsertCartSettingsFn = func(ctx context.Context, arg domain.CartSettings) error {
			assert.Equal(t, int32(1), arg.UserID)
			assert.True(t, arg.IsGift)
			return nil
		}
		svc := newCartFixture(store)
		err := svc.UpdateSettings(context.Background(), domain.CartSettings{UserID: 1, IsGift: true})
		require.NoError(t, err)
	})
}
