package api

import (
	"log/slog"
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
)

// CartHandler serves the shopping cart endpoints. All routes require an
// authenticated user.
type CartHandler struct {
	cart   domain.CartService
	logger *slog.Logger
}

func NewCartHandler(cart domain.CartService, logger *slog.Logger) *CartHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CartHandler{cart: cart, logger: logger}
}

type summaryItemResponse struct {
	ItemID         int32  `json:"item_id"`
	ProductID      int32  `json:"product_id"`
	Name           string `json:"name"`
	ImageURL       string `json:"image_url"`
	UnitPricePaise int64  `json:"unit_price_paise"`
	Quantity       int32  `json:"quantity"`
	LineTotalPaise int64  `json:"line_total_paise"`
}

type cartSummaryResponse struct {
	Items               []summaryItemResponse `json:"items"`
	ItemCount           int                   `json:"item_count"`
	SubtotalPaise       int64                 `json:"subtotal_paise"`
	DiscountPaise       int64                 `json:"discount_paise"`
	CouponCode          string                `json:"coupon_code,omitempty"`
	DeliveryChargePaise int64                 `json:"delivery_charge_paise"`
	IsFreeShipping      bool                  `json:"is_free_shipping"`
	TaxPaise            int64                 `json:"tax_paise"`
	TotalPaise          int64                 `json:"total_paise"`
	IsGift              bool                  `json:"is_gift"`
	GiftMessage         string                `json:"gift_message,omitempty"`
}

func toCartSummaryResponse(s *domain.CartSummary) cartSummaryResponse {
	items := make([]summaryItemResponse, 0, len(s.Items))
	for _, it := range s.Items {
		items = append(items, summaryItemResponse{
			ItemID:         it.ItemID,
			ProductID:      it.ProductID,
			Name:           it.Name,
			ImageURL:       it.ImageURL,
			UnitPricePaise: int64(it.UnitPrice),
			Quantity:       it.Quantity,
			LineTotalPaise: int64(it.LineTotal),
		})
	}
	return cartSummaryResponse{
		Items:               items,
		ItemCount:           s.ItemCount,
		SubtotalPaise:       int64(s.Subtotal),
		DiscountPaise:       int64(s.Discount),
		CouponCode:          s.CouponCode,
		DeliveryChargePaise: int64(s.DeliveryCharge),
		IsFreeShipping:      s.IsFreeShipping,
		TaxPaise:            int64(s.Tax),
		TotalPaise:          int64(s.Total),
		IsGift:              s.IsGift,
		GiftMessage:         s.GiftMessage,
	}
}

// Summary handles GET /api/cart/summary?coupon=CODE
func (h *CartHandler) Summary(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	summary, err := h.cart.GetCartSummary(r.Context(), user.ID, r.URL.Query().Get("coupon"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusOK, toCartSummaryResponse(summary))
}

type addItemRequest struct {
	ProductID int32 `json:"product_id" validate:"required,gt=0"`
	Quantity  int32 `json:"quantity" validate:"required,gt=0"`
}

// AddItem handles POST /api/cart/items
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req addItemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	item, err := h.cart.AddItem(r.Context(), user.ID, req.ProductID, req.Quantity)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"item_id":    item.ID,
		"product_id": item.ProductID,
		"quantity":   item.Quantity,
	})
}

type updateItemRequest struct {
	Quantity *int32 `json:"quantity" validate:"required,gte=0"`
}

// UpdateItem handles PATCH /api/cart/items/{id}
// A quantity of 0 removes the item.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	itemID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	var req updateItemRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.cart.UpdateItemQuantity(r.Context(), user.ID, itemID, *req.Quantity); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// RemoveItem handles DELETE /api/cart/items/{id}
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	itemID, err := pathID(r, "id")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if err := h.cart.RemoveItem(r.Context(), user.ID, itemID); err != nil {
		ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type updateSettingsRequest struct {
	IsGift        bool   `json:"is_gift"`
	GiftMessage   string `json:"gift_message" validate:"max=500"`
	CouponApplied string `json:"coupon_applied" validate:"max=64"`
}

// UpdateSettings handles PUT /api/cart/settings
func (h *CartHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req updateSettingsRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	err := h.cart.UpdateSettings(r.Context(), domain.CartSettings{
		UserID:        user.ID,
		IsGift:        req.IsGift,
		GiftMessage:   req.GiftMessage,
		CouponApplied: req.CouponApplied,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
