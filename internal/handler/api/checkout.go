package api

import (
	"log/slog"
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
)

// CheckoutHandler converts the user's cart into an order.
type CheckoutHandler struct {
	checkout domain.CheckoutService
	business *telemetry.BusinessMetrics
	logger   *slog.Logger
}

func NewCheckoutHandler(checkout domain.CheckoutService, business *telemetry.BusinessMetrics, logger *slog.Logger) *CheckoutHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CheckoutHandler{checkout: checkout, business: business, logger: logger}
}

type checkoutRequest struct {
	AddressID     int32  `json:"address_id" validate:"required,gt=0"`
	PaymentMethod string `json:"payment_method" validate:"omitempty,oneof=COD ONLINE"`
	CouponCode    string `json:"coupon_code" validate:"max=64"`
}

// PlaceOrder handles POST /api/checkout
func (h *CheckoutHandler) PlaceOrder(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req checkoutRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.checkout.PlaceOrder(r.Context(), domain.CheckoutParams{
		UserID:        user.ID,
		AddressID:     req.AddressID,
		PaymentMethod: req.PaymentMethod,
		CouponCode:    req.CouponCode,
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}
	h.business.RecordOrder(detail.Order.PaymentMethod, detail.Order.TotalAmount, len(detail.Items))

	RespondJSON(w, http.StatusCreated, toOrderDetailResponse(detail))
}
