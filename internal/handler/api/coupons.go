package api

import (
	"log/slog"
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
)

// CouponHandler serves coupon redemption.
type CouponHandler struct {
	coupons  domain.CouponService
	business *telemetry.BusinessMetrics
	logger   *slog.Logger
}

func NewCouponHandler(coupons domain.CouponService, business *telemetry.BusinessMetrics, logger *slog.Logger) *CouponHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &CouponHandler{coupons: coupons, business: business, logger: logger}
}

type applyCouponRequest struct {
	Code string `json:"code" validate:"required,max=64"`
}

// Apply handles POST /api/coupons/apply
// Unlike the cart summary preview, this commits the coupon usage and
// fails hard on any validation error.
func (h *CouponHandler) Apply(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	var req applyCouponRequest
	if err := decodeJSON(r, &req); err != nil {
		ErrorResponse(w, r, err)
		return
	}

	result, err := h.coupons.ApplyCoupon(r.Context(), user.ID, req.Code)
	if err != nil {
		h.business.RecordCouponRejected()
		ErrorResponse(w, r, err)
		return
	}
	h.business.RecordCouponApplied(result.Coupon.CouponType)

	RespondJSON(w, http.StatusOK, map[string]interface{}{
		"code":           result.Coupon.Code,
		"coupon_type":    result.Coupon.CouponType,
		"discount_paise": int64(result.Discount),
	})
}
