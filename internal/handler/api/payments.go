package api

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"

	"github.com/snuggle-shop/snuggle/internal/billing"
	"github.com/snuggle-shop/snuggle/internal/domain"
	"github.com/snuggle-shop/snuggle/internal/middleware"
	"github.com/snuggle-shop/snuggle/internal/telemetry"
)

// PaymentHandler serves payment intent creation and the provider
// webhook.
type PaymentHandler struct {
	billing  billing.Provider
	orders   domain.OrderService
	business *telemetry.BusinessMetrics
	logger   *slog.Logger
}

func NewPaymentHandler(provider billing.Provider, orders domain.OrderService, business *telemetry.BusinessMetrics, logger *slog.Logger) *PaymentHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &PaymentHandler{billing: provider, orders: orders, business: business, logger: logger}
}

// CreateIntent handles POST /api/payments/intent/{orderID}
func (h *PaymentHandler) CreateIntent(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUserFromContext(r.Context())

	orderID, err := pathID(r, "orderID")
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	detail, err := h.orders.GetOrder(r.Context(), user.ID, user.IsAdmin, orderID)
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	if detail.Order.Status != domain.OrderStatusPending {
		ErrorResponse(w, r, domain.Invalid("api.CreateIntent", "Order is not awaiting payment"))
		return
	}

	intent, err := h.billing.CreatePaymentIntent(r.Context(), billing.CreatePaymentIntentParams{
		Amount:        detail.Order.TotalAmount,
		Currency:      "inr",
		OrderID:       orderID,
		CustomerEmail: user.Email,
		Description:   fmt.Sprintf("Snuggle order #%d", orderID),
		// One intent per order, retried requests get the same one back.
		IdempotencyKey: fmt.Sprintf("order-%d-payment-intent", orderID),
	})
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	RespondJSON(w, http.StatusCreated, map[string]interface{}{
		"payment_intent_id": intent.ID,
		"client_secret":     intent.ClientSecret,
		"amount_paise":      int64(intent.Amount),
		"currency":          intent.Currency,
	})
}

// Webhook handles POST /api/payments/webhook
// Signature verification is the authentication here; the route carries
// no user identity.
func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	payload, err := io.ReadAll(r.Body)
	if err != nil {
		ErrorResponse(w, r, domain.Invalid("api.Webhook", "Unable to read webhook payload"))
		return
	}

	event, err := h.billing.VerifyWebhook(payload, r.Header.Get("Stripe-Signature"))
	if err != nil {
		ErrorResponse(w, r, err)
		return
	}

	switch event.Type {
	case billing.EventPaymentSucceeded:
		if event.OrderID == 0 {
			h.logger.Warn("payment webhook without order reference",
				"payment_intent_id", event.PaymentIntentID)
			break
		}
		err := h.orders.MarkPaid(r.Context(), event.OrderID, event.PaymentIntentID)
		if err != nil && !errors.Is(err, domain.ErrPaymentAlreadyProcessed) {
			ErrorResponse(w, r, err)
			return
		}
		h.business.RecordPayment(true)
		h.logger.Info("order payment confirmed",
			"order_id", event.OrderID,
			"payment_intent_id", event.PaymentIntentID)

	case billing.EventPaymentFailed:
		h.business.RecordPayment(false)
		h.logger.Warn("payment failed",
			"order_id", event.OrderID,
			"payment_intent_id", event.PaymentIntentID)

	default:
		h.logger.Debug("ignoring webhook event", "type", event.Type)
	}

	RespondJSON(w, http.StatusOK, map[string]bool{"received": true})
}
