// Package billing abstracts the payment provider behind a small interface
// so services and handlers never import the Stripe SDK directly.
package billing

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// PaymentIntent is the provider-neutral view of a payment intent.
type PaymentIntent struct {
	ID           string
	ClientSecret string
	Status       string
	Amount       currency.Paise
	Currency     string
}

// Payment intent statuses we act on. Other provider statuses pass
// through unchanged.
const (
	IntentStatusSucceeded = "succeeded"
	IntentStatusCanceled  = "canceled"
)

// Succeeded reports whether the payment completed.
func (pi *PaymentIntent) Succeeded() bool {
	return pi.Status == IntentStatusSucceeded
}

// CreatePaymentIntentParams describes a new payment intent.
type CreatePaymentIntentParams struct {
	Amount        currency.Paise
	Currency      string
	OrderID       int32
	CustomerEmail string
	Description   string

	// IdempotencyKey dedupes retried requests at the provider.
	IdempotencyKey string
}

// WebhookEvent is a verified provider webhook notification.
type WebhookEvent struct {
	Type            string
	PaymentIntentID string
	OrderID         int32
}

// Webhook event types the store reacts to.
const (
	EventPaymentSucceeded = "payment_intent.succeeded"
	EventPaymentFailed    = "payment_intent.payment_failed"
)

// Provider is the payment gateway interface.
type Provider interface {
	// CreatePaymentIntent creates a payment intent for an order.
	CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error)

	// GetPaymentIntent fetches the current state of a payment intent.
	GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error)

	// VerifyWebhook checks the signature on a webhook payload and
	// decodes it into an event.
	VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error)
}
