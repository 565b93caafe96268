package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"

	"github.com/stripe/stripe-go/v82"
	"github.com/stripe/stripe-go/v82/paymentintent"
	"github.com/stripe/stripe-go/v82/webhook"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
)

// metadataOrderID is the metadata key carrying our order ID through Stripe.
const metadataOrderID = "order_id"

// StripeProvider implements Provider against the Stripe API.
type StripeProvider struct {
	webhookSecret string
}

var _ Provider = (*StripeProvider)(nil)

// NewStripeProvider configures the Stripe SDK with the given secret key.
func NewStripeProvider(apiKey, webhookSecret string) *StripeProvider {
	stripe.Key = apiKey
	return &StripeProvider{webhookSecret: webhookSecret}
}

func (p *StripeProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	const op = "billing.StripeProvider.CreatePaymentIntent"

	if params.Amount <= 0 {
		return nil, domain.Invalid(op, "Payment amount must be positive")
	}

	cur := params.Currency
	if cur == "" {
		cur = string(stripe.CurrencyINR)
	}

	piParams := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(params.Amount)),
		Currency: stripe.String(cur),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
	}
	piParams.Context = ctx
	if params.Description != "" {
		piParams.Description = stripe.String(params.Description)
	}
	if params.CustomerEmail != "" {
		piParams.ReceiptEmail = stripe.String(params.CustomerEmail)
	}
	if params.IdempotencyKey != "" {
		piParams.SetIdempotencyKey(params.IdempotencyKey)
	}
	piParams.AddMetadata(metadataOrderID, strconv.FormatInt(int64(params.OrderID), 10))

	pi, err := paymentintent.New(piParams)
	if err != nil {
		return nil, wrapStripeError(op, err)
	}

	return fromStripeIntent(pi), nil
}

func (p *StripeProvider) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	const op = "billing.StripeProvider.GetPaymentIntent"

	params := &stripe.PaymentIntentParams{}
	params.Context = ctx

	pi, err := paymentintent.Get(id, params)
	if err != nil {
		return nil, wrapStripeError(op, err)
	}

	return fromStripeIntent(pi), nil
}

func (p *StripeProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	const op = "billing.StripeProvider.VerifyWebhook"

	event, err := webhook.ConstructEvent(payload, signature, p.webhookSecret)
	if err != nil {
		return nil, &domain.Error{
			Code:    domain.EUNAUTHORIZED,
			Message: "Invalid webhook signature",
			Op:      op,
			Err:     err,
		}
	}

	out := &WebhookEvent{Type: string(event.Type)}

	switch out.Type {
	case EventPaymentSucceeded, EventPaymentFailed:
		var pi stripe.PaymentIntent
		if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
			return nil, &domain.Error{
				Code:    domain.EINVALID,
				Message: "Malformed webhook payload",
				Op:      op,
				Err:     err,
			}
		}
		out.PaymentIntentID = pi.ID
		if raw, ok := pi.Metadata[metadataOrderID]; ok {
			id, err := strconv.ParseInt(raw, 10, 32)
			if err != nil {
				return nil, domain.Errorf(domain.EINVALID, op, "Invalid order reference in webhook: %s", raw)
			}
			out.OrderID = int32(id)
		}
	}

	return out, nil
}

func fromStripeIntent(pi *stripe.PaymentIntent) *PaymentIntent {
	return &PaymentIntent{
		ID:           pi.ID,
		ClientSecret: pi.ClientSecret,
		Status:       string(pi.Status),
		Amount:       currency.Paise(pi.Amount),
		Currency:     string(pi.Currency),
	}
}

// wrapStripeError converts a Stripe API error into a domain error,
// preserving the card decline message for EPAYMENT codes.
func wrapStripeError(op string, err error) error {
	var stripeErr *stripe.Error
	if errors.As(err, &stripeErr) {
		switch stripeErr.Type {
		case stripe.ErrorTypeCard:
			return &domain.Error{
				Code:    domain.EPAYMENT,
				Message: fmt.Sprintf("Payment declined: %s", stripeErr.Msg),
				Op:      op,
				Err:     err,
			}
		case stripe.ErrorTypeInvalidRequest:
			if stripeErr.HTTPStatusCode == 404 {
				return &domain.Error{
					Code:    domain.ENOTFOUND,
					Message: "Payment not found",
					Op:      op,
					Err:     err,
				}
			}
		}
	}
	return domain.WrapError(err, domain.EINTERNAL, op, "Payment provider request failed")
}
