package billing

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v82"

	"github.com/snuggle-shop/snuggle/internal/currency"
	"github.com/snuggle-shop/snuggle/internal/domain"
)

func TestMockProvider_PaymentFlow(t *testing.T) {
	provider := NewMockProvider()
	ctx := context.Background()

	pi, err := provider.CreatePaymentIntent(ctx, CreatePaymentIntentParams{
		Amount:   currency.Paise(129900),
		Currency: "inr",
		OrderID:  7,
	})
	require.NoError(t, err)
	assert.NotEmpty(t, pi.ID)
	assert.NotEmpty(t, pi.ClientSecret)
	assert.Equal(t, currency.Paise(129900), pi.Amount)
	assert.False(t, pi.Succeeded())

	require.True(t, provider.MarkSucceeded(pi.ID))

	got, err := provider.GetPaymentIntent(ctx, pi.ID)
	require.NoError(t, err)
	assert.True(t, got.Succeeded())

	event, err := provider.VerifyWebhook(nil, EventPaymentSucceeded+":"+pi.ID)
	require.NoError(t, err)
	assert.Equal(t, EventPaymentSucceeded, event.Type)
	assert.Equal(t, pi.ID, event.PaymentIntentID)
	assert.Equal(t, int32(7), event.OrderID)
}

func TestMockProvider_GetUnknownIntent(t *testing.T) {
	provider := NewMockProvider()

	_, err := provider.GetPaymentIntent(context.Background(), "pi_missing")
	assert.Equal(t, domain.ENOTFOUND, domain.ErrorCode(err))
}

func TestMockProvider_VerifyWebhookBadSignature(t *testing.T) {
	provider := NewMockProvider()

	for _, sig := range []string{"", "no-separator", ":pi_1", "payment_intent.succeeded:"} {
		_, err := provider.VerifyWebhook(nil, sig)
		assert.Equal(t, domain.EUNAUTHORIZED, domain.ErrorCode(err), "signature %q", sig)
	}
}

func TestWrapStripeError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode string
	}{
		{
			name:     "card decline maps to payment error",
			err:      &stripe.Error{Type: stripe.ErrorTypeCard, Msg: "Your card was declined."},
			wantCode: domain.EPAYMENT,
		},
		{
			name:     "missing intent maps to not found",
			err:      &stripe.Error{Type: stripe.ErrorTypeInvalidRequest, HTTPStatusCode: http.StatusNotFound},
			wantCode: domain.ENOTFOUND,
		},
		{
			name:     "api error maps to internal",
			err:      &stripe.Error{Type: stripe.ErrorTypeAPI},
			wantCode: domain.EINTERNAL,
		},
		{
			name:     "plain error maps to internal",
			err:      errors.New("connection reset"),
			wantCode: domain.EINTERNAL,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := wrapStripeError("billing.test", tt.err)
			assert.Equal(t, tt.wantCode, domain.ErrorCode(got))
		})
	}
}
