package billing

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/snuggle-shop/snuggle/internal/domain"
)

// MockProvider is an in-memory Provider for tests and local development.
// Intents succeed when MarkSucceeded is called, mimicking a customer
// completing payment.
type MockProvider struct {
	mu      sync.Mutex
	seq     int
	intents map[string]*PaymentIntent
	orders  map[string]int32

	// CreateErr, when set, is returned from CreatePaymentIntent.
	CreateErr error
}

var _ Provider = (*MockProvider)(nil)

func NewMockProvider() *MockProvider {
	return &MockProvider{
		intents: make(map[string]*PaymentIntent),
		orders:  make(map[string]int32),
	}
}

func (m *MockProvider) CreatePaymentIntent(ctx context.Context, params CreatePaymentIntentParams) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.CreateErr != nil {
		return nil, m.CreateErr
	}

	m.seq++
	pi := &PaymentIntent{
		ID:           fmt.Sprintf("pi_mock_%d", m.seq),
		ClientSecret: fmt.Sprintf("pi_mock_%d_secret", m.seq),
		Status:       "requires_payment_method",
		Amount:       params.Amount,
		Currency:     params.Currency,
	}
	m.intents[pi.ID] = pi
	m.orders[pi.ID] = params.OrderID
	return clone(pi), nil
}

func (m *MockProvider) GetPaymentIntent(ctx context.Context, id string) (*PaymentIntent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	pi, ok := m.intents[id]
	if !ok {
		return nil, domain.NotFound("billing.MockProvider.GetPaymentIntent", "payment intent", id)
	}
	return clone(pi), nil
}

// VerifyWebhook treats the signature as "<event type>:<intent id>", which
// is enough for handler tests without real signing.
func (m *MockProvider) VerifyWebhook(payload []byte, signature string) (*WebhookEvent, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	eventType, intentID, ok := strings.Cut(signature, ":")
	if !ok || eventType == "" || intentID == "" {
		return nil, domain.Unauthorized("billing.MockProvider.VerifyWebhook", "Invalid webhook signature")
	}

	return &WebhookEvent{
		Type:            eventType,
		PaymentIntentID: intentID,
		OrderID:         m.orders[intentID],
	}, nil
}

// MarkSucceeded flips an intent to succeeded, as if the customer paid.
func (m *MockProvider) MarkSucceeded(id string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()

	pi, ok := m.intents[id]
	if !ok {
		return false
	}
	pi.Status = IntentStatusSucceeded
	return true
}

func clone(pi *PaymentIntent) *PaymentIntent {
	out := *pi
	return &out
}
