package email

import (
	"context"
	"fmt"
	"sync"
)

// MockSender records sent emails for tests and local development.
type MockSender struct {
	mu   sync.Mutex
	sent []Email
}

var _ Sender = (*MockSender)(nil)

func NewMockSender() *MockSender {
	return &MockSender{}
}

func (m *MockSender) Send(ctx context.Context, email *Email) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sent = append(m.sent, *email)
	return fmt.Sprintf("mock-%d", len(m.sent)), nil
}

// Sent returns a copy of all recorded emails.
func (m *MockSender) Sent() []Email {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Email, len(m.sent))
	copy(out, m.sent)
	return out
}
