// Package email composes and sends transactional mail.
package email

import (
	"context"
	"fmt"
	"time"
)

// Email represents an email message to be sent.
type Email struct {
	To       []string          // Recipient email addresses
	From     string            // Sender email address
	Subject  string            // Email subject
	TextBody string            // Plain text body
	HTMLBody string            // HTML body (optional)
	Headers  map[string]string // Custom headers (optional)
}

// Sender defines the interface for sending emails.
// Implementations can use SMTP, Postmark, Resend, SES, etc.
type Sender interface {
	// Send sends an email message.
	// Returns the message ID from the email provider (if available).
	Send(ctx context.Context, email *Email) (string, error)
}

// OrderItem is a line item rendered in an order confirmation email.
type OrderItem struct {
	Name       string
	Quantity   int32
	UnitPaise  int64
	TotalPaise int64
}

// OrderConfirmationEmail carries the data for an order confirmation.
type OrderConfirmationEmail struct {
	Email        string
	CustomerName string
	OrderID      int32
	OrderDate    time.Time
	Items        []OrderItem
	TotalPaise   int64
}

func (e OrderConfirmationEmail) Subject() string {
	return fmt.Sprintf("Order Confirmation - #%d", e.OrderID)
}

func (e OrderConfirmationEmail) TemplateName() string {
	return "order_confirmation.html"
}
