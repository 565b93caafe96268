// Package jobs defines background job payloads and enqueue helpers.
package jobs

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/snuggle-shop/snuggle/internal/email"
	"github.com/snuggle-shop/snuggle/internal/repository"
)

// Job type constants for email jobs.
const (
	JobTypeOrderConfirmation = "email:order_confirmation"
)

// OrderItemData is a line item in an order confirmation email payload.
type OrderItemData struct {
	Name       string `json:"name"`
	Quantity   int32  `json:"quantity"`
	UnitPaise  int64  `json:"unit_paise"`
	TotalPaise int64  `json:"total_paise"`
}

// OrderConfirmationPayload is the JSON payload for an order
// confirmation email job.
type OrderConfirmationPayload struct {
	OrderID      int32           `json:"order_id"`
	Email        string          `json:"email"`
	CustomerName string          `json:"customer_name"`
	OrderDate    time.Time       `json:"order_date"`
	Items        []OrderItemData `json:"items"`
	TotalPaise   int64           `json:"total_paise"`
}

// EnqueueOrderConfirmationEmail enqueues an order confirmation email job.
func EnqueueOrderConfirmationEmail(ctx context.Context, q repository.Querier, payload OrderConfirmationPayload) error {
	payloadJSON, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	_, err = q.EnqueueJob(ctx, repository.EnqueueJobParams{
		JobType:        JobTypeOrderConfirmation,
		Queue:          "email",
		Payload:        payloadJSON,
		Priority:       100,
		MaxRetries:     3,
		ScheduledAt:    time.Now(),
		TimeoutSeconds: 30,
	})

	return err
}

// ProcessEmailJob dispatches an email job to the email service.
func ProcessEmailJob(ctx context.Context, job *repository.Job, emailService *email.Service) error {
	switch job.JobType {
	case JobTypeOrderConfirmation:
		var payload OrderConfirmationPayload
		if err := json.Unmarshal(job.Payload, &payload); err != nil {
			return fmt.Errorf("failed to unmarshal order confirmation payload: %w", err)
		}

		items := make([]email.OrderItem, len(payload.Items))
		for i, it := range payload.Items {
			items[i] = email.OrderItem{
				Name:       it.Name,
				Quantity:   it.Quantity,
				UnitPaise:  it.UnitPaise,
				TotalPaise: it.TotalPaise,
			}
		}

		return emailService.SendOrderConfirmation(ctx, email.OrderConfirmationEmail{
			Email:        payload.Email,
			CustomerName: payload.CustomerName,
			OrderID:      payload.OrderID,
			OrderDate:    payload.OrderDate,
			Items:        items,
			TotalPaise:   payload.TotalPaise,
		})

	default:
		return fmt.Errorf("unknown email job type: %s", job.JobType)
	}
}

// IsEmailJob reports whether a job type is handled by ProcessEmailJob.
func IsEmailJob(jobType string) bool {
	return jobType == JobTypeOrderConfirmation
}
