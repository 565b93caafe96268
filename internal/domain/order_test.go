package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	tests := []struct {
		name string
		from OrderStatus
		to   OrderStatus
		want bool
	}{
		{"pending to processing", OrderStatusPending, OrderStatusProcessing, true},
		{"processing to packed", OrderStatusProcessing, OrderStatusPacked, true},
		{"packed to shipped", OrderStatusPacked, OrderStatusShipped, true},
		{"shipped to delivered", OrderStatusShipped, OrderStatusDelivered, true},
		{"pending skips to shipped", OrderStatusPending, OrderStatusShipped, false},
		{"backwards", OrderStatusShipped, OrderStatusPacked, false},
		{"same status", OrderStatusPending, OrderStatusPending, false},
		{"cancel from pending", OrderStatusPending, OrderStatusCancelled, true},
		{"cancel from shipped", OrderStatusShipped, OrderStatusCancelled, true},
		{"return from shipped", OrderStatusShipped, OrderStatusReturned, true},
		{"nothing leaves delivered", OrderStatusDelivered, OrderStatusReturned, false},
		{"nothing leaves cancelled", OrderStatusCancelled, OrderStatusPending, false},
		{"nothing leaves returned", OrderStatusReturned, OrderStatusProcessing, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, CanTransition(tt.from, tt.to))
		})
	}
}

func TestValidOrderStatus(t *testing.T) {
	assert.True(t, ValidOrderStatus(OrderStatusPacked))
	assert.False(t, ValidOrderStatus(OrderStatus("Lost")))
}

func TestOrderStatus_Terminal(t *testing.T) {
	assert.True(t, OrderStatusDelivered.Terminal())
	assert.True(t, OrderStatusCancelled.Terminal())
	assert.True(t, OrderStatusReturned.Terminal())
	assert.False(t, OrderStatusPending.Terminal())
	assert.False(t, OrderStatusShipped.Terminal())
}
