// Package shipping computes delivery charges.
package shipping

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// Calculator computes the delivery charge for a cart or order.
// Implementations: ThresholdCalculator, FreeCalculator.
type Calculator interface {
	// Cost returns the delivery charge for the given cart subtotal.
	// userID lets implementations apply per-customer waivers.
	Cost(ctx context.Context, subtotal currency.Paise, userID int32) (currency.Paise, error)
}
