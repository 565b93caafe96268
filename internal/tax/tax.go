// Package tax computes tax on the discounted cart subtotal.
package tax

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// Calculator computes tax for an order.
// Implementations: PercentageCalculator, NoTaxCalculator.
type Calculator interface {
	// Calculate returns the tax on (subtotal - discount).
	Calculate(ctx context.Context, subtotal, discount currency.Paise) (currency.Paise, error)
}
