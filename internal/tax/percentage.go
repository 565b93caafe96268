package tax

import (
	"context"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// PercentageCalculator applies a single flat rate, e.g. 0.18 for 18%
// GST. The taxable amount floors at zero so an over-sized discount
// never produces negative tax.
type PercentageCalculator struct {
	rate float64
}

var _ Calculator = (*PercentageCalculator)(nil)

// NewPercentageCalculator creates a calculator with the given rate
// expressed as a fraction (0.18 = 18%).
func NewPercentageCalculator(rate float64) *PercentageCalculator {
	return &PercentageCalculator{rate: rate}
}

// Calculate returns round_half_up(max(subtotal-discount, 0) × rate).
func (c *PercentageCalculator) Calculate(ctx context.Context, subtotal, discount currency.Paise) (currency.Paise, error) {
	taxable := subtotal - discount
	if taxable < 0 {
		taxable = 0
	}
	return currency.Rate(taxable, c.rate), nil
}

// NoTaxCalculator always returns zero tax.
type NoTaxCalculator struct{}

var _ Calculator = (*NoTaxCalculator)(nil)

func (NoTaxCalculator) Calculate(ctx context.Context, subtotal, discount currency.Paise) (currency.Paise, error) {
	return 0, nil
}
