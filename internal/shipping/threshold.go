package shipping

import (
	"context"
	"fmt"

	"github.com/snuggle-shop/snuggle/internal/currency"
)

// FreeShippingLookup reports whether a user has earned a standing
// free-shipping waiver (by redeeming a free_shipping coupon).
type FreeShippingLookup interface {
	HasFreeShippingUsage(ctx context.Context, userID int32) (bool, error)
}

// ThresholdCalculator charges a flat rate below a free-shipping
// threshold. Users holding a free-shipping waiver always ship free.
type ThresholdCalculator struct {
	threshold currency.Paise
	flatRate  currency.Paise
	waivers   FreeShippingLookup
}

var _ Calculator = (*ThresholdCalculator)(nil)

// NewThresholdCalculator creates a threshold-based calculator.
// waivers may be nil, in which case no per-user waivers apply.
func NewThresholdCalculator(threshold, flatRate currency.Paise, waivers FreeShippingLookup) *ThresholdCalculator {
	return &ThresholdCalculator{
		threshold: threshold,
		flatRate:  flatRate,
		waivers:   waivers,
	}
}

// Cost returns 0 at or above the threshold, 0 for waived users, and
// the flat rate otherwise.
func (c *ThresholdCalculator) Cost(ctx context.Context, subtotal currency.Paise, userID int32) (currency.Paise, error) {
	if subtotal >= c.threshold {
		return 0, nil
	}

	if c.waivers != nil {
		waived, err := c.waivers.HasFreeShippingUsage(ctx, userID)
		if err != nil {
			return 0, fmt.Errorf("failed to check free shipping waiver: %w", err)
		}
		if waived {
			return 0, nil
		}
	}

	return c.flatRate, nil
}

// FreeCalculator ships everything free. Used for promotions and tests.
type FreeCalculator struct{}

var _ Calculator = (*FreeCalculator)(nil)

func (FreeCalculator) Cost(ctx context.Context, subtotal currency.Paise, userID int32) (currency.Paise, error) {
	return 0, nil
}
