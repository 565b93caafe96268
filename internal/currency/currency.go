// Package currency provides integer-paise money arithmetic for the
// single-currency (INR) store. All amounts are carried as int64 paise;
// fractional intermediate results round half-up to the nearest paisa,
// which matches rounding rupee amounts to 2 decimal places.
package currency

import (
	"fmt"
	"math"
)

// Paise is a monetary amount in paise (1/100 rupee).
type Paise int64

// FromRupees converts a rupee amount to paise, rounding half-up.
func FromRupees(rupees float64) Paise {
	return RoundHalfUp(rupees * 100)
}

// Rupees returns the amount as a float64 rupee value.
func (p Paise) Rupees() float64 {
	return float64(p) / 100
}

// String formats the amount as a rupee string, e.g. "₹1,299.00" without
// grouping: "₹1299.00".
func (p Paise) String() string {
	return fmt.Sprintf("₹%.2f", p.Rupees())
}

// RoundHalfUp rounds a fractional paise amount to the nearest whole
// paisa, with halves rounding away from zero.
func RoundHalfUp(v float64) Paise {
	if v < 0 {
		return -RoundHalfUp(-v)
	}
	return Paise(math.Floor(v + 0.5))
}

// Percent computes pct% of amount, rounded half-up.
// Used for percentage coupon discounts.
func Percent(amount Paise, pct float64) Paise {
	return RoundHalfUp(float64(amount) * pct / 100)
}

// Rate computes amount × rate, rounded half-up.
// Used for tax computation.
func Rate(amount Paise, rate float64) Paise {
	return RoundHalfUp(float64(amount) * rate)
}

// Min returns the smaller of two amounts.
func Min(a, b Paise) Paise {
	if a < b {
		return a
	}
	return b
}
