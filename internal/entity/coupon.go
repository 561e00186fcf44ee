package domain

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type CouponKind string

const (
	CouponPercent      CouponKind = "percent"
	CouponFixed        CouponKind = "fixed"
	CouponFreeShipping CouponKind = "free_shipping"
)

type CouponRejectReason string

const (
	CouponNotFound     CouponRejectReason = "not_found"
	CouponExpired      CouponRejectReason = "expired"
	CouponExhausted    CouponRejectReason = "exhausted"
	CouponBelowMinimum CouponRejectReason = "below_minimum"
)

// CouponRejectedError is surfaced to the UI; not fatal to the checkout session.
type CouponRejectedError struct {
	Code   string
	Reason CouponRejectReason
}

func (e *CouponRejectedError) Error() string {
	return fmt.Sprintf("coupon %q rejected: %s", e.Code, e.Reason)
}

// Coupon codes are unique case-insensitively. Redemption count is mutated
// only by the back office and on confirmed completion, never here.
type Coupon struct {
	Code               string
	Kind               CouponKind
	Value              decimal.Decimal
	MinOrderValue      decimal.Decimal
	MaxRedemptions     int // 0 = uncapped
	CurrentRedemptions int
	ExpiresAt          *time.Time
	Active             bool
}

// DiscountFor computes the discount this coupon yields on a subtotal.
// Free-shipping coupons discount nothing here; they zero the shipping
// fee in the pricing engine instead.
func (c *Coupon) DiscountFor(subtotal decimal.Decimal) decimal.Decimal {
	switch c.Kind {
	case CouponPercent:
		return subtotal.Mul(c.Value).Div(decimal.NewFromInt(100)).Round(2)
	case CouponFixed:
		if c.Value.GreaterThan(subtotal) {
			return subtotal
		}
		return c.Value
	default:
		return decimal.Zero
	}
}
