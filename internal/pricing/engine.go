// Package pricing computes checkout quotes. Everything here is pure:
// same inputs, same quote, no side effects, safe to recompute on every
// keystroke of the checkout form.
package pricing

import (
	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

var (
	// Orders above this subtotal ship free.
	freeShippingThreshold = decimal.NewFromInt(299)

	// PIX checkout gets 5% off the base total. Applied at quote time,
	// never persisted as a coupon.
	pixDiscountRate = decimal.NewFromFloat(0.05)

	// Monthly interest for installment plans above the interest-free band.
	monthlyInterestRate = decimal.NewFromFloat(0.02)

	one     = decimal.NewFromInt(1)
	hundred = decimal.NewFromInt(100)
)

const (
	// Card plans: 1..4 split evenly with no interest, 5..10 amortized.
	InterestFreeInstallments = 4
	MaxInstallments          = 10
)

// regionFees maps shipping region codes (BR macro regions) to flat fees.
var regionFees = map[string]decimal.Decimal{
	"SE": decimal.NewFromFloat(14.90),
	"S":  decimal.NewFromFloat(19.90),
	"CO": decimal.NewFromFloat(21.90),
	"NE": decimal.NewFromFloat(24.90),
	"N":  decimal.NewFromFloat(29.90),
}

// defaultRegionFee applies when the region code is unknown.
var defaultRegionFee = decimal.NewFromFloat(19.90)

type Installment struct {
	Count    int             `json:"count"`
	Value    decimal.Decimal `json:"value"`
	Total    decimal.Decimal `json:"total"`
	Interest bool            `json:"interest"`
}

type Quote struct {
	Subtotal     decimal.Decimal `json:"subtotal"`
	ShippingFee  decimal.Decimal `json:"shippingFee"`
	Discount     decimal.Decimal `json:"discount"`
	BaseTotal    decimal.Decimal `json:"baseTotal"`
	PixTotal     decimal.Decimal `json:"pixTotal"`
	Installments []Installment   `json:"installmentOptions"`

	// Total is the method-specific amount to charge: PixTotal for PIX,
	// BaseTotal for card (interest shows up per installment plan).
	Total decimal.Decimal `json:"total"`
}

// Compute prices a cart. coupon may be nil; it must already be validated.
func Compute(lines []domain.CartLine, regionCode string, coupon *domain.Coupon, method domain.PaymentMethod) Quote {
	subtotal := decimal.Zero
	for _, l := range lines {
		subtotal = subtotal.Add(l.EffectivePrice().Mul(decimal.NewFromInt(int64(l.Quantity))))
	}
	subtotal = subtotal.Round(2)

	discount := decimal.Zero
	if coupon != nil {
		discount = coupon.DiscountFor(subtotal)
	}

	shipping := shippingFee(subtotal, regionCode, coupon)

	base := subtotal.Sub(discount).Add(shipping)
	if base.IsNegative() {
		base = decimal.Zero
	}
	base = base.Round(2)

	pix := base.Mul(one.Sub(pixDiscountRate)).Round(2)

	q := Quote{
		Subtotal:     subtotal,
		ShippingFee:  shipping,
		Discount:     discount,
		BaseTotal:    base,
		PixTotal:     pix,
		Installments: InstallmentPlans(base),
		Total:        base,
	}
	if method == domain.PaymentPix {
		q.Total = pix
	}
	return q
}

func shippingFee(subtotal decimal.Decimal, regionCode string, coupon *domain.Coupon) decimal.Decimal {
	if coupon != nil && coupon.Kind == domain.CouponFreeShipping {
		return decimal.Zero
	}
	if subtotal.GreaterThan(freeShippingThreshold) {
		return decimal.Zero
	}
	if fee, ok := regionFees[regionCode]; ok {
		return fee
	}
	return defaultRegionFee
}

// InstallmentPlans builds the 1..MaxInstallments card options for a base
// total. Plans past the interest-free band use the standard amortization
// formula at monthlyInterestRate, rounding to cents at each step, since
// the displayed value must match what the gateway charges.
func InstallmentPlans(base decimal.Decimal) []Installment {
	if base.IsZero() {
		return nil
	}
	plans := make([]Installment, 0, MaxInstallments)
	for n := 1; n <= MaxInstallments; n++ {
		count := decimal.NewFromInt(int64(n))
		if n <= InterestFreeInstallments {
			plans = append(plans, Installment{
				Count: n,
				Value: base.Div(count).Round(2),
				Total: base,
			})
			continue
		}
		// value = base * i(1+i)^n / ((1+i)^n - 1)
		factor := one.Add(monthlyInterestRate).Pow(count)
		value := base.Mul(monthlyInterestRate).Mul(factor).Div(factor.Sub(one)).Round(2)
		plans = append(plans, Installment{
			Count:    n,
			Value:    value,
			Total:    value.Mul(count).Round(2),
			Interest: true,
		})
	}
	return plans
}
