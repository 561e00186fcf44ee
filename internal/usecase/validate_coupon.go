package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

// ValidateCoupon checks a coupon against activity, expiry, remaining
// uses and minimum order value, short-circuiting on the first failure.
// It never mutates the redemption count.
type ValidateCoupon struct {
	coupons CouponRepo
	now     func() time.Time
}

func NewValidateCoupon(coupons CouponRepo) *ValidateCoupon {
	return &ValidateCoupon{coupons: coupons, now: time.Now}
}

type CouponResult struct {
	Coupon   *domain.Coupon
	Discount decimal.Decimal
}

func (uc *ValidateCoupon) Execute(ctx context.Context, code string, subtotal decimal.Decimal) (*CouponResult, error) {
	c, err := uc.coupons.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.Active {
		return nil, &domain.CouponRejectedError{Code: code, Reason: domain.CouponNotFound}
	}
	if c.ExpiresAt != nil && c.ExpiresAt.Before(uc.now()) {
		return nil, &domain.CouponRejectedError{Code: code, Reason: domain.CouponExpired}
	}
	if c.MaxRedemptions > 0 && c.CurrentRedemptions >= c.MaxRedemptions {
		return nil, &domain.CouponRejectedError{Code: code, Reason: domain.CouponExhausted}
	}
	if subtotal.LessThan(c.MinOrderValue) {
		return nil, &domain.CouponRejectedError{Code: code, Reason: domain.CouponBelowMinimum}
	}
	return &CouponResult{Coupon: c, Discount: c.DiscountFor(subtotal)}, nil
}
