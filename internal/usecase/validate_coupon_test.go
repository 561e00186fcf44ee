package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

func couponRepoWith(c *domain.Coupon) *fakeCouponRepo {
	return &fakeCouponRepo{
		GetByCodeFunc: func(_ context.Context, code string) (*domain.Coupon, error) {
			if c != nil && code == c.Code {
				return c, nil
			}
			return nil, nil
		},
	}
}

func rejectionReason(t *testing.T, err error) domain.CouponRejectReason {
	t.Helper()
	var rej *domain.CouponRejectedError
	if !errors.As(err, &rej) {
		t.Fatalf("err = %v, want CouponRejectedError", err)
	}
	return rej.Reason
}

func TestValidateCouponValidPercent(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{
		Code:          "PROMO10",
		Kind:          domain.CouponPercent,
		Value:         decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(100),
		Active:        true,
	}))

	res, err := uc.Execute(context.Background(), "PROMO10", decimal.NewFromInt(300))
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if !res.Discount.Equal(decimal.NewFromInt(30)) {
		t.Errorf("discount = %s, want 30", res.Discount)
	}
}

func TestValidateCouponNotFound(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(nil))

	_, err := uc.Execute(context.Background(), "NOPE", decimal.NewFromInt(100))
	if got := rejectionReason(t, err); got != domain.CouponNotFound {
		t.Errorf("reason = %s, want not_found", got)
	}
}

func TestValidateCouponInactiveTreatedAsNotFound(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{Code: "OFF", Kind: domain.CouponFixed, Value: decimal.NewFromInt(5)}))

	_, err := uc.Execute(context.Background(), "OFF", decimal.NewFromInt(100))
	if got := rejectionReason(t, err); got != domain.CouponNotFound {
		t.Errorf("reason = %s, want not_found", got)
	}
}

func TestValidateCouponExpired(t *testing.T) {
	past := time.Now().Add(-24 * time.Hour)
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{
		Code:      "OLD5",
		Kind:      domain.CouponFixed,
		Value:     decimal.NewFromInt(5),
		ExpiresAt: &past,
		Active:    true,
	}))

	_, err := uc.Execute(context.Background(), "OLD5", decimal.NewFromInt(500))
	if got := rejectionReason(t, err); got != domain.CouponExpired {
		t.Errorf("reason = %s, want expired", got)
	}
}

func TestValidateCouponExhausted(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{
		Code:               "LIMITED",
		Kind:               domain.CouponPercent,
		Value:              decimal.NewFromInt(15),
		MaxRedemptions:     50,
		CurrentRedemptions: 50,
		Active:             true,
	}))

	_, err := uc.Execute(context.Background(), "LIMITED", decimal.NewFromInt(500))
	if got := rejectionReason(t, err); got != domain.CouponExhausted {
		t.Errorf("reason = %s, want exhausted", got)
	}
}

func TestValidateCouponBelowMinimum(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{
		Code:          "PROMO10",
		Kind:          domain.CouponPercent,
		Value:         decimal.NewFromInt(10),
		MinOrderValue: decimal.NewFromInt(100),
		Active:        true,
	}))

	_, err := uc.Execute(context.Background(), "PROMO10", decimal.NewFromInt(99))
	if got := rejectionReason(t, err); got != domain.CouponBelowMinimum {
		t.Errorf("reason = %s, want below_minimum", got)
	}
}

func TestValidateCouponUncappedIgnoresRedemptions(t *testing.T) {
	uc := NewValidateCoupon(couponRepoWith(&domain.Coupon{
		Code:               "FOREVER",
		Kind:               domain.CouponFixed,
		Value:              decimal.NewFromInt(10),
		CurrentRedemptions: 9999,
		Active:             true,
	}))

	if _, err := uc.Execute(context.Background(), "FOREVER", decimal.NewFromInt(100)); err != nil {
		t.Fatalf("uncapped coupon rejected: %v", err)
	}
}
