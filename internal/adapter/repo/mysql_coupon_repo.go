package repo

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

type MySQLCouponRepo struct{ db *sql.DB }

func NewMySQLCouponRepo(db *sql.DB) *MySQLCouponRepo { return &MySQLCouponRepo{db: db} }

// GetByCode matches case-insensitively; coupon codes are stored upper-cased.
func (r *MySQLCouponRepo) GetByCode(ctx context.Context, code string) (*domain.Coupon, error) {
	row := r.db.QueryRowContext(ctx, `
SELECT code, kind, value, min_order_value,
       COALESCE(max_redemptions, 0), current_redemptions,
       expires_at, active
FROM coupons WHERE code = UPPER(?)`, code)

	var (
		c               domain.Coupon
		kind            string
		value, minOrder string
		expiresAt       sql.NullTime
	)
	err := row.Scan(&c.Code, &kind, &value, &minOrder,
		&c.MaxRedemptions, &c.CurrentRedemptions, &expiresAt, &c.Active)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	c.Kind = domain.CouponKind(kind)
	if c.Value, err = decimal.NewFromString(value); err != nil {
		return nil, err
	}
	if c.MinOrderValue, err = decimal.NewFromString(minOrder); err != nil {
		return nil, err
	}
	if expiresAt.Valid {
		t := expiresAt.Time
		c.ExpiresAt = &t
	}
	return &c, nil
}

var _ usecase.CouponRepo = (*MySQLCouponRepo)(nil)
