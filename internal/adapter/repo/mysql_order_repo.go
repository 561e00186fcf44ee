package repo

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

const mysqlErrDuplicateEntry = 1062

type MySQLOrderRepo struct{ db *sql.DB }

func NewMySQLOrderRepo(db *sql.DB) *MySQLOrderRepo { return &MySQLOrderRepo{db: db} }

func (r *MySQLOrderRepo) Create(ctx context.Context, o *domain.Order) error {
	items, err := json.Marshal(o.Items)
	if err != nil {
		return fmt.Errorf("marshal items: %w", err)
	}
	customer, err := json.Marshal(o.Customer)
	if err != nil {
		return fmt.Errorf("marshal customer: %w", err)
	}
	address, err := json.Marshal(o.Address)
	if err != nil {
		return fmt.Errorf("marshal address: %w", err)
	}

	_, err = r.db.ExecContext(ctx, `
INSERT INTO orders
  (id, order_number, items_json, customer_json, address_json,
   subtotal, shipping_fee, discount, total,
   payment_method, installments, status, created_at, updated_at)
VALUES (?,?,?,?,?,?,?,?,?,?,?,?,NOW(),NOW())`,
		o.ID, o.OrderNumber, items, customer, address,
		o.Subtotal.StringFixed(2), o.ShippingFee.StringFixed(2),
		o.Discount.StringFixed(2), o.Total.StringFixed(2),
		string(o.PaymentMethod), o.Installments, string(o.Status),
	)
	var me *mysql.MySQLError
	if errors.As(err, &me) && me.Number == mysqlErrDuplicateEntry {
		return fmt.Errorf("order number %s: %w", o.OrderNumber, domain.ErrDuplicateOrderNumber)
	}
	return err
}

const orderColumns = `
id, order_number, items_json, customer_json, address_json,
subtotal, shipping_fee, discount, total,
payment_method, installments,
COALESCE(gateway_payment_id, ''), COALESCE(gateway_payment_status, ''),
status, COALESCE(tracking_code, ''), created_at, updated_at`

func (r *MySQLOrderRepo) GetByNumber(ctx context.Context, number string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE order_number = ?`, number)
	return scanOrder(row)
}

func (r *MySQLOrderRepo) GetByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Order, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT `+orderColumns+` FROM orders WHERE gateway_payment_id = ?`, paymentID)
	return scanOrder(row)
}

func scanOrder(row *sql.Row) (*domain.Order, error) {
	var (
		o                                   domain.Order
		items, customer, address            []byte
		subtotal, shipping, discount, total string
		method, status                      string
	)
	err := row.Scan(
		&o.ID, &o.OrderNumber, &items, &customer, &address,
		&subtotal, &shipping, &discount, &total,
		&method, &o.Installments,
		&o.GatewayPaymentID, &o.GatewayPaymentStatus,
		&status, &o.TrackingCode, &o.CreatedAt, &o.UpdatedAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(items, &o.Items); err != nil {
		return nil, fmt.Errorf("unmarshal items: %w", err)
	}
	if err := json.Unmarshal(customer, &o.Customer); err != nil {
		return nil, fmt.Errorf("unmarshal customer: %w", err)
	}
	if err := json.Unmarshal(address, &o.Address); err != nil {
		return nil, fmt.Errorf("unmarshal address: %w", err)
	}
	if o.Subtotal, err = decimal.NewFromString(subtotal); err != nil {
		return nil, err
	}
	if o.ShippingFee, err = decimal.NewFromString(shipping); err != nil {
		return nil, err
	}
	if o.Discount, err = decimal.NewFromString(discount); err != nil {
		return nil, err
	}
	if o.Total, err = decimal.NewFromString(total); err != nil {
		return nil, err
	}
	o.PaymentMethod = domain.PaymentMethod(method)
	o.Status = domain.Status(status)
	return &o, nil
}

func (r *MySQLOrderRepo) SetGatewayPayment(ctx context.Context, orderID, paymentID, rawStatus string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET gateway_payment_id = ?, gateway_payment_status = ?, updated_at = NOW()
        WHERE id = ?`,
		paymentID, rawStatus, orderID,
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *MySQLOrderRepo) SetGatewayPaymentStatus(ctx context.Context, orderID, rawStatus string) error {
	_, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET gateway_payment_status = ?, updated_at = NOW()
        WHERE id = ?`,
		rawStatus, orderID,
	)
	return err
}

// UpdateStatusIf applies the transition as a single conditional update.
// Two concurrent deliveries both observing PENDING race here; only one
// matches a row, so the confirmed-edge side effects run at most once.
func (r *MySQLOrderRepo) UpdateStatusIf(ctx context.Context, orderID string, from, to domain.Status) (bool, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET status = ?, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		string(to), orderID, string(from),
	)
	if err != nil {
		return false, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return false, err
	}
	// rows == 0 -> nothing matched (not found or status mismatch)
	return rows > 0, nil
}

func (r *MySQLOrderRepo) SetTrackingCode(ctx context.Context, orderID, code string) error {
	res, err := r.db.ExecContext(ctx, `
        UPDATE orders
        SET tracking_code = ?, updated_at = NOW()
        WHERE id = ? AND status = ?`,
		code, orderID, string(domain.StatusShipped),
	)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

var _ usecase.OrderRepo = (*MySQLOrderRepo)(nil)
