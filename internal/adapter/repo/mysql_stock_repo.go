package repo

import (
	"context"
	"database/sql"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

type MySQLStockRepo struct{ db *sql.DB }

func NewMySQLStockRepo(db *sql.DB) *MySQLStockRepo { return &MySQLStockRepo{db: db} }

// Decrement lowers stock by qty in a single statement, clamped at zero,
// and returns the remaining quantity. GREATEST keeps the floor even when
// qty exceeds what is on hand.
func (r *MySQLStockRepo) Decrement(ctx context.Context, productID string, qty int) (int, error) {
	res, err := r.db.ExecContext(ctx, `
        UPDATE products
        SET stock = GREATEST(stock - ?, 0), updated_at = NOW()
        WHERE id = ?`,
		qty, productID,
	)
	if err != nil {
		return 0, err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	if rows == 0 {
		return 0, domain.ErrProductNotFound
	}

	var left int
	if err := r.db.QueryRowContext(ctx,
		`SELECT stock FROM products WHERE id = ?`, productID).Scan(&left); err != nil {
		return 0, err
	}
	return left, nil
}

var _ usecase.StockRepo = (*MySQLStockRepo)(nil)
