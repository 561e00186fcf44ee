package usecase

import (
	"context"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

// OrderStatusQuery backs the storefront order page polling loop:
// cache first, MySQL on miss.
type OrderStatusQuery struct {
	orders OrderRepo
	cache  StatusCache
}

func NewOrderStatusQuery(orders OrderRepo, cache StatusCache) *OrderStatusQuery {
	return &OrderStatusQuery{orders: orders, cache: cache}
}

func (uc *OrderStatusQuery) Execute(ctx context.Context, orderNumber string) (domain.Status, error) {
	if uc.cache != nil {
		if s, ok, err := uc.cache.GetStatus(ctx, orderNumber); err == nil && ok {
			return s, nil
		}
	}
	order, err := uc.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return "", err
	}
	if order == nil {
		return "", domain.ErrOrderNotFound
	}
	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, orderNumber, order.Status)
	}
	return order.Status, nil
}
