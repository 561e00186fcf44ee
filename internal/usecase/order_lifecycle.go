package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

// ErrTransitionNotApplicable reports a CAS transition that matched no
// row: the order is not in the expected source state.
var ErrTransitionNotApplicable = errors.New("status transition not applicable")

// OrderLifecycle covers the operator-driven tail of the state machine.
// The gateway never reports shipped/delivered; the back office does.
// Same CAS primitive as the reconciler, so monotonicity holds end to end.
type OrderLifecycle struct {
	orders OrderRepo
	cache  StatusCache
	events EventPublisher
}

func NewOrderLifecycle(orders OrderRepo, cache StatusCache, events EventPublisher) *OrderLifecycle {
	return &OrderLifecycle{orders: orders, cache: cache, events: events}
}

// Ship moves a confirmed order to shipped and records the tracking
// code. Tracking is only writable on this edge.
func (uc *OrderLifecycle) Ship(ctx context.Context, orderNumber, trackingCode string) error {
	if trackingCode == "" {
		return &domain.ValidationError{Field: "trackingCode", Msg: "required"}
	}
	order, err := uc.get(ctx, orderNumber)
	if err != nil {
		return err
	}
	applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, domain.StatusConfirmed, domain.StatusShipped)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("ship %s from %s: %w", orderNumber, order.Status, ErrTransitionNotApplicable)
	}
	if err := uc.orders.SetTrackingCode(ctx, order.ID, trackingCode); err != nil {
		return err
	}
	uc.settle(ctx, order, domain.StatusConfirmed, domain.StatusShipped)
	return nil
}

// Deliver moves a shipped order to its terminal delivered state.
func (uc *OrderLifecycle) Deliver(ctx context.Context, orderNumber string) error {
	order, err := uc.get(ctx, orderNumber)
	if err != nil {
		return err
	}
	applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, domain.StatusShipped, domain.StatusDelivered)
	if err != nil {
		return err
	}
	if !applied {
		return fmt.Errorf("deliver %s from %s: %w", orderNumber, order.Status, ErrTransitionNotApplicable)
	}
	uc.settle(ctx, order, domain.StatusShipped, domain.StatusDelivered)
	return nil
}

func (uc *OrderLifecycle) get(ctx context.Context, orderNumber string) (*domain.Order, error) {
	order, err := uc.orders.GetByNumber(ctx, orderNumber)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrOrderNotFound
	}
	return order, nil
}

func (uc *OrderLifecycle) settle(ctx context.Context, order *domain.Order, from, to domain.Status) {
	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, order.OrderNumber, to)
	}
	if uc.events != nil {
		_ = uc.events.PublishStatusChanged(ctx, OrderStatusChangedMsg{
			OrderID:     order.ID,
			OrderNumber: order.OrderNumber,
			From:        string(from),
			To:          string(to),
			OccurredAt:  time.Now().Unix(),
		})
	}
}
