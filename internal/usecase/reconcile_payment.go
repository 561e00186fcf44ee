package usecase

import (
	"context"
	"log/slog"
	"time"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/logging"
)

// WebhookNotification is the parsed, already-authenticated inbound
// notification. Only the payment id is trusted from the payload; all
// state is re-fetched from the gateway.
type WebhookNotification struct {
	Type      string
	Action    string
	PaymentID string
	RequestID string
}

// statusByGateway maps raw gateway statuses to internal ones. Unlisted
// statuses are logged and ignored.
var statusByGateway = map[string]domain.Status{
	"approved":   domain.StatusConfirmed,
	"pending":    domain.StatusPending,
	"in_process": domain.StatusPending,
	"rejected":   domain.StatusCancelled,
	"cancelled":  domain.StatusCancelled,
}

// ReconcilePayment aligns internal order state with the gateway's
// authoritative payment state. It is the sole mutator of order status
// after creation (aside from the operator lifecycle actions) and must
// tolerate duplicated, reordered and concurrent deliveries.
type ReconcilePayment struct {
	orders  OrderRepo
	stock   StockRepo
	gateway PaymentGateway
	fanout  *FanOut
	events  EventPublisher
	dedupe  IdempotencyStore
	cache   StatusCache
}

func NewReconcilePayment(orders OrderRepo, stock StockRepo, gateway PaymentGateway, fanout *FanOut, events EventPublisher, dedupe IdempotencyStore, cache StatusCache) *ReconcilePayment {
	return &ReconcilePayment{
		orders:  orders,
		stock:   stock,
		gateway: gateway,
		fanout:  fanout,
		events:  events,
		dedupe:  dedupe,
		cache:   cache,
	}
}

// Execute runs the pipeline: fetch -> correlate -> map -> transition ->
// decrement -> fan out. A nil return means the notification is settled
// from the gateway's point of view (including benign no-ops); an error
// means processing aborted before any state change and the gateway's
// retry policy should have another go.
func (uc *ReconcilePayment) Execute(ctx context.Context, n WebhookNotification) error {
	log := logging.FromCtx(ctx).With("payment_id", n.PaymentID, "request_id", n.RequestID)

	// Fast-path replay skip. Best effort only: the conditional status
	// update below is the authoritative guard.
	if uc.dedupe != nil && n.RequestID != "" {
		if _, seen, _ := uc.dedupe.Recall(ctx, "webhook", n.RequestID); seen {
			log.Info("webhook replay skipped")
			return nil
		}
	}

	pay, err := uc.gateway.GetPayment(ctx, n.PaymentID)
	if err != nil {
		return err
	}

	order, err := uc.correlate(ctx, pay)
	if err != nil {
		return err
	}
	if order == nil {
		// Unknown payment: acknowledge and move on, never error-loop
		// the gateway.
		log.Warn("no order for payment, ignoring")
		return nil
	}

	// Raw status is kept for audit; the mapped value drives decisions.
	if err := uc.orders.SetGatewayPaymentStatus(ctx, order.ID, pay.Status); err != nil {
		return err
	}

	target, ok := statusByGateway[pay.Status]
	if !ok {
		log.Warn("unmapped gateway status, ignoring", "gateway_status", pay.Status)
		return uc.remember(ctx, n)
	}

	log = log.With("order_number", order.OrderNumber, "gateway_status", pay.Status, "target", string(target))

	switch target {
	case domain.StatusPending:
		// Order is born pending; nothing to advance.

	case domain.StatusConfirmed:
		applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, domain.StatusPending, domain.StatusConfirmed)
		if err != nil {
			return err
		}
		if !applied {
			// Already confirmed (duplicate delivery) or terminal.
			log.Info("confirm transition not applicable, skipping")
			break
		}
		uc.onConfirmed(ctx, log, order)
		uc.publish(ctx, order, domain.StatusPending, domain.StatusConfirmed, pay.Status)

	case domain.StatusCancelled:
		from := domain.StatusPending
		applied, err := uc.orders.UpdateStatusIf(ctx, order.ID, from, domain.StatusCancelled)
		if err != nil {
			return err
		}
		if !applied {
			from = domain.StatusConfirmed
			applied, err = uc.orders.UpdateStatusIf(ctx, order.ID, from, domain.StatusCancelled)
			if err != nil {
				return err
			}
		}
		if !applied {
			log.Info("cancel transition not applicable, skipping")
			break
		}
		log.Info("order cancelled")
		uc.publish(ctx, order, from, domain.StatusCancelled, pay.Status)
	}

	return uc.remember(ctx, n)
}

// onConfirmed runs the side effects gated on the pending->confirmed
// edge. The transition is already committed: failures here are logged,
// never surfaced, so the gateway does not replay an applied mutation.
func (uc *ReconcilePayment) onConfirmed(ctx context.Context, log *slog.Logger, order *domain.Order) {
	for _, item := range order.Items {
		left, err := uc.stock.Decrement(ctx, item.ProductID, item.Quantity)
		if err != nil {
			log.Error("stock decrement failed", "product_id", item.ProductID, "err", err)
			continue
		}
		log.Info("stock decremented", "product_id", item.ProductID, "qty", item.Quantity, "left", left)
	}

	if uc.fanout != nil {
		uc.fanout.Dispatch(ctx, order)
	}
	log.Info("order confirmed")
}

func (uc *ReconcilePayment) correlate(ctx context.Context, pay *PaymentInfo) (*domain.Order, error) {
	if pay.ExternalReference != "" {
		o, err := uc.orders.GetByNumber(ctx, pay.ExternalReference)
		if err != nil {
			return nil, err
		}
		if o != nil {
			return o, nil
		}
	}
	return uc.orders.GetByGatewayPaymentID(ctx, pay.PaymentID)
}

func (uc *ReconcilePayment) publish(ctx context.Context, order *domain.Order, from, to domain.Status, gatewayStatus string) {
	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, order.OrderNumber, to)
	}
	if uc.events == nil {
		return
	}
	err := uc.events.PublishStatusChanged(ctx, OrderStatusChangedMsg{
		OrderID:       order.ID,
		OrderNumber:   order.OrderNumber,
		From:          string(from),
		To:            string(to),
		GatewayStatus: gatewayStatus,
		OccurredAt:    time.Now().Unix(),
	})
	if err != nil {
		logging.FromCtx(ctx).Error("audit event publish failed", "order_number", order.OrderNumber, "err", err)
	}
}

func (uc *ReconcilePayment) remember(ctx context.Context, n WebhookNotification) error {
	if uc.dedupe != nil && n.RequestID != "" {
		_ = uc.dedupe.Remember(ctx, "webhook", n.RequestID, n.PaymentID)
	}
	return nil
}
