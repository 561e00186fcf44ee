package usecase

import (
	"context"

	"github.com/google/uuid"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/logging"
)

// FanOut dispatches the confirmation notifications: customer email,
// admin email and operator chat alert. Channels are isolated; one
// failing enqueue never blocks the others, and none of them can fail
// the already-committed status transition.
type FanOut struct {
	queue NotificationQueue
}

func NewFanOut(queue NotificationQueue) *FanOut {
	return &FanOut{queue: queue}
}

var fanOutChannels = []NotificationChannel{
	ChannelCustomerEmail,
	ChannelAdminEmail,
	ChannelOperatorChat,
}

func (f *FanOut) Dispatch(ctx context.Context, order *domain.Order) {
	log := logging.FromCtx(ctx)
	for _, ch := range fanOutChannels {
		job := NotificationJob{
			JobID:         uuid.NewString(),
			Channel:       ch,
			OrderNumber:   order.OrderNumber,
			CustomerName:  order.Customer.Name,
			CustomerEmail: order.Customer.Email,
			Total:         order.Total,
			PaymentMethod: string(order.PaymentMethod),
		}
		if err := f.queue.PublishJob(ctx, job); err != nil {
			log.Error("notification enqueue failed", "channel", string(ch), "order_number", order.OrderNumber, "err", err)
			continue
		}
		log.Info("notification enqueued", "channel", string(ch), "order_number", order.OrderNumber)
	}
}
