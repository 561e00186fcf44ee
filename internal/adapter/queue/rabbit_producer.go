package queue

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

const (
	exchangeName = "order.notifications"

	QueueCustomerEmail = "notify.customer_email.q"
	QueueAdminEmail    = "notify.admin_email.q"
	QueueOperatorChat  = "notify.operator_chat.q"
)

func routingKey(ch usecase.NotificationChannel) string {
	return "notify." + string(ch)
}

var channelQueues = map[usecase.NotificationChannel]string{
	usecase.ChannelCustomerEmail: QueueCustomerEmail,
	usecase.ChannelAdminEmail:    QueueAdminEmail,
	usecase.ChannelOperatorChat:  QueueOperatorChat,
}

// RabbitProducer implements usecase.NotificationQueue. One queue per
// channel keeps fan-out failures isolated: a dead mailer only backs up
// its own queue.
type RabbitProducer struct {
	ch *amqp.Channel
}

// NewRabbitProducer declares the exchange, the per-channel queues and
// their bindings once at startup.
func NewRabbitProducer(ch *amqp.Channel) (*RabbitProducer, error) {
	if err := ch.ExchangeDeclare(
		exchangeName,
		"topic",
		true,  // durable
		false, // auto-delete
		false, // internal
		false, // no-wait
		nil,
	); err != nil {
		return nil, fmt.Errorf("declare exchange: %w", err)
	}

	for notifyCh, queueName := range channelQueues {
		q, err := ch.QueueDeclare(
			queueName,
			true,  // durable
			false, // auto-delete
			false, // exclusive
			false, // no-wait
			nil,
		)
		if err != nil {
			return nil, fmt.Errorf("declare queue %s: %w", queueName, err)
		}
		if err := ch.QueueBind(q.Name, routingKey(notifyCh), exchangeName, false, nil); err != nil {
			return nil, fmt.Errorf("bind queue %s: %w", queueName, err)
		}
	}

	if err := ch.Confirm(false); err != nil {
		return nil, fmt.Errorf("enable confirm mode: %w", err)
	}
	return &RabbitProducer{ch: ch}, nil
}

// PublishJob enqueues one notification job on its channel's queue.
func (p *RabbitProducer) PublishJob(ctx context.Context, job usecase.NotificationJob) error {
	body, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("marshal job: %w", err)
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // survive broker restarts
		MessageId:    job.JobID,
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, exchangeName, routingKey(job.Channel), false, false, pub); err != nil {
		return fmt.Errorf("publish %s: %w", job.Channel, err)
	}
	return nil
}

var _ usecase.NotificationQueue = (*RabbitProducer)(nil)
