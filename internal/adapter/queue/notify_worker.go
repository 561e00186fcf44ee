package queue

import (
	"context"
	"fmt"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// Mailer sends one templated email; implemented by the notify adapter.
type Mailer interface {
	Send(ctx context.Context, to, subject, htmlBody string) error
}

// ChatAlerter posts an operator alert; implemented by the notify adapter.
type ChatAlerter interface {
	Alert(ctx context.Context, text string) error
}

// NotificationJobHandler turns a dequeued fan-out job into the actual
// collaborator call for its channel.
type NotificationJobHandler struct {
	mailer     Mailer
	chat       ChatAlerter
	adminEmail string
}

func NewNotificationJobHandler(mailer Mailer, chat ChatAlerter, adminEmail string) *NotificationJobHandler {
	return &NotificationJobHandler{mailer: mailer, chat: chat, adminEmail: adminEmail}
}

// HandleJob is used with JSONHandler[usecase.NotificationJob].
func (h *NotificationJobHandler) HandleJob(ctx context.Context, job usecase.NotificationJob) error {
	switch job.Channel {
	case usecase.ChannelCustomerEmail:
		subject := fmt.Sprintf("Pedido %s confirmado!", job.OrderNumber)
		body := fmt.Sprintf(
			"<p>Olá %s,</p><p>Recebemos o pagamento do pedido <b>%s</b> no valor de R$ %s. Já estamos preparando o envio.</p>",
			job.CustomerName, job.OrderNumber, job.Total.StringFixed(2))
		return h.mailer.Send(ctx, job.CustomerEmail, subject, body)

	case usecase.ChannelAdminEmail:
		subject := fmt.Sprintf("Novo pedido pago: %s", job.OrderNumber)
		body := fmt.Sprintf(
			"<p>Pedido <b>%s</b> (%s) de %s confirmado: R$ %s.</p>",
			job.OrderNumber, job.PaymentMethod, job.CustomerName, job.Total.StringFixed(2))
		return h.mailer.Send(ctx, h.adminEmail, subject, body)

	case usecase.ChannelOperatorChat:
		return h.chat.Alert(ctx, fmt.Sprintf(
			"💰 Pedido %s confirmado — %s — R$ %s (%s)",
			job.OrderNumber, job.CustomerName, job.Total.StringFixed(2), job.PaymentMethod))

	default:
		return fmt.Errorf("unknown notification channel %q", job.Channel)
	}
}
