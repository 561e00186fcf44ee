package queue

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/shopspring/decimal"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

type fakeMailer struct {
	SendFunc func(ctx context.Context, to, subject, htmlBody string) error
}

func (m *fakeMailer) Send(ctx context.Context, to, subject, htmlBody string) error {
	if m.SendFunc != nil {
		return m.SendFunc(ctx, to, subject, htmlBody)
	}
	return nil
}

type fakeChat struct {
	AlertFunc func(ctx context.Context, text string) error
}

func (c *fakeChat) Alert(ctx context.Context, text string) error {
	if c.AlertFunc != nil {
		return c.AlertFunc(ctx, text)
	}
	return nil
}

func job(ch usecase.NotificationChannel) usecase.NotificationJob {
	return usecase.NotificationJob{
		JobID:         "job-1",
		Channel:       ch,
		OrderNumber:   "ELA-20260830-042",
		CustomerName:  "Maria",
		CustomerEmail: "maria@example.com",
		Total:         decimal.RequireFromString("256.50"),
		PaymentMethod: "pix",
	}
}

func TestHandleJobCustomerEmail(t *testing.T) {
	var gotTo, gotSubject, gotBody string
	h := NewNotificationJobHandler(&fakeMailer{
		SendFunc: func(_ context.Context, to, subject, body string) error {
			gotTo, gotSubject, gotBody = to, subject, body
			return nil
		},
	}, &fakeChat{}, "loja@example.com")

	if err := h.HandleJob(context.Background(), job(usecase.ChannelCustomerEmail)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if gotTo != "maria@example.com" {
		t.Errorf("to = %s", gotTo)
	}
	if !strings.Contains(gotSubject, "ELA-20260830-042") {
		t.Errorf("subject = %s", gotSubject)
	}
	if !strings.Contains(gotBody, "256.50") {
		t.Errorf("body missing total: %s", gotBody)
	}
}

func TestHandleJobAdminEmailGoesToStoreAddress(t *testing.T) {
	var gotTo string
	h := NewNotificationJobHandler(&fakeMailer{
		SendFunc: func(_ context.Context, to, _, _ string) error {
			gotTo = to
			return nil
		},
	}, &fakeChat{}, "loja@example.com")

	if err := h.HandleJob(context.Background(), job(usecase.ChannelAdminEmail)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if gotTo != "loja@example.com" {
		t.Errorf("to = %s, want admin address", gotTo)
	}
}

func TestHandleJobOperatorChat(t *testing.T) {
	var gotText string
	h := NewNotificationJobHandler(&fakeMailer{}, &fakeChat{
		AlertFunc: func(_ context.Context, text string) error {
			gotText = text
			return nil
		},
	}, "loja@example.com")

	if err := h.HandleJob(context.Background(), job(usecase.ChannelOperatorChat)); err != nil {
		t.Fatalf("handle: %v", err)
	}
	if !strings.Contains(gotText, "ELA-20260830-042") || !strings.Contains(gotText, "Maria") {
		t.Errorf("alert text = %s", gotText)
	}
}

func TestHandleJobUnknownChannel(t *testing.T) {
	h := NewNotificationJobHandler(&fakeMailer{}, &fakeChat{}, "loja@example.com")

	if err := h.HandleJob(context.Background(), job("sms")); err == nil {
		t.Fatal("unknown channel accepted")
	}
}

func TestHandleJobMailerFailurePropagatesForNack(t *testing.T) {
	boom := errors.New("smtp down")
	h := NewNotificationJobHandler(&fakeMailer{
		SendFunc: func(_ context.Context, _, _, _ string) error { return boom },
	}, &fakeChat{}, "loja@example.com")

	if err := h.HandleJob(context.Background(), job(usecase.ChannelCustomerEmail)); !errors.Is(err, boom) {
		t.Fatalf("err = %v, want mailer error", err)
	}
}
