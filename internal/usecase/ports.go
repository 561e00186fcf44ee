package usecase

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

// Persistence contract consumed by this core. Schema/storage choice is
// an adapter concern.
type OrderRepo interface {
	Create(ctx context.Context, o *domain.Order) error
	GetByNumber(ctx context.Context, number string) (*domain.Order, error)
	GetByGatewayPaymentID(ctx context.Context, paymentID string) (*domain.Order, error)
	// SetGatewayPayment attaches the gateway payment id and raw status
	// right after payment creation.
	SetGatewayPayment(ctx context.Context, orderID, paymentID, rawStatus string) error
	SetGatewayPaymentStatus(ctx context.Context, orderID, rawStatus string) error
	// UpdateStatusIf applies "from -> to" as a single conditional update
	// and reports whether a row changed. This is the idempotency guard
	// for concurrent webhook deliveries.
	UpdateStatusIf(ctx context.Context, orderID string, from, to domain.Status) (bool, error)
	SetTrackingCode(ctx context.Context, orderID, code string) error
}

type StockRepo interface {
	// Decrement lowers stock by qty, clamped at zero, and returns the
	// new quantity.
	Decrement(ctx context.Context, productID string, qty int) (int, error)
}

type CouponRepo interface {
	// GetByCode matches case-insensitively; returns nil when absent.
	GetByCode(ctx context.Context, code string) (*domain.Coupon, error)
}

// PaymentGateway is the outbound REST contract with the payment provider.
// No retry policy lives behind it; callers decide.
type PaymentGateway interface {
	EnsureCustomer(ctx context.Context, c domain.Customer) (string, error)
	CreatePixPayment(ctx context.Context, in CreatePixInput) (*PixCharge, error)
	CreateCardPayment(ctx context.Context, in CreateCardInput) (*CardCharge, error)
	// GetPayment fetches authoritative payment state; webhook payloads
	// are never trusted for amounts or status.
	GetPayment(ctx context.Context, paymentID string) (*PaymentInfo, error)
}

type CreatePixInput struct {
	CustomerID        string
	Amount            decimal.Decimal
	ExternalReference string // order number
	Description       string
}

type PixCharge struct {
	PaymentID       string
	QRCodeImage     string // base64 PNG
	QRCodeCopyPaste string
	ExpiresAt       time.Time
	RawStatus       string
}

type CreateCardInput struct {
	CustomerID        string
	Amount            decimal.Decimal
	ExternalReference string
	Description       string
	CardToken         string
	Installments      int
}

type CardCharge struct {
	PaymentID string
	Approved  bool
	RawStatus string
}

type PaymentInfo struct {
	PaymentID         string
	Status            string // raw gateway status
	ExternalReference string
	Amount            decimal.Decimal
}

// IdempotencyStore remembers handled webhook request ids. Best-effort
// fast path only; the conditional status update is the real guard.
type IdempotencyStore interface {
	Remember(ctx context.Context, scope, key, value string) error
	Recall(ctx context.Context, scope, key string) (string, bool, error)
}

// StatusCache serves the storefront order page without hitting MySQL.
type StatusCache interface {
	SetStatus(ctx context.Context, orderNumber string, status domain.Status) error
	GetStatus(ctx context.Context, orderNumber string) (domain.Status, bool, error)
}

type NotificationChannel string

const (
	ChannelCustomerEmail NotificationChannel = "customer_email"
	ChannelAdminEmail    NotificationChannel = "admin_email"
	ChannelOperatorChat  NotificationChannel = "operator_chat"
)

type NotificationJob struct {
	JobID         string              `json:"jobId"`
	Channel       NotificationChannel `json:"channel"`
	OrderNumber   string              `json:"orderNumber"`
	CustomerName  string              `json:"customerName"`
	CustomerEmail string              `json:"customerEmail"`
	Total         decimal.Decimal     `json:"total"`
	PaymentMethod string              `json:"paymentMethod"`
}

// NotificationQueue enqueues fan-out jobs; the worker drains them.
type NotificationQueue interface {
	PublishJob(ctx context.Context, job NotificationJob) error
}

// EventPublisher emits lifecycle events onto the audit stream.
// Best-effort; never blocks or fails the webhook ack.
type EventPublisher interface {
	PublishStatusChanged(ctx context.Context, ev OrderStatusChangedMsg) error
}
