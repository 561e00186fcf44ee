package usecase

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

const (
	orderNumberPrefix  = "ELA"
	orderNumberRetries = 3
)

// CreateOrder assembles the immutable order snapshot and persists it in
// PENDING. It does not contact the payment gateway.
type CreateOrder struct {
	orders OrderRepo
	now    func() time.Time
	randN  func(n int) int
}

func NewCreateOrder(orders OrderRepo) *CreateOrder {
	return &CreateOrder{orders: orders, now: time.Now, randN: rand.Intn}
}

type CreateOrderInput struct {
	Customer domain.Customer
	Address  domain.Address
	Items    []domain.OrderItem

	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal

	PaymentMethod domain.PaymentMethod
	Installments  int
}

func (uc *CreateOrder) Execute(ctx context.Context, in CreateOrderInput) (*domain.Order, error) {
	o := &domain.Order{
		ID:            uuid.NewString(),
		Items:         in.Items,
		Customer:      in.Customer,
		Address:       in.Address,
		Subtotal:      in.Subtotal,
		ShippingFee:   in.ShippingFee,
		Discount:      in.Discount,
		Total:         in.Total,
		PaymentMethod: in.PaymentMethod,
		Installments:  in.Installments,
		Status:        domain.StatusPending,
		CreatedAt:     uc.now().UTC(),
	}
	if err := o.Validate(); err != nil {
		return nil, err
	}

	// The number is not unique by construction; a persist-time collision
	// is retryable with a fresh suffix.
	for attempt := 0; attempt < orderNumberRetries; attempt++ {
		o.OrderNumber = uc.newOrderNumber()
		err := uc.orders.Create(ctx, o)
		if err == nil {
			return o, nil
		}
		if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
			return nil, err
		}
	}
	return nil, fmt.Errorf("order number collisions exhausted after %d attempts: %w",
		orderNumberRetries, domain.ErrDuplicateOrderNumber)
}

func (uc *CreateOrder) newOrderNumber() string {
	return fmt.Sprintf("%s-%s-%03d", orderNumberPrefix, uc.now().Format("20060102"), uc.randN(1000))
}
