package domain

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending   Status = "PENDING"
	StatusConfirmed Status = "CONFIRMED"
	StatusShipped   Status = "SHIPPED"
	StatusDelivered Status = "DELIVERED"
	StatusCancelled Status = "CANCELLED"
)

// validNext encodes the order lifecycle. Transitions are monotonic:
// PENDING -> CONFIRMED -> SHIPPED -> DELIVERED, with CANCELLED reachable
// only from PENDING or CONFIRMED.
var validNext = map[Status][]Status{
	StatusPending:   {StatusConfirmed, StatusCancelled},
	StatusConfirmed: {StatusShipped, StatusCancelled},
	StatusShipped:   {StatusDelivered},
}

func (s Status) Terminal() bool {
	return s == StatusDelivered || s == StatusCancelled
}

func (s Status) CanTransitionTo(next Status) bool {
	for _, n := range validNext[s] {
		if n == next {
			return true
		}
	}
	return false
}

type PaymentMethod string

const (
	PaymentPix  PaymentMethod = "pix"
	PaymentCard PaymentMethod = "card"
)

var (
	ErrOrderNotFound        = errors.New("order not found")
	ErrProductNotFound      = errors.New("product not found")
	ErrDuplicateOrderNumber = errors.New("duplicate order number")
	ErrUnauthorized         = errors.New("unauthorized")
	ErrPaymentDeclined      = errors.New("payment declined")
)

// ValidationError marks checkout input the customer can correct.
type ValidationError struct {
	Field string
	Msg   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Msg)
}

// GatewayError wraps a payment-gateway network/5xx failure; retryable by the caller.
type GatewayError struct {
	Op    string
	Cause error
}

func (e *GatewayError) Error() string {
	return fmt.Sprintf("gateway %s: %v", e.Op, e.Cause)
}

func (e *GatewayError) Unwrap() error { return e.Cause }

type Customer struct {
	Name  string `json:"name"`
	Email string `json:"email"`
	Phone string `json:"phone"`
	TaxID string `json:"taxId"`
}

type Address struct {
	Street     string `json:"street"`
	Number     string `json:"number"`
	Complement string `json:"complement,omitempty"`
	District   string `json:"district"`
	City       string `json:"city"`
	State      string `json:"state"`
	ZipCode    string `json:"zipCode"`
}

// OrderItem is a frozen cart line: price locked at checkout, independent
// of later catalog changes.
type OrderItem struct {
	ProductID string          `json:"productId"`
	Name      string          `json:"name"`
	Variant   string          `json:"variant,omitempty"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unitPrice"`
}

type Order struct {
	ID          string
	OrderNumber string
	Items       []OrderItem
	Customer    Customer
	Address     Address

	Subtotal    decimal.Decimal
	ShippingFee decimal.Decimal
	Discount    decimal.Decimal
	Total       decimal.Decimal

	PaymentMethod PaymentMethod
	Installments  int

	// Set once the gateway responds; used to correlate webhook callbacks
	// that carry no external reference.
	GatewayPaymentID string
	// Raw upstream status, stored for audit only. Business decisions use
	// the mapped Status.
	GatewayPaymentStatus string

	Status       Status
	TrackingCode string

	CreatedAt time.Time
	UpdatedAt time.Time
}

func (o *Order) Validate() error {
	if len(o.Items) == 0 {
		return &ValidationError{Field: "items", Msg: "order must have at least one item"}
	}
	for _, it := range o.Items {
		if it.Quantity <= 0 {
			return &ValidationError{Field: "items", Msg: "item quantity must be positive"}
		}
		if it.ProductID == "" {
			return &ValidationError{Field: "items", Msg: "item product id required"}
		}
	}
	if o.Subtotal.IsNegative() || o.ShippingFee.IsNegative() || o.Discount.IsNegative() || o.Total.IsNegative() {
		return &ValidationError{Field: "totals", Msg: "monetary amounts must not be negative"}
	}
	if want := o.Subtotal.Sub(o.Discount).Add(o.ShippingFee); !o.Total.Equal(want) {
		return &ValidationError{Field: "total", Msg: "total must equal subtotal - discount + shippingFee"}
	}
	if o.Customer.Name == "" || o.Customer.Email == "" {
		return &ValidationError{Field: "customer", Msg: "name and email required"}
	}
	if o.Customer.TaxID == "" {
		return &ValidationError{Field: "customer", Msg: "taxId required"}
	}
	if o.Address.Street == "" || o.Address.City == "" || o.Address.State == "" || o.Address.ZipCode == "" {
		return &ValidationError{Field: "address", Msg: "street, city, state and zipCode required"}
	}
	if o.PaymentMethod != PaymentPix && o.PaymentMethod != PaymentCard {
		return &ValidationError{Field: "paymentMethod", Msg: "must be pix or card"}
	}
	return nil
}
