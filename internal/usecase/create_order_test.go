package usecase

import (
	"context"
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
)

func validCreateInput() CreateOrderInput {
	return CreateOrderInput{
		Customer: domain.Customer{Name: "Maria", Email: "maria@example.com", Phone: "11999990000", TaxID: "12345678901"},
		Address:  domain.Address{Street: "Rua das Flores", Number: "10", District: "Centro", City: "São Paulo", State: "SP", ZipCode: "01000-000"},
		Items: []domain.OrderItem{
			{ProductID: "prod-x", Name: "Brinco Pérola", Quantity: 1, UnitPrice: decimal.RequireFromString("120.00")},
		},
		Subtotal:      decimal.RequireFromString("120.00"),
		ShippingFee:   decimal.RequireFromString("14.90"),
		Discount:      decimal.Zero,
		Total:         decimal.RequireFromString("134.90"),
		PaymentMethod: domain.PaymentPix,
	}
}

func TestCreateOrderNumberFormat(t *testing.T) {
	uc := NewCreateOrder(newMemOrderRepo())
	uc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	uc.randN = func(int) int { return 42 }

	order, err := uc.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if order.OrderNumber != "ELA-20260830-042" {
		t.Errorf("orderNumber = %s, want ELA-20260830-042", order.OrderNumber)
	}
	if order.Status != domain.StatusPending {
		t.Errorf("status = %s, want PENDING", order.Status)
	}
	if !regexp.MustCompile(`^ELA-\d{8}-\d{3}$`).MatchString(order.OrderNumber) {
		t.Errorf("orderNumber %s does not match pattern", order.OrderNumber)
	}
}

func TestCreateOrderRetriesOnDuplicateNumber(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewCreateOrder(repo)
	uc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }

	// First order takes suffix 007.
	uc.randN = func(int) int { return 7 }
	if _, err := uc.Execute(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("first order: %v", err)
	}

	// Second order collides once, then regenerates.
	suffixes := []int{7, 8}
	uc.randN = func(int) int {
		n := suffixes[0]
		if len(suffixes) > 1 {
			suffixes = suffixes[1:]
		}
		return n
	}
	order, err := uc.Execute(context.Background(), validCreateInput())
	if err != nil {
		t.Fatalf("second order: %v", err)
	}
	if order.OrderNumber != "ELA-20260830-008" {
		t.Errorf("orderNumber = %s, want regenerated ELA-20260830-008", order.OrderNumber)
	}
}

func TestCreateOrderGivesUpAfterBoundedRetries(t *testing.T) {
	repo := newMemOrderRepo()
	uc := NewCreateOrder(repo)
	uc.now = func() time.Time { return time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC) }
	uc.randN = func(int) int { return 7 }

	if _, err := uc.Execute(context.Background(), validCreateInput()); err != nil {
		t.Fatalf("seed order: %v", err)
	}
	_, err := uc.Execute(context.Background(), validCreateInput())
	if !errors.Is(err, domain.ErrDuplicateOrderNumber) {
		t.Fatalf("err = %v, want ErrDuplicateOrderNumber after retries", err)
	}
}

func TestCreateOrderValidation(t *testing.T) {
	uc := NewCreateOrder(newMemOrderRepo())

	cases := []struct {
		name   string
		mutate func(*CreateOrderInput)
	}{
		{"empty items", func(in *CreateOrderInput) { in.Items = nil }},
		{"zero quantity", func(in *CreateOrderInput) { in.Items[0].Quantity = 0 }},
		{"negative total", func(in *CreateOrderInput) {
			in.Total = decimal.RequireFromString("-1")
			in.Subtotal = decimal.RequireFromString("-15.90")
		}},
		{"total mismatch", func(in *CreateOrderInput) { in.Total = decimal.RequireFromString("999.99") }},
		{"missing customer email", func(in *CreateOrderInput) { in.Customer.Email = "" }},
		{"missing tax id", func(in *CreateOrderInput) { in.Customer.TaxID = "" }},
		{"missing address city", func(in *CreateOrderInput) { in.Address.City = "" }},
		{"bad payment method", func(in *CreateOrderInput) { in.PaymentMethod = "boleto" }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			in := validCreateInput()
			tc.mutate(&in)
			_, err := uc.Execute(context.Background(), in)
			var ve *domain.ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("err = %v, want ValidationError", err)
			}
		})
	}
}
