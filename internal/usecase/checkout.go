package usecase

import (
	"context"
	"fmt"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/pricing"
)

// Checkout turns a priced cart into a pending order with a payable
// artifact. Totals are recomputed server-side from the cart lines; the
// client quote is display-only.
type Checkout struct {
	coupons *ValidateCoupon
	factory *CreateOrder
	gateway PaymentGateway
	orders  OrderRepo
	cache   StatusCache
}

func NewCheckout(coupons *ValidateCoupon, factory *CreateOrder, gateway PaymentGateway, orders OrderRepo, cache StatusCache) *Checkout {
	return &Checkout{coupons: coupons, factory: factory, gateway: gateway, orders: orders, cache: cache}
}

type CheckoutInput struct {
	Customer   domain.Customer
	Address    domain.Address
	Lines      []domain.CartLine
	RegionCode string
	CouponCode string

	PaymentMethod domain.PaymentMethod
	CardToken     string
	Installments  int
}

type CheckoutOutput struct {
	Order *domain.Order
	Quote pricing.Quote
	Pix   *PixCharge
	Card  *CardCharge
}

func (uc *Checkout) Execute(ctx context.Context, in CheckoutInput) (*CheckoutOutput, error) {
	var coupon *domain.Coupon
	if in.CouponCode != "" {
		// Pre-compute the subtotal the validator needs.
		probe := pricing.Compute(in.Lines, in.RegionCode, nil, in.PaymentMethod)
		res, err := uc.coupons.Execute(ctx, in.CouponCode, probe.Subtotal)
		if err != nil {
			return nil, err
		}
		coupon = res.Coupon
	}

	quote := pricing.Compute(in.Lines, in.RegionCode, coupon, in.PaymentMethod)

	items := make([]domain.OrderItem, len(in.Lines))
	for i, l := range in.Lines {
		items[i] = domain.OrderItem{
			ProductID: l.ProductID,
			Name:      l.Name,
			Variant:   l.Variant,
			Quantity:  l.Quantity,
			UnitPrice: l.EffectivePrice(),
		}
	}

	// The PIX discount is baked into the persisted discount so that
	// total = subtotal - discount + shippingFee holds for both methods.
	discount := quote.Discount
	if in.PaymentMethod == domain.PaymentPix {
		discount = discount.Add(quote.BaseTotal.Sub(quote.PixTotal))
	}

	installments := in.Installments
	if in.PaymentMethod == domain.PaymentCard {
		if installments < 1 || installments > pricing.MaxInstallments {
			return nil, &domain.ValidationError{
				Field: "installments",
				Msg:   fmt.Sprintf("must be between 1 and %d", pricing.MaxInstallments),
			}
		}
		if in.CardToken == "" {
			return nil, &domain.ValidationError{Field: "cardToken", Msg: "required for card payments"}
		}
	}

	order, err := uc.factory.Execute(ctx, CreateOrderInput{
		Customer:      in.Customer,
		Address:       in.Address,
		Items:         items,
		Subtotal:      quote.Subtotal,
		ShippingFee:   quote.ShippingFee,
		Discount:      discount,
		Total:         quote.Total,
		PaymentMethod: in.PaymentMethod,
		Installments:  installments,
	})
	if err != nil {
		return nil, err
	}

	out := &CheckoutOutput{Order: order, Quote: quote}

	customerID, err := uc.gateway.EnsureCustomer(ctx, in.Customer)
	if err != nil {
		return nil, err
	}

	description := "Pedido " + order.OrderNumber

	switch in.PaymentMethod {
	case domain.PaymentPix:
		pix, err := uc.gateway.CreatePixPayment(ctx, CreatePixInput{
			CustomerID:        customerID,
			Amount:            order.Total,
			ExternalReference: order.OrderNumber,
			Description:       description,
		})
		if err != nil {
			return nil, err
		}
		if err := uc.attachPayment(ctx, order, pix.PaymentID, pix.RawStatus); err != nil {
			return nil, err
		}
		out.Pix = pix

	case domain.PaymentCard:
		card, err := uc.gateway.CreateCardPayment(ctx, CreateCardInput{
			CustomerID:        customerID,
			Amount:            order.Total,
			ExternalReference: order.OrderNumber,
			Description:       description,
			CardToken:         in.CardToken,
			Installments:      installments,
		})
		if err != nil {
			return nil, err
		}
		// Attach before judging the result so a later webhook can still
		// correlate a declined payment and cancel the order.
		if err := uc.attachPayment(ctx, order, card.PaymentID, card.RawStatus); err != nil {
			return nil, err
		}
		if !card.Approved && card.RawStatus != "pending" && card.RawStatus != "in_process" {
			return nil, fmt.Errorf("card payment %s status %q: %w",
				card.PaymentID, card.RawStatus, domain.ErrPaymentDeclined)
		}
		out.Card = card
	}

	if uc.cache != nil {
		_ = uc.cache.SetStatus(ctx, order.OrderNumber, order.Status)
	}
	return out, nil
}

func (uc *Checkout) attachPayment(ctx context.Context, o *domain.Order, paymentID, rawStatus string) error {
	if err := uc.orders.SetGatewayPayment(ctx, o.ID, paymentID, rawStatus); err != nil {
		return err
	}
	o.GatewayPaymentID = paymentID
	o.GatewayPaymentStatus = rawStatus
	return nil
}
