package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/pricing"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// CheckoutHandler serves the storefront endpoints: quote, coupon
// validation, checkout and order status polling.
type CheckoutHandler struct {
	checkout *usecase.Checkout
	coupons  *usecase.ValidateCoupon
	status   *usecase.OrderStatusQuery
}

func NewCheckoutHandler(checkout *usecase.Checkout, coupons *usecase.ValidateCoupon, status *usecase.OrderStatusQuery) *CheckoutHandler {
	return &CheckoutHandler{checkout: checkout, coupons: coupons, status: status}
}

type quoteReq struct {
	Lines         []domain.CartLine `json:"lines" binding:"required,min=1"`
	RegionCode    string            `json:"regionCode"`
	CouponCode    string            `json:"couponCode"`
	PaymentMethod string            `json:"paymentMethod"`
}

// Quote prices a cart without persisting anything. The same engine runs
// again at checkout, so a stale client quote can never leak into an
// order.
func (h *CheckoutHandler) Quote(c *gin.Context) {
	var req quoteReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	var coupon *domain.Coupon
	if req.CouponCode != "" {
		probe := pricing.Compute(req.Lines, req.RegionCode, nil, domain.PaymentMethod(req.PaymentMethod))
		res, err := h.coupons.Execute(ctx, req.CouponCode, probe.Subtotal)
		if err != nil {
			writeError(c, err)
			return
		}
		coupon = res.Coupon
	}

	quote := pricing.Compute(req.Lines, req.RegionCode, coupon, domain.PaymentMethod(req.PaymentMethod))
	c.JSON(http.StatusOK, quote)
}

type validateCouponReq struct {
	Code  string            `json:"code" binding:"required"`
	Lines []domain.CartLine `json:"lines" binding:"required,min=1"`
}

// ValidateCoupon answers the checkout form's "apply coupon" button.
// Rejections are a normal answer here, not an error envelope.
func (h *CheckoutHandler) ValidateCoupon(c *gin.Context) {
	var req validateCouponReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	probe := pricing.Compute(req.Lines, "", nil, "")
	res, err := h.coupons.Execute(ctx, req.Code, probe.Subtotal)
	if err != nil {
		var rej *domain.CouponRejectedError
		if errors.As(err, &rej) {
			c.JSON(http.StatusUnprocessableEntity, gin.H{
				"valid":  false,
				"reason": string(rej.Reason),
			})
			return
		}
		writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"valid":    true,
		"kind":     string(res.Coupon.Kind),
		"discount": res.Discount,
	})
}

type checkoutReq struct {
	Customer domain.Customer   `json:"customer" binding:"required"`
	Address  domain.Address    `json:"address" binding:"required"`
	Lines    []domain.CartLine `json:"lines" binding:"required,min=1"`

	RegionCode string `json:"regionCode"`
	CouponCode string `json:"couponCode"`

	PaymentMethod string `json:"paymentMethod" binding:"required"`
	CardToken     string `json:"cardToken"`
	Installments  int    `json:"installments"`
}

type checkoutResp struct {
	OrderNumber string        `json:"orderNumber"`
	Status      string        `json:"status"`
	Quote       pricing.Quote `json:"quote"`

	Pix  *pixResp  `json:"pix,omitempty"`
	Card *cardResp `json:"card,omitempty"`
}

type pixResp struct {
	QRCodeImage     string `json:"qrCodeImage"`
	QRCodeCopyPaste string `json:"qrCodeCopyPaste"`
	ExpiresAt       string `json:"expiresAt"`
}

type cardResp struct {
	Approved  bool   `json:"approved"`
	RawStatus string `json:"rawStatus"`
}

func (h *CheckoutHandler) Checkout(c *gin.Context) {
	var req checkoutReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 15*time.Second)
	defer cancel()

	out, err := h.checkout.Execute(ctx, usecase.CheckoutInput{
		Customer:      req.Customer,
		Address:       req.Address,
		Lines:         req.Lines,
		RegionCode:    req.RegionCode,
		CouponCode:    req.CouponCode,
		PaymentMethod: domain.PaymentMethod(req.PaymentMethod),
		CardToken:     req.CardToken,
		Installments:  req.Installments,
	})
	if err != nil {
		writeError(c, err)
		return
	}

	resp := checkoutResp{
		OrderNumber: out.Order.OrderNumber,
		Status:      string(out.Order.Status),
		Quote:       out.Quote,
	}
	if out.Pix != nil {
		resp.Pix = &pixResp{
			QRCodeImage:     out.Pix.QRCodeImage,
			QRCodeCopyPaste: out.Pix.QRCodeCopyPaste,
			ExpiresAt:       out.Pix.ExpiresAt.UTC().Format(time.RFC3339),
		}
	}
	if out.Card != nil {
		resp.Card = &cardResp{Approved: out.Card.Approved, RawStatus: out.Card.RawStatus}
	}
	c.JSON(http.StatusCreated, resp)
}

func (h *CheckoutHandler) OrderStatus(c *gin.Context) {
	number := c.Param("number")

	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	status, err := h.status.Execute(ctx, number)
	if err != nil {
		writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"orderNumber": number, "status": string(status)})
}

// writeError maps domain errors to HTTP statuses. Customer-correctable
// input comes back 4xx with a machine-readable field; upstream failures
// surface as 502 without leaking gateway internals.
func writeError(c *gin.Context, err error) {
	var (
		valErr *domain.ValidationError
		cpnErr *domain.CouponRejectedError
		gwErr  *domain.GatewayError
	)
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "field": valErr.Field, "message": valErr.Msg})
	case errors.As(err, &cpnErr):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "coupon_rejected", "reason": string(cpnErr.Reason)})
	case errors.Is(err, domain.ErrPaymentDeclined):
		c.JSON(http.StatusPaymentRequired, gin.H{"error": "payment_declined"})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.As(err, &gwErr):
		c.JSON(http.StatusBadGateway, gin.H{"error": "gateway_unavailable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
