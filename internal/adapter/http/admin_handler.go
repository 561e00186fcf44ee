package http

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/entity"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// AdminHandler covers the back-office order operations behind JWT authz.
type AdminHandler struct {
	lifecycle *usecase.OrderLifecycle
	orders    usecase.OrderRepo
}

func NewAdminHandler(lifecycle *usecase.OrderLifecycle, orders usecase.OrderRepo) *AdminHandler {
	return &AdminHandler{lifecycle: lifecycle, orders: orders}
}

type shipReq struct {
	TrackingCode string `json:"trackingCode" binding:"required"`
}

func (h *AdminHandler) Ship(c *gin.Context) {
	var req shipReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.lifecycle.Ship(ctx, c.Param("number"), req.TrackingCode); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusShipped)})
}

func (h *AdminHandler) Deliver(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	if err := h.lifecycle.Deliver(ctx, c.Param("number")); err != nil {
		writeAdminError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": string(domain.StatusDelivered)})
}

func (h *AdminHandler) GetOrder(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
	defer cancel()

	order, err := h.orders.GetByNumber(ctx, c.Param("number"))
	if err != nil {
		writeAdminError(c, err)
		return
	}
	if order == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"orderNumber":   order.OrderNumber,
		"status":        string(order.Status),
		"items":         order.Items,
		"customer":      order.Customer,
		"address":       order.Address,
		"subtotal":      order.Subtotal,
		"shippingFee":   order.ShippingFee,
		"discount":      order.Discount,
		"total":         order.Total,
		"paymentMethod": string(order.PaymentMethod),
		"installments":  order.Installments,
		"gatewayStatus": order.GatewayPaymentStatus,
		"trackingCode":  order.TrackingCode,
		"createdAt":     order.CreatedAt,
		"updatedAt":     order.UpdatedAt,
	})
}

func writeAdminError(c *gin.Context, err error) {
	var valErr *domain.ValidationError
	switch {
	case errors.As(err, &valErr):
		c.JSON(http.StatusBadRequest, gin.H{"error": "validation_error", "field": valErr.Field, "message": valErr.Msg})
	case errors.Is(err, domain.ErrOrderNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "not_found"})
	case errors.Is(err, usecase.ErrTransitionNotApplicable):
		c.JSON(http.StatusConflict, gin.H{"error": "transition_not_applicable"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal_error"})
	}
}
