package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/http/middleware"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/logging"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/security"
	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/usecase"
)

// WebhookHandler receives payment notifications from the gateway.
//
// Response contract: 401 when the signature does not check out, 200
// with {"received":true} for everything else, including payloads we
// choose to ignore and internal failures. A non-2xx answer makes the
// gateway replay, and replays of an unverifiable or poisoned payload
// only add noise; genuinely aborted notifications are not marked as
// handled, so the gateway's scheduled retries still reach the
// reconciler.
type WebhookHandler struct {
	verifier  security.SignatureVerifier
	reconcile *usecase.ReconcilePayment
}

func NewWebhookHandler(verifier security.SignatureVerifier, reconcile *usecase.ReconcilePayment) *WebhookHandler {
	return &WebhookHandler{verifier: verifier, reconcile: reconcile}
}

type webhookReq struct {
	Type   string `json:"type"`
	Action string `json:"action"`
	Data   struct {
		ID string `json:"id"`
	} `json:"data"`
}

func (h *WebhookHandler) Receive(c *gin.Context) {
	log := logging.From(c)

	var req webhookReq
	if err := c.ShouldBindJSON(&req); err != nil {
		middleware.WebhookNotifications.WithLabelValues("malformed").Inc()
		received(c)
		return
	}

	signature := c.GetHeader("x-signature")
	requestID := c.GetHeader("x-request-id")

	if err := h.verifier.Verify(req.Data.ID, requestID, signature); err != nil {
		middleware.WebhookNotifications.WithLabelValues("bad_signature").Inc()
		log.Warn("webhook signature rejected", "request_id", requestID)
		// Generic body: no hint about which part of the check failed.
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	if req.Type != "payment" {
		middleware.WebhookNotifications.WithLabelValues("ignored").Inc()
		log.Info("non-payment webhook ignored", "type", req.Type)
		received(c)
		return
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 10*time.Second)
	defer cancel()

	err := h.reconcile.Execute(ctx, usecase.WebhookNotification{
		Type:      req.Type,
		Action:    req.Action,
		PaymentID: req.Data.ID,
		RequestID: requestID,
	})
	if err != nil {
		middleware.WebhookNotifications.WithLabelValues("aborted").Inc()
		log.Error("webhook reconciliation aborted", "payment_id", req.Data.ID, "err", err)
		received(c)
		return
	}

	middleware.WebhookNotifications.WithLabelValues("processed").Inc()
	received(c)
}

func received(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"received": true})
}
