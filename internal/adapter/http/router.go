package http

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/erick-ssouza/Elatho-Semijoias-sub000/internal/adapter/http/middleware"
)

func NewRouter(
	log *slog.Logger,
	ch *CheckoutHandler,
	wh *WebhookHandler,
	ah *AdminHandler,
	th *TokenHandler,
	authz *middleware.Authz,
) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware(), middleware.Logging(log))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.POST("/checkout/quote", ch.Quote)
		v1.POST("/coupons/validate", ch.ValidateCoupon)
		v1.POST("/checkout", ch.Checkout)
		v1.GET("/orders/:number/status", ch.OrderStatus)

		// Gateway callback: authenticated by HMAC signature, not JWT.
		v1.POST("/webhooks/payments", wh.Receive)

		admin := v1.Group("/admin")
		{
			admin.GET("/orders/:number", authz.Require("orders.read"), ah.GetOrder)
			admin.POST("/orders/:number/ship", authz.Require("orders.write"), ah.Ship)
			admin.POST("/orders/:number/deliver", authz.Require("orders.write"), ah.Deliver)
		}
	}

	return r
}
