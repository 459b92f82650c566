package server

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/scisoft/vnpay-checkout/internal/server/handlers"
	"github.com/scisoft/vnpay-checkout/pkg/health"
	"github.com/scisoft/vnpay-checkout/pkg/metrics"
)

type Router struct {
	payment        *handlers.PaymentHandler
	healthRegistry *health.Registry
}

func NewRouter(payment *handlers.PaymentHandler, healthRegistry *health.Registry) *Router {
	return &Router{payment: payment, healthRegistry: healthRegistry}
}

func (r *Router) SetUp(engine *gin.Engine) {
	// Health checks (Kubernetes-style)
	engine.GET("/health/live", health.LivenessHandler())
	engine.GET("/health/ready", health.ReadinessHandler(r.healthRegistry, health.DefaultTimeout))

	// Prometheus metrics
	engine.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Registry, promhttp.HandlerOpts{})))

	// Checkout endpoints consumed by the payment page
	engine.POST("/payment/vnpay/prepare_tx", r.payment.Prepare)
	engine.POST("/payment/vnpay/create_charge", r.payment.CreateCharge)

	// Manual operations
	engine.POST("/internal/transactions/:reference/refund", r.payment.Refund)
}
