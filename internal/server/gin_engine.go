package server

import (
	"github.com/gin-gonic/gin"

	"github.com/scisoft/vnpay-checkout/pkg/logger"
	"github.com/scisoft/vnpay-checkout/pkg/metrics"
)

func NewGinEngine() *gin.Engine {
	engine := gin.New()
	engine.Use(
		metrics.GinMiddleware(),
		logger.CorrelationMiddleware(),
		logger.GinRequestLogger(),
		gin.Recovery(),
	)
	return engine
}
