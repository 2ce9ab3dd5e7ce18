package handlers

import (
	"net/http"

	"github.com/spolyanaa/MyBarKeeperBot/pkg/logger"
	"github.com/spolyanaa/MyBarKeeperBot/pkg/middleware"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// NewRouter wires the monitoring API. metricsHandler may be nil.
func NewRouter(h *MonitoringHandler, metricsHandler http.Handler, log *zap.Logger) *gin.Engine {
	router := gin.New()
	router.Use(middleware.RecoveryHandler(log))
	router.Use(middleware.RequestIDMiddleware(log))
	router.Use(logger.GinMiddleware(log))
	router.Use(middleware.ErrorHandler(log))

	router.GET("/health", healthCheck)
	if metricsHandler != nil {
		router.GET("/metrics", gin.WrapH(metricsHandler))
	}

	monitoring := router.Group("/monitoring")
	{
		monitoring.GET("/stats", h.GetStats)
		monitoring.GET("/database/status", h.GetDatabaseStatus)
		monitoring.GET("/ledger/verify", h.VerifyLedger)
		monitoring.GET("/shortfall/:mode", h.GetShortfall)
	}
	return router
}

func healthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "ok",
		"service": "barkeeper",
	})
}
