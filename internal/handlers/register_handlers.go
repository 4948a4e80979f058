package handlers

import (
	"net/http"

	"github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// RegisterRoutes wires every HTTP endpoint onto the router.
func RegisterRoutes(router *gin.Engine, container *services.ServiceContainer, registry *prometheus.Registry) {
	accountHandler := NewAccountHandler(container.Account)
	rateHandler := NewRateHandler(container.Rate)
	exchangeHandler := NewExchangeHandler(container.Exchange)

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(registry, promhttp.HandlerOpts{})))

	accounts := router.Group("/accounts")
	{
		accounts.GET("", accountHandler.ListAccounts)
		accounts.GET("/:accountID", accountHandler.GetAccountByID)
		accounts.PUT("/:accountID/balance", accountHandler.SetBalance)
	}

	rates := router.Group("/rates")
	{
		rates.GET("", rateHandler.ListRates)
		rates.GET("/:baseCurrency", rateHandler.GetRate)
		rates.PUT("", rateHandler.SetRate)
	}

	router.POST("/exchange", exchangeHandler.Exchange)
	router.GET("/log", exchangeHandler.GetLog)
}
