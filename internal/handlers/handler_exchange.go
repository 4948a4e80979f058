package handlers

import (
	"log/slog"
	"net/http"

	"github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/dto"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// ExchangeHandler exposes the exchange and transaction log endpoints.
type ExchangeHandler struct {
	exchangeService services.ExchangeSvcFacade
}

// NewExchangeHandler creates a new ExchangeHandler.
func NewExchangeHandler(exchangeService services.ExchangeSvcFacade) *ExchangeHandler {
	return &ExchangeHandler{exchangeService: exchangeService}
}

// Exchange godoc
// @Summary Execute a currency exchange
// @Description Runs the full exchange protocol. A declined exchange still produces a result record and is returned with status 500.
// @Tags exchange
// @Accept json
// @Produce json
// @Param request body dto.ExchangeRequest true "Exchange request"
// @Success 200 {object} dto.ExchangeResultResponse
// @Failure 400 {object} map[string]string
// @Failure 500 {object} dto.ExchangeResultResponse
// @Router /exchange [post]
func (h *ExchangeHandler) Exchange(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.ExchangeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid exchange request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := h.exchangeService.Exchange(c.Request.Context(), req.ToDomainExchangeRequest())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	if !result.Ok {
		// Declined attempts are recorded and reported as a server-side
		// failure, with the full result so the caller can see why.
		c.JSON(http.StatusInternalServerError, dto.ToExchangeResultResponse(result))
		return
	}

	c.JSON(http.StatusOK, dto.ToExchangeResultResponse(result))
}

// GetLog godoc
// @Summary List the exchange transaction log
// @Description Returns every recorded exchange attempt in append order.
// @Tags exchange
// @Produce json
// @Success 200 {array} dto.ExchangeResultResponse
// @Router /log [get]
func (h *ExchangeHandler) GetLog(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	results, err := h.exchangeService.GetLog(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListExchangeResultResponse(results))
}
