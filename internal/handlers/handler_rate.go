package handlers

import (
	"log/slog"
	"net/http"

	"github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/dto"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// RateHandler exposes the exchange rate endpoints.
type RateHandler struct {
	rateService services.RateSvcFacade
}

// NewRateHandler creates a new RateHandler.
func NewRateHandler(rateService services.RateSvcFacade) *RateHandler {
	return &RateHandler{rateService: rateService}
}

// ListRates godoc
// @Summary List the full rate table
// @Tags rates
// @Produce json
// @Success 200 {array} dto.RateRowResponse
// @Router /rates [get]
func (h *RateHandler) ListRates(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	rows, err := h.rateService.ListRates(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListRateRowResponse(rows))
}

// GetRate godoc
// @Summary Get the quote row for a base currency
// @Tags rates
// @Produce json
// @Param baseCurrency path string true "Base currency code"
// @Success 200 {object} dto.RateRowResponse
// @Failure 404 {object} map[string]string
// @Router /rates/{baseCurrency} [get]
func (h *RateHandler) GetRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	baseCurrency := c.Param("baseCurrency")

	row, err := h.rateService.GetRate(c.Request.Context(), baseCurrency)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToRateRowResponse(row))
}

// SetRate godoc
// @Summary Set an exchange rate
// @Description Sets base→counter to the given rate and counter→base to its reciprocal in one update.
// @Tags rates
// @Accept json
// @Produce json
// @Param request body dto.SetRateRequest true "Rate update"
// @Success 200 {object} dto.SetRateResponse
// @Failure 400 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /rates [put]
func (h *RateHandler) SetRate(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	var req dto.SetRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid set rate request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	baseRow, counterRow, err := h.rateService.SetRate(c.Request.Context(), req)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.SetRateResponse{
		Base:    dto.ToRateRowResponse(baseRow),
		Counter: dto.ToRateRowResponse(counterRow),
	})
}
