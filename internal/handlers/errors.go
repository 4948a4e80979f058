package handlers

import (
	"context"
	"errors"
	"log/slog"
	"net/http"

	"github.com/arvault/exchange-service/internal/apperrors"
	"github.com/gin-gonic/gin"
)

// respondError maps service errors onto HTTP status codes and writes a JSON
// error body. Unrecognized errors are reported as 500 without leaking the
// underlying message.
func respondError(c *gin.Context, logger *slog.Logger, err error) {
	switch {
	case errors.Is(err, apperrors.ErrValidation):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrAccountNotFound),
		errors.Is(err, apperrors.ErrRateNotFound),
		errors.Is(err, apperrors.ErrPairNotQuoted):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrCurrencyUnknown):
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": err.Error()})
	case errors.Is(err, apperrors.ErrDuplicateCurrency):
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
	case errors.Is(err, context.DeadlineExceeded):
		logger.Error("Request deadline exceeded", slog.String("error", err.Error()))
		c.JSON(http.StatusGatewayTimeout, gin.H{"error": "operation timed out"})
	default:
		logger.Error("Unhandled service error", slog.String("error", err.Error()))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "internal server error"})
	}
}
