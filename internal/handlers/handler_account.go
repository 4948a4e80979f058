package handlers

import (
	"log/slog"
	"net/http"

	"github.com/arvault/exchange-service/internal/core/ports/services"
	"github.com/arvault/exchange-service/internal/dto"
	"github.com/arvault/exchange-service/internal/middleware"
	"github.com/gin-gonic/gin"
)

// AccountHandler exposes the internal account endpoints.
type AccountHandler struct {
	accountService services.AccountSvcFacade
}

// NewAccountHandler creates a new AccountHandler.
func NewAccountHandler(accountService services.AccountSvcFacade) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

// ListAccounts godoc
// @Summary List internal accounts
// @Description Returns every internal currency account with its current balance
// @Tags accounts
// @Produce json
// @Success 200 {array} dto.AccountResponse
// @Router /accounts [get]
func (h *AccountHandler) ListAccounts(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())

	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToListAccountResponse(accounts))
}

// GetAccountByID godoc
// @Summary Get an account by ID
// @Tags accounts
// @Produce json
// @Param accountID path string true "Account ID"
// @Success 200 {object} dto.AccountResponse
// @Failure 404 {object} map[string]string
// @Router /accounts/{accountID} [get]
func (h *AccountHandler) GetAccountByID(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	account, err := h.accountService.GetAccountByID(c.Request.Context(), accountID)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}

// SetBalance godoc
// @Summary Overwrite an account balance
// @Description Administrative override. Replaces the stored balance with the given value.
// @Tags accounts
// @Accept json
// @Produce json
// @Param accountID path string true "Account ID"
// @Param request body dto.SetBalanceRequest true "New balance"
// @Success 200 {object} dto.AccountResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /accounts/{accountID}/balance [put]
func (h *AccountHandler) SetBalance(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	accountID := c.Param("accountID")

	var req dto.SetBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Invalid set balance request", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	account, err := h.accountService.SetBalance(c.Request.Context(), accountID, req.Balance)
	if err != nil {
		respondError(c, logger, err)
		return
	}

	logger.Info("Account balance overwritten",
		slog.String("accountID", accountID),
		slog.String("balance", account.Balance.String()))
	c.JSON(http.StatusOK, dto.ToAccountResponse(account))
}
