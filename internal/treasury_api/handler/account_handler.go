package handler

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/treasury-dashboard/internal/domain/treasury"
	"github.com/treasury-dashboard/internal/treasury_api/service"
)

// AccountHandler handles HTTP requests for bank accounts and the cash position
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// List returns accounts filtered by currency and bank name
func (h *AccountHandler) List(c *gin.Context) {
	var filter AccountFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		RespondBadRequest(c, "Invalid query: "+err.Error())
		return
	}

	accounts := h.accountService.ListAccounts(filter.Currency, filter.Bank)
	RespondWithMeta(c, http.StatusOK, accounts, &MetaInfo{TotalItems: len(accounts)})
}

// Transactions returns the transactions of one account, 404 if the account doesn't exist
func (h *AccountHandler) Transactions(c *gin.Context) {
	accountID := c.Param("id")
	transactions, err := h.accountService.AccountTransactions(accountID)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to get account transactions", err, "account_id", accountID)
		return
	}
	RespondWithMeta(c, http.StatusOK, transactions, &MetaInfo{TotalItems: len(transactions)})
}

// UpdateBalance sets the ledger balance; the available balance follows with the hold applied
func (h *AccountHandler) UpdateBalance(c *gin.Context) {
	accountID := c.Param("id")
	var req UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	account, err := h.accountService.UpdateBalance(c.Request.Context(), accountID, *req.LedgerBalance)
	if err != nil {
		RespondServiceError(c, h.logger, "Failed to update balance", err, "account_id", accountID)
		return
	}

	requestLogger(c, h.logger).Info("Bank balance updated",
		"account_id", account.ID,
		"ledger_balance", account.LedgerBalance.String(),
		"available_balance", account.AvailableBalance.String(),
	)
	RespondOK(c, account)
}

// CashPosition returns the converted total of all accounts
func (h *AccountHandler) CashPosition(c *gin.Context) {
	position := h.accountService.CashPosition()
	RespondOK(c, CashPositionResponse{
		CashPosition: position,
		Formatted:    treasury.FormatAmount(position.Total),
	})
}

// Distribution returns each account's share of the cash position
func (h *AccountHandler) Distribution(c *gin.Context) {
	RespondOK(c, h.accountService.BalanceDistribution())
}
