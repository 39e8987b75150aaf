package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/cargoseal/cargoseal_backend/internal/core/ports/services"
	"github.com/cargoseal/cargoseal_backend/internal/dto"
	"github.com/cargoseal/cargoseal_backend/internal/middleware"
)

// ledgerHandler handles HTTP requests related to coin movements.
type ledgerHandler struct {
	ledgerService portssvc.LedgerSvcFacade
}

// newLedgerHandler creates a new ledgerHandler.
func newLedgerHandler(ls portssvc.LedgerSvcFacade) *ledgerHandler {
	return &ledgerHandler{ledgerService: ls}
}

// registerLedgerRoutes registers routes related to the coin ledger.
func registerLedgerRoutes(rg *gin.RouterGroup, ledgerService portssvc.LedgerSvcFacade) {
	h := newLedgerHandler(ledgerService)

	ledger := rg.Group("/ledger")
	{
		ledger.POST("/transfer", h.transferCoins)
		ledger.POST("/allocate", h.allocateCoins)
		ledger.GET("/transactions/:id", h.getTransaction)
		ledger.GET("/transactions", h.listTransactions)
	}
}

// transferCoins godoc
// @Summary Transfer coins
// @Description Moves coins from the caller's account to another account
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   transfer body dto.TransferRequest true "Transfer details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount or self transfer"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 404 {object} ErrorResponse "Recipient not found"
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse "Failed to transfer coins"
// @Security BearerAuth
// @Router /ledger/transfer [post]
func (h *ledgerHandler) transferCoins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.TransferRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for transferCoins", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.TransferCoins(c.Request.Context(), actorID, req)
	if err != nil {
		logger.Warn("Failed to transfer coins", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to transfer coins")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// allocateCoins godoc
// @Summary Allocate coins
// @Description Privileged funding path: SuperAdmin to Admin, or Admin within its subtree
// @Tags ledger
// @Accept  json
// @Produce  json
// @Param   allocation body dto.AllocateRequest true "Allocation details"
// @Success 201 {object} dto.TransactionResponse
// @Failure 400 {object} ErrorResponse "Invalid amount"
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Recipient outside the caller's allocation scope"
// @Failure 404 {object} ErrorResponse "Recipient not found"
// @Failure 422 {object} ErrorResponse "Insufficient balance"
// @Failure 500 {object} ErrorResponse "Failed to allocate coins"
// @Security BearerAuth
// @Router /ledger/allocate [post]
func (h *ledgerHandler) allocateCoins(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var req dto.AllocateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		logger.Warn("Failed to bind JSON for allocateCoins", slog.String("error", err.Error()))
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid request format: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.AllocateCoins(c.Request.Context(), actorID, req)
	if err != nil {
		logger.Warn("Failed to allocate coins", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to allocate coins")})
		return
	}

	c.JSON(http.StatusCreated, dto.ToTransactionResponse(txn))
}

// getTransaction godoc
// @Summary Get a transaction by ID
// @Description Retrieves one coin transaction the caller may see
// @Tags ledger
// @Produce  json
// @Param   id path string true "Transaction ID"
// @Success 200 {object} dto.TransactionResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Transaction outside the caller's scope"
// @Failure 404 {object} ErrorResponse "Transaction not found"
// @Failure 500 {object} ErrorResponse "Failed to retrieve transaction"
// @Security BearerAuth
// @Router /ledger/transactions/{id} [get]
func (h *ledgerHandler) getTransaction(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	transactionID := c.Param("id")

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	txn, err := h.ledgerService.GetTransaction(c.Request.Context(), actorID, transactionID)
	if err != nil {
		logger.Warn("Failed to get transaction", slog.String("transaction_id", transactionID), slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to retrieve transaction")})
		return
	}

	c.JSON(http.StatusOK, dto.ToTransactionResponse(txn))
}

// listTransactions godoc
// @Summary List transactions
// @Description Retrieves an actor-scoped, paginated list of coin transactions
// @Tags ledger
// @Produce  json
// @Param   accountID query string false "Filter by account (either side)"
// @Param   reason query string false "Filter by reason"
// @Param   fromDate query string false "Filter from date (YYYY-MM-DD)"
// @Param   toDate query string false "Filter to date (YYYY-MM-DD)"
// @Param   page query int false "Page number"
// @Param   limit query int false "Page size"
// @Success 200 {object} dto.ListTransactionsResponse
// @Failure 401 {object} ErrorResponse "Unauthorized"
// @Failure 403 {object} ErrorResponse "Requested account outside the caller's scope"
// @Failure 500 {object} ErrorResponse "Failed to list transactions"
// @Security BearerAuth
// @Router /ledger/transactions [get]
func (h *ledgerHandler) listTransactions(c *gin.Context) {
	logger := middleware.GetLoggerFromCtx(c.Request.Context())
	var params dto.ListTransactionsParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "Invalid query parameters: " + err.Error()})
		return
	}

	actorID, ok := middleware.GetUserIDFromContext(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, ErrorResponse{Error: "Unauthorized"})
		return
	}

	resp, err := h.ledgerService.ListTransactions(c.Request.Context(), actorID, params)
	if err != nil {
		logger.Error("Failed to list transactions", slog.String("error", err.Error()))
		c.JSON(statusCodeForError(err), ErrorResponse{Error: messageForError(err, "Failed to list transactions")})
		return
	}

	c.JSON(http.StatusOK, resp)
}
