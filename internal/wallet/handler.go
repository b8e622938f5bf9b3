package wallet

import (
	"errors"
	"net/http"
	"strconv"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"
	"tripmarket/internal/metrics"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
)

type Handler struct {
	repo Repository
}

func NewHandler(db *sqlx.DB) *Handler {
	return &Handler{repo: NewRepository(db)}
}

func NewHandlerWithRepository(repo Repository) *Handler {
	return &Handler{repo: repo}
}

type ManualTransactionRequest struct {
	Type        string `json:"type" binding:"required"`
	Amount      int64  `json:"amount" binding:"required"`
	Description string `json:"description"`
	Reference   string `json:"reference"`
}

type CreditLimitRequest struct {
	CreditLimit *int64 `json:"creditLimit" binding:"required"`
}

func agentIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("agentID"))
	if err != nil || id <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid agent ID")
		return 0, false
	}
	return id, true
}

// GetWallet godoc
// @Summary      Get agent wallet
// @Description  Returns current balance and credit limit for the agent.
// @Tags         wallets
// @Security     BearerAuth
// @Produce      json
// @Param        agentID  path      int  true  "Agent ID"
// @Success      200      {object}  api.Response
// @Failure      404      {object}  api.ErrorResponse
// @Router       /wallets/{agentID} [get]
func (h *Handler) GetWallet(c *gin.Context) {
	agentID, ok := agentIDParam(c)
	if !ok {
		return
	}

	if !auth.IsSelfOrAdmin(c, agentID) {
		api.Error(c, http.StatusForbidden, "You can only view your own wallet")
		return
	}

	w, err := h.repo.GetWalletByAgent(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			api.Error(c, http.StatusNotFound, "Wallet not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load wallet")
		return
	}

	api.OK(c, w)
}

// GetMyWallet returns the wallet of the authenticated agent.
func (h *Handler) GetMyWallet(c *gin.Context) {
	agentID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}

	w, err := h.repo.GetWalletByAgent(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			api.Error(c, http.StatusNotFound, "Wallet not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load wallet")
		return
	}

	api.OK(c, w)
}

// ListTransactions godoc
// @Summary      List wallet transactions
// @Description  Returns a page of the agent's ledger, newest first.
// @Tags         wallets
// @Security     BearerAuth
// @Produce      json
// @Param        agentID  path      int  true   "Agent ID"
// @Param        page     query     int  false  "Page number (1-based)"
// @Param        limit    query     int  false  "Page size"
// @Success      200      {object}  api.Response
// @Failure      404      {object}  api.ErrorResponse
// @Router       /wallets/{agentID}/transactions [get]
func (h *Handler) ListTransactions(c *gin.Context) {
	agentID, ok := agentIDParam(c)
	if !ok {
		return
	}

	if !auth.IsSelfOrAdmin(c, agentID) {
		api.Error(c, http.StatusForbidden, "You can only view your own transactions")
		return
	}

	h.listTransactionsFor(c, agentID)
}

// ListMyTransactions returns the ledger of the authenticated agent.
func (h *Handler) ListMyTransactions(c *gin.Context) {
	agentID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "User not authenticated")
		return
	}
	h.listTransactionsFor(c, agentID)
}

func (h *Handler) listTransactionsFor(c *gin.Context, agentID int) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	txs, total, err := h.repo.ListTransactions(c.Request.Context(), agentID, limit, (page-1)*limit)
	if err != nil {
		if errors.Is(err, ErrWalletNotFound) {
			api.Error(c, http.StatusNotFound, "Wallet not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load transactions")
		return
	}

	api.Paginated(c, txs, api.NewPagination(page, limit, total))
}

// UpdateCreditLimit godoc
// @Summary      Update agent credit limit
// @Description  Sets the wallet's credit limit. Admin only. Does not touch the balance.
// @Tags         wallets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        agentID  path      int                 true  "Agent ID"
// @Param        request  body      CreditLimitRequest  true  "New credit limit in minor units"
// @Success      200      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/wallets/{agentID}/credit-limit [put]
func (h *Handler) UpdateCreditLimit(c *gin.Context) {
	agentID, ok := agentIDParam(c)
	if !ok {
		return
	}

	var req CreditLimitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, "creditLimit is required")
		return
	}

	w, err := h.repo.UpdateCreditLimit(c.Request.Context(), agentID, *req.CreditLimit)
	if err != nil {
		switch {
		case errors.Is(err, ErrNegativeCreditLimit):
			api.Error(c, http.StatusBadRequest, "Credit limit cannot be negative")
		case errors.Is(err, ErrWalletNotFound):
			api.Error(c, http.StatusNotFound, "Wallet not found")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to update credit limit")
		}
		return
	}

	api.OKMessage(c, w, "Credit limit updated")
}

// PostManualTransaction godoc
// @Summary      Post manual wallet transaction
// @Description  Direct ledger entry outside the claim flow. Admin only.
// @Tags         wallets
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        agentID  path      int                       true  "Agent ID"
// @Param        request  body      ManualTransactionRequest  true  "Ledger entry"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      422      {object}  api.ErrorResponse
// @Router       /admin/wallets/{agentID}/transaction [post]
func (h *Handler) PostManualTransaction(c *gin.Context) {
	agentID, ok := agentIDParam(c)
	if !ok {
		return
	}

	var req ManualTransactionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	txn, err := h.repo.AddTransaction(c.Request.Context(), agentID, Entry{
		Type:        req.Type,
		AmountCents: req.Amount,
		Description: req.Description,
		Reference:   req.Reference,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidType):
			api.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrWalletNotFound):
			api.Error(c, http.StatusNotFound, "Wallet not found")
		case errors.Is(err, ErrCreditLimitExceeded):
			api.Error(c, http.StatusUnprocessableEntity, "Transaction would exceed the agent's credit limit")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to post transaction")
		}
		return
	}

	metrics.RecordWalletTransaction(txn.Type)
	api.Created(c, txn)
}
