package claim

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type SubmitClaimRequest struct {
	BookingID      int     `json:"bookingId" binding:"required"`
	Amount         int64   `json:"amount" binding:"required"`
	Currency       string  `json:"currency"`
	RateOfExchange float64 `json:"rateOfExchange"`
	TransactionID  string  `json:"transactionId"`
	LeadPaxName    string  `json:"leadPaxName"`
	TravelDate     string  `json:"travelDate"`
	ClaimDate      string  `json:"claimDate"`
}

type ReviewClaimRequest struct {
	Status string `json:"status" binding:"required"`
	Notes  string `json:"notes"`
}

func claimIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("claimID"))
	if err != nil || id <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid claim ID")
		return 0, false
	}
	return id, true
}

func parseDate(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return nil, err
	}
	return &t, nil
}

// SubmitClaim godoc
// @Summary      Submit payment claim
// @Description  Creates a pending claim for admin review. Submitting does not move money.
// @Tags         claims
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      SubmitClaimRequest  true  "Claim data"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /claims [post]
func (h *Handler) SubmitClaim(c *gin.Context) {
	agentID, ok := auth.GetUserID(c)
	if !ok {
		api.Error(c, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req SubmitClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	travelDate, err := parseDate(req.TravelDate)
	if err != nil {
		api.Error(c, http.StatusBadRequest, "travelDate must be YYYY-MM-DD")
		return
	}

	claimDate := time.Now()
	if req.ClaimDate != "" {
		parsed, err := time.Parse("2006-01-02", req.ClaimDate)
		if err != nil {
			api.Error(c, http.StatusBadRequest, "claimDate must be YYYY-MM-DD")
			return
		}
		claimDate = parsed
	}

	if req.RateOfExchange == 0 {
		req.RateOfExchange = 1
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}

	claim, err := h.service.Submit(c.Request.Context(), SubmitInput{
		BookingID:      req.BookingID,
		AgentID:        agentID,
		TransactionID:  req.TransactionID,
		AmountCents:    req.Amount,
		Currency:       req.Currency,
		RateOfExchange: req.RateOfExchange,
		LeadPaxName:    req.LeadPaxName,
		TravelDate:     travelDate,
		ClaimDate:      claimDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidExchangeRate):
			api.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrDuplicateTransaction):
			api.Error(c, http.StatusConflict, "Transaction ID already used")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to submit claim")
		}
		return
	}

	api.Created(c, claim)
}

// ListClaims godoc
// @Summary      List claims
// @Description  Admins see all claims with filters; agents see their own.
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        page       query     int     false  "Page number"
// @Param        limit      query     int     false  "Page size"
// @Param        status     query     string  false  "Filter by status"
// @Param        startDate  query     string  false  "Claims on or after (YYYY-MM-DD)"
// @Param        endDate    query     string  false  "Claims on or before (YYYY-MM-DD)"
// @Success      200        {object}  api.Response
// @Router       /claims [get]
func (h *Handler) ListClaims(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := Filter{Status: c.Query("status")}

	from, err := parseDate(c.Query("startDate"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, "startDate must be YYYY-MM-DD")
		return
	}
	to, err := parseDate(c.Query("endDate"))
	if err != nil {
		api.Error(c, http.StatusBadRequest, "endDate must be YYYY-MM-DD")
		return
	}
	filter.From = from
	filter.To = to

	if role, _ := auth.GetUserRole(c); role == auth.RoleAgent {
		agentID, _ := auth.GetUserID(c)
		filter.AgentID = &agentID
	} else if agentQuery := c.Query("agent"); agentQuery != "" {
		if agentID, err := strconv.Atoi(agentQuery); err == nil {
			filter.AgentID = &agentID
		}
	}

	claims, total, err := h.service.List(c.Request.Context(), filter, page, limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to fetch claims")
		return
	}

	api.Paginated(c, claims, api.NewPagination(page, limit, total))
}

// GetClaim godoc
// @Summary      Get claim
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Param        claimID  path      int  true  "Claim ID"
// @Success      200      {object}  api.Response
// @Failure      404      {object}  api.ErrorResponse
// @Router       /claims/{claimID} [get]
func (h *Handler) GetClaim(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	claim, err := h.service.GetClaim(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrClaimNotFound) {
			api.Error(c, http.StatusNotFound, "Claim not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load claim")
		return
	}

	if role, _ := auth.GetUserRole(c); role == auth.RoleAgent {
		agentID, _ := auth.GetUserID(c)
		if claim.AgentID != agentID {
			api.Error(c, http.StatusForbidden, "You can only view your own claims")
			return
		}
	}

	api.OK(c, claim)
}

// ReviewClaim godoc
// @Summary      Review claim
// @Description  Approves or rejects a pending claim. Rejection requires notes. Terminal either way; no money moves.
// @Tags         claims
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        claimID  path      int                 true  "Claim ID"
// @Param        request  body      ReviewClaimRequest  true  "Review decision"
// @Success      200      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Failure      404      {object}  api.ErrorResponse
// @Failure      409      {object}  api.ErrorResponse
// @Router       /admin/claims/{claimID}/status [put]
func (h *Handler) ReviewClaim(c *gin.Context) {
	id, ok := claimIDParam(c)
	if !ok {
		return
	}

	var req ReviewClaimRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	var (
		claim *Claim
		err   error
	)
	switch req.Status {
	case StatusApproved:
		claim, err = h.service.Approve(c.Request.Context(), id, req.Notes)
	case StatusRejected:
		claim, err = h.service.Reject(c.Request.Context(), id, req.Notes)
	default:
		api.Error(c, http.StatusBadRequest, ErrInvalidStatus.Error())
		return
	}

	if err != nil {
		switch {
		case errors.Is(err, ErrNotesRequired):
			api.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrClaimNotFound):
			api.Error(c, http.StatusNotFound, "Claim not found")
		case errors.Is(err, ErrNotPending):
			api.Error(c, http.StatusConflict, "Claim has already been reviewed")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to review claim")
		}
		return
	}

	api.OKMessage(c, claim, "Claim "+claim.Status)
}

// ClaimStats godoc
// @Summary      Claim statistics
// @Description  Counts by status plus the approved total, recomputed per request.
// @Tags         claims
// @Security     BearerAuth
// @Produce      json
// @Success      200  {object}  api.Response
// @Router       /admin/claims/stats [get]
func (h *Handler) ClaimStats(c *gin.Context) {
	stats, err := h.service.GetStats(c.Request.Context())
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to compute claim stats")
		return
	}
	api.OK(c, stats)
}
