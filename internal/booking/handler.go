package booking

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"
	"tripmarket/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service Service
}

func NewHandler(service Service) *Handler {
	return &Handler{service: service}
}

type CreateBookingRequest struct {
	TourID       int    `json:"tourId" binding:"required"`
	CustomerName string `json:"customer" binding:"required"`
	TotalAmount  int64  `json:"totalAmount" binding:"required"`
	Currency     string `json:"currency"`
	LeadPaxName  string `json:"leadPaxName"`
	TravelDate   string `json:"travelDate"`
}

type ClaimPaymentRequest struct {
	PaymentAmount  int64   `json:"paymentAmount" binding:"required"`
	PaymentMethod  string  `json:"paymentMethod" binding:"required"`
	TransactionID  string  `json:"transactionId"`
	RateOfExchange float64 `json:"rateOfExchange"`
	AgentID        int     `json:"agentId" binding:"required"`
	Currency       string  `json:"currency"`
	LeadPaxName    string  `json:"leadPaxName"`
	TravelDate     string  `json:"travelDate"`
	ClaimDate      string  `json:"claimDate"`
}

type BookingDetailResponse struct {
	Booking        *Booking        `json:"booking"`
	PaymentDetails []PaymentDetail `json:"paymentDetails"`
}

func bookingIDParam(c *gin.Context) (int, bool) {
	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil || id <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid booking ID")
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

// CreateBooking godoc
// @Summary      Create booking
// @Description  Creates a confirmed booking. Agents own their bookings; customer bookings have no agent.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        request  body      CreateBookingRequest  true  "Booking data"
// @Success      201      {object}  api.Response
// @Failure      400      {object}  api.ErrorResponse
// @Router       /bookings [post]
func (h *Handler) CreateBooking(c *gin.Context) {
	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		api.Error(c, http.StatusBadRequest, err.Error())
		return
	}

	travelDate, err := parseDate(req.TravelDate)
	if err != nil {
		api.Error(c, http.StatusBadRequest, "travelDate must be YYYY-MM-DD")
		return
	}

	in := CreateBookingInput{
		TourID:       req.TourID,
		CustomerName: req.CustomerName,
		TotalCents:   req.TotalAmount,
		Currency:     req.Currency,
		LeadPaxName:  req.LeadPaxName,
		TravelDate:   travelDate,
	}
	if in.Currency == "" {
		in.Currency = "INR"
	}

	if role, _ := auth.GetUserRole(c); role == auth.RoleAgent {
		if agentID, ok := auth.GetUserID(c); ok {
			in.AgentID = &agentID
		}
	}

	b, err := h.service.CreateBooking(c.Request.Context(), in)
	if err != nil {
		if errors.Is(err, ErrInvalidTotal) {
			api.Error(c, http.StatusBadRequest, err.Error())
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to create booking")
		return
	}

	api.Created(c, b)
}

// GetBooking godoc
// @Summary      Get booking
// @Description  Returns the booking with its ordered payment details.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.Response
// @Failure      404        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID} [get]
func (h *Handler) GetBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	b, details, err := h.service.GetBooking(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, ErrBookingNotFound) {
			api.Error(c, http.StatusNotFound, "Booking not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to load booking")
		return
	}

	if role, _ := auth.GetUserRole(c); role == auth.RoleAgent {
		agentID, _ := auth.GetUserID(c)
		if b.AgentID == nil || *b.AgentID != agentID {
			api.Error(c, http.StatusForbidden, "You can only view your own bookings")
			return
		}
	}

	api.OK(c, BookingDetailResponse{Booking: b, PaymentDetails: details})
}

// ListBookings godoc
// @Summary      List bookings
// @Description  Admins see all bookings with filters; agents see their own.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        page            query     int     false  "Page number"
// @Param        limit           query     int     false  "Page size"
// @Param        paymentStatus   query     string  false  "Filter by payment status"
// @Param        bookingStatus   query     string  false  "Filter by booking status"
// @Success      200             {object}  api.Response
// @Router       /bookings [get]
func (h *Handler) ListBookings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))

	filter := ListFilter{
		PaymentStatus: c.Query("paymentStatus"),
		BookingStatus: c.Query("bookingStatus"),
	}

	if role, _ := auth.GetUserRole(c); role == auth.RoleAgent {
		agentID, _ := auth.GetUserID(c)
		filter.AgentID = &agentID
	} else if agentQuery := c.Query("agent"); agentQuery != "" {
		if agentID, err := strconv.Atoi(agentQuery); err == nil {
			filter.AgentID = &agentID
		}
	}

	bookings, total, err := h.service.ListBookings(c.Request.Context(), filter, page, limit)
	if err != nil {
		api.Error(c, http.StatusInternalServerError, "Failed to fetch bookings")
		return
	}

	api.Paginated(c, bookings, api.NewPagination(page, limit, total))
}

// CancelBooking godoc
// @Summary      Cancel booking
// @Description  Marks the booking cancelled. Cancelled bookings refuse claims.
// @Tags         bookings
// @Security     BearerAuth
// @Produce      json
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {object}  api.Response
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Router       /bookings/{bookingID}/cancel [post]
func (h *Handler) CancelBooking(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	err := h.service.CancelBooking(c.Request.Context(), id)
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			api.Error(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, ErrAlreadyCancelled):
			api.Error(c, http.StatusConflict, "Booking already cancelled")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to cancel booking")
		}
		return
	}

	api.OKMessage(c, nil, "Booking cancelled successfully")
}

// ClaimPayment godoc
// @Summary      Claim payment against booking
// @Description  Posts a partial payment claim: debits the agent wallet and updates the booking's claimed amount and payment status as one unit. Admin only.
// @Tags         bookings
// @Security     BearerAuth
// @Accept       json
// @Produce      json
// @Param        bookingID  path      int                  true  "Booking ID"
// @Param        request    body      ClaimPaymentRequest  true  "Claim data"
// @Success      200        {object}  api.Response
// @Failure      400        {object}  api.ErrorResponse
// @Failure      404        {object}  api.ErrorResponse
// @Failure      409        {object}  api.ErrorResponse
// @Failure      422        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/claim-payment [post]
func (h *Handler) ClaimPayment(c *gin.Context) {
	id, ok := bookingIDParam(c)
	if !ok {
		return
	}

	var req ClaimPaymentRequest
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

	snapshot, err := h.service.ClaimPayment(c.Request.Context(), id, ClaimPaymentInput{
		AgentID:        req.AgentID,
		AmountCents:    req.PaymentAmount,
		Currency:       req.Currency,
		Method:         req.PaymentMethod,
		TransactionID:  req.TransactionID,
		RateOfExchange: req.RateOfExchange,
		LeadPaxName:    req.LeadPaxName,
		TravelDate:     travelDate,
		ClaimDate:      claimDate,
	})
	if err != nil {
		switch {
		case errors.Is(err, ErrBookingNotFound):
			api.Error(c, http.StatusNotFound, "Booking not found")
		case errors.Is(err, wallet.ErrWalletNotFound):
			api.Error(c, http.StatusNotFound, "Agent has no wallet")
		case errors.Is(err, ErrBookingCancelled):
			api.Error(c, http.StatusConflict, "Cannot claim payment against a cancelled booking")
		case errors.Is(err, ErrDuplicateTransaction):
			api.Error(c, http.StatusConflict, "Transaction ID already used")
		case errors.Is(err, ErrInvalidAmount), errors.Is(err, ErrInvalidExchangeRate), errors.Is(err, ErrMissingAgent):
			api.Error(c, http.StatusBadRequest, err.Error())
		case errors.Is(err, ErrAmountExceedsRemaining):
			api.Error(c, http.StatusUnprocessableEntity, "Claim amount exceeds the booking's remaining balance")
		case errors.Is(err, wallet.ErrCreditLimitExceeded):
			api.Error(c, http.StatusUnprocessableEntity, "Claim would exceed the agent's credit limit")
		default:
			api.Error(c, http.StatusInternalServerError, "Failed to post claim payment")
		}
		return
	}

	api.OKMessage(c, gin.H{"paymentDetails": snapshot}, "Payment claimed successfully")
}
