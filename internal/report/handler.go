package report

import (
	"errors"
	"net/http"
	"strconv"

	"tripmarket/internal/api"
	"tripmarket/internal/auth"
	"tripmarket/internal/booking"
	"tripmarket/internal/wallet"

	"github.com/gin-gonic/gin"
)

type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

func servePDF(c *gin.Context, data []byte, filename string) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

// BookingReceipt godoc
// @Summary      Booking payment receipt PDF
// @Tags         reports
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        bookingID  path      int  true  "Booking ID"
// @Success      200        {file}    file
// @Failure      404        {object}  api.ErrorResponse
// @Router       /admin/bookings/{bookingID}/receipt [get]
func (h *Handler) BookingReceipt(c *gin.Context) {
	id, err := strconv.Atoi(c.Param("bookingID"))
	if err != nil || id <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid booking ID")
		return
	}

	data, filename, err := h.service.BookingReceipt(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrBookingNotFound) {
			api.Error(c, http.StatusNotFound, "Booking not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to generate receipt")
		return
	}

	servePDF(c, data, filename)
}

// WalletStatement godoc
// @Summary      Wallet statement PDF
// @Description  Ledger statement for the agent's wallet. Admin or the owning agent.
// @Tags         reports
// @Security     BearerAuth
// @Produce      application/pdf
// @Param        agentID  path      int  true  "Agent ID"
// @Success      200      {file}    file
// @Failure      404      {object}  api.ErrorResponse
// @Router       /admin/wallets/{agentID}/statement [get]
func (h *Handler) WalletStatement(c *gin.Context) {
	agentID, err := strconv.Atoi(c.Param("agentID"))
	if err != nil || agentID <= 0 {
		api.Error(c, http.StatusBadRequest, "Invalid agent ID")
		return
	}

	if !auth.IsSelfOrAdmin(c, agentID) {
		api.Error(c, http.StatusForbidden, "You can only view your own statement")
		return
	}

	data, filename, err := h.service.WalletStatement(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, wallet.ErrWalletNotFound) {
			api.Error(c, http.StatusNotFound, "Wallet not found")
			return
		}
		api.Error(c, http.StatusInternalServerError, "Failed to generate statement")
		return
	}

	servePDF(c, data, filename)
}
