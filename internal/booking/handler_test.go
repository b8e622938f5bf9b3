package booking

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"tripmarket/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func setupHandlerRouter(repo Repository, role string) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo, nil))

	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", 1)
		c.Set("user_role", role)
		c.Next()
	})
	r.POST("/bookings/:bookingID/claim-payment", h.ClaimPayment)
	r.POST("/bookings/:bookingID/cancel", h.CancelBooking)
	return r
}

func postJSON(r *gin.Engine, path string, body interface{}) *httptest.ResponseRecorder {
	raw, _ := json.Marshal(body)
	req := httptest.NewRequest(http.MethodPost, path, bytes.NewReader(raw))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestClaimPaymentHandler_Success(t *testing.T) {
	repo := new(MockRepo)
	after := &Booking{ID: 1, TotalCents: 100000, ClaimedCents: 40000, PaymentStatus: PaymentPartiallyPaid}
	repo.On("ClaimPayment", mock.Anything, 1, mock.Anything, int64(40000)).
		Return(after, &PaymentDetail{TransactionID: "TXN-1"}, nil).Once()

	w := postJSON(setupHandlerRouter(repo, auth.RoleAdmin), "/bookings/1/claim-payment", ClaimPaymentRequest{
		PaymentAmount:  40000,
		PaymentMethod:  "bank",
		TransactionID:  "TXN-1",
		RateOfExchange: 1,
		AgentID:        5,
	})
	require.Equal(t, http.StatusOK, w.Code)

	var resp struct {
		Success bool `json:"success"`
		Data    struct {
			PaymentDetails PaymentSnapshot `json:"paymentDetails"`
		} `json:"data"`
		Message string `json:"message"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	assert.Equal(t, int64(40000), resp.Data.PaymentDetails.ClaimedAmount)
	assert.Equal(t, int64(60000), resp.Data.PaymentDetails.RemainingAmount)
	assert.Equal(t, PaymentPartiallyPaid, resp.Data.PaymentDetails.PaymentStatus)
	repo.AssertExpectations(t)
}

func TestClaimPaymentHandler_DefaultsRateToOne(t *testing.T) {
	repo := new(MockRepo)
	after := &Booking{ID: 1, TotalCents: 100000, ClaimedCents: 100, PaymentStatus: PaymentPartiallyPaid}
	repo.On("ClaimPayment", mock.Anything, 1, mock.MatchedBy(func(in ClaimPaymentInput) bool {
		return in.RateOfExchange == 1
	}), int64(100)).Return(after, &PaymentDetail{}, nil).Once()

	w := postJSON(setupHandlerRouter(repo, auth.RoleAdmin), "/bookings/1/claim-payment", ClaimPaymentRequest{
		PaymentAmount: 100,
		PaymentMethod: "cash",
		AgentID:       5,
	})
	assert.Equal(t, http.StatusOK, w.Code)
	repo.AssertExpectations(t)
}

func TestClaimPaymentHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		repoErr    error
		wantStatus int
	}{
		{name: "booking missing", repoErr: ErrBookingNotFound, wantStatus: http.StatusNotFound},
		{name: "cancelled booking", repoErr: ErrBookingCancelled, wantStatus: http.StatusConflict},
		{name: "duplicate txn", repoErr: ErrDuplicateTransaction, wantStatus: http.StatusConflict},
		{name: "overclaim", repoErr: ErrAmountExceedsRemaining, wantStatus: http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(MockRepo)
			repo.On("ClaimPayment", mock.Anything, 1, mock.Anything, mock.Anything).
				Return(nil, nil, tt.repoErr).Once()

			w := postJSON(setupHandlerRouter(repo, auth.RoleAdmin), "/bookings/1/claim-payment", ClaimPaymentRequest{
				PaymentAmount:  100,
				PaymentMethod:  "bank",
				TransactionID:  "TXN-X",
				RateOfExchange: 1,
				AgentID:        5,
			})
			assert.Equal(t, tt.wantStatus, w.Code)

			var resp struct {
				Success bool `json:"success"`
			}
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
			assert.False(t, resp.Success)
		})
	}
}

func TestClaimPaymentHandler_BadRequest(t *testing.T) {
	repo := new(MockRepo)
	r := setupHandlerRouter(repo, auth.RoleAdmin)

	// missing required fields
	w := postJSON(r, "/bookings/1/claim-payment", gin.H{"paymentAmount": 100})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	// bad booking id
	w = postJSON(r, "/bookings/abc/claim-payment", ClaimPaymentRequest{
		PaymentAmount: 100, PaymentMethod: "bank", AgentID: 5,
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	repo.AssertNotCalled(t, "ClaimPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}
