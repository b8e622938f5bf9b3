package booking

import "time"

const (
	StatusConfirmed = "confirmed"
	StatusCancelled = "cancelled"
)

const (
	PaymentUnpaid        = "unpaid"
	PaymentPartiallyPaid = "partially_paid"
	PaymentPaid          = "paid"
	PaymentRefunded      = "refunded"
)

// Booking is never deleted; cancellation flips BookingStatus. ClaimedCents
// and PaymentStatus are mutated only by the claim-payment transaction.
type Booking struct {
	ID            int        `db:"id" json:"id"`
	TourID        int        `db:"tour_id" json:"tour_id"`
	CustomerName  string     `db:"customer_name" json:"customer"`
	AgentID       *int       `db:"agent_id" json:"agent,omitempty"`
	TotalCents    int64      `db:"total_cents" json:"totalAmount"`
	ClaimedCents  int64      `db:"claimed_cents" json:"claimedAmount"`
	Currency      string     `db:"currency" json:"currency"`
	PaymentStatus string     `db:"payment_status" json:"paymentStatus"`
	BookingStatus string     `db:"booking_status" json:"bookingStatus"`
	LeadPaxName   string     `db:"lead_pax_name" json:"leadPaxName"`
	TravelDate    *time.Time `db:"travel_date" json:"travelDate,omitempty"`
	CreatedAt     time.Time  `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time  `db:"updated_at" json:"updated_at"`
}

// PaymentDetail is one entry of the booking's ordered claim list. Rows from
// the direct-post path are written as "posted"; money has already moved.
type PaymentDetail struct {
	ID             int       `db:"id" json:"id"`
	BookingID      int       `db:"booking_id" json:"booking_id"`
	AgentID        int       `db:"agent_id" json:"agent_id"`
	TransactionID  string    `db:"transaction_id" json:"transactionId"`
	Method         string    `db:"method" json:"method"`
	AmountCents    int64     `db:"amount_cents" json:"amount"`
	Currency       string    `db:"currency" json:"currency"`
	RateOfExchange float64   `db:"rate_of_exchange" json:"rateOfExchange"`
	ClaimedCents   int64     `db:"claimed_cents" json:"claimedAmount"`
	Status         string    `db:"status" json:"status"`
	ClaimDate      time.Time `db:"claim_date" json:"date"`
	CreatedAt      time.Time `db:"created_at" json:"created_at"`
}

// RemainingCents is the amount still claimable against the booking.
func (b *Booking) RemainingCents() int64 {
	remaining := b.TotalCents - b.ClaimedCents
	if remaining < 0 {
		return 0
	}
	return remaining
}

// PaymentStatusFor derives the payment status from the claimed/total pair.
// It is the only place the invariant lives.
func PaymentStatusFor(claimedCents, totalCents int64) string {
	switch {
	case totalCents > 0 && claimedCents >= totalCents:
		return PaymentPaid
	case claimedCents > 0:
		return PaymentPartiallyPaid
	default:
		return PaymentUnpaid
	}
}

// ClaimPaymentInput carries one claim submission against a booking.
// AmountCents is in the claim currency; the rate converts it into the
// wallet's settlement currency.
type ClaimPaymentInput struct {
	AgentID        int
	AmountCents    int64
	Currency       string
	Method         string
	TransactionID  string
	RateOfExchange float64
	LeadPaxName    string
	TravelDate     *time.Time
	ClaimDate      time.Time
}

// PaymentSnapshot is returned to the caller after a successful posting.
type PaymentSnapshot struct {
	ClaimedAmount   int64  `json:"claimedAmount"`
	AmountClaimed   int64  `json:"amountClaimed"`
	RemainingAmount int64  `json:"remainingAmount"`
	TotalAmount     int64  `json:"totalAmount"`
	PaymentStatus   string `json:"paymentStatus"`
	IsFullyPaid     bool   `json:"isFullyPaid"`
}

type CreateBookingInput struct {
	TourID       int
	CustomerName string
	AgentID      *int
	TotalCents   int64
	Currency     string
	LeadPaxName  string
	TravelDate   *time.Time
}

// ListFilter narrows admin/agent booking lists.
type ListFilter struct {
	AgentID       *int
	PaymentStatus string
	BookingStatus string
}
