package claim

import "time"

const (
	StatusPending  = "pending"
	StatusApproved = "approved"
	StatusRejected = "rejected"
)

// Claim is a reviewable payment claim submitted by an agent. It is a
// record-keeping entity: approving one does not move money — postings
// happen through the direct claim-payment flow on bookings.
type Claim struct {
	ID             int        `db:"id" json:"id"`
	BookingID      int        `db:"booking_id" json:"bookingId"`
	AgentID        int        `db:"agent_id" json:"agentId"`
	TransactionID  string     `db:"transaction_id" json:"transactionId"`
	AmountCents    int64      `db:"amount_cents" json:"amount"`
	Currency       string     `db:"currency" json:"currency"`
	RateOfExchange float64    `db:"rate_of_exchange" json:"rateOfExchange"`
	ClaimedCents   int64      `db:"claimed_cents" json:"claimedAmount"`
	LeadPaxName    string     `db:"lead_pax_name" json:"leadPaxName"`
	TravelDate     *time.Time `db:"travel_date" json:"travelDate,omitempty"`
	ClaimDate      time.Time  `db:"claim_date" json:"claimDate"`
	Status         string     `db:"status" json:"status"`
	ReviewNotes    string     `db:"review_notes" json:"notes,omitempty"`
	ReviewedAt     *time.Time `db:"reviewed_at" json:"reviewedAt,omitempty"`
	CreatedAt      time.Time  `db:"created_at" json:"created_at"`
}

type SubmitInput struct {
	BookingID      int
	AgentID        int
	TransactionID  string
	AmountCents    int64
	Currency       string
	RateOfExchange float64
	LeadPaxName    string
	TravelDate     *time.Time
	ClaimDate      time.Time
}

// Filter narrows claim list queries.
type Filter struct {
	Status  string
	AgentID *int
	From    *time.Time
	To      *time.Time
}

// Stats is recomputed from the store on every query, never cached.
// TotalAmountCents sums approved claims in the settlement currency.
type Stats struct {
	TotalClaims      int   `db:"total_claims" json:"totalClaims"`
	PendingClaims    int   `db:"pending_claims" json:"pendingClaims"`
	ApprovedClaims   int   `db:"approved_claims" json:"approvedClaims"`
	RejectedClaims   int   `db:"rejected_claims" json:"rejectedClaims"`
	TotalAmountCents int64 `db:"total_amount_cents" json:"totalAmount"`
}
