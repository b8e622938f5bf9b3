package booking

import "context"

type Repository interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error)
	GetBookingByID(ctx context.Context, id int) (*Booking, error)
	ListBookings(ctx context.Context, filter ListFilter, limit, offset int) ([]Booking, int, error)
	CancelBooking(ctx context.Context, id int) error
	ListPaymentDetails(ctx context.Context, bookingID int) ([]PaymentDetail, error)

	// ClaimPayment runs the whole read-validate-write unit in one database
	// transaction: wallet debit + ledger append, payment-detail insert,
	// claimed amount and payment status recompute. finalCents is the claim
	// amount already converted to the settlement currency.
	ClaimPayment(ctx context.Context, bookingID int, in ClaimPaymentInput, finalCents int64) (*Booking, *PaymentDetail, error)
}
