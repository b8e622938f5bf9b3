package booking

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripmarket/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrBookingNotFound        = errors.New("booking not found")
	ErrBookingCancelled       = errors.New("booking is cancelled")
	ErrAlreadyCancelled       = errors.New("booking not found or already cancelled")
	ErrAmountExceedsRemaining = errors.New("claim amount exceeds remaining balance")
	ErrDuplicateTransaction   = errors.New("transaction id already used")
)

const pqUniqueViolation = "23505"

const bookingColumns = `id, tour_id, customer_name, agent_id, total_cents, claimed_cents, currency,
	payment_status, booking_status, lead_pax_name, travel_date, created_at, updated_at`

type repository struct {
	db         *sqlx.DB
	walletRepo wallet.Repository
}

func NewRepository(db *sqlx.DB, walletRepo wallet.Repository) Repository {
	return &repository{db: db, walletRepo: walletRepo}
}

func (r *repository) CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error) {
	query := `
		INSERT INTO bookings (tour_id, customer_name, agent_id, total_cents, currency, payment_status, booking_status, lead_pax_name, travel_date)
		VALUES ($1, $2, $3, $4, $5, 'unpaid', 'confirmed', $6, $7)
		RETURNING ` + bookingColumns

	var b Booking
	err := r.db.GetContext(ctx, &b, query,
		in.TourID, in.CustomerName, in.AgentID, in.TotalCents, in.Currency, in.LeadPaxName, in.TravelDate)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

func (r *repository) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	var b Booking
	err := r.db.GetContext(ctx, &b,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrBookingNotFound
		}
		return nil, err
	}
	return &b, nil
}

func (r *repository) ListBookings(ctx context.Context, filter ListFilter, limit, offset int) ([]Booking, int, error) {
	if limit <= 0 {
		limit = 20
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	n := 0
	if filter.AgentID != nil {
		n++
		where += fmt.Sprintf(" AND agent_id = $%d", n)
		args = append(args, *filter.AgentID)
	}
	if filter.PaymentStatus != "" {
		n++
		where += fmt.Sprintf(" AND payment_status = $%d", n)
		args = append(args, filter.PaymentStatus)
	}
	if filter.BookingStatus != "" {
		n++
		where += fmt.Sprintf(" AND booking_status = $%d", n)
		args = append(args, filter.BookingStatus)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM bookings `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM bookings %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		bookingColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	bookings := []Booking{}
	if err := r.db.SelectContext(ctx, &bookings, query, args...); err != nil {
		return nil, 0, err
	}
	return bookings, total, nil
}

func (r *repository) CancelBooking(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx,
		`UPDATE bookings
		 SET booking_status = 'cancelled', updated_at = NOW()
		 WHERE id = $1 AND booking_status = 'confirmed'`,
		id)
	if err != nil {
		return err
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if rowsAffected == 0 {
		return ErrAlreadyCancelled
	}
	return nil
}

func (r *repository) ListPaymentDetails(ctx context.Context, bookingID int) ([]PaymentDetail, error) {
	details := []PaymentDetail{}
	err := r.db.SelectContext(ctx, &details,
		`SELECT id, booking_id, agent_id, transaction_id, method, amount_cents, currency, rate_of_exchange, claimed_cents, status, claim_date, created_at
		 FROM booking_payments
		 WHERE booking_id = $1
		 ORDER BY created_at ASC, id ASC`,
		bookingID)
	if err != nil {
		return nil, err
	}
	return details, nil
}

// ClaimPayment serializes concurrent claims against the same booking with a
// row lock, then debits the wallet inside the same transaction. Lock order
// is always booking first, wallet second.
func (r *repository) ClaimPayment(ctx context.Context, bookingID int, in ClaimPaymentInput, finalCents int64) (*Booking, *PaymentDetail, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, nil, err
	}
	defer tx.Rollback()

	var b Booking
	err = tx.QueryRowxContext(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE id = $1 FOR UPDATE`, bookingID,
	).StructScan(&b)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, ErrBookingNotFound
		}
		return nil, nil, err
	}

	if b.BookingStatus == StatusCancelled {
		return nil, nil, ErrBookingCancelled
	}

	// Validated again under the lock: a concurrent claim may have shrunk
	// the remaining balance since the caller read it.
	if finalCents > b.RemainingCents() {
		return nil, nil, ErrAmountExceedsRemaining
	}

	_, err = r.walletRepo.ApplyEntryTx(ctx, tx, in.AgentID, wallet.Entry{
		Type:        wallet.TypeDebit,
		AmountCents: finalCents,
		Description: fmt.Sprintf("Claim %s against booking #%d", in.TransactionID, bookingID),
		Reference:   fmt.Sprintf("booking:%d", bookingID),
	})
	if err != nil {
		return nil, nil, err
	}

	detail := &PaymentDetail{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO booking_payments (booking_id, agent_id, transaction_id, method, amount_cents, currency, rate_of_exchange, claimed_cents, status, claim_date)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, 'posted', $9)
		 RETURNING id, booking_id, agent_id, transaction_id, method, amount_cents, currency, rate_of_exchange, claimed_cents, status, claim_date, created_at`,
		bookingID, in.AgentID, in.TransactionID, in.Method, in.AmountCents, in.Currency,
		in.RateOfExchange, finalCents, in.ClaimDate,
	).StructScan(detail)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, nil, ErrDuplicateTransaction
		}
		return nil, nil, err
	}

	newClaimed := b.ClaimedCents + finalCents
	newStatus := PaymentStatusFor(newClaimed, b.TotalCents)

	err = tx.QueryRowxContext(ctx,
		`UPDATE bookings
		 SET claimed_cents = $1, payment_status = $2, updated_at = NOW()
		 WHERE id = $3
		 RETURNING `+bookingColumns,
		newClaimed, newStatus, bookingID,
	).StructScan(&b)
	if err != nil {
		return nil, nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, nil, err
	}

	return &b, detail, nil
}
