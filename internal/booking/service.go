package booking

import (
	"context"
	"errors"
	"time"

	"tripmarket/internal/logger"
	"tripmarket/internal/metrics"
	"tripmarket/internal/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount       = errors.New("claim amount must be positive")
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	ErrInvalidTotal        = errors.New("booking total must not be negative")
	ErrMissingAgent        = errors.New("agent id is required for a claim")
)

// Notifier decouples the service from the mail queue; implementations must
// not block the request path.
type Notifier interface {
	NotifyClaimPosted(ctx context.Context, bookingID int, amount money.Money)
	NotifyBookingConfirmed(ctx context.Context, bookingID int, customer string)
}

type Service interface {
	CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error)
	GetBooking(ctx context.Context, id int) (*Booking, []PaymentDetail, error)
	ListBookings(ctx context.Context, filter ListFilter, page, limit int) ([]Booking, int, error)
	CancelBooking(ctx context.Context, id int) error
	ClaimPayment(ctx context.Context, bookingID int, in ClaimPaymentInput) (*PaymentSnapshot, error)
}

type service struct {
	repo     Repository
	notifier Notifier
}

func NewService(repo Repository, notifier Notifier) Service {
	return &service{repo: repo, notifier: notifier}
}

func (s *service) CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error) {
	if in.TotalCents < 0 {
		return nil, ErrInvalidTotal
	}

	b, err := s.repo.CreateBooking(ctx, in)
	if err != nil {
		return nil, err
	}

	channel := "customer"
	if in.AgentID != nil {
		channel = "agent"
	}
	metrics.RecordBooking(channel)

	if s.notifier != nil {
		s.notifier.NotifyBookingConfirmed(ctx, b.ID, b.CustomerName)
	}
	return b, nil
}

func (s *service) GetBooking(ctx context.Context, id int) (*Booking, []PaymentDetail, error) {
	b, err := s.repo.GetBookingByID(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	details, err := s.repo.ListPaymentDetails(ctx, id)
	if err != nil {
		return nil, nil, err
	}
	return b, details, nil
}

func (s *service) ListBookings(ctx context.Context, filter ListFilter, page, limit int) ([]Booking, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.ListBookings(ctx, filter, limit, (page-1)*limit)
}

func (s *service) CancelBooking(ctx context.Context, id int) error {
	err := s.repo.CancelBooking(ctx, id)
	if errors.Is(err, ErrAlreadyCancelled) {
		// distinguish missing from already-cancelled for the caller
		if _, getErr := s.repo.GetBookingByID(ctx, id); getErr != nil {
			return ErrBookingNotFound
		}
	}
	return err
}

// ClaimPayment validates a claim and posts it. A claim whose converted
// amount exceeds the remaining balance is rejected, never clamped: the
// ledger must only ever record what the operator actually asked for.
func (s *service) ClaimPayment(ctx context.Context, bookingID int, in ClaimPaymentInput) (*PaymentSnapshot, error) {
	if in.AgentID <= 0 {
		return nil, ErrMissingAgent
	}
	if in.AmountCents <= 0 {
		metrics.RecordClaimPayment("rejected", 0)
		return nil, ErrInvalidAmount
	}
	if in.RateOfExchange <= 0 {
		metrics.RecordClaimPayment("rejected", 0)
		return nil, ErrInvalidExchangeRate
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.NewString()
	}
	if in.ClaimDate.IsZero() {
		in.ClaimDate = time.Now()
	}

	finalCents, err := money.Convert(in.AmountCents, in.RateOfExchange)
	if err != nil {
		return nil, ErrInvalidExchangeRate
	}

	b, detail, err := s.repo.ClaimPayment(ctx, bookingID, in, finalCents)
	if err != nil {
		metrics.RecordClaimPayment("rejected", 0)
		logger.Error("claim payment failed",
			"booking_id", bookingID,
			"agent_id", in.AgentID,
			"transaction_id", in.TransactionID,
			"error", err,
		)
		return nil, err
	}

	metrics.RecordClaimPayment("posted", finalCents)
	metrics.RecordWalletTransaction("debit")
	logger.Info("claim payment posted",
		"booking_id", b.ID,
		"agent_id", in.AgentID,
		"transaction_id", detail.TransactionID,
		"claimed_cents", finalCents,
		"payment_status", b.PaymentStatus,
	)

	if s.notifier != nil {
		s.notifier.NotifyClaimPosted(ctx, b.ID, money.New(finalCents, b.Currency))
	}

	remaining := b.RemainingCents()
	return &PaymentSnapshot{
		ClaimedAmount:   b.ClaimedCents,
		AmountClaimed:   finalCents,
		RemainingAmount: remaining,
		TotalAmount:     b.TotalCents,
		PaymentStatus:   b.PaymentStatus,
		IsFullyPaid:     remaining <= 0,
	}, nil
}
