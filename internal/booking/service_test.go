package booking

import (
	"context"
	"testing"
	"time"

	"tripmarket/internal/money"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct{ mock.Mock }

func (m *MockRepo) CreateBooking(ctx context.Context, in CreateBookingInput) (*Booking, error) {
	args := m.Called(ctx, in)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepo) GetBookingByID(ctx context.Context, id int) (*Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Booking), args.Error(1)
}

func (m *MockRepo) ListBookings(ctx context.Context, filter ListFilter, limit, offset int) ([]Booking, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Booking), args.Int(1), args.Error(2)
}

func (m *MockRepo) CancelBooking(ctx context.Context, id int) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRepo) ListPaymentDetails(ctx context.Context, bookingID int) ([]PaymentDetail, error) {
	args := m.Called(ctx, bookingID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]PaymentDetail), args.Error(1)
}

func (m *MockRepo) ClaimPayment(ctx context.Context, bookingID int, in ClaimPaymentInput, finalCents int64) (*Booking, *PaymentDetail, error) {
	args := m.Called(ctx, bookingID, in, finalCents)
	if args.Get(0) == nil {
		return nil, nil, args.Error(2)
	}
	return args.Get(0).(*Booking), args.Get(1).(*PaymentDetail), args.Error(2)
}

type noopNotifier struct {
	claimPosted int
}

func (n *noopNotifier) NotifyClaimPosted(context.Context, int, money.Money) { n.claimPosted++ }
func (n *noopNotifier) NotifyBookingConfirmed(context.Context, int, string) {}

func TestClaimPayment_PartialThenFull(t *testing.T) {
	repo := new(MockRepo)
	notifier := &noopNotifier{}
	svc := NewService(repo, notifier)
	ctx := context.Background()

	// booking total 1000.00, first claim 400.00 at rate 1
	afterFirst := &Booking{ID: 1, TotalCents: 100000, ClaimedCents: 40000, Currency: "INR", PaymentStatus: PaymentPartiallyPaid}
	repo.On("ClaimPayment", ctx, 1, mock.MatchedBy(func(in ClaimPaymentInput) bool {
		return in.AmountCents == 40000 && in.TransactionID == "TXN-1"
	}), int64(40000)).Return(afterFirst, &PaymentDetail{TransactionID: "TXN-1", ClaimedCents: 40000}, nil).Once()

	snap, err := svc.ClaimPayment(ctx, 1, ClaimPaymentInput{
		AgentID: 5, AmountCents: 40000, RateOfExchange: 1, TransactionID: "TXN-1", Method: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(40000), snap.ClaimedAmount)
	assert.Equal(t, int64(40000), snap.AmountClaimed)
	assert.Equal(t, int64(60000), snap.RemainingAmount)
	assert.Equal(t, PaymentPartiallyPaid, snap.PaymentStatus)
	assert.False(t, snap.IsFullyPaid)

	// second claim 600.00 settles the booking
	afterSecond := &Booking{ID: 1, TotalCents: 100000, ClaimedCents: 100000, Currency: "INR", PaymentStatus: PaymentPaid}
	repo.On("ClaimPayment", ctx, 1, mock.Anything, int64(60000)).
		Return(afterSecond, &PaymentDetail{TransactionID: "TXN-2", ClaimedCents: 60000}, nil).Once()

	snap, err = svc.ClaimPayment(ctx, 1, ClaimPaymentInput{
		AgentID: 5, AmountCents: 60000, RateOfExchange: 1, TransactionID: "TXN-2", Method: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(100000), snap.ClaimedAmount)
	assert.Equal(t, int64(0), snap.RemainingAmount)
	assert.Equal(t, PaymentPaid, snap.PaymentStatus)
	assert.True(t, snap.IsFullyPaid)

	assert.Equal(t, 2, notifier.claimPosted)
	repo.AssertExpectations(t)
}

func TestClaimPayment_OverclaimRejected(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	// remaining balance is 600.00; a 700.00 claim must be rejected, not clamped
	repo.On("ClaimPayment", ctx, 1, mock.Anything, int64(70000)).
		Return(nil, nil, ErrAmountExceedsRemaining).Once()

	_, err := svc.ClaimPayment(ctx, 1, ClaimPaymentInput{
		AgentID: 5, AmountCents: 70000, RateOfExchange: 1, TransactionID: "TXN-3", Method: "bank",
	})
	assert.ErrorIs(t, err, ErrAmountExceedsRemaining)
	repo.AssertExpectations(t)
}

func TestClaimPayment_ValidationShortCircuits(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	_, err := svc.ClaimPayment(ctx, 1, ClaimPaymentInput{AgentID: 5, AmountCents: 0, RateOfExchange: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ClaimPayment(ctx, 1, ClaimPaymentInput{AgentID: 5, AmountCents: -100, RateOfExchange: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.ClaimPayment(ctx, 1, ClaimPaymentInput{AgentID: 5, AmountCents: 100, RateOfExchange: 0})
	assert.ErrorIs(t, err, ErrInvalidExchangeRate)

	_, err = svc.ClaimPayment(ctx, 1, ClaimPaymentInput{AgentID: 5, AmountCents: 100, RateOfExchange: -2})
	assert.ErrorIs(t, err, ErrInvalidExchangeRate)

	_, err = svc.ClaimPayment(ctx, 1, ClaimPaymentInput{AgentID: 0, AmountCents: 100, RateOfExchange: 1})
	assert.ErrorIs(t, err, ErrMissingAgent)

	// repo must never be reached on invalid input
	repo.AssertNotCalled(t, "ClaimPayment", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestClaimPayment_ExchangeRateConversion(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	// 200.00 USD at rate 83.25 → 16650.00 settlement units
	after := &Booking{ID: 2, TotalCents: 2000000, ClaimedCents: 1665000, Currency: "INR", PaymentStatus: PaymentPartiallyPaid}
	repo.On("ClaimPayment", ctx, 2, mock.Anything, int64(1665000)).
		Return(after, &PaymentDetail{ClaimedCents: 1665000}, nil).Once()

	snap, err := svc.ClaimPayment(ctx, 2, ClaimPaymentInput{
		AgentID: 5, AmountCents: 20000, Currency: "USD", RateOfExchange: 83.25, TransactionID: "TXN-FX", Method: "bank",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1665000), snap.AmountClaimed)
	repo.AssertExpectations(t)
}

func TestClaimPayment_GeneratesTransactionID(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	after := &Booking{ID: 3, TotalCents: 100000, ClaimedCents: 100, PaymentStatus: PaymentPartiallyPaid}
	repo.On("ClaimPayment", ctx, 3, mock.MatchedBy(func(in ClaimPaymentInput) bool {
		return in.TransactionID != "" && !in.ClaimDate.IsZero()
	}), int64(100)).Return(after, &PaymentDetail{}, nil).Once()

	_, err := svc.ClaimPayment(ctx, 3, ClaimPaymentInput{AgentID: 5, AmountCents: 100, RateOfExchange: 1})
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestCreateBooking_RejectsNegativeTotal(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)

	_, err := svc.CreateBooking(context.Background(), CreateBookingInput{TotalCents: -1})
	assert.ErrorIs(t, err, ErrInvalidTotal)
	repo.AssertNotCalled(t, "CreateBooking", mock.Anything, mock.Anything)
}

func TestCancelBooking_MissingVsCancelled(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	repo.On("CancelBooking", ctx, 10).Return(ErrAlreadyCancelled).Once()
	repo.On("GetBookingByID", ctx, 10).Return(nil, ErrBookingNotFound).Once()
	assert.ErrorIs(t, svc.CancelBooking(ctx, 10), ErrBookingNotFound)

	repo.On("CancelBooking", ctx, 11).Return(ErrAlreadyCancelled).Once()
	repo.On("GetBookingByID", ctx, 11).
		Return(&Booking{ID: 11, BookingStatus: StatusCancelled}, nil).Once()
	assert.ErrorIs(t, svc.CancelBooking(ctx, 11), ErrAlreadyCancelled)

	repo.AssertExpectations(t)
}

func TestGetBooking_IncludesPaymentDetails(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo, nil)
	ctx := context.Background()

	b := &Booking{ID: 4, TotalCents: 100000, ClaimedCents: 40000}
	details := []PaymentDetail{
		{ID: 1, BookingID: 4, ClaimedCents: 40000, ClaimDate: time.Now()},
	}
	repo.On("GetBookingByID", ctx, 4).Return(b, nil).Once()
	repo.On("ListPaymentDetails", ctx, 4).Return(details, nil).Once()

	got, gotDetails, err := svc.GetBooking(ctx, 4)
	require.NoError(t, err)
	assert.Equal(t, b, got)
	assert.Len(t, gotDetails, 1)
	repo.AssertExpectations(t)
}
