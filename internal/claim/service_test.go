package claim

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, in SubmitInput, claimedCents int64) (*Claim, error) {
	args := m.Called(ctx, in, claimedCents)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Claim), args.Error(1)
}

func (m *MockRepo) GetByID(ctx context.Context, id int) (*Claim, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Claim), args.Error(1)
}

func (m *MockRepo) List(ctx context.Context, filter Filter, limit, offset int) ([]Claim, int, error) {
	args := m.Called(ctx, filter, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Claim), args.Int(1), args.Error(2)
}

func (m *MockRepo) UpdateStatus(ctx context.Context, id int, status, notes string) (*Claim, error) {
	args := m.Called(ctx, id, status, notes)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Claim), args.Error(1)
}

func (m *MockRepo) Stats(ctx context.Context) (*Stats, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Stats), args.Error(1)
}

func TestSubmit_ConvertsToSettlementCurrency(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	// 200.00 USD at 83.25 settles as 16650.00
	repo.On("Create", mock.Anything, mock.MatchedBy(func(in SubmitInput) bool {
		return in.TransactionID != "" && !in.ClaimDate.IsZero()
	}), int64(1665000)).Return(&Claim{ID: 1, Status: StatusPending, ClaimedCents: 1665000}, nil).Once()

	c, err := svc.Submit(context.Background(), SubmitInput{
		BookingID:      1,
		AgentID:        5,
		AmountCents:    20000,
		Currency:       "USD",
		RateOfExchange: 83.25,
	})
	require.NoError(t, err)
	assert.Equal(t, StatusPending, c.Status)
	assert.Equal(t, int64(1665000), c.ClaimedCents)
	repo.AssertExpectations(t)
}

func TestSubmit_ValidationShortCircuits(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	_, err := svc.Submit(context.Background(), SubmitInput{BookingID: 1, AgentID: 5, AmountCents: 0, RateOfExchange: 1})
	assert.ErrorIs(t, err, ErrInvalidAmount)

	_, err = svc.Submit(context.Background(), SubmitInput{BookingID: 1, AgentID: 5, AmountCents: 100, RateOfExchange: -2})
	assert.ErrorIs(t, err, ErrInvalidExchangeRate)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestReject_RequiresNotes(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	_, err := svc.Reject(context.Background(), 7, "   ")
	assert.ErrorIs(t, err, ErrNotesRequired)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestApprove_AllowsEmptyNotes(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("UpdateStatus", mock.Anything, 7, StatusApproved, "").
		Return(&Claim{ID: 7, Status: StatusApproved}, nil).Once()

	c, err := svc.Approve(context.Background(), 7, "")
	require.NoError(t, err)
	assert.Equal(t, StatusApproved, c.Status)
	repo.AssertExpectations(t)
}

func TestReview_TerminalStates(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("UpdateStatus", mock.Anything, 7, StatusRejected, "missing receipt").
		Return(nil, ErrNotPending).Once()

	_, err := svc.Reject(context.Background(), 7, "missing receipt")
	assert.ErrorIs(t, err, ErrNotPending)
	repo.AssertExpectations(t)
}

func TestList_ClampsPaging(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("List", mock.Anything, Filter{}, 20, 0).
		Return([]Claim{}, 0, nil).Once()

	_, _, err := svc.List(context.Background(), Filter{}, 0, 500)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestList_OffsetFromPage(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	repo.On("List", mock.Anything, Filter{Status: StatusPending, From: &from}, 10, 20).
		Return([]Claim{}, 25, nil).Once()

	_, total, err := svc.List(context.Background(), Filter{Status: StatusPending, From: &from}, 3, 10)
	require.NoError(t, err)
	assert.Equal(t, 25, total)
	repo.AssertExpectations(t)
}
