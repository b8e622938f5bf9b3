package tour

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

type MockRepo struct {
	mock.Mock
}

func (m *MockRepo) Create(ctx context.Context, t *Tour) (*Tour, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tour), args.Error(1)
}

func (m *MockRepo) GetByID(ctx context.Context, id int) (*Tour, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Tour), args.Error(1)
}

func (m *MockRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Tour, int, error) {
	args := m.Called(ctx, activeOnly, limit, offset)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]Tour), args.Int(1), args.Error(2)
}

func (m *MockRepo) Deactivate(ctx context.Context, id int) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func TestCreateTour_DefaultsCurrency(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("Create", mock.Anything, mock.MatchedBy(func(in *Tour) bool {
		return in.Currency == "INR"
	})).Return(&Tour{ID: 1, Currency: "INR"}, nil).Once()

	created, err := svc.CreateTour(context.Background(), CreateTourRequest{
		Name: "Kerala Backwaters", Destination: "Kochi", Days: 4, Price: 2800000,
	})
	require.NoError(t, err)
	assert.Equal(t, 1, created.ID)
	repo.AssertExpectations(t)
}

func TestCreateTour_RejectsBadInput(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	_, err := svc.CreateTour(context.Background(), CreateTourRequest{Name: "x", Destination: "y", Days: 0, Price: 100})
	assert.ErrorIs(t, err, ErrInvalidTour)

	_, err = svc.CreateTour(context.Background(), CreateTourRequest{Name: "x", Destination: "y", Days: 3, Price: -1})
	assert.ErrorIs(t, err, ErrInvalidTour)

	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestListTours_ClampsPaging(t *testing.T) {
	repo := new(MockRepo)
	svc := NewService(repo)

	repo.On("List", mock.Anything, true, 20, 0).
		Return([]Tour{}, 0, nil).Once()

	_, _, err := svc.ListTours(context.Background(), true, -1, 1000)
	require.NoError(t, err)
	repo.AssertExpectations(t)
}
