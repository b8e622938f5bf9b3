package tour

import (
	"context"
	"errors"
)

var ErrInvalidTour = errors.New("invalid tour data")

type Service interface {
	CreateTour(ctx context.Context, req CreateTourRequest) (*Tour, error)
	GetTour(ctx context.Context, id int) (*Tour, error)
	ListTours(ctx context.Context, activeOnly bool, page, limit int) ([]Tour, int, error)
	DeactivateTour(ctx context.Context, id int) error
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) CreateTour(ctx context.Context, req CreateTourRequest) (*Tour, error) {
	if req.Days <= 0 || req.Price <= 0 {
		return nil, ErrInvalidTour
	}
	if req.Currency == "" {
		req.Currency = "INR"
	}
	return s.repo.Create(ctx, &Tour{
		Name:        req.Name,
		Destination: req.Destination,
		Days:        req.Days,
		PriceCents:  req.Price,
		Currency:    req.Currency,
	})
}

func (s *service) GetTour(ctx context.Context, id int) (*Tour, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListTours(ctx context.Context, activeOnly bool, page, limit int) ([]Tour, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, activeOnly, limit, (page-1)*limit)
}

func (s *service) DeactivateTour(ctx context.Context, id int) error {
	return s.repo.Deactivate(ctx, id)
}
