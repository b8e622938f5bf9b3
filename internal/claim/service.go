package claim

import (
	"context"
	"errors"
	"strings"
	"time"

	"tripmarket/internal/logger"
	"tripmarket/internal/metrics"
	"tripmarket/internal/money"

	"github.com/google/uuid"
)

var (
	ErrInvalidAmount       = errors.New("claim amount must be positive")
	ErrInvalidExchangeRate = errors.New("exchange rate must be positive")
	ErrInvalidStatus       = errors.New("status must be approved or rejected")
	ErrNotesRequired       = errors.New("rejection requires a reason")
)

type Service interface {
	Submit(ctx context.Context, in SubmitInput) (*Claim, error)
	GetClaim(ctx context.Context, id int) (*Claim, error)
	Approve(ctx context.Context, id int, notes string) (*Claim, error)
	Reject(ctx context.Context, id int, notes string) (*Claim, error)
	List(ctx context.Context, filter Filter, page, limit int) ([]Claim, int, error)
	GetStats(ctx context.Context) (*Stats, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

func (s *service) Submit(ctx context.Context, in SubmitInput) (*Claim, error) {
	if in.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if in.RateOfExchange <= 0 {
		return nil, ErrInvalidExchangeRate
	}
	if in.TransactionID == "" {
		in.TransactionID = uuid.NewString()
	}
	if in.ClaimDate.IsZero() {
		in.ClaimDate = time.Now()
	}

	claimedCents, err := money.Convert(in.AmountCents, in.RateOfExchange)
	if err != nil {
		return nil, ErrInvalidExchangeRate
	}

	c, err := s.repo.Create(ctx, in, claimedCents)
	if err != nil {
		return nil, err
	}

	logger.Info("claim submitted",
		"claim_id", c.ID,
		"booking_id", c.BookingID,
		"agent_id", c.AgentID,
		"claimed_cents", c.ClaimedCents,
	)
	return c, nil
}

func (s *service) GetClaim(ctx context.Context, id int) (*Claim, error) {
	return s.repo.GetByID(ctx, id)
}

// Approve is record keeping only: money moves through the direct
// claim-payment flow, never through a review.
func (s *service) Approve(ctx context.Context, id int, notes string) (*Claim, error) {
	c, err := s.repo.UpdateStatus(ctx, id, StatusApproved, notes)
	if err != nil {
		return nil, err
	}
	metrics.RecordClaimReview(StatusApproved)
	logger.Info("claim approved", "claim_id", id)
	return c, nil
}

func (s *service) Reject(ctx context.Context, id int, notes string) (*Claim, error) {
	if strings.TrimSpace(notes) == "" {
		return nil, ErrNotesRequired
	}

	c, err := s.repo.UpdateStatus(ctx, id, StatusRejected, notes)
	if err != nil {
		return nil, err
	}
	metrics.RecordClaimReview(StatusRejected)
	logger.Info("claim rejected", "claim_id", id, "reason", notes)
	return c, nil
}

func (s *service) List(ctx context.Context, filter Filter, page, limit int) ([]Claim, int, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}
	return s.repo.List(ctx, filter, limit, (page-1)*limit)
}

func (s *service) GetStats(ctx context.Context) (*Stats, error) {
	return s.repo.Stats(ctx)
}
