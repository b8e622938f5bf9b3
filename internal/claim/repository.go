package claim

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrClaimNotFound        = errors.New("claim not found")
	ErrNotPending           = errors.New("claim is not pending")
	ErrDuplicateTransaction = errors.New("transaction id already used")
)

const pqUniqueViolation = "23505"

const claimColumns = `id, booking_id, agent_id, transaction_id, amount_cents, currency, rate_of_exchange,
	claimed_cents, lead_pax_name, travel_date, claim_date, status, review_notes, reviewed_at, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, in SubmitInput, claimedCents int64) (*Claim, error) {
	c := &Claim{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO claims (booking_id, agent_id, transaction_id, amount_cents, currency, rate_of_exchange, claimed_cents, lead_pax_name, travel_date, claim_date, status)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, 'pending')
		 RETURNING `+claimColumns,
		in.BookingID, in.AgentID, in.TransactionID, in.AmountCents, in.Currency,
		in.RateOfExchange, claimedCents, in.LeadPaxName, in.TravelDate, in.ClaimDate,
	).StructScan(c)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrDuplicateTransaction
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Claim, error) {
	c := &Claim{}
	err := r.db.GetContext(ctx, c, `SELECT `+claimColumns+` FROM claims WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrClaimNotFound
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) List(ctx context.Context, filter Filter, limit, offset int) ([]Claim, int, error) {
	if limit <= 0 {
		limit = 20
	}

	where := "WHERE 1=1"
	args := []interface{}{}
	n := 0
	if filter.Status != "" {
		n++
		where += fmt.Sprintf(" AND status = $%d", n)
		args = append(args, filter.Status)
	}
	if filter.AgentID != nil {
		n++
		where += fmt.Sprintf(" AND agent_id = $%d", n)
		args = append(args, *filter.AgentID)
	}
	if filter.From != nil {
		n++
		where += fmt.Sprintf(" AND claim_date >= $%d", n)
		args = append(args, *filter.From)
	}
	if filter.To != nil {
		n++
		where += fmt.Sprintf(" AND claim_date <= $%d", n)
		args = append(args, *filter.To)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM claims `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM claims %s ORDER BY claim_date DESC, id DESC LIMIT $%d OFFSET $%d`,
		claimColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	claims := []Claim{}
	if err := r.db.SelectContext(ctx, &claims, query, args...); err != nil {
		return nil, 0, err
	}
	return claims, total, nil
}

func (r *repository) UpdateStatus(ctx context.Context, id int, status, notes string) (*Claim, error) {
	c := &Claim{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE claims
		 SET status = $1, review_notes = $2, reviewed_at = NOW()
		 WHERE id = $3 AND status = 'pending'
		 RETURNING `+claimColumns,
		status, notes, id,
	).StructScan(c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// distinguish missing from already reviewed
			if _, getErr := r.GetByID(ctx, id); getErr != nil {
				return nil, ErrClaimNotFound
			}
			return nil, ErrNotPending
		}
		return nil, err
	}
	return c, nil
}

func (r *repository) Stats(ctx context.Context) (*Stats, error) {
	s := &Stats{}
	err := r.db.GetContext(ctx, s, `
		SELECT
			COUNT(*) AS total_claims,
			COUNT(*) FILTER (WHERE status = 'pending') AS pending_claims,
			COUNT(*) FILTER (WHERE status = 'approved') AS approved_claims,
			COUNT(*) FILTER (WHERE status = 'rejected') AS rejected_claims,
			COALESCE(SUM(claimed_cents) FILTER (WHERE status = 'approved'), 0) AS total_amount_cents
		FROM claims
	`)
	if err != nil {
		return nil, err
	}
	return s, nil
}
