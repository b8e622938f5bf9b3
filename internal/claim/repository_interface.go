package claim

import "context"

type Repository interface {
	Create(ctx context.Context, in SubmitInput, claimedCents int64) (*Claim, error)
	GetByID(ctx context.Context, id int) (*Claim, error)
	List(ctx context.Context, filter Filter, limit, offset int) ([]Claim, int, error)

	// UpdateStatus transitions a pending claim to approved or rejected.
	// The pending check happens in the same statement as the write, so a
	// lost race surfaces as ErrNotPending rather than a double review.
	UpdateStatus(ctx context.Context, id int, status, notes string) (*Claim, error)

	Stats(ctx context.Context) (*Stats, error)
}
