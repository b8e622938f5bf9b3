package tour

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var ErrTourNotFound = errors.New("tour not found")

const tourColumns = `id, name, destination, days, price_cents, currency, active, created_at`

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, t *Tour) (*Tour, error) {
	created := &Tour{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO tours (name, destination, days, price_cents, currency)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+tourColumns,
		t.Name, t.Destination, t.Days, t.PriceCents, t.Currency,
	).StructScan(created)
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *repository) GetByID(ctx context.Context, id int) (*Tour, error) {
	t := &Tour{}
	err := r.db.GetContext(ctx, t, `SELECT `+tourColumns+` FROM tours WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrTourNotFound
		}
		return nil, err
	}
	return t, nil
}

func (r *repository) List(ctx context.Context, activeOnly bool, limit, offset int) ([]Tour, int, error) {
	if limit <= 0 {
		limit = 20
	}

	where := ""
	if activeOnly {
		where = " WHERE active"
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM tours`+where); err != nil {
		return nil, 0, err
	}

	tours := []Tour{}
	err := r.db.SelectContext(ctx, &tours,
		`SELECT `+tourColumns+` FROM tours`+where+` ORDER BY created_at DESC, id DESC LIMIT $1 OFFSET $2`,
		limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	return tours, total, nil
}

func (r *repository) Deactivate(ctx context.Context, id int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE tours SET active = FALSE WHERE id = $1`, id)
	if err != nil {
		return err
	}
	rows, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if rows == 0 {
		return ErrTourNotFound
	}
	return nil
}
