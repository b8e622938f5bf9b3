package tour

import "context"

type Repository interface {
	Create(ctx context.Context, t *Tour) (*Tour, error)
	GetByID(ctx context.Context, id int) (*Tour, error)
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]Tour, int, error)
	Deactivate(ctx context.Context, id int) error
}
