package user

import "context"

type Repository interface {
	Create(ctx context.Context, name, email, passwordHash, role, agentStatus string) (*User, error)
	FindByEmail(ctx context.Context, email string) (*User, error)
	FindByID(ctx context.Context, id int) (*User, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	ListAgents(ctx context.Context, status string, limit, offset int) ([]User, int, error)

	// ApproveAgent flips a pending agent to approved and provisions the
	// agent's wallet in the same transaction.
	ApproveAgent(ctx context.Context, agentID int, walletCurrency string) (*User, error)
}
