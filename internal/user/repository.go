package user

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"tripmarket/internal/db"
	"tripmarket/internal/wallet"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

var (
	ErrUserNotFound  = errors.New("user not found")
	ErrNotAnAgent    = errors.New("user is not an agent")
	ErrAlreadyExists = errors.New("email already registered")
	ErrNotPending    = errors.New("agent is not pending approval")
)

const pqUniqueViolation = "23505"

const userColumns = `id, name, email, password_hash, role, agent_status, created_at`

type repository struct {
	db      *sqlx.DB
	wallets wallet.Repository
}

func NewRepository(db *sqlx.DB, wallets wallet.Repository) Repository {
	return &repository{db: db, wallets: wallets}
}

func (r *repository) Create(ctx context.Context, name, email, passwordHash, role, agentStatus string) (*User, error) {
	u := &User{}
	err := r.db.QueryRowxContext(ctx,
		`INSERT INTO users (name, email, password_hash, role, agent_status)
		 VALUES ($1, $2, $3, $4, $5)
		 RETURNING `+userColumns,
		name, email, passwordHash, role, agentStatus,
	).StructScan(u)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pqUniqueViolation {
			return nil, ErrAlreadyExists
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) FindByEmail(ctx context.Context, email string) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u, `SELECT `+userColumns+` FROM users WHERE email = $1`, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) FindByID(ctx context.Context, id int) (*User, error) {
	u := &User{}
	err := r.db.GetContext(ctx, u, `SELECT `+userColumns+` FROM users WHERE id = $1`, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return u, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	return db.Exists(ctx, r.db, `SELECT EXISTS(SELECT 1 FROM users WHERE email = $1)`, email)
}

func (r *repository) ListAgents(ctx context.Context, status string, limit, offset int) ([]User, int, error) {
	if limit <= 0 {
		limit = 20
	}

	where := `WHERE role = 'agent'`
	args := []interface{}{}
	n := 0
	if status != "" {
		n++
		where += fmt.Sprintf(" AND agent_status = $%d", n)
		args = append(args, status)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM users `+where, args...); err != nil {
		return nil, 0, err
	}

	query := fmt.Sprintf(`SELECT %s FROM users %s ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d`,
		userColumns, where, n+1, n+2)
	args = append(args, limit, offset)

	agents := []User{}
	if err := r.db.SelectContext(ctx, &agents, query, args...); err != nil {
		return nil, 0, err
	}
	return agents, total, nil
}

func (r *repository) ApproveAgent(ctx context.Context, agentID int, walletCurrency string) (*User, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	u := &User{}
	err = tx.QueryRowxContext(ctx,
		`UPDATE users
		 SET agent_status = $1
		 WHERE id = $2 AND role = 'agent' AND agent_status = $3
		 RETURNING `+userColumns,
		AgentStatusApproved, agentID, AgentStatusPending,
	).StructScan(u)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			// distinguish missing, non-agent, and already approved
			existing, getErr := r.FindByID(ctx, agentID)
			if getErr != nil {
				return nil, ErrUserNotFound
			}
			if existing.Role != "agent" {
				return nil, ErrNotAnAgent
			}
			return nil, ErrNotPending
		}
		return nil, err
	}

	_, err = r.wallets.CreateWalletTx(ctx, tx, agentID, walletCurrency)
	if err != nil && !errors.Is(err, wallet.ErrWalletExists) {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return u, nil
}
