package wallet

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
)

var (
	ErrWalletNotFound      = errors.New("wallet not found")
	ErrWalletExists        = errors.New("wallet already exists for agent")
	ErrCreditLimitExceeded = errors.New("credit limit exceeded")
	ErrInvalidAmount       = errors.New("transaction amount must be positive")
	ErrInvalidType         = errors.New("transaction type must be credit or debit")
	ErrNegativeCreditLimit = errors.New("credit limit cannot be negative")
)

type repository struct {
	db *sqlx.DB
}

func NewRepository(db *sqlx.DB) Repository {
	return &repository{db: db}
}

const createWalletQuery = `INSERT INTO wallets (agent_id, currency)
	 VALUES ($1, $2)
	 ON CONFLICT (agent_id) DO NOTHING
	 RETURNING id, agent_id, balance_cents, credit_limit_cents, currency, created_at, updated_at`

func (r *repository) CreateWallet(ctx context.Context, agentID int, currency string) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.QueryRowxContext(ctx, createWalletQuery, agentID, currency).StructScan(w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletExists
		}
		return nil, err
	}
	return w, nil
}

func (r *repository) CreateWalletTx(ctx context.Context, tx *sqlx.Tx, agentID int, currency string) (*Wallet, error) {
	w := &Wallet{}
	err := tx.QueryRowxContext(ctx, createWalletQuery, agentID, currency).StructScan(w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletExists
		}
		return nil, err
	}
	return w, nil
}

func (r *repository) GetWalletByAgent(ctx context.Context, agentID int) (*Wallet, error) {
	w := &Wallet{}
	err := r.db.GetContext(ctx, w,
		`SELECT id, agent_id, balance_cents, credit_limit_cents, currency, created_at, updated_at
		 FROM wallets
		 WHERE agent_id = $1`,
		agentID,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

// AddTransaction applies one ledger entry as a single unit: the balance
// update and the append are committed together or not at all.
func (r *repository) AddTransaction(ctx context.Context, agentID int, entry Entry) (*Transaction, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	txn, err := r.ApplyEntryTx(ctx, tx, agentID, entry)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return txn, nil
}

func (r *repository) ApplyEntryTx(ctx context.Context, tx *sqlx.Tx, agentID int, entry Entry) (*Transaction, error) {
	if entry.AmountCents <= 0 {
		return nil, ErrInvalidAmount
	}
	if entry.Type != TypeCredit && entry.Type != TypeDebit {
		return nil, ErrInvalidType
	}

	var w Wallet
	err := tx.QueryRowxContext(ctx,
		`SELECT id, agent_id, balance_cents, credit_limit_cents, currency, created_at, updated_at
		 FROM wallets
		 WHERE agent_id = $1
		 FOR UPDATE`,
		agentID,
	).StructScan(&w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}

	delta := entry.AmountCents
	if entry.Type == TypeDebit {
		delta = -delta
	}

	newBalance := w.BalanceCents + delta
	if newBalance < -w.CreditLimitCents {
		return nil, ErrCreditLimitExceeded
	}

	_, err = tx.ExecContext(ctx,
		`UPDATE wallets
		 SET balance_cents = $1, updated_at = NOW()
		 WHERE id = $2`,
		newBalance, w.ID,
	)
	if err != nil {
		return nil, err
	}

	txn := &Transaction{}
	err = tx.QueryRowxContext(ctx,
		`INSERT INTO wallet_transactions (wallet_id, type, amount_cents, description, reference, balance_after_cents)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, wallet_id, type, amount_cents, description, reference, balance_after_cents, created_at`,
		w.ID, entry.Type, entry.AmountCents, entry.Description, entry.Reference, newBalance,
	).StructScan(txn)
	if err != nil {
		return nil, err
	}

	return txn, nil
}

func (r *repository) UpdateCreditLimit(ctx context.Context, agentID int, newLimitCents int64) (*Wallet, error) {
	if newLimitCents < 0 {
		return nil, ErrNegativeCreditLimit
	}

	w := &Wallet{}
	err := r.db.QueryRowxContext(ctx,
		`UPDATE wallets
		 SET credit_limit_cents = $1, updated_at = NOW()
		 WHERE agent_id = $2
		 RETURNING id, agent_id, balance_cents, credit_limit_cents, currency, created_at, updated_at`,
		newLimitCents, agentID,
	).StructScan(w)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrWalletNotFound
		}
		return nil, err
	}
	return w, nil
}

func (r *repository) ListTransactions(ctx context.Context, agentID, limit, offset int) ([]Transaction, int, error) {
	if limit <= 0 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	var walletID int
	err := r.db.GetContext(ctx, &walletID, `SELECT id FROM wallets WHERE agent_id = $1`, agentID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, 0, ErrWalletNotFound
		}
		return nil, 0, err
	}

	var total int
	err = r.db.GetContext(ctx, &total,
		`SELECT COUNT(*) FROM wallet_transactions WHERE wallet_id = $1`, walletID)
	if err != nil {
		return nil, 0, err
	}

	txs := []Transaction{}
	err = r.db.SelectContext(ctx, &txs,
		`SELECT id, wallet_id, type, amount_cents, description, reference, balance_after_cents, created_at
		 FROM wallet_transactions
		 WHERE wallet_id = $1
		 ORDER BY created_at DESC, id DESC
		 LIMIT $2 OFFSET $3`,
		walletID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}

	return txs, total, nil
}
