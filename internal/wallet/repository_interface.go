package wallet

import (
	"context"

	"github.com/jmoiron/sqlx"
)

type Repository interface {
	CreateWallet(ctx context.Context, agentID int, currency string) (*Wallet, error)
	GetWalletByAgent(ctx context.Context, agentID int) (*Wallet, error)
	AddTransaction(ctx context.Context, agentID int, entry Entry) (*Transaction, error)
	UpdateCreditLimit(ctx context.Context, agentID int, newLimitCents int64) (*Wallet, error)
	ListTransactions(ctx context.Context, agentID, limit, offset int) ([]Transaction, int, error)

	// ApplyEntryTx appends a ledger entry inside a caller-owned transaction,
	// so a claim posting can change the wallet and the booking as one unit.
	ApplyEntryTx(ctx context.Context, tx *sqlx.Tx, agentID int, entry Entry) (*Transaction, error)

	// CreateWalletTx provisions a wallet inside a caller-owned transaction,
	// so agent approval and wallet creation commit together.
	CreateWalletTx(ctx context.Context, tx *sqlx.Tx, agentID int, currency string) (*Wallet, error)
}
