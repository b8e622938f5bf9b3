package wallet

import "time"

const (
	TypeCredit = "credit"
	TypeDebit  = "debit"
)

// Wallet is the agent's settlement account. The balance may run negative
// down to -CreditLimitCents; the ledger in wallet_transactions is the
// source of truth for every change.
type Wallet struct {
	ID               int       `db:"id" json:"id"`
	AgentID          int       `db:"agent_id" json:"agent_id"`
	BalanceCents     int64     `db:"balance_cents" json:"balance"`
	CreditLimitCents int64     `db:"credit_limit_cents" json:"creditLimit"`
	Currency         string    `db:"currency" json:"currency"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time `db:"updated_at" json:"updated_at"`
}

// Transaction is one immutable ledger entry. Amount is always positive;
// Type carries the direction.
type Transaction struct {
	ID                int       `db:"id" json:"id"`
	WalletID          int       `db:"wallet_id" json:"wallet_id"`
	Type              string    `db:"type" json:"type"`
	AmountCents       int64     `db:"amount_cents" json:"amount"`
	Description       string    `db:"description" json:"description"`
	Reference         string    `db:"reference" json:"reference,omitempty"`
	BalanceAfterCents int64     `db:"balance_after_cents" json:"balance_after"`
	CreatedAt         time.Time `db:"created_at" json:"date"`
}

// Entry is the input for a ledger append.
type Entry struct {
	Type        string
	AmountCents int64
	Description string
	Reference   string
}
