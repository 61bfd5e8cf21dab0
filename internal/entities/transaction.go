package entities

import "time"

// TransactionType classifies a ledger entry.
type TransactionType string

const (
	TransactionHold   TransactionType = "HOLD"
	TransactionCharge TransactionType = "CHARGE"
	TransactionPayout TransactionType = "PAYOUT"
	TransactionRefund TransactionType = "REFUND"
)

// Ledger entry providers. ProviderSystem tags entries the platform itself
// originates (order holds); ProviderWallet tags internal balance movements.
const (
	ProviderSystem = "system"
	ProviderWallet = "WALLET"
)

const TransactionCompleted = "COMPLETED"

// Transaction is an immutable, append-only ledger entry. Amount is signed:
// credits are positive, charges negative. Corrections are new offsetting
// entries, never updates.
type Transaction struct {
	ID         int64           `db:"id" json:"id"`
	UserID     int64           `db:"user_id" json:"user_id"`
	OrderID    *int64          `db:"order_id" json:"order_id"`
	Amount     int64           `db:"amount" json:"amount"`
	Type       TransactionType `db:"type" json:"type"`
	Provider   string          `db:"provider" json:"provider"`
	ProviderID *string         `db:"provider_id" json:"provider_id"`
	Status     string          `db:"status" json:"status"`
	CreatedAt  time.Time       `db:"created_at" json:"created_at"`
}
