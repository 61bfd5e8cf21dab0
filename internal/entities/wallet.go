package entities

import "time"

// Wallet is a per-user stored balance in minor currency units. The balance
// equals the sum of all transaction amounts for the user and is only mutated
// together with a transaction write.
type Wallet struct {
	UserID    int64     `db:"user_id" json:"user_id"`
	Balance   int64     `db:"balance" json:"balance"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}
