package models

import "time"

// CoinTransaction represents a row in the coin_transactions table.
// The table is append-only; there is no update path.
type CoinTransaction struct {
	TransactionID string    `db:"transaction_id"`
	FromAccountID string    `db:"from_account_id"`
	ToAccountID   string    `db:"to_account_id"`
	Amount        int64     `db:"amount"`
	Reason        string    `db:"reason"`
	Note          string    `db:"note"`
	CreatedAt     time.Time `db:"created_at"`
	CreatedBy     string    `db:"created_by"`
}
