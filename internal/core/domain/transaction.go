package domain

import "time"

// TransactionReason classifies why coins moved.
type TransactionReason string

const (
	ReasonTransfer       TransactionReason = "TRANSFER"
	ReasonCoinAllocation TransactionReason = "COIN_ALLOCATION"
	ReasonSessionStart   TransactionReason = "SESSION_START"
)

// Valid reports whether r is a known transaction reason.
func (r TransactionReason) Valid() bool {
	switch r {
	case ReasonTransfer, ReasonCoinAllocation, ReasonSessionStart:
		return true
	}
	return false
}

// CoinTransaction is the immutable record of a single coin movement between
// two accounts. Rows are inserted exactly once per ledger operation and are
// never updated or deleted.
type CoinTransaction struct {
	TransactionID string            `json:"transactionID"` // Primary Key (UUID)
	FromAccountID string            `json:"fromAccountID"`
	ToAccountID   string            `json:"toAccountID"`
	Amount        int64             `json:"amount"` // Strictly positive whole coins
	Reason        TransactionReason `json:"reason"`
	Note          string            `json:"note,omitempty"`
	CreatedAt     time.Time         `json:"createdAt"`
	CreatedBy     string            `json:"createdBy"` // Acting AccountID
}
