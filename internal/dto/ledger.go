package dto

import (
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// TransferRequest defines the payload for a peer coin transfer.
type TransferRequest struct {
	ToAccountID string `json:"toAccountID" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Reason      string `json:"reason" binding:"omitempty,oneof=TRANSFER"`
	Note        string `json:"note,omitempty"`
}

// AllocateRequest defines the payload for a privileged coin allocation.
type AllocateRequest struct {
	ToAccountID string `json:"toAccountID" binding:"required"`
	Amount      int64  `json:"amount" binding:"required,gt=0"`
	Note        string `json:"note,omitempty"`
}

// TransactionResponse is the public representation of a coin transaction.
type TransactionResponse struct {
	TransactionID string                   `json:"transactionID"`
	FromAccountID string                   `json:"fromAccountID"`
	ToAccountID   string                   `json:"toAccountID"`
	Amount        int64                    `json:"amount"`
	Reason        domain.TransactionReason `json:"reason"`
	Note          string                   `json:"note,omitempty"`
	CreatedAt     time.Time                `json:"createdAt"`
}

// ToTransactionResponse converts a domain.CoinTransaction to its response DTO.
func ToTransactionResponse(t *domain.CoinTransaction) TransactionResponse {
	return TransactionResponse{
		TransactionID: t.TransactionID,
		FromAccountID: t.FromAccountID,
		ToAccountID:   t.ToAccountID,
		Amount:        t.Amount,
		Reason:        t.Reason,
		Note:          t.Note,
		CreatedAt:     t.CreatedAt,
	}
}

// ToTransactionResponses converts a slice of coin transactions.
func ToTransactionResponses(txns []domain.CoinTransaction) []TransactionResponse {
	out := make([]TransactionResponse, len(txns))
	for i := range txns {
		out[i] = ToTransactionResponse(&txns[i])
	}
	return out
}

// ListTransactionsParams defines query parameters for listing transactions.
type ListTransactionsParams struct {
	AccountID string     `form:"accountID"`
	Reason    string     `form:"reason" binding:"omitempty,oneof=TRANSFER COIN_ALLOCATION SESSION_START"`
	FromDate  *time.Time `form:"fromDate" time_format:"2006-01-02"`
	ToDate    *time.Time `form:"toDate" time_format:"2006-01-02"`
	Page      int        `form:"page,default=1"`
	Limit     int        `form:"limit,default=20"`
}

// ListTransactionsResponse wraps a page of transactions.
type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}
