package models

// Account represents a row in the accounts table.
// Subrole, CompanyID and CreatedByID are nullable; the repository scans them
// through sql null types.
type Account struct {
	AccountID    string  `db:"account_id"`
	Name         string  `db:"name"`
	Email        string  `db:"email"`
	PasswordHash string  `db:"password_hash"`
	Role         string  `db:"role"`
	Subrole      *string `db:"subrole"`
	CompanyID    *string `db:"company_id"`
	CreatedByID  *string `db:"created_by_id"`
	CoinBalance  int64   `db:"coin_balance"`
	Phone        string  `db:"phone"`
	Address      string  `db:"address"`
	IsSystem     bool    `db:"is_system"`
	AuditFields
}
