package models

// Company represents a row in the companies table.
type Company struct {
	CompanyID    string `db:"company_id"`
	Name         string `db:"name"`
	ContactEmail string `db:"contact_email"`
	Phone        string `db:"phone"`
	Address      string `db:"address"`
	AuditFields
}
