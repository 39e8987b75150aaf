package domain

// Company represents a business entity. Each company has exactly one
// representative Account (role COMPANY, companyID pointing back here) whose
// coin balance is the spendable pool for session creation, plus zero or more
// Employee accounts.
type Company struct {
	CompanyID    string `json:"companyID"` // Primary Key (UUID)
	Name         string `json:"name"`
	ContactEmail string `json:"contactEmail,omitempty"`
	Phone        string `json:"phone,omitempty"`
	Address      string `json:"address,omitempty"`
	AuditFields
}
