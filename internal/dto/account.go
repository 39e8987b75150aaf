package dto

import (
	"time"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
)

// CreateAccountRequest defines the payload for provisioning a new account.
// For role=COMPANY the company fields seed the paired Company record; for
// role=EMPLOYEE both Subrole and CompanyID are required.
type CreateAccountRequest struct {
	Name     string          `json:"name" binding:"required"`
	Email    string          `json:"email" binding:"required,email"`
	Password string          `json:"password" binding:"required,min=8"`
	Role     domain.Role     `json:"role" binding:"required,oneof=ADMIN COMPANY EMPLOYEE"`
	Subrole  *domain.Subrole `json:"subrole,omitempty" binding:"omitempty,oneof=OPERATOR DRIVER TRANSPORTER GUARD"`
	CompanyID *string        `json:"companyID,omitempty"`
	Phone    string          `json:"phone,omitempty"`
	Address  string          `json:"address,omitempty"`
	// CompanyName names the paired Company record when role=COMPANY.
	// Defaults to Name when omitted.
	CompanyName string `json:"companyName,omitempty"`
}

// AccountResponse is the public representation of an account.
type AccountResponse struct {
	AccountID   string          `json:"accountID"`
	Name        string          `json:"name"`
	Email       string          `json:"email"`
	Role        domain.Role     `json:"role"`
	Subrole     *domain.Subrole `json:"subrole,omitempty"`
	CompanyID   *string         `json:"companyID,omitempty"`
	CreatedByID *string         `json:"createdByID,omitempty"`
	CoinBalance int64           `json:"coinBalance"`
	Phone       string          `json:"phone,omitempty"`
	Address     string          `json:"address,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
}

// ToAccountResponse converts a domain.Account to its response DTO.
func ToAccountResponse(a *domain.Account) AccountResponse {
	return AccountResponse{
		AccountID:   a.AccountID,
		Name:        a.Name,
		Email:       a.Email,
		Role:        a.Role,
		Subrole:     a.Subrole,
		CompanyID:   a.CompanyID,
		CreatedByID: a.CreatedByID,
		CoinBalance: a.CoinBalance,
		Phone:       a.Phone,
		Address:     a.Address,
		CreatedAt:   a.CreatedAt,
	}
}

// ListAccountsParams defines query parameters for listing accounts.
type ListAccountsParams struct {
	Role      string `form:"role" binding:"omitempty,oneof=SUPERADMIN ADMIN COMPANY EMPLOYEE"`
	CompanyID string `form:"companyID"`
	Page      int    `form:"page,default=1"`
	Limit     int    `form:"limit,default=20"`
}

// ListAccountsResponse wraps a page of accounts.
type ListAccountsResponse struct {
	Accounts   []AccountResponse `json:"accounts"`
	Pagination Pagination        `json:"pagination"`
}

// CompanyResponse is the public representation of a company.
type CompanyResponse struct {
	CompanyID    string    `json:"companyID"`
	Name         string    `json:"name"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Phone        string    `json:"phone,omitempty"`
	Address      string    `json:"address,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// ToCompanyResponse converts a domain.Company to its response DTO.
func ToCompanyResponse(c *domain.Company) CompanyResponse {
	return CompanyResponse{
		CompanyID:    c.CompanyID,
		Name:         c.Name,
		ContactEmail: c.ContactEmail,
		Phone:        c.Phone,
		Address:      c.Address,
		CreatedAt:    c.CreatedAt,
	}
}

// ListCompaniesParams defines query parameters for listing companies.
type ListCompaniesParams struct {
	Page  int `form:"page,default=1"`
	Limit int `form:"limit,default=20"`
}

// ListCompaniesResponse wraps a page of companies.
type ListCompaniesResponse struct {
	Companies  []CompanyResponse `json:"companies"`
	Pagination Pagination        `json:"pagination"`
}
