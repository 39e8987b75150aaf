package domain

// Role defines the privilege tier of an account.
type Role string

const (
	RoleSuperAdmin Role = "SUPERADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleCompany    Role = "COMPANY"
	RoleEmployee   Role = "EMPLOYEE"
)

// Subrole refines the Employee role. It is meaningless on any other role.
type Subrole string

const (
	SubroleOperator    Subrole = "OPERATOR"
	SubroleDriver      Subrole = "DRIVER"
	SubroleTransporter Subrole = "TRANSPORTER"
	SubroleGuard       Subrole = "GUARD"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleCompany, RoleEmployee:
		return true
	}
	return false
}

// Valid reports whether s is a known subrole.
func (s Subrole) Valid() bool {
	switch s {
	case SubroleOperator, SubroleDriver, SubroleTransporter, SubroleGuard:
		return true
	}
	return false
}

// CanCreate reports whether an account holding role r may provision an
// account with the target role. SuperAdmins provision Admins; Admins
// provision Companies and Employees; nobody else provisions anything.
func (r Role) CanCreate(target Role) bool {
	switch r {
	case RoleSuperAdmin:
		return target == RoleAdmin
	case RoleAdmin:
		return target == RoleCompany || target == RoleEmployee
	}
	return false
}

// Account represents a system identity with a role and an integer coin balance.
type Account struct {
	AccountID    string   `json:"accountID"`         // Primary Key (UUID)
	Name         string   `json:"name"`
	Email        string   `json:"email"`             // Unique login identity
	PasswordHash string   `json:"-"`                 // bcrypt hash, never serialized
	Role         Role     `json:"role"`
	Subrole      *Subrole `json:"subrole,omitempty"` // Set only when Role == RoleEmployee
	CompanyID    *string  `json:"companyID,omitempty"` // FK -> companies.company_id
	CreatedByID  *string  `json:"createdByID,omitempty"` // Provisioning parent; nil for the bootstrap account
	CoinBalance  int64    `json:"coinBalance"`       // Whole coins, never negative
	Phone        string   `json:"phone,omitempty"`
	Address      string   `json:"address,omitempty"`
	IsSystem     bool     `json:"isSystem"` // Designated sink/source for session-start debits
	AuditFields
}

// IsEmployee reports whether the account holds the Employee role.
func (a Account) IsEmployee() bool {
	return a.Role == RoleEmployee
}

// HasSubrole reports whether the account is an Employee with the given subrole.
func (a Account) HasSubrole(s Subrole) bool {
	return a.Role == RoleEmployee && a.Subrole != nil && *a.Subrole == s
}

// IsOperator reports whether the account may create sessions.
func (a Account) IsOperator() bool {
	return a.HasSubrole(SubroleOperator)
}

// IsGuard reports whether the account may verify seals.
func (a Account) IsGuard() bool {
	return a.HasSubrole(SubroleGuard)
}
