package domain_test

import (
	"testing"

	"github.com/cargoseal/cargoseal_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestRole_CanCreate(t *testing.T) {
	tests := []struct {
		name   string
		actor  domain.Role
		target domain.Role
		want   bool
	}{
		{name: "superadmin creates admin", actor: domain.RoleSuperAdmin, target: domain.RoleAdmin, want: true},
		{name: "superadmin cannot create company", actor: domain.RoleSuperAdmin, target: domain.RoleCompany, want: false},
		{name: "superadmin cannot create employee", actor: domain.RoleSuperAdmin, target: domain.RoleEmployee, want: false},
		{name: "superadmin cannot create superadmin", actor: domain.RoleSuperAdmin, target: domain.RoleSuperAdmin, want: false},
		{name: "admin creates company", actor: domain.RoleAdmin, target: domain.RoleCompany, want: true},
		{name: "admin creates employee", actor: domain.RoleAdmin, target: domain.RoleEmployee, want: true},
		{name: "admin cannot create admin", actor: domain.RoleAdmin, target: domain.RoleAdmin, want: false},
		{name: "company creates nothing", actor: domain.RoleCompany, target: domain.RoleEmployee, want: false},
		{name: "employee creates nothing", actor: domain.RoleEmployee, target: domain.RoleEmployee, want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.actor.CanCreate(tt.target))
		})
	}
}

func TestAccount_SubroleHelpers(t *testing.T) {
	operator := domain.SubroleOperator
	guard := domain.SubroleGuard

	opAccount := domain.Account{Role: domain.RoleEmployee, Subrole: &operator}
	assert.True(t, opAccount.IsOperator())
	assert.False(t, opAccount.IsGuard())

	guardAccount := domain.Account{Role: domain.RoleEmployee, Subrole: &guard}
	assert.True(t, guardAccount.IsGuard())

	// A subrole on a non-employee account carries no capability.
	companyAccount := domain.Account{Role: domain.RoleCompany, Subrole: &operator}
	assert.False(t, companyAccount.IsOperator())

	assert.False(t, domain.Account{Role: domain.RoleEmployee}.IsOperator())
}
