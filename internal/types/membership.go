package types

import (
	"fmt"

	"github.com/samber/lo"
)

// MembershipRole represents a user's role inside an organization
type MembershipRole string

const (
	MembershipRoleOwner  MembershipRole = "owner"
	MembershipRoleAdmin  MembershipRole = "admin"
	MembershipRoleMember MembershipRole = "member"
)

func (r MembershipRole) String() string {
	return string(r)
}

func (r MembershipRole) Validate() error {
	allowed := []MembershipRole{
		MembershipRoleOwner,
		MembershipRoleAdmin,
		MembershipRoleMember,
	}
	if !lo.Contains(allowed, r) {
		return fmt.Errorf("invalid membership role: %s", r)
	}
	return nil
}

// CanManageSettings reports whether the role may mutate organization settings
func (r MembershipRole) CanManageSettings() bool {
	return r == MembershipRoleOwner || r == MembershipRoleAdmin
}
