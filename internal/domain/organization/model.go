package organization

import (
	"github.com/billforge/billforge/internal/types"
)

// Organization is the tenant boundary. Every business record carries the
// ID of exactly one organization and is invisible outside of it.
type Organization struct {
	ID      string `db:"id" json:"id"`
	Name    string `db:"name" json:"name"`
	Email   string `db:"email" json:"email"`
	Phone   string `db:"phone" json:"phone"`
	Address string `db:"address" json:"address"`
	GSTIN   string `db:"gstin" json:"gstin"`

	types.BaseModel
}

// Membership links a user to an organization with a role
type Membership struct {
	ID             string               `db:"id" json:"id"`
	OrganizationID string               `db:"organization_id" json:"organization_id"`
	UserID         string               `db:"user_id" json:"user_id"`
	Role           types.MembershipRole `db:"role" json:"role"`

	types.BaseModel
}
