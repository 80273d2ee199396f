package dto

import (
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// UpdateOrganizationRequest updates the active organization's profile
type UpdateOrganizationRequest struct {
	Name    *string `json:"name,omitempty" validate:"omitempty,min=1"`
	Email   *string `json:"email,omitempty" validate:"omitempty,email"`
	Phone   *string `json:"phone,omitempty"`
	Address *string `json:"address,omitempty"`
	GSTIN   *string `json:"gstin,omitempty"`
}

func (r *UpdateOrganizationRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// OrganizationResponse represents an organization in API responses
type OrganizationResponse struct {
	*organization.Organization
	// Role is the requesting user's role in this organization
	Role types.MembershipRole `json:"role,omitempty"`
}

// NewOrganizationResponse creates a new organization response
func NewOrganizationResponse(org *organization.Organization) *OrganizationResponse {
	return &OrganizationResponse{Organization: org}
}

// ListOrganizationsResponse lists the requesting user's organizations
type ListOrganizationsResponse struct {
	Items []*OrganizationResponse `json:"items"`
}
