package dto

import (
	"context"

	"github.com/billforge/billforge/internal/domain/client"
	"github.com/billforge/billforge/internal/types"
	"github.com/billforge/billforge/internal/validator"
)

// CreateClientRequest creates a client inside the active organization
type CreateClientRequest struct {
	Name     string         `json:"name" validate:"required,min=1"`
	Email    string         `json:"email,omitempty" validate:"omitempty,email"`
	Phone    string         `json:"phone,omitempty"`
	Address  string         `json:"address,omitempty"`
	GSTIN    string         `json:"gstin,omitempty"`
	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *CreateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ToClient converts the request into a domain client
func (r *CreateClientRequest) ToClient(ctx context.Context) *client.Client {
	return &client.Client{
		ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_CLIENT),
		OrganizationID: types.GetOrganizationID(ctx),
		Name:           r.Name,
		Email:          r.Email,
		Phone:          r.Phone,
		Address:        r.Address,
		GSTIN:          r.GSTIN,
		Metadata:       r.Metadata,
		BaseModel:      types.GetDefaultBaseModel(ctx),
	}
}

// UpdateClientRequest partially updates a client
type UpdateClientRequest struct {
	Name     *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Email    *string        `json:"email,omitempty" validate:"omitempty,email"`
	Phone    *string        `json:"phone,omitempty"`
	Address  *string        `json:"address,omitempty"`
	GSTIN    *string        `json:"gstin,omitempty"`
	Metadata types.Metadata `json:"metadata,omitempty"`
}

func (r *UpdateClientRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// ClientResponse represents a client in API responses
type ClientResponse struct {
	*client.Client
}

// NewClientResponse creates a new client response
func NewClientResponse(c *client.Client) *ClientResponse {
	return &ClientResponse{Client: c}
}

// ListClientsResponse is a paginated client list
type ListClientsResponse struct {
	Items      []*ClientResponse        `json:"items"`
	Pagination types.PaginationResponse `json:"pagination"`
}
