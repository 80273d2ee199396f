package client

import (
	"github.com/billforge/billforge/internal/types"
)

// Client is a customer of an organization, the party an invoice is billed to
type Client struct {
	ID             string `db:"id" json:"id"`
	OrganizationID string `db:"organization_id" json:"organization_id"`
	Name           string `db:"name" json:"name"`
	Email          string `db:"email" json:"email"`
	Phone          string `db:"phone" json:"phone"`
	Address        string `db:"address" json:"address"`
	GSTIN          string `db:"gstin" json:"gstin"`

	types.Metadata `db:"metadata" json:"metadata,omitempty"`
	types.BaseModel
}
