package user

import (
	"context"

	"github.com/billforge/billforge/internal/types"
)

// User represents a user of the platform. A user can belong to multiple
// organizations through memberships.
type User struct {
	ID    string `db:"id" json:"id"`
	Email string `db:"email" json:"email"`
	Name  string `db:"name" json:"name"`

	types.BaseModel
}

func NewUser(ctx context.Context, email, name string) *User {
	return &User{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_USER),
		Email:     email,
		Name:      name,
		BaseModel: types.GetDefaultBaseModel(ctx),
	}
}
