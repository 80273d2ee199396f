package auth

import (
	"time"

	"github.com/billforge/billforge/internal/types"
)

// Auth stores the credential material for a user. The password is kept as a
// bcrypt hash and never leaves this package in plain form.
type Auth struct {
	UserID       string    `db:"user_id"`
	PasswordHash string    `db:"password_hash"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

// EmailOTP is a one-time code issued during registration. It is valid for a
// short window and a bounded number of verification attempts.
type EmailOTP struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	CodeHash  string    `db:"code_hash"`
	ExpiresAt time.Time `db:"expires_at"`
	Attempts  int       `db:"attempts"`
	Consumed  bool      `db:"consumed"`
	CreatedAt time.Time `db:"created_at"`
}

// IsExpired reports whether the code can no longer be verified
func (o *EmailOTP) IsExpired(now time.Time) bool {
	return now.After(o.ExpiresAt)
}

// NewEmailOTP creates a fresh OTP record for the given email
func NewEmailOTP(email, codeHash string, ttl time.Duration) *EmailOTP {
	now := time.Now().UTC()
	return &EmailOTP{
		ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_EMAIL_OTP),
		Email:     email,
		CodeHash:  codeHash,
		ExpiresAt: now.Add(ttl),
		CreatedAt: now,
	}
}
