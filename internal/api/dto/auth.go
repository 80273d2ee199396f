package dto

import (
	"github.com/billforge/billforge/internal/validator"
)

// SendOTPRequest starts email verification for registration
type SendOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
}

func (r *SendOTPRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// VerifyOTPRequest checks a code without consuming it for registration
type VerifyOTPRequest struct {
	Email string `json:"email" validate:"required,email"`
	Code  string `json:"code" validate:"required,len=6,numeric"`
}

func (r *VerifyOTPRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// RegisterRequest completes registration with a verified code. It creates
// the user, their organization and default settings in one step.
type RegisterRequest struct {
	Email            string `json:"email" validate:"required,email"`
	Code             string `json:"code" validate:"required,len=6,numeric"`
	Password         string `json:"password" validate:"required,min=8"`
	Name             string `json:"name" validate:"required"`
	OrganizationName string `json:"organization_name" validate:"required"`
}

func (r *RegisterRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// LoginRequest authenticates an existing user
type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

func (r *LoginRequest) Validate() error {
	return validator.ValidateRequest(r)
}

// AuthResponse carries the issued token and user identity
type AuthResponse struct {
	Token          string `json:"token"`
	UserID         string `json:"user_id"`
	Email          string `json:"email"`
	OrganizationID string `json:"organization_id,omitempty"`
}

// OTPResponse acknowledges an OTP operation
type OTPResponse struct {
	Message string `json:"message"`
}
