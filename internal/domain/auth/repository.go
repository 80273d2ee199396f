package auth

import "context"

// Repository provides access to credential and OTP storage
type Repository interface {
	CreateAuth(ctx context.Context, auth *Auth) error
	GetAuth(ctx context.Context, userID string) (*Auth, error)
	UpdateAuth(ctx context.Context, auth *Auth) error

	CreateOTP(ctx context.Context, otp *EmailOTP) error
	// GetLatestOTP returns the most recently issued unconsumed OTP for the email
	GetLatestOTP(ctx context.Context, email string) (*EmailOTP, error)
	UpdateOTP(ctx context.Context, otp *EmailOTP) error
	// InvalidateOTPs marks every outstanding OTP for the email as consumed
	InvalidateOTPs(ctx context.Context, email string) error
}
