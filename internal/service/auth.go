package service

import (
	"context"
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	domainAuth "github.com/billforge/billforge/internal/domain/auth"
	"github.com/billforge/billforge/internal/domain/organization"
	"github.com/billforge/billforge/internal/domain/settings"
	"github.com/billforge/billforge/internal/domain/user"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/types"
	"golang.org/x/crypto/bcrypt"
)

// AuthService handles OTP based registration and login
type AuthService interface {
	SendOTP(ctx context.Context, req *dto.SendOTPRequest) (*dto.OTPResponse, error)
	VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.OTPResponse, error)
	ResendOTP(ctx context.Context, req *dto.SendOTPRequest) (*dto.OTPResponse, error)
	Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error)
	Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error)
}

type authService struct {
	ServiceParams
}

func NewAuthService(params ServiceParams) AuthService {
	return &authService{ServiceParams: params}
}

func (s *authService) SendOTP(ctx context.Context, req *dto.SendOTPRequest) (*dto.OTPResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if _, err := s.UserRepo.GetByEmail(ctx, email); err == nil {
		return nil, ierr.NewError("email already registered").
			WithHint("an account with this email already exists").
			Mark(ierr.ErrAlreadyExists)
	} else if !ierr.IsNotFound(err) {
		return nil, err
	}

	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}
	return &dto.OTPResponse{Message: "verification code sent"}, nil
}

func (s *authService) ResendOTP(ctx context.Context, req *dto.SendOTPRequest) (*dto.OTPResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.issueOTP(ctx, email); err != nil {
		return nil, err
	}
	return &dto.OTPResponse{Message: "verification code sent"}, nil
}

// issueOTP invalidates outstanding codes for the email and sends a new one
func (s *authService) issueOTP(ctx context.Context, email string) error {
	if err := s.AuthRepo.InvalidateOTPs(ctx, email); err != nil {
		return err
	}

	code, err := generateOTPCode()
	if err != nil {
		return err
	}
	codeHash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		return ierr.WithError(err).
			WithHint("failed to issue verification code").
			Mark(ierr.ErrSystem)
	}

	otp := domainAuth.NewEmailOTP(email, string(codeHash), s.Config.Auth.OTPExpiry)
	if err := s.AuthRepo.CreateOTP(ctx, otp); err != nil {
		return err
	}

	ttlMinutes := int(s.Config.Auth.OTPExpiry.Minutes())
	if err := s.EmailSender.SendOTP(ctx, email, code, ttlMinutes); err != nil {
		return err
	}

	s.Logger.Infow("issued verification code", "email", email)
	return nil
}

func (s *authService) VerifyOTP(ctx context.Context, req *dto.VerifyOTPRequest) (*dto.OTPResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkOTP(ctx, email, req.Code, false); err != nil {
		return nil, err
	}
	return &dto.OTPResponse{Message: "verification code valid"}, nil
}

// checkOTP validates the code against the latest outstanding OTP. Failed
// attempts are counted; consume marks the code used on success.
func (s *authService) checkOTP(ctx context.Context, email, code string, consume bool) error {
	otp, err := s.AuthRepo.GetLatestOTP(ctx, email)
	if err != nil {
		return err
	}

	if otp.IsExpired(time.Now().UTC()) {
		return ierr.NewError("verification code expired").
			WithHint("the verification code has expired, request a new one").
			Mark(ierr.ErrValidation)
	}
	if otp.Attempts >= s.Config.Auth.OTPMaxAttempts {
		return ierr.NewError("too many verification attempts").
			WithHint("too many attempts, request a new verification code").
			Mark(ierr.ErrTooManyRequests)
	}

	if err := bcrypt.CompareHashAndPassword([]byte(otp.CodeHash), []byte(code)); err != nil {
		otp.Attempts++
		if updateErr := s.AuthRepo.UpdateOTP(ctx, otp); updateErr != nil {
			s.Logger.Errorw("failed to record otp attempt", "error", updateErr)
		}
		return ierr.NewError("invalid verification code").
			WithHint("the verification code is incorrect").
			Mark(ierr.ErrValidation)
	}

	if consume {
		otp.Consumed = true
		if err := s.AuthRepo.UpdateOTP(ctx, otp); err != nil {
			return err
		}
	}
	return nil
}

func (s *authService) Register(ctx context.Context, req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	if err := s.checkOTP(ctx, email, req.Code, true); err != nil {
		return nil, err
	}

	passwordHash, err := s.AuthProvider.EncryptPassword(ctx, req.Password)
	if err != nil {
		return nil, err
	}

	var u *user.User
	var org *organization.Organization

	// User, credentials, organization, membership and settings are one
	// atomic unit: a failure anywhere leaves no partial registration.
	err = s.DB.WithTx(ctx, func(ctx context.Context) error {
		u = user.NewUser(ctx, email, req.Name)
		u.CreatedBy = u.ID
		u.UpdatedBy = u.ID
		if err := s.UserRepo.Create(ctx, u); err != nil {
			return err
		}

		ctx = types.SetUserID(ctx, u.ID)
		now := time.Now().UTC()

		if err := s.AuthRepo.CreateAuth(ctx, &domainAuth.Auth{
			UserID:       u.ID,
			PasswordHash: passwordHash,
			CreatedAt:    now,
			UpdatedAt:    now,
		}); err != nil {
			return err
		}

		org = &organization.Organization{
			ID:        types.GenerateUUIDWithPrefix(types.UUID_PREFIX_ORGANIZATION),
			Name:      req.OrganizationName,
			Email:     email,
			BaseModel: types.GetDefaultBaseModel(ctx),
		}
		if err := s.OrgRepo.Create(ctx, org); err != nil {
			return err
		}

		membership := &organization.Membership{
			ID:             types.GenerateUUIDWithPrefix(types.UUID_PREFIX_MEMBERSHIP),
			OrganizationID: org.ID,
			UserID:         u.ID,
			Role:           types.MembershipRoleOwner,
			BaseModel:      types.GetDefaultBaseModel(ctx),
		}
		if err := s.OrgRepo.CreateMembership(ctx, membership); err != nil {
			return err
		}

		ctx = types.SetOrganizationID(ctx, org.ID)
		base := types.GetDefaultBaseModel(ctx)
		if err := s.SettingsRepo.CreateInvoiceSettings(ctx, settings.DefaultInvoiceSettings(org.ID, base)); err != nil {
			return err
		}
		if err := s.SettingsRepo.CreateCompanySettings(ctx, &settings.CompanySettings{
			OrganizationID: org.ID,
			LegalName:      req.OrganizationName,
			BaseModel:      base,
		}); err != nil {
			return err
		}
		return s.SettingsRepo.CreateEmailSettings(ctx, &settings.EmailSettings{
			OrganizationID: org.ID,
			FromName:       req.OrganizationName,
			BaseModel:      base,
		})
	})
	if err != nil {
		return nil, err
	}

	token, err := s.AuthProvider.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	s.Logger.Infow("registered user",
		"user_id", u.ID,
		"organization_id", org.ID,
	)
	return &dto.AuthResponse{
		Token:          token,
		UserID:         u.ID,
		Email:          u.Email,
		OrganizationID: org.ID,
	}, nil
}

func (s *authService) Login(ctx context.Context, req *dto.LoginRequest) (*dto.AuthResponse, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	email := strings.ToLower(strings.TrimSpace(req.Email))
	u, err := s.UserRepo.GetByEmail(ctx, email)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentialsError()
		}
		return nil, err
	}

	a, err := s.AuthRepo.GetAuth(ctx, u.ID)
	if err != nil {
		if ierr.IsNotFound(err) {
			return nil, invalidCredentialsError()
		}
		return nil, err
	}

	if err := s.AuthProvider.ValidatePassword(ctx, req.Password, a.PasswordHash); err != nil {
		return nil, invalidCredentialsError()
	}

	token, err := s.AuthProvider.IssueToken(ctx, u.ID)
	if err != nil {
		return nil, err
	}

	response := &dto.AuthResponse{
		Token:  token,
		UserID: u.ID,
		Email:  u.Email,
	}

	// Include the organization when the user has exactly one membership
	memberships, err := s.OrgRepo.ListMembershipsByUser(ctx, u.ID)
	if err == nil && len(memberships) == 1 {
		response.OrganizationID = memberships[0].OrganizationID
	}
	return response, nil
}

func invalidCredentialsError() error {
	return ierr.NewError("invalid credentials").
		WithHint("invalid email or password").
		Mark(ierr.ErrPermissionDenied)
}

// generateOTPCode returns a 6 digit numeric code
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(1000000))
	if err != nil {
		return "", ierr.WithError(err).
			WithHint("failed to issue verification code").
			Mark(ierr.ErrSystem)
	}
	return fmt.Sprintf("%06d", n.Int64()), nil
}
