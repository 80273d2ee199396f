package service

import (
	"regexp"
	"testing"
	"time"

	"github.com/billforge/billforge/internal/api/dto"
	ierr "github.com/billforge/billforge/internal/errors"
	"github.com/billforge/billforge/internal/testutil"
	"github.com/billforge/billforge/internal/types"
	"github.com/stretchr/testify/suite"
)

var otpCodePattern = regexp.MustCompile(`\d{6}`)

type AuthServiceSuite struct {
	testutil.BaseServiceTestSuite
	service AuthService
}

func TestAuthService(t *testing.T) {
	suite.Run(t, new(AuthServiceSuite))
}

func (s *AuthServiceSuite) SetupTest() {
	s.BaseServiceTestSuite.SetupTest()
	s.service = NewAuthService(newTestServiceParams(&s.BaseServiceTestSuite))
}

// latestCode extracts the verification code from the most recent captured email
func (s *AuthServiceSuite) latestCode() string {
	messages := s.GetEmailClient().Messages()
	s.Require().NotEmpty(messages)
	code := otpCodePattern.FindString(messages[len(messages)-1].Text)
	s.Require().Len(code, 6)
	return code
}

func (s *AuthServiceSuite) sendOTP(email string) string {
	_, err := s.service.SendOTP(s.GetContext(), &dto.SendOTPRequest{Email: email})
	s.Require().NoError(err)
	return s.latestCode()
}

func (s *AuthServiceSuite) register(email, code string) *dto.AuthResponse {
	resp, err := s.service.Register(s.GetContext(), &dto.RegisterRequest{
		Email:            email,
		Code:             code,
		Password:         "correct-horse",
		Name:             "Priya",
		OrganizationName: "Priya Designs",
	})
	s.Require().NoError(err)
	return resp
}

func (s *AuthServiceSuite) TestRegistrationFlow() {
	code := s.sendOTP("priya@example.com")

	_, err := s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  code,
	})
	s.NoError(err)

	resp := s.register("priya@example.com", code)
	s.NotEmpty(resp.Token)
	s.NotEmpty(resp.UserID)
	s.NotEmpty(resp.OrganizationID)
	s.Equal("priya@example.com", resp.Email)

	// The owner membership and default settings come with registration
	memberships, err := s.GetStores().OrgRepo.ListMembershipsByUser(s.GetContext(), resp.UserID)
	s.NoError(err)
	s.Require().Len(memberships, 1)
	s.Equal(types.MembershipRoleOwner, memberships[0].Role)
	s.Equal(resp.OrganizationID, memberships[0].OrganizationID)

	orgCtx := testutil.ContextForOrganization(resp.OrganizationID, resp.UserID)
	invoiceSettings, err := s.GetStores().SettingsRepo.GetInvoiceSettings(orgCtx)
	s.NoError(err)
	s.Equal("INV-", invoiceSettings.NumberPrefix)
	s.Equal(int64(1), invoiceSettings.NextSequence)
	s.Equal(types.InvoiceDefaultDueDays, invoiceSettings.DefaultDueDays)

	companySettings, err := s.GetStores().SettingsRepo.GetCompanySettings(orgCtx)
	s.NoError(err)
	s.Equal("Priya Designs", companySettings.LegalName)

	emailSettings, err := s.GetStores().SettingsRepo.GetEmailSettings(orgCtx)
	s.NoError(err)
	s.Equal("Priya Designs", emailSettings.FromName)
}

func (s *AuthServiceSuite) TestRegisterConsumesCode() {
	code := s.sendOTP("priya@example.com")
	s.register("priya@example.com", code)

	_, err := s.service.Register(s.GetContext(), &dto.RegisterRequest{
		Email:            "priya@example.com",
		Code:             code,
		Password:         "correct-horse",
		Name:             "Priya",
		OrganizationName: "Priya Designs Two",
	})
	s.Error(err)
	s.True(ierr.IsNotFound(err))
}

func (s *AuthServiceSuite) TestSendOTPForRegisteredEmail() {
	code := s.sendOTP("priya@example.com")
	s.register("priya@example.com", code)

	_, err := s.service.SendOTP(s.GetContext(), &dto.SendOTPRequest{Email: "priya@example.com"})
	s.Error(err)
	s.True(ierr.IsAlreadyExists(err))
}

func (s *AuthServiceSuite) TestVerifyOTPWrongCode() {
	code := s.sendOTP("priya@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	_, err := s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  wrong,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))

	otp, err := s.GetStores().AuthRepo.GetLatestOTP(s.GetContext(), "priya@example.com")
	s.NoError(err)
	s.Equal(1, otp.Attempts)

	// The correct code still works while attempts remain
	_, err = s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  code,
	})
	s.NoError(err)
}

func (s *AuthServiceSuite) TestVerifyOTPAttemptsExhausted() {
	code := s.sendOTP("priya@example.com")

	wrong := "000000"
	if wrong == code {
		wrong = "000001"
	}

	for i := 0; i < s.GetConfig().Auth.OTPMaxAttempts; i++ {
		_, err := s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
			Email: "priya@example.com",
			Code:  wrong,
		})
		s.Error(err)
		s.True(ierr.IsValidation(err))
	}

	// Even the correct code is refused once attempts are exhausted
	_, err := s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  code,
	})
	s.Error(err)
	s.True(ierr.IsTooManyRequests(err))
}

func (s *AuthServiceSuite) TestVerifyOTPExpired() {
	code := s.sendOTP("priya@example.com")

	otp, err := s.GetStores().AuthRepo.GetLatestOTP(s.GetContext(), "priya@example.com")
	s.Require().NoError(err)
	otp.ExpiresAt = time.Now().UTC().Add(-time.Minute)
	s.Require().NoError(s.GetStores().AuthRepo.UpdateOTP(s.GetContext(), otp))

	_, err = s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  code,
	})
	s.Error(err)
	s.True(ierr.IsValidation(err))
}

func (s *AuthServiceSuite) TestResendInvalidatesPreviousCode() {
	first := s.sendOTP("priya@example.com")

	_, err := s.service.ResendOTP(s.GetContext(), &dto.SendOTPRequest{Email: "priya@example.com"})
	s.NoError(err)
	second := s.latestCode()

	if first != second {
		_, err = s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
			Email: "priya@example.com",
			Code:  first,
		})
		s.Error(err)
	}

	_, err = s.service.VerifyOTP(s.GetContext(), &dto.VerifyOTPRequest{
		Email: "priya@example.com",
		Code:  second,
	})
	s.NoError(err)
}

func (s *AuthServiceSuite) TestLogin() {
	code := s.sendOTP("priya@example.com")
	registered := s.register("priya@example.com", code)

	resp, err := s.service.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "priya@example.com",
		Password: "correct-horse",
	})
	s.NoError(err)
	s.NotEmpty(resp.Token)
	s.Equal(registered.UserID, resp.UserID)
	// The sole membership selects the organization implicitly
	s.Equal(registered.OrganizationID, resp.OrganizationID)
}

func (s *AuthServiceSuite) TestLoginInvalidCredentials() {
	code := s.sendOTP("priya@example.com")
	s.register("priya@example.com", code)

	_, err := s.service.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "priya@example.com",
		Password: "wrong-password",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))

	_, err = s.service.Login(s.GetContext(), &dto.LoginRequest{
		Email:    "nobody@example.com",
		Password: "whatever",
	})
	s.Error(err)
	s.True(ierr.IsPermissionDenied(err))
}
