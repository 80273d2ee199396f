package testutil

import (
	"context"
	"strings"
	"sync"

	"github.com/billforge/billforge/internal/domain/auth"
	ierr "github.com/billforge/billforge/internal/errors"
)

var _ auth.Repository = (*InMemoryAuthStore)(nil)

// InMemoryAuthStore implements auth.Repository
type InMemoryAuthStore struct {
	mu    sync.RWMutex
	auths map[string]*auth.Auth
	otps  map[string]*auth.EmailOTP
}

// NewInMemoryAuthStore creates a new in-memory auth repository
func NewInMemoryAuthStore() *InMemoryAuthStore {
	return &InMemoryAuthStore{
		auths: make(map[string]*auth.Auth),
		otps:  make(map[string]*auth.EmailOTP),
	}
}

// Clear resets all stored data
func (s *InMemoryAuthStore) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auths = make(map[string]*auth.Auth)
	s.otps = make(map[string]*auth.EmailOTP)
}

type authSnapshot struct {
	auths map[string]*auth.Auth
	otps  map[string]*auth.EmailOTP
}

// Snapshot captures credentials and pending codes for transaction rollback
func (s *InMemoryAuthStore) Snapshot() any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := authSnapshot{
		auths: make(map[string]*auth.Auth, len(s.auths)),
		otps:  make(map[string]*auth.EmailOTP, len(s.otps)),
	}
	for id, a := range s.auths {
		snap.auths[id] = a
	}
	for id, otp := range s.otps {
		snap.otps[id] = otp
	}
	return snap
}

// Restore resets the store to a previously captured snapshot
func (s *InMemoryAuthStore) Restore(state any) {
	snap := state.(authSnapshot)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.auths = snap.auths
	s.otps = snap.otps
}

func (s *InMemoryAuthStore) CreateAuth(ctx context.Context, a *auth.Auth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auths[a.UserID]; exists {
		return ierr.NewError("auth already exists").
			WithHint("Credentials already exist for this user").
			Mark(ierr.ErrAlreadyExists)
	}

	s.auths[a.UserID] = a
	return nil
}

func (s *InMemoryAuthStore) GetAuth(ctx context.Context, userID string) (*auth.Auth, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if a, exists := s.auths[userID]; exists {
		return a, nil
	}
	return nil, ierr.NewError("auth not found").
		WithHint("No credentials exist for this user").
		Mark(ierr.ErrNotFound)
}

func (s *InMemoryAuthStore) UpdateAuth(ctx context.Context, a *auth.Auth) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.auths[a.UserID]; !exists {
		return ierr.NewError("auth not found").
			WithHint("No credentials exist for this user").
			Mark(ierr.ErrNotFound)
	}

	s.auths[a.UserID] = a
	return nil
}

func (s *InMemoryAuthStore) CreateOTP(ctx context.Context, otp *auth.EmailOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.otps[otp.ID] = otp
	return nil
}

func (s *InMemoryAuthStore) GetLatestOTP(ctx context.Context, email string) (*auth.EmailOTP, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var latest *auth.EmailOTP
	for _, otp := range s.otps {
		if !strings.EqualFold(otp.Email, email) || otp.Consumed {
			continue
		}
		if latest == nil || otp.CreatedAt.After(latest.CreatedAt) {
			latest = otp
		}
	}

	if latest == nil {
		return nil, ierr.NewError("otp not found").
			WithHint("No verification code is pending for this email").
			Mark(ierr.ErrNotFound)
	}
	cp := *latest
	return &cp, nil
}

func (s *InMemoryAuthStore) UpdateOTP(ctx context.Context, otp *auth.EmailOTP) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.otps[otp.ID]; !exists {
		return ierr.NewError("otp not found").
			WithHint("No verification code is pending for this email").
			Mark(ierr.ErrNotFound)
	}

	s.otps[otp.ID] = otp
	return nil
}

func (s *InMemoryAuthStore) InvalidateOTPs(ctx context.Context, email string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, otp := range s.otps {
		if strings.EqualFold(otp.Email, email) {
			cp := *otp
			cp.Consumed = true
			s.otps[id] = &cp
		}
	}
	return nil
}
