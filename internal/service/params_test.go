package service

import (
	"github.com/billforge/billforge/internal/testutil"
)

// newTestServiceParams wires ServiceParams from the suite's in-memory
// repositories and fakes
func newTestServiceParams(s *testutil.BaseServiceTestSuite) ServiceParams {
	return ServiceParams{
		Logger:       s.GetLogger(),
		Config:       s.GetConfig(),
		DB:           s.GetDB(),
		AuthProvider: s.GetAuthProvider(),
		EmailSender:  s.GetEmailSender(),
		Notifier:     s.GetNotifier(),
		Cache:        s.GetCache(),
		OrgRepo:      s.GetStores().OrgRepo,
		UserRepo:     s.GetStores().UserRepo,
		AuthRepo:     s.GetStores().AuthRepo,
		ClientRepo:   s.GetStores().ClientRepo,
		InvoiceRepo:  s.GetStores().InvoiceRepo,
		PaymentRepo:  s.GetStores().PaymentRepo,
		ReceiptRepo:  s.GetStores().ReceiptRepo,
		SettingsRepo: s.GetStores().SettingsRepo,
	}
}
