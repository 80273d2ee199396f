package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInvoiceStatusIsPayable(t *testing.T) {
	assert.True(t, InvoiceStatusSent.IsPayable())
	assert.True(t, InvoiceStatusPartiallyPaid.IsPayable())
	assert.True(t, InvoiceStatusOverdue.IsPayable())

	assert.False(t, InvoiceStatusDraft.IsPayable())
	assert.False(t, InvoiceStatusPaid.IsPayable())
}

func TestInvoiceStatusValidate(t *testing.T) {
	for _, s := range []InvoiceStatus{
		InvoiceStatusDraft,
		InvoiceStatusSent,
		InvoiceStatusPartiallyPaid,
		InvoiceStatusPaid,
		InvoiceStatusOverdue,
	} {
		assert.NoError(t, s.Validate())
	}
	assert.Error(t, InvoiceStatus("CANCELLED").Validate())
}

func TestPaymentMethodValidate(t *testing.T) {
	for _, m := range []PaymentMethod{
		PaymentMethodCash,
		PaymentMethodBankTransfer,
		PaymentMethodUPI,
		PaymentMethodCheque,
		PaymentMethodCard,
	} {
		assert.NoError(t, m.Validate())
	}
	assert.Error(t, PaymentMethod("BARTER").Validate())
}

func TestMembershipRoleCanManageSettings(t *testing.T) {
	assert.True(t, MembershipRoleOwner.CanManageSettings())
	assert.True(t, MembershipRoleAdmin.CanManageSettings())
	assert.False(t, MembershipRoleMember.CanManageSettings())
}
