package ledger_test

import (
	"errors"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/ledger"
)

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func TestCheckPayment(t *testing.T) {
	tests := []struct {
		name        string
		invoice     string
		alreadyPaid string
		amount      string
		wantErr     error
	}{
		{"pago parcial", "1000", "0", "800", nil},
		{"completa exacto", "1000", "800", "200", nil},
		{"sobrepago", "500", "300", "250", domain.ErrOverpayment},
		{"monto cero", "500", "0", "0", domain.ErrInvalidInput},
		{"monto negativo", "500", "0", "-10", domain.ErrInvalidInput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ledger.CheckPayment(dec(tt.invoice), dec(tt.alreadyPaid), dec(tt.amount))
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCheckPayment_MensajeSobrepago(t *testing.T) {
	err := ledger.CheckPayment(dec("500.00"), dec("300.00"), dec("250.00"))
	require.Error(t, err)

	var over *domain.OverpaymentError
	require.True(t, errors.As(err, &over))
	assert.True(t, over.AlreadyPaid.Equal(dec("300")))
	assert.Contains(t, err.Error(), "Already paid: $300.00")
	assert.Contains(t, err.Error(), "exceed")
	assert.Contains(t, err.Error(), "remaining: $200.00")
}

func TestApplyPaymentTotal(t *testing.T) {
	paidAt := now.AddDate(0, 0, -1)

	t.Run("borrador con pago parcial pasa a SENT", func(t *testing.T) {
		inv := newInvoice(entity.InvoiceStatusDraft)
		changed := ledger.ApplyPaymentTotal(inv, dec("800"), paidAt, now)
		assert.True(t, changed)
		assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
		require.NotNil(t, inv.SentDate)
		assert.Equal(t, now, *inv.SentDate)
		assert.Nil(t, inv.PaidDate)
	})

	t.Run("borrador pagado completo pasa a PAID", func(t *testing.T) {
		inv := newInvoice(entity.InvoiceStatusDraft)
		ledger.ApplyPaymentTotal(inv, dec("1000"), paidAt, now)
		assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
		require.NotNil(t, inv.SentDate)
		require.NotNil(t, inv.PaidDate)
		assert.Equal(t, paidAt, *inv.PaidDate)
	})

	t.Run("OVERDUE con pago parcial se mantiene", func(t *testing.T) {
		inv := newInvoice(entity.InvoiceStatusOverdue)
		changed := ledger.ApplyPaymentTotal(inv, dec("10"), paidAt, now)
		assert.False(t, changed)
		assert.Equal(t, entity.InvoiceStatusOverdue, inv.Status)
	})

	t.Run("PAID no se degrada", func(t *testing.T) {
		inv := newInvoice(entity.InvoiceStatusPaid)
		inv.PaidDate = &paidAt
		changed := ledger.ApplyPaymentTotal(inv, dec("100"), now, now)
		assert.False(t, changed)
		assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)
		assert.NotNil(t, inv.PaidDate)
	})

	t.Run("CANCELLED es final", func(t *testing.T) {
		inv := newInvoice(entity.InvoiceStatusCancelled)
		changed := ledger.ApplyPaymentTotal(inv, dec("1000"), paidAt, now)
		assert.False(t, changed)
		assert.Equal(t, entity.InvoiceStatusCancelled, inv.Status)
		assert.Nil(t, inv.PaidDate)
	})
}

func TestRevertAfterDeletion(t *testing.T) {
	paidAt := now
	inv := newInvoice(entity.InvoiceStatusPaid)
	inv.PaidDate = &paidAt

	assert.False(t, ledger.RevertAfterDeletion(inv, dec("1000"), now))
	assert.Equal(t, entity.InvoiceStatusPaid, inv.Status)

	assert.True(t, ledger.RevertAfterDeletion(inv, dec("400"), now))
	assert.Equal(t, entity.InvoiceStatusSent, inv.Status)
	assert.Nil(t, inv.PaidDate)

	sent := newInvoice(entity.InvoiceStatusSent)
	assert.False(t, ledger.RevertAfterDeletion(sent, dec("0"), now))
}

func TestSummarize(t *testing.T) {
	payments := []*entity.Payment{
		{Amount: dec("300"), Method: entity.PaymentMethodCash},
		{Amount: dec("200.50"), Method: entity.PaymentMethodBankTransfer},
		{Amount: dec("100"), Method: entity.PaymentMethodCash},
	}
	s := ledger.Summarize(dec("1000"), payments)

	assert.True(t, s.TotalPaid.Equal(dec("600.50")))
	assert.True(t, s.RemainingAmount.Equal(dec("399.50")))
	assert.False(t, s.IsFullyPaid)
	assert.Equal(t, 3, s.PaymentCount)
	assert.True(t, s.PaymentsByMethod[entity.PaymentMethodCash].Equal(dec("400")))
	assert.True(t, s.PaymentsByMethod[entity.PaymentMethodBankTransfer].Equal(dec("200.50")))
}

func TestRemaining_NoNegativo(t *testing.T) {
	assert.True(t, ledger.Remaining(dec("100"), dec("150")).IsZero())
	assert.True(t, ledger.SummarizeTotal(dec("100"), dec("100"), 1).IsFullyPaid)
}
