package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/memory"
)

func seed(t *testing.T, s *memory.Store) *entity.Invoice {
	t.Helper()
	ctx := context.Background()
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	require.NoError(t, s.Clients().Create(ctx, &entity.Client{ID: "c1", Name: "Acme", Currency: "USD"}))
	inv := &entity.Invoice{
		ID: "i1", ClientID: "c1", Number: "INV-2025-0001", Amount: decimal.NewFromInt(100),
		Currency: "USD", IssueDate: now, DueDate: now.AddDate(0, 0, 30), Status: entity.InvoiceStatusSent,
	}
	require.NoError(t, s.Invoices().Create(ctx, inv))
	return inv
}

func TestRunBilling_RollbackOnError(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	seed(t, s)
	boom := errors.New("boom")

	err := s.RunBilling(ctx, func(r billing.BillingRepos) error {
		require.NoError(t, r.Payments.Create(ctx, &entity.Payment{ID: "p1", InvoiceID: "i1", Amount: decimal.NewFromInt(10)}))
		_, err := r.Sequences.Next(ctx, "INV", 2025)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	p, err := s.Payments().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p, "el pago de una transacción revertida no existe")
	n, err := s.Sequences().Next(ctx, "INV", 2025)
	require.NoError(t, err)
	assert.Equal(t, int64(1), n, "la secuencia se revierte con la transacción")
}

func TestRunBilling_CommitAndIsolation(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	inv := seed(t, s)

	err := s.RunBilling(ctx, func(r billing.BillingRepos) error {
		locked, err := r.Invoices.GetForUpdate(ctx, inv.ID)
		if err != nil {
			return err
		}
		locked.Status = entity.InvoiceStatusPaid
		return r.Invoices.Update(ctx, locked)
	})
	require.NoError(t, err)

	got, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, got.Status)

	// Las lecturas devuelven copias.
	got.Status = entity.InvoiceStatusDraft
	again, err := s.Invoices().GetByID(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, entity.InvoiceStatusPaid, again.Status)
}

func TestInvoiceRepo_UniqueNumberAndCascade(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	inv := seed(t, s)

	dup := inv.Clone()
	dup.ID = "i2"
	assert.ErrorIs(t, s.Invoices().Create(ctx, dup), domain.ErrInvoiceNumberExists)

	require.NoError(t, s.Payments().Create(ctx, &entity.Payment{ID: "p1", InvoiceID: inv.ID, Amount: decimal.NewFromInt(40)}))
	require.NoError(t, s.Invoices().Delete(ctx, inv.ID))
	p, err := s.Payments().GetByID(ctx, "p1")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestPaymentRepo_SumExcludes(t *testing.T) {
	s := memory.New()
	ctx := context.Background()
	inv := seed(t, s)
	for i, amt := range []int64{30, 20, 10} {
		require.NoError(t, s.Payments().Create(ctx, &entity.Payment{
			ID: string(rune('a' + i)), InvoiceID: inv.ID, Amount: decimal.NewFromInt(amt),
		}))
	}

	total, n, err := s.Payments().SumByInvoice(ctx, inv.ID, "")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(60)))
	assert.Equal(t, 3, n)

	total, n, err = s.Payments().SumByInvoice(ctx, inv.ID, "b")
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(40)))
	assert.Equal(t, 2, n)
}
