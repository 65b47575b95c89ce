package billing_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/memory"
)

// ──────────────────────────────────────────────────────────────────────────────
// Helpers de test
// ──────────────────────────────────────────────────────────────────────────────

type testClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

func (c *testClock) Set(t time.Time) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

type fixture struct {
	store    *memory.Store
	clock    *testClock
	payments *billing.PaymentUseCase
	invoices *billing.InvoiceUseCase
	orders   *billing.OrderUseCase
	clients  *billing.ClientUseCase
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	clock := &testClock{t: time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)}
	cfg := billing.Config{DefaultCurrency: "USD", NetTermDays: 30, InvoicePrefix: "INV"}
	return &fixture{
		store:    store,
		clock:    clock,
		payments: billing.NewPaymentUseCase(store, store.Invoices(), store.Payments(), clock, nil),
		invoices: billing.NewInvoiceUseCase(store, store.Invoices(), store.Payments(), store.Clients(), clock, cfg, nil),
		orders:   billing.NewOrderUseCase(store, store.Orders(), clock, cfg, nil),
		clients:  billing.NewClientUseCase(store.Clients(), clock, cfg),
	}
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func (f *fixture) client(t *testing.T) string {
	t.Helper()
	c, err := f.clients.Create(context.Background(), dto.CreateClientRequest{Name: "Acme Ltda", Email: "pagos@acme.test"})
	require.NoError(t, err)
	return c.ID
}

// invoice crea una factura manual y, si status no es DRAFT, la lleva a ese estado.
func (f *fixture) invoice(t *testing.T, amount, status string) string {
	t.Helper()
	ctx := context.Background()
	inv, err := f.invoices.CreateInvoice(ctx, dto.CreateInvoiceRequest{
		ClientID: f.client(t),
		Amount:   dec(amount),
	})
	require.NoError(t, err)
	if status != "DRAFT" {
		_, err = f.invoices.UpdateInvoiceStatus(ctx, inv.ID, "SENT")
		require.NoError(t, err)
		if status != "SENT" {
			_, err = f.invoices.UpdateInvoiceStatus(ctx, inv.ID, status)
			require.NoError(t, err)
		}
	}
	return inv.ID
}

func (f *fixture) pay(t *testing.T, invoiceID, amount string) *dto.RecordPaymentResponse {
	t.Helper()
	resp, err := f.payments.RecordPayment(context.Background(), invoiceID, dto.RecordPaymentRequest{
		Amount: dec(amount),
		Method: "BANK_TRANSFER",
	})
	require.NoError(t, err)
	return resp
}
