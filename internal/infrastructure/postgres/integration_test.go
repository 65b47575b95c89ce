package postgres_test

import (
	"context"
	"errors"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cobranza-api/pkg/config"
)

// Requiere una base descartable: COBRANZA_TEST_DATABASE_URL=postgres://... go test ./...
func testPool(t *testing.T) *pgxpool.Pool {
	t.Helper()
	dsn := os.Getenv("COBRANZA_TEST_DATABASE_URL")
	if dsn == "" {
		t.Skip("COBRANZA_TEST_DATABASE_URL no definido")
	}
	require.NoError(t, postgres.MigrateUp(dsn))
	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, config.DBConfig{DatabaseURL: dsn, MaxConns: 10})
	require.NoError(t, err)
	t.Cleanup(pool.Close)
	_, err = pool.Exec(ctx, `TRUNCATE payments, invoices, orders, clients, invoice_sequences CASCADE`)
	require.NoError(t, err)
	return pool
}

func TestPostgres_PaymentLedger(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repos := postgres.NewRepos(pool)
	tx := postgres.NewTxRunner(pool)
	cfg := billing.Config{DefaultCurrency: "USD", NetTermDays: 30, InvoicePrefix: "INV"}

	clients := billing.NewClientUseCase(repos.Clients, nil, cfg)
	invoices := billing.NewInvoiceUseCase(tx, repos.Invoices, repos.Payments, repos.Clients, nil, cfg, nil)
	payments := billing.NewPaymentUseCase(tx, repos.Invoices, repos.Payments, nil, nil)

	client, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Acme"})
	require.NoError(t, err)
	inv, err := invoices.CreateInvoice(ctx, dto.CreateInvoiceRequest{ClientID: client.ID, Amount: decimal.RequireFromString("1000.00")})
	require.NoError(t, err)
	assert.Equal(t, "INV-"+time.Now().UTC().Format("2006")+"-0001", inv.Number)
	_, err = invoices.UpdateInvoiceStatus(ctx, inv.ID, "SENT")
	require.NoError(t, err)

	var (
		wg       sync.WaitGroup
		mu       sync.Mutex
		ok       int
		rejected int
	)
	for i := 0; i < 3; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := payments.RecordPayment(ctx, inv.ID, dto.RecordPaymentRequest{
				Amount: decimal.RequireFromString("600.00"), Method: "CASH",
			})
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				ok++
			} else if errors.Is(err, domain.ErrOverpayment) {
				rejected++
			}
		}()
	}
	wg.Wait()
	assert.Equal(t, 1, ok)
	assert.Equal(t, 2, rejected)

	rest, err := payments.RecordPayment(ctx, inv.ID, dto.RecordPaymentRequest{Amount: decimal.RequireFromString("400.00"), Method: "CHECK"})
	require.NoError(t, err)
	assert.True(t, rest.PaymentSummary.IsFullyPaid)

	history, err := payments.GetPaymentHistory(ctx, inv.ID)
	require.NoError(t, err)
	require.Len(t, history.Payments, 2)

	del, err := payments.DeletePayment(ctx, rest.Payment.ID)
	require.NoError(t, err)
	assert.True(t, del.RemainingPaidAmount.Equal(decimal.RequireFromString("600")))
	got, err := invoices.GetInvoice(ctx, inv.ID)
	require.NoError(t, err)
	assert.Equal(t, "SENT", got.Status)
	assert.Nil(t, got.PaidDate)
}

func TestPostgres_OrderGeneration(t *testing.T) {
	pool := testPool(t)
	ctx := context.Background()
	repos := postgres.NewRepos(pool)
	tx := postgres.NewTxRunner(pool)
	cfg := billing.Config{}

	clients := billing.NewClientUseCase(repos.Clients, nil, cfg)
	orders := billing.NewOrderUseCase(tx, repos.Orders, nil, cfg, nil)

	client, err := clients.Create(ctx, dto.CreateClientRequest{Name: "Globex", Currency: "EUR"})
	require.NoError(t, err)
	lead := 10
	o, err := orders.CreateOrder(ctx, dto.CreateOrderRequest{
		ClientID: client.ID, Description: "Licencia", Amount: decimal.RequireFromString("49.00"),
		Frequency: "MONTHLY", StartDate: "2025-01-31", LeadTimeDays: &lead,
	})
	require.NoError(t, err)
	assert.Equal(t, "EUR", o.Currency)
	assert.Equal(t, "2025-02-28", o.NextInvoiceDate)

	inv, err := orders.GenerateInvoiceFromOrder(ctx, o.ID, "")
	require.NoError(t, err)
	assert.Equal(t, o.ID, inv.OrderID)

	_, err = orders.GenerateInvoiceFromOrder(ctx, o.ID, inv.Number)
	assert.ErrorIs(t, err, domain.ErrInvoiceNumberExists)

	got, err := orders.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "2025-03-31", got.NextInvoiceDate)

	del, err := orders.DeleteOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.True(t, del.Cancelled)
}
