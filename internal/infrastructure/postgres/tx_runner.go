package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
)

var _ billing.BillingTxRunner = (*TxRunner)(nil)

// TxRunner ejecuta callbacks dentro de una transacción PostgreSQL.
type TxRunner struct {
	pool *pgxpool.Pool
}

// NewTxRunner construye el runner con el pool.
func NewTxRunner(pool *pgxpool.Pool) *TxRunner {
	return &TxRunner{pool: pool}
}

// NewRepos arma los repositorios de facturación sobre q (pool o tx).
func NewRepos(q Querier) billing.BillingRepos {
	return billing.BillingRepos{
		Invoices:  NewInvoiceRepository(q),
		Payments:  NewPaymentRepository(q),
		Orders:    NewOrderRepository(q),
		Clients:   NewClientRepository(q),
		Sequences: NewSequenceRepository(q),
	}
}

// RunBilling inicia una transacción, ejecuta fn con repos atados a la tx y hace Commit o Rollback.
// Los SELECT ... FOR UPDATE de fn mantienen la fila bloqueada hasta el Commit.
func (r *TxRunner) RunBilling(ctx context.Context, fn func(repos billing.BillingRepos) error) error {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback(ctx) }()

	if err := fn(NewRepos(tx)); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}
