// Package bootstrap arma los casos de uso de facturación sobre el driver de almacenamiento
// configurado. Lo comparten el servidor HTTP y la CLI.
package bootstrap

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/memory"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/postgres"
	"github.com/jhoicas/Cobranza-api/pkg/config"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

// Services casos de uso listos para usar. Close libera el pool (no-op en memoria).
type Services struct {
	Payments *billing.PaymentUseCase
	Invoices *billing.InvoiceUseCase
	Orders   *billing.OrderUseCase
	Clients  *billing.ClientUseCase
	Clock    billing.Clock
	Close    func()
}

// Build abre el almacenamiento (postgres con migraciones automáticas, o memory) y construye los casos de uso.
func Build(ctx context.Context, cfg *config.Config, log *logger.Logger) (*Services, error) {
	var (
		txRunner billing.BillingTxRunner
		repos    billing.BillingRepos
		closeFn  = func() {}
	)

	switch cfg.DB.Driver {
	case "memory":
		st := memory.New()
		txRunner = st
		repos = billing.BillingRepos{
			Invoices:  st.Invoices(),
			Payments:  st.Payments(),
			Orders:    st.Orders(),
			Clients:   st.Clients(),
			Sequences: st.Sequences(),
		}
		log.Warn().Msg("almacenamiento en memoria: los datos se pierden al reiniciar")
	case "postgres":
		if cfg.DB.AutoMigrate {
			if err := postgres.MigrateUp(cfg.DB.ConnectionString()); err != nil {
				return nil, fmt.Errorf("migraciones: %w", err)
			}
			log.Debug().Msg("esquema al día")
		}
		pool, err := postgres.NewPool(ctx, cfg.DB)
		if err != nil {
			return nil, fmt.Errorf("conexión a PostgreSQL: %w", err)
		}
		txRunner = postgres.NewTxRunner(pool)
		repos = postgres.NewRepos(pool)
		closeFn = pool.Close
	default:
		return nil, fmt.Errorf("driver de almacenamiento desconocido: %q", cfg.DB.Driver)
	}

	clock := billing.SystemClock{}
	bcfg := billing.Config{
		DefaultCurrency: cfg.Billing.DefaultCurrency,
		NetTermDays:     cfg.Billing.NetTermDays,
		InvoicePrefix:   cfg.Billing.InvoicePrefix,
	}
	return &Services{
		Payments: billing.NewPaymentUseCase(txRunner, repos.Invoices, repos.Payments, clock, log),
		Invoices: billing.NewInvoiceUseCase(txRunner, repos.Invoices, repos.Payments, repos.Clients, clock, bcfg, log),
		Orders:   billing.NewOrderUseCase(txRunner, repos.Orders, clock, bcfg, log),
		Clients:  billing.NewClientUseCase(repos.Clients, clock, bcfg),
		Clock:    clock,
		Close:    closeFn,
	}, nil
}
