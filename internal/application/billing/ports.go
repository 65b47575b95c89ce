package billing

import (
	"context"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

// BillingRepos repositorios atados a una misma transacción.
type BillingRepos struct {
	Invoices  repository.InvoiceRepository
	Payments  repository.PaymentRepository
	Orders    repository.OrderRepository
	Clients   repository.ClientRepository
	Sequences repository.SequenceRepository
}

// BillingTxRunner ejecuta fn dentro de una transacción: Commit si fn devuelve nil, Rollback si no.
// Las lecturas con GetForUpdate dentro de fn serializan las operaciones sobre la misma factura u orden.
type BillingTxRunner interface {
	RunBilling(ctx context.Context, fn func(repos BillingRepos) error) error
}

// Clock fuente del "ahora" (inyectable en tests).
type Clock interface {
	Now() time.Time
}

// SystemClock reloj real en UTC.
type SystemClock struct{}

// Now devuelve la hora actual en UTC.
func (SystemClock) Now() time.Time { return time.Now().UTC() }

// Config parámetros de facturación usados por los casos de uso.
type Config struct {
	DefaultCurrency string
	NetTermDays     int
	InvoicePrefix   string
}

func (c Config) withDefaults() Config {
	if c.DefaultCurrency == "" {
		c.DefaultCurrency = "USD"
	}
	if c.NetTermDays <= 0 {
		c.NetTermDays = 30
	}
	if c.InvoicePrefix == "" {
		c.InvoicePrefix = "INV"
	}
	return c
}
