package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain"
)

// FormatInvoiceNumber arma el número legible: INV-2025-0007.
func FormatInvoiceNumber(prefix string, year int, seq int64) string {
	return fmt.Sprintf("%s-%d-%04d", prefix, year, seq)
}

// maxSequenceSkips tope de valores ocupados que se saltan antes de abandonar.
const maxSequenceSkips = 1000

// assignInvoiceNumber respeta el número pedido por el caller si es único; si no viene,
// toma el siguiente valor libre de la secuencia del año dentro de la misma transacción.
// Los valores ya usados por números manuales se saltan y quedan consumidos con la factura.
func assignInvoiceNumber(ctx context.Context, r BillingRepos, requested, prefix string, now time.Time) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested != "" {
		exists, err := r.Invoices.ExistsByNumber(ctx, requested)
		if err != nil {
			return "", err
		}
		if exists {
			return "", fmt.Errorf("%w: %s", domain.ErrInvoiceNumberExists, requested)
		}
		return requested, nil
	}
	for i := 0; i < maxSequenceSkips; i++ {
		seq, err := r.Sequences.Next(ctx, prefix, now.Year())
		if err != nil {
			return "", fmt.Errorf("next invoice number: %w", err)
		}
		candidate := FormatInvoiceNumber(prefix, now.Year(), seq)
		exists, err := r.Invoices.ExistsByNumber(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !exists {
			return candidate, nil
		}
	}
	return "", fmt.Errorf("%w: no free number for %s-%d", domain.ErrConflict, prefix, now.Year())
}
