package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ repository.SequenceRepository = (*SequenceRepo)(nil)

// SequenceRepo consecutivos de numeración por prefijo y año (tabla invoice_sequences).
type SequenceRepo struct {
	q Querier
}

// NewSequenceRepository construye el adaptador. Pasar pool o tx (Querier).
func NewSequenceRepository(q Querier) *SequenceRepo {
	return &SequenceRepo{q: q}
}

// Next incrementa atómicamente el consecutivo. El upsert bloquea la fila de la secuencia
// hasta el fin de la transacción, así dos facturas nunca reciben el mismo número.
func (r *SequenceRepo) Next(ctx context.Context, prefix string, year int) (int64, error) {
	const q = `
		INSERT INTO invoice_sequences (prefix, year, last_value)
		VALUES ($1, $2, 1)
		ON CONFLICT (prefix, year)
		DO UPDATE SET last_value = invoice_sequences.last_value + 1
		RETURNING last_value`
	var n int64
	if err := r.q.QueryRow(ctx, q, prefix, year).Scan(&n); err != nil {
		return 0, fmt.Errorf("next invoice sequence: %w", err)
	}
	return n, nil
}
