package repository

import "context"

// SequenceRepository contador atómico sin huecos por (prefijo, año) para numerar facturas.
type SequenceRepository interface {
	// Next incrementa y devuelve el siguiente valor. Dentro de una transacción el
	// incremento se revierte junto con ella.
	Next(ctx context.Context, prefix string, year int) (int64, error)
}
