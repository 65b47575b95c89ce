package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// InvoiceRepository define el puerto de persistencia para Invoice.
// Los Get devuelven (nil, nil) cuando la factura no existe.
type InvoiceRepository interface {
	Create(ctx context.Context, invoice *entity.Invoice) error
	// Update persiste estado, fechas de envío/pago y campos editables.
	Update(ctx context.Context, invoice *entity.Invoice) error
	// Delete elimina la factura y en cascada sus pagos.
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*entity.Invoice, error)
	// GetForUpdate obtiene la factura bloqueando la fila hasta el fin de la transacción
	// (sección crítica por factura para el invariante de sobrepago).
	GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error)
	ExistsByNumber(ctx context.Context, number string) (bool, error)
	CountByOrder(ctx context.Context, orderID string) (int, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Invoice, error)
	// ListOverdueCandidates facturas SENT con DueDate anterior a asOf.
	ListOverdueCandidates(ctx context.Context, asOf time.Time) ([]*entity.Invoice, error)
}
