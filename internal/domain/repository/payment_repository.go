package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// PaymentRepository define el puerto de persistencia para Payment.
type PaymentRepository interface {
	Create(ctx context.Context, payment *entity.Payment) error
	Update(ctx context.Context, payment *entity.Payment) error
	Delete(ctx context.Context, id string) error
	// GetByID devuelve (nil, nil) si el pago no existe.
	GetByID(ctx context.Context, id string) (*entity.Payment, error)
	// ListByInvoice ordena por PaidDate descendente y desempata por orden de inserción.
	ListByInvoice(ctx context.Context, invoiceID string) ([]*entity.Payment, error)
	// SumByInvoice suma los montos de la factura excluyendo excludeID (vacío = ninguno).
	SumByInvoice(ctx context.Context, invoiceID, excludeID string) (decimal.Decimal, int, error)
}
