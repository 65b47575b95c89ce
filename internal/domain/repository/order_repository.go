package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	Update(ctx context.Context, order *entity.Order) error
	Delete(ctx context.Context, id string) error
	// GetByID devuelve (nil, nil) si la orden no existe.
	GetByID(ctx context.Context, id string) (*entity.Order, error)
	// GetForUpdate bloquea la fila de la orden (un avance de NextInvoiceDate por periodo).
	GetForUpdate(ctx context.Context, id string) (*entity.Order, error)
	ListByClient(ctx context.Context, clientID string) ([]*entity.Order, error)
	// ListDue órdenes ACTIVE con NextInvoiceDate <= asOf.
	ListDue(ctx context.Context, asOf time.Time) ([]*entity.Order, error)
}
