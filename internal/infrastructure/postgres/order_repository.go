package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación de OrderRepository (usable con pool o tx).
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

const orderColumns = `
	id, client_id, description, amount, currency, frequency, custom_days, lead_time_days,
	start_date, next_invoice_date, last_invoice_date, status, created_at, updated_at`

func (r *OrderRepo) Create(ctx context.Context, o *entity.Order) error {
	query := `
		INSERT INTO orders (` + orderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`
	_, err := r.q.Exec(ctx, query,
		o.ID, o.ClientID, o.Description, o.Amount, o.Currency, string(o.Frequency), o.CustomDays, o.LeadTimeDays,
		o.StartDate, o.NextInvoiceDate, o.LastInvoiceDate, string(o.Status), o.CreatedAt, o.UpdatedAt,
	)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrClientNotFound
		}
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// Update persiste estado y el puntero del calendario (next/last invoice date).
func (r *OrderRepo) Update(ctx context.Context, o *entity.Order) error {
	query := `
		UPDATE orders
		SET description       = $2,
		    amount            = $3,
		    next_invoice_date = $4,
		    last_invoice_date = $5,
		    status            = $6,
		    updated_at        = $7
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query,
		o.ID, o.Description, o.Amount, o.NextInvoiceDate, o.LastInvoiceDate, string(o.Status), o.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("update order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

// Delete elimina la orden. Si alguna factura la referencia la FK lo impide (ErrConflict).
func (r *OrderRepo) Delete(ctx context.Context, id string) error {
	tag, err := r.q.Exec(ctx, `DELETE FROM orders WHERE id = $1`, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("delete order: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrOrderNotFound
	}
	return nil
}

func (r *OrderRepo) GetByID(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

// GetForUpdate bloquea la fila: dos generaciones concurrentes no avanzan dos veces.
func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.getOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1 FOR UPDATE`, id)
}

func (r *OrderRepo) getOne(ctx context.Context, query, id string) (*entity.Order, error) {
	o, err := scanOrder(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get order: %w", err)
	}
	return o, nil
}

func (r *OrderRepo) ListByClient(ctx context.Context, clientID string) ([]*entity.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders WHERE client_id = $1 ORDER BY next_invoice_date, id`, clientID)
}

func (r *OrderRepo) ListDue(ctx context.Context, asOf time.Time) ([]*entity.Order, error) {
	return r.list(ctx, `SELECT `+orderColumns+` FROM orders
		WHERE status = $1 AND next_invoice_date <= $2
		ORDER BY next_invoice_date, id`, string(entity.OrderStatusActive), asOf)
}

func (r *OrderRepo) list(ctx context.Context, query string, args ...any) ([]*entity.Order, error) {
	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		list = append(list, o)
	}
	return list, rows.Err()
}

func scanOrder(row pgxScanner) (*entity.Order, error) {
	var (
		o         entity.Order
		frequency string
		status    string
	)
	err := row.Scan(
		&o.ID, &o.ClientID, &o.Description, &o.Amount, &o.Currency, &frequency, &o.CustomDays, &o.LeadTimeDays,
		&o.StartDate, &o.NextInvoiceDate, &o.LastInvoiceDate, &status, &o.CreatedAt, &o.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	o.Frequency = entity.Frequency(frequency)
	o.Status = entity.OrderStatus(status)
	return &o, nil
}
