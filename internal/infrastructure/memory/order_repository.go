package memory

import (
	"context"
	"sort"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo órdenes en memoria.
type OrderRepo struct {
	v *view
}

func (r *OrderRepo) Create(_ context.Context, o *entity.Order) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.clients[o.ClientID]; !ok {
			return domain.ErrClientNotFound
		}
		if _, ok := st.orders[o.ID]; ok {
			return domain.ErrDuplicate
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

func (r *OrderRepo) Update(_ context.Context, o *entity.Order) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.orders[o.ID]; !ok {
			return domain.ErrOrderNotFound
		}
		st.orders[o.ID] = o.Clone()
		return nil
	})
}

func (r *OrderRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.orders[id]; !ok {
			return domain.ErrOrderNotFound
		}
		for _, inv := range st.invoices {
			if inv.OrderID == id {
				return domain.ErrConflict
			}
		}
		delete(st.orders, id)
		return nil
	})
}

func (r *OrderRepo) GetByID(_ context.Context, id string) (*entity.Order, error) {
	var out *entity.Order
	err := r.v.do(func(st *state) error {
		if o, ok := st.orders[id]; ok {
			out = o.Clone()
		}
		return nil
	})
	return out, err
}

func (r *OrderRepo) GetForUpdate(ctx context.Context, id string) (*entity.Order, error) {
	return r.GetByID(ctx, id)
}

func (r *OrderRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool { return o.ClientID == clientID })
}

func (r *OrderRepo) ListDue(_ context.Context, asOf time.Time) ([]*entity.Order, error) {
	return r.filter(func(o *entity.Order) bool {
		return o.Status == entity.OrderStatusActive && !o.NextInvoiceDate.After(asOf)
	})
}

func (r *OrderRepo) filter(keep func(*entity.Order) bool) ([]*entity.Order, error) {
	var out []*entity.Order
	err := r.v.do(func(st *state) error {
		for _, o := range st.orders {
			if keep(o) {
				out = append(out, o.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].NextInvoiceDate.Equal(out[j].NextInvoiceDate) {
			return out[i].NextInvoiceDate.Before(out[j].NextInvoiceDate)
		}
		return out[i].ID < out[j].ID
	})
	return out, err
}
