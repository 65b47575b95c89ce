package memory

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ repository.InvoiceRepository = (*InvoiceRepo)(nil)

// InvoiceRepo facturas en memoria.
type InvoiceRepo struct {
	v *view
}

func (r *InvoiceRepo) Create(_ context.Context, inv *entity.Invoice) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; ok {
			return fmt.Errorf("invoice %s: %w", inv.ID, domain.ErrDuplicate)
		}
		for _, existing := range st.invoices {
			if existing.Number == inv.Number {
				return fmt.Errorf("%w: %s", domain.ErrInvoiceNumberExists, inv.Number)
			}
		}
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) Update(_ context.Context, inv *entity.Invoice) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.invoices[inv.ID]; !ok {
			return domain.ErrInvoiceNotFound
		}
		st.invoices[inv.ID] = inv.Clone()
		return nil
	})
}

func (r *InvoiceRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.invoices[id]; !ok {
			return domain.ErrInvoiceNotFound
		}
		delete(st.invoices, id)
		for pid, p := range st.payments {
			if p.InvoiceID == id {
				delete(st.payments, pid)
			}
		}
		return nil
	})
}

func (r *InvoiceRepo) GetByID(_ context.Context, id string) (*entity.Invoice, error) {
	var out *entity.Invoice
	err := r.v.do(func(st *state) error {
		if inv, ok := st.invoices[id]; ok {
			out = inv.Clone()
		}
		return nil
	})
	return out, err
}

// GetForUpdate equivale a GetByID: la transacción ya tiene el store en exclusiva.
func (r *InvoiceRepo) GetForUpdate(ctx context.Context, id string) (*entity.Invoice, error) {
	return r.GetByID(ctx, id)
}

func (r *InvoiceRepo) ExistsByNumber(_ context.Context, number string) (bool, error) {
	found := false
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.Number == number {
				found = true
				break
			}
		}
		return nil
	})
	return found, err
}

func (r *InvoiceRepo) CountByOrder(_ context.Context, orderID string) (int, error) {
	n := 0
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			if inv.OrderID == orderID {
				n++
			}
		}
		return nil
	})
	return n, err
}

func (r *InvoiceRepo) ListByClient(_ context.Context, clientID string) ([]*entity.Invoice, error) {
	return r.filter(func(inv *entity.Invoice) bool { return inv.ClientID == clientID })
}

func (r *InvoiceRepo) ListOverdueCandidates(_ context.Context, asOf time.Time) ([]*entity.Invoice, error) {
	return r.filter(func(inv *entity.Invoice) bool {
		return inv.Status == entity.InvoiceStatusSent && inv.DueDate.Before(asOf)
	})
}

// filter devuelve copias ordenadas por IssueDate y número.
func (r *InvoiceRepo) filter(keep func(*entity.Invoice) bool) ([]*entity.Invoice, error) {
	var out []*entity.Invoice
	err := r.v.do(func(st *state) error {
		for _, inv := range st.invoices {
			if keep(inv) {
				out = append(out, inv.Clone())
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].IssueDate.Equal(out[j].IssueDate) {
			return out[i].IssueDate.Before(out[j].IssueDate)
		}
		return out[i].Number < out[j].Number
	})
	return out, err
}
