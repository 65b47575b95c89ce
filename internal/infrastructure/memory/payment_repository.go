package memory

import (
	"context"
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ repository.PaymentRepository = (*PaymentRepo)(nil)

// PaymentRepo pagos en memoria. Seq registra el orden de inserción.
type PaymentRepo struct {
	v *view
}

func (r *PaymentRepo) Create(_ context.Context, p *entity.Payment) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.invoices[p.InvoiceID]; !ok {
			return domain.ErrInvoiceNotFound
		}
		if _, ok := st.payments[p.ID]; ok {
			return domain.ErrDuplicate
		}
		st.seq++
		p.Seq = st.seq
		cp := *p
		st.payments[p.ID] = &cp
		return nil
	})
}

func (r *PaymentRepo) Update(_ context.Context, p *entity.Payment) error {
	return r.v.do(func(st *state) error {
		cur, ok := st.payments[p.ID]
		if !ok {
			return domain.ErrPaymentNotFound
		}
		cp := *p
		cp.Seq = cur.Seq
		st.payments[p.ID] = &cp
		return nil
	})
}

func (r *PaymentRepo) Delete(_ context.Context, id string) error {
	return r.v.do(func(st *state) error {
		if _, ok := st.payments[id]; !ok {
			return domain.ErrPaymentNotFound
		}
		delete(st.payments, id)
		return nil
	})
}

func (r *PaymentRepo) GetByID(_ context.Context, id string) (*entity.Payment, error) {
	var out *entity.Payment
	err := r.v.do(func(st *state) error {
		if p, ok := st.payments[id]; ok {
			cp := *p
			out = &cp
		}
		return nil
	})
	return out, err
}

func (r *PaymentRepo) ListByInvoice(_ context.Context, invoiceID string) ([]*entity.Payment, error) {
	out := []*entity.Payment{}
	err := r.v.do(func(st *state) error {
		for _, p := range st.payments {
			if p.InvoiceID == invoiceID {
				cp := *p
				out = append(out, &cp)
			}
		}
		return nil
	})
	sort.Slice(out, func(i, j int) bool {
		if !out[i].PaidDate.Equal(out[j].PaidDate) {
			return out[i].PaidDate.After(out[j].PaidDate)
		}
		return out[i].Seq < out[j].Seq
	})
	return out, err
}

func (r *PaymentRepo) SumByInvoice(_ context.Context, invoiceID, excludeID string) (decimal.Decimal, int, error) {
	total := decimal.Zero
	n := 0
	err := r.v.do(func(st *state) error {
		for _, p := range st.payments {
			if p.InvoiceID != invoiceID || (excludeID != "" && p.ID == excludeID) {
				continue
			}
			total = total.Add(p.Amount)
			n++
		}
		return nil
	})
	return total, n, err
}
