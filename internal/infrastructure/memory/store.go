// Package memory implementa los repositorios de facturación en memoria. Se usa con
// STORAGE_DRIVER=memory y en los tests de casos de uso y handlers.
package memory

import (
	"context"
	"sync"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
)

var _ billing.BillingTxRunner = (*Store)(nil)

// Store mantiene el estado confirmado. Las transacciones se serializan con mu: cada una
// trabaja sobre una copia y la publica solo si fn termina sin error.
type Store struct {
	mu    sync.Mutex
	state *state
}

type state struct {
	invoices  map[string]*entity.Invoice
	payments  map[string]*entity.Payment
	orders    map[string]*entity.Order
	clients   map[string]*entity.Client
	sequences map[string]int64
	seq       int64 // orden de inserción de pagos
}

// New crea un store vacío.
func New() *Store {
	return &Store{state: &state{
		invoices:  map[string]*entity.Invoice{},
		payments:  map[string]*entity.Payment{},
		orders:    map[string]*entity.Order{},
		clients:   map[string]*entity.Client{},
		sequences: map[string]int64{},
	}}
}

func (s *state) clone() *state {
	c := &state{
		invoices:  make(map[string]*entity.Invoice, len(s.invoices)),
		payments:  make(map[string]*entity.Payment, len(s.payments)),
		orders:    make(map[string]*entity.Order, len(s.orders)),
		clients:   make(map[string]*entity.Client, len(s.clients)),
		sequences: make(map[string]int64, len(s.sequences)),
		seq:       s.seq,
	}
	for k, v := range s.invoices {
		c.invoices[k] = v.Clone()
	}
	for k, v := range s.payments {
		p := *v
		c.payments[k] = &p
	}
	for k, v := range s.orders {
		c.orders[k] = v.Clone()
	}
	for k, v := range s.clients {
		cl := *v
		c.clients[k] = &cl
	}
	for k, v := range s.sequences {
		c.sequences[k] = v
	}
	return c
}

// view resuelve sobre qué estado operan los repos: el de una transacción abierta (sin
// lock, ya lo tiene RunBilling) o el confirmado (lock por operación).
type view struct {
	store *Store
	tx    *state
}

func (v *view) do(fn func(st *state) error) error {
	if v.tx != nil {
		return fn(v.tx)
	}
	v.store.mu.Lock()
	defer v.store.mu.Unlock()
	return fn(v.store.state)
}

// RunBilling ejecuta fn con repos sobre una copia del estado; si fn devuelve nil la copia
// reemplaza al estado confirmado, si no se descarta.
func (s *Store) RunBilling(ctx context.Context, fn func(repos billing.BillingRepos) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	tx := s.state.clone()
	if err := fn(reposFor(&view{store: s, tx: tx})); err != nil {
		return err
	}
	s.state = tx
	return nil
}

func reposFor(v *view) billing.BillingRepos {
	return billing.BillingRepos{
		Invoices:  &InvoiceRepo{v: v},
		Payments:  &PaymentRepo{v: v},
		Orders:    &OrderRepo{v: v},
		Clients:   &ClientRepo{v: v},
		Sequences: &SequenceRepo{v: v},
	}
}

// Invoices repositorio sobre el estado confirmado.
func (s *Store) Invoices() repository.InvoiceRepository { return &InvoiceRepo{v: &view{store: s}} }

// Payments repositorio sobre el estado confirmado.
func (s *Store) Payments() repository.PaymentRepository { return &PaymentRepo{v: &view{store: s}} }

// Orders repositorio sobre el estado confirmado.
func (s *Store) Orders() repository.OrderRepository { return &OrderRepo{v: &view{store: s}} }

// Clients repositorio sobre el estado confirmado.
func (s *Store) Clients() repository.ClientRepository { return &ClientRepo{v: &view{store: s}} }

// Sequences repositorio sobre el estado confirmado.
func (s *Store) Sequences() repository.SequenceRepository { return &SequenceRepo{v: &view{store: s}} }
