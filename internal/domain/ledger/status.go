// Package ledger contiene las reglas puras del ciclo de vida de facturas y pagos:
// tabla de transiciones, efectos colaterales de cada estado y el estado derivado
// a partir del total pagado. No depende de almacenamiento.
package ledger

import (
	"strings"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// transitions tabla de transiciones manuales permitidas (origen -> destinos).
var transitions = map[entity.InvoiceStatus][]entity.InvoiceStatus{
	entity.InvoiceStatusDraft:     {entity.InvoiceStatusSent, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusSent:      {entity.InvoiceStatusPaid, entity.InvoiceStatusOverdue, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusOverdue:   {entity.InvoiceStatusPaid, entity.InvoiceStatusCancelled},
	entity.InvoiceStatusPaid:      {},
	entity.InvoiceStatusCancelled: {},
}

// ParseStatus convierte un string al enum; cualquier valor fuera de los cinco estados es ErrInvalidStatus.
func ParseStatus(s string) (entity.InvoiceStatus, error) {
	st := entity.InvoiceStatus(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := transitions[st]; !ok {
		return "", domain.ErrInvalidStatus
	}
	return st, nil
}

// CanTransition indica si from -> to está en la tabla.
func CanTransition(from, to entity.InvoiceStatus) bool {
	for _, t := range transitions[from] {
		if t == to {
			return true
		}
	}
	return false
}

// AllowedTransitions devuelve una copia de los destinos legales desde from.
func AllowedTransitions(from entity.InvoiceStatus) []entity.InvoiceStatus {
	out := make([]entity.InvoiceStatus, len(transitions[from]))
	copy(out, transitions[from])
	return out
}

// IsTerminal indica si el estado no admite transiciones manuales.
func IsTerminal(s entity.InvoiceStatus) bool {
	return len(transitions[s]) == 0
}

// Transition aplica una transición manual sobre inv con sus efectos:
// DRAFT->SENT fija SentDate, entrar a PAID fija PaidDate, salir de PAID lo limpia.
// Si el par no es legal inv no se modifica.
func Transition(inv *entity.Invoice, to entity.InvoiceStatus, now time.Time) error {
	if _, ok := transitions[to]; !ok {
		return domain.ErrInvalidStatus
	}
	if !CanTransition(inv.Status, to) {
		return &domain.StatusTransitionError{From: string(inv.Status), To: string(to)}
	}
	from := inv.Status
	inv.Status = to
	if from == entity.InvoiceStatusDraft && to == entity.InvoiceStatusSent {
		t := now
		inv.SentDate = &t
	}
	if to == entity.InvoiceStatusPaid {
		t := now
		inv.PaidDate = &t
	}
	if from == entity.InvoiceStatusPaid && to != entity.InvoiceStatusPaid {
		inv.PaidDate = nil
	}
	inv.UpdatedAt = now
	return nil
}
