package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// InvoiceStatus estado del ciclo de vida de una factura.
type InvoiceStatus string

// Estados de factura. PAID y CANCELLED son terminales.
const (
	InvoiceStatusDraft     InvoiceStatus = "DRAFT"
	InvoiceStatusSent      InvoiceStatus = "SENT"
	InvoiceStatusPaid      InvoiceStatus = "PAID"
	InvoiceStatusOverdue   InvoiceStatus = "OVERDUE"
	InvoiceStatusCancelled InvoiceStatus = "CANCELLED"
)

// InvoiceStatuses lista los cinco estados válidos.
var InvoiceStatuses = []InvoiceStatus{
	InvoiceStatusDraft,
	InvoiceStatusSent,
	InvoiceStatusPaid,
	InvoiceStatusOverdue,
	InvoiceStatusCancelled,
}

// Invoice representa una factura emitida a un cliente.
// Status es un caché del estado derivado del historial de pagos (ver domain/ledger).
type Invoice struct {
	ID          string
	ClientID    string
	OrderID     string // vacío si la factura se creó manualmente
	Number      string
	Description string
	Amount      decimal.Decimal
	Currency    string
	IssueDate   time.Time
	DueDate     time.Time
	SentDate    *time.Time
	PaidDate    *time.Time
	Status      InvoiceStatus
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Clone devuelve una copia independiente (los punteros de fecha no se comparten).
func (i *Invoice) Clone() *Invoice {
	c := *i
	c.SentDate = cloneTime(i.SentDate)
	c.PaidDate = cloneTime(i.PaidDate)
	return &c
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
