package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency periodicidad de una orden recurrente.
type Frequency string

const (
	FrequencyWeekly    Frequency = "WEEKLY"
	FrequencyBiweekly  Frequency = "BIWEEKLY"
	FrequencyMonthly   Frequency = "MONTHLY"
	FrequencyQuarterly Frequency = "QUARTERLY"
	FrequencyAnnually  Frequency = "ANNUALLY"
	FrequencyCustom    Frequency = "CUSTOM"
)

// OrderStatus estado de una orden.
type OrderStatus string

const (
	OrderStatusActive    OrderStatus = "ACTIVE"
	OrderStatusPaused    OrderStatus = "PAUSED"
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order acuerdo de facturación recurrente de un cliente.
// NextInvoiceDate solo avanza cuando se genera una factura desde la orden.
type Order struct {
	ID              string
	ClientID        string
	Description     string
	Amount          decimal.Decimal
	Currency        string
	Frequency       Frequency
	CustomDays      *int // obligatorio (1-365) solo si Frequency = CUSTOM
	LeadTimeDays    *int // 0-30
	StartDate       time.Time
	NextInvoiceDate time.Time
	LastInvoiceDate *time.Time
	Status          OrderStatus
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Clone devuelve una copia independiente.
func (o *Order) Clone() *Order {
	c := *o
	c.CustomDays = cloneInt(o.CustomDays)
	c.LeadTimeDays = cloneInt(o.LeadTimeDays)
	c.LastInvoiceDate = cloneTime(o.LastInvoiceDate)
	return &c
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}
