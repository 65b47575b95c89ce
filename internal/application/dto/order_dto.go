package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateOrderRequest body para POST /api/orders.
type CreateOrderRequest struct {
	ClientID        string          `json:"client_id" validate:"required"`
	Description     string          `json:"description" validate:"required,max=500"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	Frequency       string          `json:"frequency" validate:"required,oneof=WEEKLY BIWEEKLY MONTHLY QUARTERLY ANNUALLY CUSTOM"`
	CustomDays      *int            `json:"custom_days,omitempty" validate:"omitempty,min=1,max=365"`
	LeadTimeDays    *int            `json:"lead_time_days,omitempty" validate:"omitempty,min=0,max=30"`
	StartDate       string          `json:"start_date" validate:"required,datetime=2006-01-02"`
	NextInvoiceDate string          `json:"next_invoice_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateOrderStatusRequest body para PATCH /api/orders/:id/status.
type UpdateOrderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=ACTIVE PAUSED CANCELLED"`
}

// GenerateInvoiceRequest body opcional para POST /api/orders/:id/invoices.
type GenerateInvoiceRequest struct {
	InvoiceNumber string `json:"invoice_number,omitempty" validate:"omitempty,max=40"`
}

// OrderResponse orden en respuestas.
type OrderResponse struct {
	ID              string          `json:"id"`
	ClientID        string          `json:"client_id"`
	Description     string          `json:"description"`
	Amount          decimal.Decimal `json:"amount"`
	Currency        string          `json:"currency"`
	Frequency       string          `json:"frequency"`
	CustomDays      *int            `json:"custom_days,omitempty"`
	LeadTimeDays    *int            `json:"lead_time_days,omitempty"`
	StartDate       string          `json:"start_date"`
	NextInvoiceDate string          `json:"next_invoice_date"`
	LastInvoiceDate *time.Time      `json:"last_invoice_date,omitempty"`
	Status          string          `json:"status"`
}

// ScheduleEntry fecha futura de facturación.
type ScheduleEntry struct {
	Date        string `json:"date"`
	Description string `json:"description"`
}

// ScheduleResponse proyección de GET /api/orders/:id/schedule.
type ScheduleResponse struct {
	OrderID     string          `json:"order_id"`
	OrderStatus string          `json:"order_status"`
	Schedule    []ScheduleEntry `json:"schedule"`
}

// DeleteOrderResponse resultado de DELETE /api/orders/:id: se elimina o se anula.
type DeleteOrderResponse struct {
	DeletedOrderID string `json:"deleted_order_id,omitempty"`
	Cancelled      bool   `json:"cancelled,omitempty"`
	Message        string `json:"message,omitempty"`
}

// GenerateDueResponse resultado del barrido de órdenes vencidas.
type GenerateDueResponse struct {
	Generated []InvoiceResponse `json:"generated"`
	Failed    map[string]string `json:"failed,omitempty"` // order_id -> error
	Skipped   int               `json:"skipped"`
}
