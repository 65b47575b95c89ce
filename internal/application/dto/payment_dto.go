package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// RecordPaymentRequest body para POST /api/invoices/:id/payments.
type RecordPaymentRequest struct {
	Amount   decimal.Decimal `json:"amount"`
	Method   string          `json:"method" validate:"required,oneof=CASH CHECK BANK_TRANSFER CREDIT_CARD DEBIT_CARD PAYPAL OTHER"`
	PaidDate *time.Time      `json:"paid_date,omitempty"` // RFC 3339; por defecto ahora
	Notes    string          `json:"notes,omitempty" validate:"max=500"`
}

// UpdatePaymentRequest body para PATCH /api/payments/:id. Solo se aplican los campos presentes.
type UpdatePaymentRequest struct {
	Amount   *decimal.Decimal `json:"amount,omitempty"`
	Method   *string          `json:"method,omitempty" validate:"omitempty,oneof=CASH CHECK BANK_TRANSFER CREDIT_CARD DEBIT_CARD PAYPAL OTHER"`
	PaidDate *time.Time       `json:"paid_date,omitempty"`
	Notes    *string          `json:"notes,omitempty" validate:"omitempty,max=500"`
}

// PaymentResponse pago en respuestas.
type PaymentResponse struct {
	ID        string          `json:"id"`
	InvoiceID string          `json:"invoice_id"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	PaidDate  time.Time       `json:"paid_date"`
	Notes     string          `json:"notes,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
}

// PaymentSummaryResponse resumen de pagos de una factura.
type PaymentSummaryResponse struct {
	TotalPaid        decimal.Decimal            `json:"total_paid"`
	RemainingAmount  decimal.Decimal            `json:"remaining_amount"`
	IsFullyPaid      bool                       `json:"is_fully_paid"`
	PaymentCount     int                        `json:"payment_count"`
	PaymentsByMethod map[string]decimal.Decimal `json:"payments_by_method,omitempty"`
}

// RecordPaymentResponse pago creado más el resumen actualizado.
type RecordPaymentResponse struct {
	Payment        PaymentResponse        `json:"payment"`
	PaymentSummary PaymentSummaryResponse `json:"payment_summary"`
}

// UpdatePaymentResponse pago editado.
type UpdatePaymentResponse struct {
	Payment PaymentResponse `json:"payment"`
}

// DeletePaymentResponse resultado de DELETE /api/payments/:id.
type DeletePaymentResponse struct {
	DeletedPaymentID    string          `json:"deleted_payment_id"`
	RemainingPaidAmount decimal.Decimal `json:"remaining_paid_amount"`
	InvoiceAmount       decimal.Decimal `json:"invoice_amount"`
}

// PaymentHistoryResponse historial de GET /api/invoices/:id/payments.
type PaymentHistoryResponse struct {
	InvoiceID string                 `json:"invoice_id"`
	Payments  []PaymentResponse      `json:"payments"`
	Summary   PaymentSummaryResponse `json:"summary"`
}
