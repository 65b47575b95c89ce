package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// CreateInvoiceRequest body para POST /api/invoices (factura manual en DRAFT).
type CreateInvoiceRequest struct {
	ClientID    string          `json:"client_id" validate:"required"`
	Number      string          `json:"number,omitempty" validate:"omitempty,max=40"` // opcional; si va vacío se genera
	Description string          `json:"description,omitempty" validate:"max=500"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency,omitempty" validate:"omitempty,len=3"`
	IssueDate   string          `json:"issue_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
	DueDate     string          `json:"due_date,omitempty" validate:"omitempty,datetime=2006-01-02"`
}

// UpdateInvoiceStatusRequest body para PATCH /api/invoices/:id/status.
type UpdateInvoiceStatusRequest struct {
	Status string `json:"status" validate:"required"`
}

// InvoiceResponse factura en respuestas.
type InvoiceResponse struct {
	ID          string                  `json:"id"`
	ClientID    string                  `json:"client_id"`
	OrderID     string                  `json:"order_id,omitempty"`
	Number      string                  `json:"number"`
	Description string                  `json:"description,omitempty"`
	Amount      decimal.Decimal         `json:"amount"`
	Currency    string                  `json:"currency"`
	IssueDate   string                  `json:"issue_date"`
	DueDate     string                  `json:"due_date"`
	SentDate    *time.Time              `json:"sent_date"`
	PaidDate    *time.Time              `json:"paid_date"`
	Status      string                  `json:"status"`
	Summary     *PaymentSummaryResponse `json:"payment_summary,omitempty"`
}

// DeleteInvoiceResponse resultado de DELETE /api/invoices/:id.
type DeleteInvoiceResponse struct {
	DeletedInvoiceID string `json:"deleted_invoice_id"`
}

// MarkOverdueResponse resultado del barrido de vencidas.
type MarkOverdueResponse struct {
	Updated []string `json:"updated"`
}
