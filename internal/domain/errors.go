package domain

import (
	"errors"
	"fmt"

	"github.com/shopspring/decimal"
)

// Clases de error de dominio. Los handlers HTTP mapean por clase con errors.Is.
var (
	ErrNotFound      = errors.New("resource not found")
	ErrInvalidInput  = errors.New("invalid input")
	ErrDuplicate     = errors.New("duplicate resource")
	ErrConflict      = errors.New("conflict with current state")
	ErrRuleViolation = errors.New("operation not allowed")
)

// Errores concretos del ledger y del scheduler.
var (
	ErrInvoiceNotFound = fmt.Errorf("invoice %w", ErrNotFound)
	ErrPaymentNotFound = fmt.Errorf("payment %w", ErrNotFound)
	ErrOrderNotFound   = fmt.Errorf("order %w", ErrNotFound)
	ErrClientNotFound  = fmt.Errorf("client %w", ErrNotFound)

	ErrInvalidStatus           = fmt.Errorf("%w: invalid status", ErrInvalidInput)
	ErrInvalidStatusTransition = fmt.Errorf("%w: invalid status transition", ErrRuleViolation)
	ErrInvoiceDeleteNotAllowed = fmt.Errorf("%w: only DRAFT invoices can be deleted, cancel it instead", ErrRuleViolation)
	ErrOrderNotActive          = fmt.Errorf("%w: order is not active", ErrRuleViolation)
	ErrOverpayment             = fmt.Errorf("%w: overpayment rejected", ErrRuleViolation)
	ErrPaymentNotAllowed       = fmt.Errorf("%w: payments are not accepted for this invoice", ErrRuleViolation)

	ErrInvoiceNumberExists = fmt.Errorf("%w: invoice number already exists", ErrDuplicate)
)

// OverpaymentError detalla un pago rechazado porque el total pagado superaría el monto de la factura.
// errors.Is(err, ErrOverpayment) es true.
type OverpaymentError struct {
	InvoiceAmount decimal.Decimal
	AlreadyPaid   decimal.Decimal
	Attempted     decimal.Decimal
}

func (e *OverpaymentError) Error() string {
	remaining := e.InvoiceAmount.Sub(e.AlreadyPaid)
	if remaining.IsNegative() {
		remaining = decimal.Zero
	}
	return fmt.Sprintf(
		"payment of %s would exceed the invoice amount of %s. Already paid: %s, remaining: %s",
		FormatMoney(e.Attempted), FormatMoney(e.InvoiceAmount), FormatMoney(e.AlreadyPaid), FormatMoney(remaining),
	)
}

// Is permite errors.Is(err, ErrOverpayment) y por transitividad ErrRuleViolation.
func (e *OverpaymentError) Is(target error) bool {
	return target == ErrOverpayment || target == ErrRuleViolation
}

// StatusTransitionError informa el par origen/destino rechazado por la tabla de transiciones.
type StatusTransitionError struct {
	From string
	To   string
}

func (e *StatusTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}

func (e *StatusTransitionError) Is(target error) bool {
	return target == ErrInvalidStatusTransition || target == ErrRuleViolation
}

// FormatMoney formatea un monto con dos decimales: $1234.50.
func FormatMoney(d decimal.Decimal) string {
	return "$" + d.StringFixed(2)
}
