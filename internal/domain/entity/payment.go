package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentMethod medio de pago aceptado.
type PaymentMethod string

const (
	PaymentMethodCash         PaymentMethod = "CASH"
	PaymentMethodCheck        PaymentMethod = "CHECK"
	PaymentMethodBankTransfer PaymentMethod = "BANK_TRANSFER"
	PaymentMethodCreditCard   PaymentMethod = "CREDIT_CARD"
	PaymentMethodDebitCard    PaymentMethod = "DEBIT_CARD"
	PaymentMethodPaypal       PaymentMethod = "PAYPAL"
	PaymentMethodOther        PaymentMethod = "OTHER"
)

// PaymentMethods conjunto cerrado de medios de pago.
var PaymentMethods = []PaymentMethod{
	PaymentMethodCash,
	PaymentMethodCheck,
	PaymentMethodBankTransfer,
	PaymentMethodCreditCard,
	PaymentMethodDebitCard,
	PaymentMethodPaypal,
	PaymentMethodOther,
}

// Valid indica si el medio pertenece al conjunto.
func (m PaymentMethod) Valid() bool {
	for _, v := range PaymentMethods {
		if v == m {
			return true
		}
	}
	return false
}

// MaxPaymentNotesLength longitud máxima de Notes.
const MaxPaymentNotesLength = 500

// Payment abono parcial o total sobre una factura. La factura es dueña de sus pagos.
type Payment struct {
	ID        string
	InvoiceID string
	Amount    decimal.Decimal
	Method    PaymentMethod
	PaidDate  time.Time
	Notes     string
	Seq       int64 // orden de inserción, desempata PaidDate
	CreatedAt time.Time
	UpdatedAt time.Time
}
