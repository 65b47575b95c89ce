package ledger

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// Summary resumen de pagos de una factura.
type Summary struct {
	TotalPaid        decimal.Decimal
	RemainingAmount  decimal.Decimal
	IsFullyPaid      bool
	PaymentCount     int
	PaymentsByMethod map[entity.PaymentMethod]decimal.Decimal
}

// Summarize calcula el resumen a partir del monto de la factura y sus pagos.
func Summarize(invoiceAmount decimal.Decimal, payments []*entity.Payment) Summary {
	total := decimal.Zero
	byMethod := make(map[entity.PaymentMethod]decimal.Decimal)
	for _, p := range payments {
		total = total.Add(p.Amount)
		byMethod[p.Method] = byMethod[p.Method].Add(p.Amount)
	}
	s := SummarizeTotal(invoiceAmount, total, len(payments))
	s.PaymentsByMethod = byMethod
	return s
}

// SummarizeTotal igual que Summarize cuando solo se conoce el total y la cantidad de pagos.
func SummarizeTotal(invoiceAmount, totalPaid decimal.Decimal, count int) Summary {
	return Summary{
		TotalPaid:       totalPaid,
		RemainingAmount: Remaining(invoiceAmount, totalPaid),
		IsFullyPaid:     totalPaid.GreaterThanOrEqual(invoiceAmount),
		PaymentCount:    count,
	}
}

// Remaining saldo pendiente, nunca negativo.
func Remaining(invoiceAmount, totalPaid decimal.Decimal) decimal.Decimal {
	r := invoiceAmount.Sub(totalPaid)
	if r.IsNegative() {
		return decimal.Zero
	}
	return r
}

// CheckPayment valida que sumar amount a alreadyPaid no supere el monto de la factura.
func CheckPayment(invoiceAmount, alreadyPaid, amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return domain.ErrInvalidInput
	}
	if alreadyPaid.Add(amount).GreaterThan(invoiceAmount) {
		return &domain.OverpaymentError{
			InvoiceAmount: invoiceAmount,
			AlreadyPaid:   alreadyPaid,
			Attempted:     amount,
		}
	}
	return nil
}

// AcceptsPayments indica si la factura admite nuevos pagos. Una factura anulada no los admite.
func AcceptsPayments(inv *entity.Invoice) bool {
	return inv.Status != entity.InvoiceStatusCancelled
}

// ApplyPaymentTotal deriva el estado tras registrar o editar un pago con el nuevo total.
// Un borrador pasa a SENT (fijando SentDate) antes de aplicar el pago; si el total cubre
// el monto pasa a PAID con PaidDate = paidAt. Nunca degrada un PAID ni toca un CANCELLED.
// Devuelve true si inv cambió.
func ApplyPaymentTotal(inv *entity.Invoice, totalPaid decimal.Decimal, paidAt, now time.Time) bool {
	if inv.Status == entity.InvoiceStatusCancelled {
		return false
	}
	changed := false
	if inv.Status == entity.InvoiceStatusDraft {
		inv.Status = entity.InvoiceStatusSent
		t := now
		inv.SentDate = &t
		changed = true
	}
	if totalPaid.GreaterThanOrEqual(inv.Amount) && inv.Status != entity.InvoiceStatusPaid {
		inv.Status = entity.InvoiceStatusPaid
		t := paidAt
		inv.PaidDate = &t
		changed = true
	}
	if changed {
		inv.UpdatedAt = now
	}
	return changed
}

// RevertAfterDeletion degrada PAID a SENT (limpiando PaidDate) cuando el total restante
// tras eliminar un pago ya no cubre el monto. Devuelve true si inv cambió.
func RevertAfterDeletion(inv *entity.Invoice, remainingTotal decimal.Decimal, now time.Time) bool {
	if inv.Status != entity.InvoiceStatusPaid || !remainingTotal.LessThan(inv.Amount) {
		return false
	}
	inv.Status = entity.InvoiceStatusSent
	inv.PaidDate = nil
	inv.UpdatedAt = now
	return true
}
