package billing

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/ledger"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

// PaymentUseCase registra, edita y elimina pagos manteniendo el invariante
// sum(pagos) <= monto de la factura y el estado derivado de la factura.
type PaymentUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clock       Clock
	log         zerolog.Logger
}

// NewPaymentUseCase construye el caso de uso.
func NewPaymentUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clock Clock,
	log *logger.Logger,
) *PaymentUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &PaymentUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clock:       clock,
		log:         log.Component("payments"),
	}
}

// RecordPayment registra un pago. La lectura del total, la verificación de sobrepago,
// la inserción y la actualización del estado ocurren en una sola transacción con la
// factura bloqueada, de modo que de N pagos concurrentes que juntos sobrepagan solo
// confirman los que caben.
func (uc *PaymentUseCase) RecordPayment(ctx context.Context, invoiceID string, in dto.RecordPaymentRequest) (*dto.RecordPaymentResponse, error) {
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	method := entity.PaymentMethod(strings.ToUpper(strings.TrimSpace(in.Method)))
	if !method.Valid() {
		return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, in.Method)
	}
	if utf8.RuneCountInString(in.Notes) > entity.MaxPaymentNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", domain.ErrInvalidInput, entity.MaxPaymentNotesLength)
	}

	now := uc.clock.Now()
	paidDate := now
	if in.PaidDate != nil {
		paidDate = in.PaidDate.UTC()
	}

	var (
		payment *entity.Payment
		summary ledger.Summary
	)
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		inv, err := r.Invoices.GetForUpdate(ctx, invoiceID)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if !ledger.AcceptsPayments(inv) {
			return fmt.Errorf("%w: invoice %s is %s", domain.ErrPaymentNotAllowed, inv.Number, inv.Status)
		}

		alreadyPaid, count, err := r.Payments.SumByInvoice(ctx, inv.ID, "")
		if err != nil {
			return err
		}
		if err := ledger.CheckPayment(inv.Amount, alreadyPaid, in.Amount); err != nil {
			return err
		}

		payment = &entity.Payment{
			ID:        uuid.New().String(),
			InvoiceID: inv.ID,
			Amount:    in.Amount,
			Method:    method,
			PaidDate:  paidDate,
			Notes:     in.Notes,
			CreatedAt: now,
			UpdatedAt: now,
		}
		if err := r.Payments.Create(ctx, payment); err != nil {
			return err
		}

		totalPaid := alreadyPaid.Add(in.Amount)
		if ledger.ApplyPaymentTotal(inv, totalPaid, paidDate, now) {
			if err := r.Invoices.Update(ctx, inv); err != nil {
				return err
			}
		}
		summary = ledger.SummarizeTotal(inv.Amount, totalPaid, count+1)
		return nil
	})
	if err != nil {
		uc.logRejection(err, invoiceID, in.Amount)
		return nil, err
	}

	uc.log.Info().
		Str("invoice_id", invoiceID).
		Str("payment_id", payment.ID).
		Str("amount", payment.Amount.StringFixed(2)).
		Str("method", string(payment.Method)).
		Bool("fully_paid", summary.IsFullyPaid).
		Msg("pago registrado")

	return &dto.RecordPaymentResponse{
		Payment:        toPaymentResponse(payment),
		PaymentSummary: toSummaryResponse(summary),
	}, nil
}

// UpdatePayment edita monto, medio, fecha o notas de un pago. Si cambia el monto se
// valida contra la suma de los demás pagos de la factura. El estado se recalcula igual
// que al registrar: puede promover a PAID pero no degrada un PAID.
func (uc *PaymentUseCase) UpdatePayment(ctx context.Context, paymentID string, in dto.UpdatePaymentRequest) (*dto.UpdatePaymentResponse, error) {
	if in.Amount != nil {
		if err := validateAmount(*in.Amount); err != nil {
			return nil, err
		}
	}
	var method entity.PaymentMethod
	if in.Method != nil {
		method = entity.PaymentMethod(strings.ToUpper(strings.TrimSpace(*in.Method)))
		if !method.Valid() {
			return nil, fmt.Errorf("%w: unknown payment method %q", domain.ErrInvalidInput, *in.Method)
		}
	}
	if in.Notes != nil && utf8.RuneCountInString(*in.Notes) > entity.MaxPaymentNotesLength {
		return nil, fmt.Errorf("%w: notes must be at most %d characters", domain.ErrInvalidInput, entity.MaxPaymentNotesLength)
	}

	now := uc.clock.Now()
	var payment *entity.Payment
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		p, inv, err := lockPayment(ctx, r, paymentID)
		if err != nil {
			return err
		}
		if !ledger.AcceptsPayments(inv) {
			return fmt.Errorf("%w: invoice %s is %s", domain.ErrPaymentNotAllowed, inv.Number, inv.Status)
		}

		if in.Amount != nil && !in.Amount.Equal(p.Amount) {
			others, _, err := r.Payments.SumByInvoice(ctx, inv.ID, p.ID)
			if err != nil {
				return err
			}
			if err := ledger.CheckPayment(inv.Amount, others, *in.Amount); err != nil {
				return err
			}
			p.Amount = *in.Amount
		}
		if in.Method != nil {
			p.Method = method
		}
		if in.PaidDate != nil {
			p.PaidDate = in.PaidDate.UTC()
		}
		if in.Notes != nil {
			p.Notes = *in.Notes
		}
		p.UpdatedAt = now
		if err := r.Payments.Update(ctx, p); err != nil {
			return err
		}

		total, _, err := r.Payments.SumByInvoice(ctx, inv.ID, "")
		if err != nil {
			return err
		}
		if ledger.ApplyPaymentTotal(inv, total, p.PaidDate, now) {
			if err := r.Invoices.Update(ctx, inv); err != nil {
				return err
			}
		}
		payment = p
		return nil
	})
	if err != nil {
		amount := decimal.Zero
		if in.Amount != nil {
			amount = *in.Amount
		}
		uc.logRejection(err, "", amount)
		return nil, err
	}

	uc.log.Info().Str("payment_id", payment.ID).Str("invoice_id", payment.InvoiceID).Msg("pago actualizado")
	return &dto.UpdatePaymentResponse{Payment: toPaymentResponse(payment)}, nil
}

// DeletePayment elimina un pago. Si la factura estaba PAID y lo restante ya no cubre el
// monto, vuelve a SENT y se limpia PaidDate.
func (uc *PaymentUseCase) DeletePayment(ctx context.Context, paymentID string) (*dto.DeletePaymentResponse, error) {
	now := uc.clock.Now()
	var out *dto.DeletePaymentResponse
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		p, inv, err := lockPayment(ctx, r, paymentID)
		if err != nil {
			return err
		}
		if err := r.Payments.Delete(ctx, p.ID); err != nil {
			return err
		}
		remaining, _, err := r.Payments.SumByInvoice(ctx, inv.ID, "")
		if err != nil {
			return err
		}
		if ledger.RevertAfterDeletion(inv, remaining, now) {
			if err := r.Invoices.Update(ctx, inv); err != nil {
				return err
			}
		}
		out = &dto.DeletePaymentResponse{
			DeletedPaymentID:    p.ID,
			RemainingPaidAmount: remaining,
			InvoiceAmount:       inv.Amount,
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("payment_id", paymentID).Str("remaining_paid", out.RemainingPaidAmount.StringFixed(2)).Msg("pago eliminado")
	return out, nil
}

// GetPaymentHistory devuelve los pagos (PaidDate desc, desempate por inserción) y el resumen.
func (uc *PaymentUseCase) GetPaymentHistory(ctx context.Context, invoiceID string) (*dto.PaymentHistoryResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, invoiceID)
	if err != nil {
		return nil, err
	}
	out := &dto.PaymentHistoryResponse{
		InvoiceID: inv.ID,
		Payments:  make([]dto.PaymentResponse, 0, len(payments)),
		Summary:   toSummaryResponse(ledger.Summarize(inv.Amount, payments)),
	}
	for _, p := range payments {
		out.Payments = append(out.Payments, toPaymentResponse(p))
	}
	return out, nil
}

// lockPayment carga el pago, bloquea su factura y vuelve a leer el pago bajo el bloqueo
// (otro request pudo eliminarlo mientras esperábamos).
func lockPayment(ctx context.Context, r BillingRepos, paymentID string) (*entity.Payment, *entity.Invoice, error) {
	p, err := r.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, domain.ErrPaymentNotFound
	}
	inv, err := r.Invoices.GetForUpdate(ctx, p.InvoiceID)
	if err != nil {
		return nil, nil, err
	}
	if inv == nil {
		return nil, nil, domain.ErrInvoiceNotFound
	}
	p, err = r.Payments.GetByID(ctx, paymentID)
	if err != nil {
		return nil, nil, err
	}
	if p == nil {
		return nil, nil, domain.ErrPaymentNotFound
	}
	return p, inv, nil
}

func (uc *PaymentUseCase) logRejection(err error, invoiceID string, amount decimal.Decimal) {
	if !errors.Is(err, domain.ErrOverpayment) {
		return
	}
	uc.log.Warn().
		Err(err).
		Str("invoice_id", invoiceID).
		Str("amount", amount.StringFixed(2)).
		Msg("sobrepago rechazado")
}
