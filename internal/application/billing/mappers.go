package billing

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/ledger"
)

// normalizeCurrency valida un código ISO 4217; vacío usa fallback.
func normalizeCurrency(code, fallback string) (string, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		code = fallback
	}
	unit, err := currency.ParseISO(code)
	if err != nil {
		return "", fmt.Errorf("%w: unknown currency %q", domain.ErrInvalidInput, code)
	}
	return unit.String(), nil
}

// maxAmount es el mayor valor que cabe en NUMERIC(14,2).
var maxAmount = decimal.RequireFromString("999999999999.99")

// validateAmount exige monto positivo, acotado, con a lo sumo dos decimales.
func validateAmount(amount decimal.Decimal) error {
	if !amount.IsPositive() {
		return fmt.Errorf("%w: amount must be greater than 0", domain.ErrInvalidInput)
	}
	if amount.GreaterThan(maxAmount) {
		return fmt.Errorf("%w: amount must be at most %s", domain.ErrInvalidInput, maxAmount.StringFixed(2))
	}
	if !amount.Equal(amount.Round(2)) {
		return fmt.Errorf("%w: amount must have at most 2 decimal places", domain.ErrInvalidInput)
	}
	return nil
}

func toPaymentResponse(p *entity.Payment) dto.PaymentResponse {
	return dto.PaymentResponse{
		ID:        p.ID,
		InvoiceID: p.InvoiceID,
		Amount:    p.Amount,
		Method:    string(p.Method),
		PaidDate:  p.PaidDate,
		Notes:     p.Notes,
		CreatedAt: p.CreatedAt,
	}
}

func toSummaryResponse(s ledger.Summary) dto.PaymentSummaryResponse {
	out := dto.PaymentSummaryResponse{
		TotalPaid:       s.TotalPaid,
		RemainingAmount: s.RemainingAmount,
		IsFullyPaid:     s.IsFullyPaid,
		PaymentCount:    s.PaymentCount,
	}
	if s.PaymentsByMethod != nil {
		out.PaymentsByMethod = make(map[string]decimal.Decimal, len(s.PaymentsByMethod))
		for m, v := range s.PaymentsByMethod {
			out.PaymentsByMethod[string(m)] = v
		}
	}
	return out
}

func toInvoiceResponse(inv *entity.Invoice) *dto.InvoiceResponse {
	return &dto.InvoiceResponse{
		ID:          inv.ID,
		ClientID:    inv.ClientID,
		OrderID:     inv.OrderID,
		Number:      inv.Number,
		Description: inv.Description,
		Amount:      inv.Amount,
		Currency:    inv.Currency,
		IssueDate:   inv.IssueDate.Format(dto.DateLayout),
		DueDate:     inv.DueDate.Format(dto.DateLayout),
		SentDate:    inv.SentDate,
		PaidDate:    inv.PaidDate,
		Status:      string(inv.Status),
	}
}

func toOrderResponse(o *entity.Order) *dto.OrderResponse {
	return &dto.OrderResponse{
		ID:              o.ID,
		ClientID:        o.ClientID,
		Description:     o.Description,
		Amount:          o.Amount,
		Currency:        o.Currency,
		Frequency:       string(o.Frequency),
		CustomDays:      o.CustomDays,
		LeadTimeDays:    o.LeadTimeDays,
		StartDate:       o.StartDate.Format(dto.DateLayout),
		NextInvoiceDate: o.NextInvoiceDate.Format(dto.DateLayout),
		LastInvoiceDate: o.LastInvoiceDate,
		Status:          string(o.Status),
	}
}

func toClientResponse(c *entity.Client) *dto.ClientResponse {
	return &dto.ClientResponse{
		ID:       c.ID,
		Name:     c.Name,
		Email:    c.Email,
		Phone:    c.Phone,
		TaxID:    c.TaxID,
		Currency: c.Currency,
	}
}
