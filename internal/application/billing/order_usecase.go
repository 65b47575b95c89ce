package billing

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
	"github.com/jhoicas/Cobranza-api/internal/domain/schedule"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

// OrderUseCase órdenes recurrentes: alta, pausa/reanudación, generación de facturas,
// proyección del calendario y borrado.
type OrderUseCase struct {
	txRunner  BillingTxRunner
	orderRepo repository.OrderRepository
	clock     Clock
	cfg       Config
	log       zerolog.Logger
}

// NewOrderUseCase construye el caso de uso.
func NewOrderUseCase(txRunner BillingTxRunner, orderRepo repository.OrderRepository, clock Clock, cfg Config, log *logger.Logger) *OrderUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &OrderUseCase{
		txRunner:  txRunner,
		orderRepo: orderRepo,
		clock:     clock,
		cfg:       cfg.withDefaults(),
		log:       log.Component("orders"),
	}
}

// CreateOrder crea una orden ACTIVE. Si no se indica NextInvoiceDate se usa el sucesor
// de StartDate según la frecuencia.
func (uc *OrderUseCase) CreateOrder(ctx context.Context, in dto.CreateOrderRequest) (*dto.OrderResponse, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
	}
	if strings.TrimSpace(in.Description) == "" {
		return nil, fmt.Errorf("%w: description is required", domain.ErrInvalidInput)
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	freq := entity.Frequency(strings.ToUpper(strings.TrimSpace(in.Frequency)))
	if err := schedule.Validate(freq, in.CustomDays, in.LeadTimeDays); err != nil {
		return nil, err
	}
	start, err := time.Parse(dto.DateLayout, in.StartDate)
	if err != nil {
		return nil, fmt.Errorf("%w: start_date must be YYYY-MM-DD", domain.ErrInvalidInput)
	}

	now := uc.clock.Now()
	o := &entity.Order{
		ID:           uuid.New().String(),
		ClientID:     in.ClientID,
		Description:  strings.TrimSpace(in.Description),
		Amount:       in.Amount,
		Frequency:    freq,
		CustomDays:   in.CustomDays,
		LeadTimeDays: in.LeadTimeDays,
		StartDate:    start,
		Status:       entity.OrderStatusActive,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	if in.NextInvoiceDate != "" {
		next, err := time.Parse(dto.DateLayout, in.NextInvoiceDate)
		if err != nil {
			return nil, fmt.Errorf("%w: next_invoice_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		if next.Before(start) {
			return nil, fmt.Errorf("%w: next_invoice_date must not be before start_date", domain.ErrInvalidInput)
		}
		o.NextInvoiceDate = next
	} else {
		next, err := schedule.RuleFor(o).Next(start)
		if err != nil {
			return nil, err
		}
		o.NextInvoiceDate = next
	}

	err = uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		client, err := r.Clients.GetByID(ctx, o.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrClientNotFound
		}
		o.Currency, err = normalizeCurrency(in.Currency, firstNonEmpty(client.Currency, uc.cfg.DefaultCurrency))
		if err != nil {
			return err
		}
		return r.Orders.Create(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", o.ID).
		Str("frequency", string(o.Frequency)).
		Str("next_invoice_date", o.NextInvoiceDate.Format(dto.DateLayout)).
		Msg("orden creada")
	return toOrderResponse(o), nil
}

// GetOrder obtiene una orden por ID.
func (uc *OrderUseCase) GetOrder(ctx context.Context, id string) (*dto.OrderResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	return toOrderResponse(o), nil
}

var orderTransitions = map[entity.OrderStatus][]entity.OrderStatus{
	entity.OrderStatusActive:    {entity.OrderStatusPaused, entity.OrderStatusCancelled},
	entity.OrderStatusPaused:    {entity.OrderStatusActive, entity.OrderStatusCancelled},
	entity.OrderStatusCancelled: {},
}

// UpdateOrderStatus pausa, reanuda o cancela una orden. CANCELLED es terminal.
func (uc *OrderUseCase) UpdateOrderStatus(ctx context.Context, id, status string) (*dto.OrderResponse, error) {
	target := entity.OrderStatus(strings.ToUpper(strings.TrimSpace(status)))
	if _, ok := orderTransitions[target]; !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	now := uc.clock.Now()
	var o *entity.Order
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		var err error
		o, err = r.Orders.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if o.Status == target {
			return nil
		}
		allowed := false
		for _, s := range orderTransitions[o.Status] {
			if s == target {
				allowed = true
				break
			}
		}
		if !allowed {
			return &domain.StatusTransitionError{From: string(o.Status), To: string(target)}
		}
		o.Status = target
		o.UpdatedAt = now
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", o.ID).Str("status", string(o.Status)).Msg("estado de orden actualizado")
	return toOrderResponse(o), nil
}

// GenerateInvoiceFromOrder genera la factura DRAFT del periodo actual y avanza
// NextInvoiceDate un periodo. Orden bloqueada; factura y avance se confirman juntos.
func (uc *OrderUseCase) GenerateInvoiceFromOrder(ctx context.Context, orderID, invoiceNumber string) (*dto.InvoiceResponse, error) {
	now := uc.clock.Now()
	var inv *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		if o.Status != entity.OrderStatusActive {
			return fmt.Errorf("%w (status %s)", domain.ErrOrderNotActive, o.Status)
		}
		inv, err = uc.generate(ctx, r, o, invoiceNumber, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().
		Str("order_id", orderID).
		Str("invoice_id", inv.ID).
		Str("number", inv.Number).
		Msg("factura generada desde orden")
	return toInvoiceResponse(inv), nil
}

// generate crea la factura y avanza la orden dentro de la transacción en curso.
func (uc *OrderUseCase) generate(ctx context.Context, r BillingRepos, o *entity.Order, invoiceNumber string, now time.Time) (*entity.Invoice, error) {
	next, err := schedule.RuleFor(o).Next(o.NextInvoiceDate)
	if err != nil {
		return nil, err
	}
	number, err := assignInvoiceNumber(ctx, r, invoiceNumber, uc.cfg.InvoicePrefix, now)
	if err != nil {
		return nil, err
	}
	issue := schedule.Truncate(now)
	inv := &entity.Invoice{
		ID:          uuid.New().String(),
		ClientID:    o.ClientID,
		OrderID:     o.ID,
		Number:      number,
		Description: o.Description,
		Amount:      o.Amount,
		Currency:    o.Currency,
		IssueDate:   issue,
		DueDate:     schedule.DueDate(issue, o.LeadTimeDays, uc.cfg.NetTermDays),
		Status:      entity.InvoiceStatusDraft,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := r.Invoices.Create(ctx, inv); err != nil {
		return nil, err
	}
	generatedAt := now
	o.LastInvoiceDate = &generatedAt
	o.NextInvoiceDate = next
	o.UpdatedAt = now
	if err := r.Orders.Update(ctx, o); err != nil {
		return nil, err
	}
	return inv, nil
}

// GetOrderSchedule proyecta las próximas fechas de facturación sin modificar la orden.
// La primera fecha es la NextInvoiceDate actual; count se ajusta a 1..20.
func (uc *OrderUseCase) GetOrderSchedule(ctx context.Context, orderID string, count int) (*dto.ScheduleResponse, error) {
	o, err := uc.orderRepo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrOrderNotFound
	}
	dates, err := schedule.RuleFor(o).ProjectFrom(o.NextInvoiceDate, count)
	if err != nil {
		return nil, err
	}
	out := &dto.ScheduleResponse{
		OrderID:     o.ID,
		OrderStatus: string(o.Status),
		Schedule:    make([]dto.ScheduleEntry, 0, len(dates)),
	}
	for _, d := range dates {
		out.Schedule = append(out.Schedule, dto.ScheduleEntry{Date: d.Format(dto.DateLayout), Description: o.Description})
	}
	return out, nil
}

// DeleteOrder elimina la orden si nunca facturó; si tiene facturas la pasa a CANCELLED.
func (uc *OrderUseCase) DeleteOrder(ctx context.Context, orderID string) (*dto.DeleteOrderResponse, error) {
	now := uc.clock.Now()
	var out *dto.DeleteOrderResponse
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		o, err := r.Orders.GetForUpdate(ctx, orderID)
		if err != nil {
			return err
		}
		if o == nil {
			return domain.ErrOrderNotFound
		}
		n, err := r.Invoices.CountByOrder(ctx, o.ID)
		if err != nil {
			return err
		}
		if n == 0 {
			out = &dto.DeleteOrderResponse{DeletedOrderID: o.ID}
			return r.Orders.Delete(ctx, o.ID)
		}
		out = &dto.DeleteOrderResponse{
			Cancelled: true,
			Message:   fmt.Sprintf("order has %d invoice(s); it was cancelled instead of deleted", n),
		}
		if o.Status == entity.OrderStatusCancelled {
			return nil
		}
		o.Status = entity.OrderStatusCancelled
		o.UpdatedAt = now
		return r.Orders.Update(ctx, o)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("order_id", orderID).Bool("cancelled", out.Cancelled).Msg("orden eliminada")
	return out, nil
}

// GenerateDueInvoices barre las órdenes ACTIVE con NextInvoiceDate <= asOf y genera una
// factura por orden, cada una en su propia transacción. Las órdenes que dejaron de estar
// ACTIVE entre la consulta y el bloqueo se omiten; los errores se reportan y el barrido sigue.
func (uc *OrderUseCase) GenerateDueInvoices(ctx context.Context, asOf time.Time) (*dto.GenerateDueResponse, error) {
	asOf = schedule.Truncate(asOf)
	due, err := uc.orderRepo.ListDue(ctx, asOf)
	if err != nil {
		return nil, err
	}
	out := &dto.GenerateDueResponse{
		Generated: make([]dto.InvoiceResponse, 0, len(due)),
		Failed:    map[string]string{},
	}
	for _, d := range due {
		if err := ctx.Err(); err != nil {
			return out, err
		}
		now := uc.clock.Now()
		var inv *entity.Invoice
		err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
			o, err := r.Orders.GetForUpdate(ctx, d.ID)
			if err != nil || o == nil {
				return err
			}
			if o.Status != entity.OrderStatusActive || o.NextInvoiceDate.After(asOf) {
				return nil
			}
			inv, err = uc.generate(ctx, r, o, "", now)
			return err
		})
		switch {
		case err != nil:
			uc.log.Error().Err(err).Str("order_id", d.ID).Msg("no se pudo generar factura")
			out.Failed[d.ID] = err.Error()
		case inv == nil:
			out.Skipped++
		default:
			out.Generated = append(out.Generated, *toInvoiceResponse(inv))
		}
	}
	uc.log.Info().
		Int("generated", len(out.Generated)).
		Int("failed", len(out.Failed)).
		Int("skipped", out.Skipped).
		Msg("barrido de órdenes vencidas")
	return out, nil
}
