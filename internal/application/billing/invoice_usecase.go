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
	"github.com/jhoicas/Cobranza-api/internal/domain/ledger"
	"github.com/jhoicas/Cobranza-api/internal/domain/repository"
	"github.com/jhoicas/Cobranza-api/internal/domain/schedule"
	"github.com/jhoicas/Cobranza-api/pkg/logger"
)

// InvoiceUseCase alta manual, consulta, cambios de estado y borrado de facturas.
type InvoiceUseCase struct {
	txRunner    BillingTxRunner
	invoiceRepo repository.InvoiceRepository
	paymentRepo repository.PaymentRepository
	clientRepo  repository.ClientRepository
	clock       Clock
	cfg         Config
	log         zerolog.Logger
}

// NewInvoiceUseCase construye el caso de uso.
func NewInvoiceUseCase(
	txRunner BillingTxRunner,
	invoiceRepo repository.InvoiceRepository,
	paymentRepo repository.PaymentRepository,
	clientRepo repository.ClientRepository,
	clock Clock,
	cfg Config,
	log *logger.Logger,
) *InvoiceUseCase {
	if clock == nil {
		clock = SystemClock{}
	}
	if log == nil {
		log = logger.Nop()
	}
	return &InvoiceUseCase{
		txRunner:    txRunner,
		invoiceRepo: invoiceRepo,
		paymentRepo: paymentRepo,
		clientRepo:  clientRepo,
		clock:       clock,
		cfg:         cfg.withDefaults(),
		log:         log.Component("invoices"),
	}
}

// CreateInvoice crea una factura manual en DRAFT.
func (uc *InvoiceUseCase) CreateInvoice(ctx context.Context, in dto.CreateInvoiceRequest) (*dto.InvoiceResponse, error) {
	if strings.TrimSpace(in.ClientID) == "" {
		return nil, fmt.Errorf("%w: client_id is required", domain.ErrInvalidInput)
	}
	if err := validateAmount(in.Amount); err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	issueDate := schedule.Truncate(now)
	if in.IssueDate != "" {
		d, err := time.Parse(dto.DateLayout, in.IssueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: issue_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		issueDate = d
	}
	dueDate := schedule.DueDate(issueDate, nil, uc.cfg.NetTermDays)
	if in.DueDate != "" {
		d, err := time.Parse(dto.DateLayout, in.DueDate)
		if err != nil {
			return nil, fmt.Errorf("%w: due_date must be YYYY-MM-DD", domain.ErrInvalidInput)
		}
		dueDate = d
	}
	if dueDate.Before(issueDate) {
		return nil, fmt.Errorf("%w: due_date must not be before issue_date", domain.ErrInvalidInput)
	}

	var inv *entity.Invoice
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		client, err := r.Clients.GetByID(ctx, in.ClientID)
		if err != nil {
			return err
		}
		if client == nil {
			return domain.ErrClientNotFound
		}
		cur, err := normalizeCurrency(in.Currency, firstNonEmpty(client.Currency, uc.cfg.DefaultCurrency))
		if err != nil {
			return err
		}
		number, err := assignInvoiceNumber(ctx, r, in.Number, uc.cfg.InvoicePrefix, now)
		if err != nil {
			return err
		}
		inv = &entity.Invoice{
			ID:          uuid.New().String(),
			ClientID:    client.ID,
			Number:      number,
			Description: in.Description,
			Amount:      in.Amount,
			Currency:    cur,
			IssueDate:   issueDate,
			DueDate:     dueDate,
			Status:      entity.InvoiceStatusDraft,
			CreatedAt:   now,
			UpdatedAt:   now,
		}
		return r.Invoices.Create(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("number", inv.Number).Msg("factura creada")
	return toInvoiceResponse(inv), nil
}

// GetInvoice devuelve la factura con su resumen de pagos.
func (uc *InvoiceUseCase) GetInvoice(ctx context.Context, id string) (*dto.InvoiceResponse, error) {
	inv, err := uc.invoiceRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if inv == nil {
		return nil, domain.ErrInvoiceNotFound
	}
	payments, err := uc.paymentRepo.ListByInvoice(ctx, id)
	if err != nil {
		return nil, err
	}
	resp := toInvoiceResponse(inv)
	summary := toSummaryResponse(ledger.Summarize(inv.Amount, payments))
	resp.Summary = &summary
	return resp, nil
}

// UpdateInvoiceStatus aplica una transición manual según la tabla del ledger.
// Un estado fuera del enum es ErrInvalidStatus; un par ilegal deja la factura intacta.
func (uc *InvoiceUseCase) UpdateInvoiceStatus(ctx context.Context, id string, status string) (*dto.InvoiceResponse, error) {
	target, err := ledger.ParseStatus(status)
	if err != nil {
		return nil, err
	}
	now := uc.clock.Now()
	var inv *entity.Invoice
	err = uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		inv, err = r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if err := ledger.Transition(inv, target, now); err != nil {
			return err
		}
		return r.Invoices.Update(ctx, inv)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", inv.ID).Str("status", string(inv.Status)).Msg("estado de factura actualizado")
	return toInvoiceResponse(inv), nil
}

// DeleteInvoice elimina una factura en DRAFT (y sus pagos). Las demás deben anularse.
func (uc *InvoiceUseCase) DeleteInvoice(ctx context.Context, id string) (*dto.DeleteInvoiceResponse, error) {
	err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
		inv, err := r.Invoices.GetForUpdate(ctx, id)
		if err != nil {
			return err
		}
		if inv == nil {
			return domain.ErrInvoiceNotFound
		}
		if inv.Status != entity.InvoiceStatusDraft {
			return fmt.Errorf("%w (status %s)", domain.ErrInvoiceDeleteNotAllowed, inv.Status)
		}
		return r.Invoices.Delete(ctx, inv.ID)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("invoice_id", id).Msg("factura eliminada")
	return &dto.DeleteInvoiceResponse{DeletedInvoiceID: id}, nil
}

// MarkOverdue pasa a OVERDUE las facturas SENT cuyo vencimiento es anterior a asOf.
// Cada factura se procesa en su propia transacción; si otra operación la cambió entre
// la consulta y el bloqueo, se omite.
func (uc *InvoiceUseCase) MarkOverdue(ctx context.Context, asOf time.Time) (*dto.MarkOverdueResponse, error) {
	candidates, err := uc.invoiceRepo.ListOverdueCandidates(ctx, schedule.Truncate(asOf))
	if err != nil {
		return nil, err
	}
	out := &dto.MarkOverdueResponse{Updated: make([]string, 0, len(candidates))}
	for _, c := range candidates {
		now := uc.clock.Now()
		updated := false
		err := uc.txRunner.RunBilling(ctx, func(r BillingRepos) error {
			inv, err := r.Invoices.GetForUpdate(ctx, c.ID)
			if err != nil || inv == nil || inv.Status != entity.InvoiceStatusSent {
				return err
			}
			if err := ledger.Transition(inv, entity.InvoiceStatusOverdue, now); err != nil {
				return err
			}
			updated = true
			return r.Invoices.Update(ctx, inv)
		})
		if err != nil {
			uc.log.Error().Err(err).Str("invoice_id", c.ID).Msg("no se pudo marcar como vencida")
			continue
		}
		if updated {
			out.Updated = append(out.Updated, c.ID)
		}
	}
	uc.log.Info().Int("updated", len(out.Updated)).Msg("barrido de facturas vencidas")
	return out, nil
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
