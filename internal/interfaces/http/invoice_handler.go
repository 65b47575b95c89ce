package http

import (
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/application/dto"
)

// InvoiceHandler maneja las peticiones HTTP de facturas (protegido).
type InvoiceHandler struct {
	uc    *billing.InvoiceUseCase
	clock billing.Clock
}

// NewInvoiceHandler construye el handler.
func NewInvoiceHandler(uc *billing.InvoiceUseCase, clock billing.Clock) *InvoiceHandler {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &InvoiceHandler{uc: uc, clock: clock}
}

// Create godoc
// @Summary      Crear factura manual (DRAFT)
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateInvoiceRequest  true  "client_id, amount, number (opcional)"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/invoices [post]
func (h *InvoiceHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateInvoiceRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateInvoice(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener factura con resumen de pagos
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.InvoiceResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [get]
func (h *InvoiceHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Cambiar estado de la factura
// @Description  DRAFT→SENT|CANCELLED, SENT→PAID|OVERDUE|CANCELLED, OVERDUE→PAID|CANCELLED. PAID y CANCELLED son finales.
// @Tags         invoices
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                          true  "ID de la factura"
// @Param        body  body      dto.UpdateInvoiceStatusRequest  true  "status"
// @Success      200   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/invoices/{id}/status [patch]
func (h *InvoiceHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateInvoiceStatusRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateInvoiceStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar factura DRAFT
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la factura"
// @Success      200  {object}  dto.DeleteInvoiceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/invoices/{id} [delete]
func (h *InvoiceHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.DeleteInvoice(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// MarkOverdue godoc
// @Summary      Marcar facturas vencidas
// @Tags         invoices
// @Security     Bearer
// @Produce      json
// @Param        as_of  query     string  false  "fecha de corte YYYY-MM-DD (por defecto hoy)"
// @Success      200    {object}  dto.MarkOverdueResponse
// @Failure      400    {object}  dto.ErrorResponse
// @Router       /api/invoices/mark-overdue [post]
func (h *InvoiceHandler) MarkOverdue(c *fiber.Ctx) error {
	asOf, err := asOfParam(c, h.clock)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.MarkOverdue(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// asOfParam lee ?as_of=YYYY-MM-DD; vacío usa el reloj.
func asOfParam(c *fiber.Ctx, clock billing.Clock) (time.Time, error) {
	raw := c.Query("as_of")
	if raw == "" {
		return clock.Now(), nil
	}
	t, err := time.Parse(dto.DateLayout, raw)
	if err != nil {
		return time.Time{}, fiber.NewError(fiber.StatusBadRequest, "as_of debe tener formato YYYY-MM-DD")
	}
	return t, nil
}
