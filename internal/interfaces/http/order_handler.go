package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain/schedule"
)

// OrderHandler maneja las peticiones HTTP de órdenes recurrentes (protegido).
type OrderHandler struct {
	uc    *billing.OrderUseCase
	clock billing.Clock
}

// NewOrderHandler construye el handler.
func NewOrderHandler(uc *billing.OrderUseCase, clock billing.Clock) *OrderHandler {
	if clock == nil {
		clock = billing.SystemClock{}
	}
	return &OrderHandler{uc: uc, clock: clock}
}

// Create godoc
// @Summary      Crear orden recurrente
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.CreateOrderRequest  true  "frecuencia, monto y fecha de inicio"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders [post]
func (h *OrderHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.CreateOrder(c.Context(), in)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetByID godoc
// @Summary      Obtener orden
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.OrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *OrderHandler) GetByID(c *fiber.Ctx) error {
	out, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// UpdateStatus godoc
// @Summary      Pausar, reanudar o cancelar una orden
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                        true  "ID de la orden"
// @Param        body  body      dto.UpdateOrderStatusRequest  true  "ACTIVE, PAUSED o CANCELLED"
// @Success      200   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/status [patch]
func (h *OrderHandler) UpdateStatus(c *fiber.Ctx) error {
	var in dto.UpdateOrderStatusRequest
	if err := bindAndValidate(c, &in); err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.UpdateOrderStatus(c.Context(), c.Params("id"), in.Status)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GenerateInvoice godoc
// @Summary      Generar factura desde la orden
// @Description  Crea la factura DRAFT del periodo y avanza next_invoice_date. Acepta Idempotency-Key.
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                      true   "ID de la orden"
// @Param        body  body      dto.GenerateInvoiceRequest  false  "invoice_number opcional"
// @Success      201   {object}  dto.InvoiceResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/invoices [post]
func (h *OrderHandler) GenerateInvoice(c *fiber.Ctx) error {
	var in dto.GenerateInvoiceRequest
	if len(c.Body()) > 0 {
		if err := bindAndValidate(c, &in); err != nil {
			return respondError(c, err)
		}
	}
	out, err := h.uc.GenerateInvoiceFromOrder(c.Context(), c.Params("id"), in.InvoiceNumber)
	if err != nil {
		return respondError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// Schedule godoc
// @Summary      Proyección de próximas fechas de facturación
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id     path      string  true   "ID de la orden"
// @Param        count  query     int     false  "cantidad 1-20 (por defecto 5)"
// @Success      200    {object}  dto.ScheduleResponse
// @Failure      404    {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/schedule [get]
func (h *OrderHandler) Schedule(c *fiber.Ctx) error {
	count := c.QueryInt("count", schedule.DefaultProjection)
	out, err := h.uc.GetOrderSchedule(c.Context(), c.Params("id"), count)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// Delete godoc
// @Summary      Eliminar orden
// @Description  Sin facturas se elimina; con facturas se cancela.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "ID de la orden"
// @Success      200  {object}  dto.DeleteOrderResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [delete]
func (h *OrderHandler) Delete(c *fiber.Ctx) error {
	out, err := h.uc.DeleteOrder(c.Context(), c.Params("id"))
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}

// GenerateDue godoc
// @Summary      Generar facturas de órdenes vencidas
// @Description  Barre las órdenes ACTIVE con next_invoice_date <= as_of. Las pausadas se omiten.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        as_of  query     string  false  "fecha de corte YYYY-MM-DD (por defecto hoy)"
// @Success      200    {object}  dto.GenerateDueResponse
// @Router       /api/orders/generate-due [post]
func (h *OrderHandler) GenerateDue(c *fiber.Ctx) error {
	asOf, err := asOfParam(c, h.clock)
	if err != nil {
		return respondError(c, err)
	}
	out, err := h.uc.GenerateDueInvoices(c.Context(), asOf)
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(out)
}
