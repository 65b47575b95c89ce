package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/pkg/jwt"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	PaymentUC   *billing.PaymentUseCase
	InvoiceUC   *billing.InvoiceUseCase
	OrderUC     *billing.OrderUseCase
	ClientUC    *billing.ClientUseCase
	Clock       billing.Clock
	JWTSecret   string
	Idempotency idempotencyStore // nil deshabilita la caché de Idempotency-Key
	Log         zerolog.Logger
}

// Router registra las rutas de la API. Todo /api requiere Bearer Token; las escrituras
// requieren rol admin o cobrador y los barridos batch solo admin.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	write := RequireRole(jwt.RoleAdmin, jwt.RoleCobrador)
	adminOnly := RequireRole(jwt.RoleAdmin)
	idem := Idempotency(deps.Idempotency, deps.Log)

	paymentHandler := NewPaymentHandler(deps.PaymentUC)
	invoiceHandler := NewInvoiceHandler(deps.InvoiceUC, deps.Clock)
	orderHandler := NewOrderHandler(deps.OrderUC, deps.Clock)
	clientHandler := NewClientHandler(deps.ClientUC)

	// Invoices + payments
	invoices := api.Group("/invoices")
	invoices.Post("/mark-overdue", adminOnly, invoiceHandler.MarkOverdue)
	invoices.Post("/", write, idem, invoiceHandler.Create)
	invoices.Get("/:id", invoiceHandler.GetByID)
	invoices.Patch("/:id/status", write, invoiceHandler.UpdateStatus)
	invoices.Delete("/:id", write, invoiceHandler.Delete)
	invoices.Post("/:id/payments", write, idem, paymentHandler.Record)
	invoices.Get("/:id/payments", paymentHandler.History)

	payments := api.Group("/payments")
	payments.Patch("/:id", write, idem, paymentHandler.Update)
	payments.Delete("/:id", write, paymentHandler.Delete)

	// Orders
	orders := api.Group("/orders")
	orders.Post("/generate-due", adminOnly, orderHandler.GenerateDue)
	orders.Post("/", write, orderHandler.Create)
	orders.Get("/:id", orderHandler.GetByID)
	orders.Patch("/:id/status", write, orderHandler.UpdateStatus)
	orders.Post("/:id/invoices", write, idem, orderHandler.GenerateInvoice)
	orders.Get("/:id/schedule", orderHandler.Schedule)
	orders.Delete("/:id", write, orderHandler.Delete)

	// Clients
	clients := api.Group("/clients")
	clients.Post("/", write, clientHandler.Create)
	clients.Get("/", clientHandler.List)
	clients.Get("/:id", clientHandler.GetByID)
}
