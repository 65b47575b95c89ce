package http_test

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/application/billing"
	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/infrastructure/memory"
	apphttp "github.com/jhoicas/Cobranza-api/internal/interfaces/http"
	pkgjwt "github.com/jhoicas/Cobranza-api/pkg/jwt"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var testNow = time.Date(2025, 3, 10, 14, 30, 0, 0, time.UTC)

// newAPI arma la app completa sobre el store en memoria. store puede ser nil.
func newAPI(t *testing.T, idem *fakeIdempotencyStore) *fiber.App {
	t.Helper()
	st := memory.New()
	clock := fixedClock{t: testNow}
	cfg := billing.Config{DefaultCurrency: "USD", NetTermDays: 30, InvoicePrefix: "INV"}

	deps := apphttp.RouterDeps{
		PaymentUC: billing.NewPaymentUseCase(st, st.Invoices(), st.Payments(), clock, nil),
		InvoiceUC: billing.NewInvoiceUseCase(st, st.Invoices(), st.Payments(), st.Clients(), clock, cfg, nil),
		OrderUC:   billing.NewOrderUseCase(st, st.Orders(), clock, cfg, nil),
		ClientUC:  billing.NewClientUseCase(st.Clients(), clock, cfg),
		Clock:     clock,
		JWTSecret: testJWTSecret,
		Log:       zerolog.Nop(),
	}
	if idem != nil {
		deps.Idempotency = idem
	}
	app := fiber.New(fiber.Config{ErrorHandler: apphttp.ErrorHandler(zerolog.Nop())})
	apphttp.Router(app, deps)
	return app
}

// call lanza un request JSON con el rol indicado ("" = sin token) y devuelve status y cuerpo.
func call(t *testing.T, app *fiber.App, method, path, role string, body interface{}, headers ...string) (int, []byte) {
	t.Helper()
	var reader io.Reader
	switch b := body.(type) {
	case nil:
	case string:
		reader = bytes.NewBufferString(b)
	default:
		raw, err := json.Marshal(b)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, path, reader)
	if reader != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if role != "" {
		req.Header.Set("Authorization", tokenForRole(t, role))
	}
	for i := 0; i+1 < len(headers); i += 2 {
		req.Header.Set(headers[i], headers[i+1])
	}
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return resp.StatusCode, raw
}

func decode[T any](t *testing.T, raw []byte) T {
	t.Helper()
	var out T
	require.NoError(t, json.Unmarshal(raw, &out), string(raw))
	return out
}

func createClient(t *testing.T, app *fiber.App) string {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/clients", pkgjwt.RoleCobrador, map[string]string{"name": "ACME", "email": "cobros@acme.test"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.ClientResponse](t, raw).ID
}

func createInvoice(t *testing.T, app *fiber.App, clientID, amount string) dto.InvoiceResponse {
	t.Helper()
	status, raw := call(t, app, http.MethodPost, "/api/invoices", pkgjwt.RoleCobrador, map[string]string{"client_id": clientID, "amount": amount})
	require.Equal(t, http.StatusCreated, status, string(raw))
	return decode[dto.InvoiceResponse](t, raw)
}

func TestAPI_FlujoFacturaYPagos(t *testing.T) {
	app := newAPI(t, nil)
	clientID := createClient(t, app)

	inv := createInvoice(t, app, clientID, "1000.00")
	assert.Equal(t, "INV-2025-0001", inv.Number)
	assert.Equal(t, "DRAFT", inv.Status)
	assert.Equal(t, "2025-03-10", inv.IssueDate)
	assert.Equal(t, "2025-04-09", inv.DueDate)

	status, raw := call(t, app, http.MethodPatch, "/api/invoices/"+inv.ID+"/status", pkgjwt.RoleCobrador, map[string]string{"status": "SENT"})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Equal(t, "SENT", decode[dto.InvoiceResponse](t, raw).Status)

	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pkgjwt.RoleCobrador, map[string]string{"amount": "600.00", "method": "CASH"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	rec := decode[dto.RecordPaymentResponse](t, raw)
	assert.True(t, rec.PaymentSummary.RemainingAmount.Equal(decimal.NewFromInt(400)))
	assert.False(t, rec.PaymentSummary.IsFullyPaid)

	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pkgjwt.RoleCobrador, map[string]string{"amount": "500.00", "method": "CASH"})
	assert.Equal(t, http.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "OVERPAYMENT", errResp.Code)
	assert.Contains(t, errResp.Message, "Already paid: $600.00")

	status, raw = call(t, app, http.MethodPost, "/api/invoices/"+inv.ID+"/payments", pkgjwt.RoleCobrador, map[string]string{"amount": "400.00", "method": "BANK_TRANSFER"})
	require.Equal(t, http.StatusCreated, status, string(raw))
	assert.True(t, decode[dto.RecordPaymentResponse](t, raw).PaymentSummary.IsFullyPaid)

	// consulta puede leer
	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID+"/payments", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	history := decode[dto.PaymentHistoryResponse](t, raw)
	assert.Len(t, history.Payments, 2)
	assert.Equal(t, 2, history.Summary.PaymentCount)

	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID, pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	got := decode[dto.InvoiceResponse](t, raw)
	assert.Equal(t, "PAID", got.Status)
	require.NotNil(t, got.Summary)
	assert.True(t, got.Summary.TotalPaid.Equal(decimal.NewFromInt(1000)))

	// borrar un pago revierte PAID -> SENT
	status, raw = call(t, app, http.MethodDelete, "/api/payments/"+rec.Payment.ID, pkgjwt.RoleCobrador, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	status, raw = call(t, app, http.MethodGet, "/api/invoices/"+inv.ID, pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "SENT", decode[dto.InvoiceResponse](t, raw).Status)
}

func TestAPI_Errores(t *testing.T) {
	app := newAPI(t, nil)
	clientID := createClient(t, app)
	inv := createInvoice(t, app, clientID, "100.00")

	tests := []struct {
		name   string
		method string
		path   string
		role   string
		body   interface{}
		status int
		code   string
	}{
		{"sin token", http.MethodGet, "/api/invoices/" + inv.ID, "", nil, http.StatusUnauthorized, "MISSING_TOKEN"},
		{"consulta no escribe", http.MethodPost, "/api/invoices/" + inv.ID + "/payments", pkgjwt.RoleConsulta, map[string]string{"amount": "1", "method": "CASH"}, http.StatusForbidden, "FORBIDDEN"},
		{"factura inexistente", http.MethodGet, "/api/invoices/no-existe", pkgjwt.RoleConsulta, nil, http.StatusNotFound, "NOT_FOUND"},
		{"medio de pago inválido", http.MethodPost, "/api/invoices/" + inv.ID + "/payments", pkgjwt.RoleCobrador, map[string]string{"amount": "1", "method": "BITCOIN"}, http.StatusBadRequest, "VALIDATION"},
		{"monto cero", http.MethodPost, "/api/invoices/" + inv.ID + "/payments", pkgjwt.RoleCobrador, map[string]string{"amount": "0", "method": "CASH"}, http.StatusBadRequest, "VALIDATION"},
		{"json roto", http.MethodPost, "/api/invoices", pkgjwt.RoleCobrador, "{", http.StatusBadRequest, "INVALID_BODY"},
		{"transición inválida", http.MethodPatch, "/api/invoices/" + inv.ID + "/status", pkgjwt.RoleCobrador, map[string]string{"status": "PAID"}, http.StatusBadRequest, "INVALID_STATUS_TRANSITION"},
		{"estado desconocido", http.MethodPatch, "/api/invoices/" + inv.ID + "/status", pkgjwt.RoleCobrador, map[string]string{"status": "ARCHIVED"}, http.StatusBadRequest, "INVALID_STATUS"},
		{"número duplicado", http.MethodPost, "/api/invoices", pkgjwt.RoleCobrador, map[string]string{"client_id": clientID, "amount": "5", "number": inv.Number}, http.StatusConflict, "INVOICE_NUMBER_EXISTS"},
		{"cliente inexistente", http.MethodPost, "/api/invoices", pkgjwt.RoleCobrador, map[string]string{"client_id": "nadie", "amount": "5"}, http.StatusNotFound, "NOT_FOUND"},
		{"as_of inválido", http.MethodPost, "/api/invoices/mark-overdue?as_of=10-03-2025", pkgjwt.RoleAdmin, nil, http.StatusBadRequest, "INVALID_BODY"},
		{"barrido solo admin", http.MethodPost, "/api/orders/generate-due", pkgjwt.RoleCobrador, nil, http.StatusForbidden, "FORBIDDEN"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, raw := call(t, app, tt.method, tt.path, tt.role, tt.body)
			assert.Equal(t, tt.status, status, string(raw))
			assert.Equal(t, tt.code, decode[dto.ErrorResponse](t, raw).Code)
		})
	}
}

func TestAPI_ValidacionPorCampo(t *testing.T) {
	app := newAPI(t, nil)
	status, raw := call(t, app, http.MethodPost, "/api/orders", pkgjwt.RoleCobrador, map[string]interface{}{
		"client_id":   "c1",
		"description": "Hosting",
		"amount":      "10",
		"frequency":   "DAILY",
		"start_date":  "2025/03/01",
	})
	require.Equal(t, http.StatusBadRequest, status)
	errResp := decode[dto.ErrorResponse](t, raw)
	assert.Equal(t, "VALIDATION", errResp.Code)
	assert.Equal(t, "oneof", errResp.Fields["frequency"])
	assert.Equal(t, "datetime", errResp.Fields["start_date"])
}

func TestAPI_OrdenesRecurrentes(t *testing.T) {
	app := newAPI(t, nil)
	clientID := createClient(t, app)

	status, raw := call(t, app, http.MethodPost, "/api/orders", pkgjwt.RoleCobrador, map[string]interface{}{
		"client_id":   clientID,
		"description": "Soporte mensual",
		"amount":      "250.00",
		"frequency":   "MONTHLY",
		"start_date":  "2025-03-01",
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	order := decode[dto.OrderResponse](t, raw)
	assert.Equal(t, "2025-04-01", order.NextInvoiceDate)
	assert.Equal(t, "ACTIVE", order.Status)

	// sin cuerpo: número de la secuencia
	status, raw = call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/invoices", pkgjwt.RoleCobrador, nil)
	require.Equal(t, http.StatusCreated, status, string(raw))
	inv := decode[dto.InvoiceResponse](t, raw)
	assert.Equal(t, "INV-2025-0001", inv.Number)
	assert.Equal(t, order.ID, inv.OrderID)
	assert.Equal(t, "DRAFT", inv.Status)

	status, raw = call(t, app, http.MethodGet, "/api/orders/"+order.ID+"/schedule?count=3", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	sched := decode[dto.ScheduleResponse](t, raw)
	require.Len(t, sched.Schedule, 3)
	assert.Equal(t, "2025-05-01", sched.Schedule[0].Date)
	assert.Equal(t, "2025-07-01", sched.Schedule[2].Date)

	status, raw = call(t, app, http.MethodPost, "/api/orders/generate-due?as_of=2025-05-01", pkgjwt.RoleAdmin, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	due := decode[dto.GenerateDueResponse](t, raw)
	require.Len(t, due.Generated, 1)
	assert.Equal(t, "INV-2025-0002", due.Generated[0].Number)

	status, raw = call(t, app, http.MethodPatch, "/api/orders/"+order.ID+"/status", pkgjwt.RoleCobrador, map[string]string{"status": "PAUSED"})
	require.Equal(t, http.StatusOK, status, string(raw))

	status, raw = call(t, app, http.MethodPost, "/api/orders/"+order.ID+"/invoices", pkgjwt.RoleCobrador, map[string]string{"invoice_number": "X-1"})
	assert.Equal(t, http.StatusBadRequest, status)
	assert.Equal(t, "ORDER_NOT_ACTIVE", decode[dto.ErrorResponse](t, raw).Code)

	// con facturas la orden se cancela en vez de borrarse
	status, raw = call(t, app, http.MethodDelete, "/api/orders/"+order.ID, pkgjwt.RoleCobrador, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, decode[dto.DeleteOrderResponse](t, raw).Cancelled)
}

func TestAPI_ListaClientes(t *testing.T) {
	app := newAPI(t, nil)
	createClient(t, app)
	createClient(t, app)

	status, raw := call(t, app, http.MethodGet, "/api/clients?limit=1", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.Len(t, decode[[]dto.ClientResponse](t, raw), 1)

	status, raw = call(t, app, http.MethodGet, "/api/clients", pkgjwt.RoleConsulta, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, decode[[]dto.ClientResponse](t, raw), 2)
}
