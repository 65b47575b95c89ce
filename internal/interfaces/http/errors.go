package http

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Cobranza-api/internal/application/dto"
	"github.com/jhoicas/Cobranza-api/internal/domain"
)

// errorMapping clase de error de dominio -> status y código. El orden importa: los
// errores concretos van antes que su clase.
var errorMapping = []struct {
	target error
	status int
	code   string
}{
	{domain.ErrInvoiceNumberExists, fiber.StatusConflict, "INVOICE_NUMBER_EXISTS"},
	{domain.ErrDuplicate, fiber.StatusConflict, "DUPLICATE"},
	{domain.ErrNotFound, fiber.StatusNotFound, "NOT_FOUND"},
	{domain.ErrOverpayment, fiber.StatusBadRequest, "OVERPAYMENT"},
	{domain.ErrInvalidStatusTransition, fiber.StatusBadRequest, "INVALID_STATUS_TRANSITION"},
	{domain.ErrInvoiceDeleteNotAllowed, fiber.StatusBadRequest, "INVOICE_DELETE_NOT_ALLOWED"},
	{domain.ErrOrderNotActive, fiber.StatusBadRequest, "ORDER_NOT_ACTIVE"},
	{domain.ErrPaymentNotAllowed, fiber.StatusBadRequest, "PAYMENT_NOT_ALLOWED"},
	{domain.ErrRuleViolation, fiber.StatusBadRequest, "RULE_VIOLATION"},
	{domain.ErrInvalidStatus, fiber.StatusBadRequest, "INVALID_STATUS"},
	{domain.ErrInvalidInput, fiber.StatusBadRequest, "VALIDATION"},
	{domain.ErrConflict, fiber.StatusConflict, "CONFLICT"},
}

// respondError traduce un error de caso de uso a la respuesta JSON. Los errores no
// clasificados se devuelven a Fiber para que ErrorHandler los registre como 500.
func respondError(c *fiber.Ctx, err error) error {
	var ve validator.ValidationErrors
	if errors.As(err, &ve) {
		fields := make(map[string]string, len(ve))
		for _, fe := range ve {
			fields[fe.Field()] = fe.Tag()
		}
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "datos inválidos", Fields: fields})
	}
	var fe *fiber.Error
	if errors.As(err, &fe) {
		return c.Status(fe.Code).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: fe.Message})
	}
	for _, m := range errorMapping {
		if errors.Is(err, m.target) {
			return c.Status(m.status).JSON(dto.ErrorResponse{Code: m.code, Message: err.Error()})
		}
	}
	return err
}
