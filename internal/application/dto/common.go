package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	// Fields detalle por campo cuando Code = VALIDATION.
	Fields map[string]string `json:"fields,omitempty"`
}

// DateLayout formato de fechas de calendario en requests y responses.
const DateLayout = "2006-01-02"
