// Package schedule implementa la aritmética de calendario de las órdenes recurrentes:
// siguiente fecha de facturación, fecha de vencimiento y proyección de fechas futuras.
package schedule

import (
	"fmt"
	"time"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
)

// Límites de las reglas de frecuencia y proyección.
const (
	MinCustomDays       = 1
	MaxCustomDays       = 365
	MaxLeadTimeDays     = 30
	DefaultNetTermDays  = 30
	DefaultProjection   = 5
	MaxProjectionLength = 20
)

// Rule regla de recurrencia de una orden. AnchorDay es el día del mes al que vuelven
// las frecuencias mensuales; 0 usa el día de la fecha de partida.
type Rule struct {
	Frequency  entity.Frequency
	CustomDays int
	AnchorDay  int
}

// RuleFor construye la regla de una orden. El ancla es el día de StartDate mientras
// NextInvoiceDate siga ese día o sea su recorte a fin de mes (31 ene -> 28 feb); si
// NextInvoiceDate se fijó en otro día, ese día pasa a ser el ancla.
func RuleFor(o *entity.Order) Rule {
	r := Rule{Frequency: o.Frequency, AnchorDay: anchorDay(o.StartDate, o.NextInvoiceDate)}
	if o.CustomDays != nil {
		r.CustomDays = *o.CustomDays
	}
	return r
}

// Validate verifica la combinación frecuencia/customDays/leadTime al crear una orden.
func Validate(freq entity.Frequency, customDays, leadTimeDays *int) error {
	switch freq {
	case entity.FrequencyWeekly, entity.FrequencyBiweekly, entity.FrequencyMonthly,
		entity.FrequencyQuarterly, entity.FrequencyAnnually:
		if customDays != nil {
			return fmt.Errorf("%w: custom_days is only allowed for CUSTOM frequency", domain.ErrInvalidInput)
		}
	case entity.FrequencyCustom:
		if customDays == nil || *customDays < MinCustomDays || *customDays > MaxCustomDays {
			return fmt.Errorf("%w: custom_days must be between %d and %d for CUSTOM frequency",
				domain.ErrInvalidInput, MinCustomDays, MaxCustomDays)
		}
	default:
		return fmt.Errorf("%w: unknown frequency %q", domain.ErrInvalidInput, freq)
	}
	if leadTimeDays != nil && (*leadTimeDays < 0 || *leadTimeDays > MaxLeadTimeDays) {
		return fmt.Errorf("%w: lead_time_days must be between 0 and %d", domain.ErrInvalidInput, MaxLeadTimeDays)
	}
	return nil
}

// Next calcula la fecha sucesora de from según la regla.
func (r Rule) Next(from time.Time) (time.Time, error) {
	switch r.Frequency {
	case entity.FrequencyWeekly:
		return from.AddDate(0, 0, 7), nil
	case entity.FrequencyBiweekly:
		return from.AddDate(0, 0, 14), nil
	case entity.FrequencyMonthly:
		return addMonths(from, 1, r.AnchorDay), nil
	case entity.FrequencyQuarterly:
		return addMonths(from, 3, r.AnchorDay), nil
	case entity.FrequencyAnnually:
		return addMonths(from, 12, r.AnchorDay), nil
	case entity.FrequencyCustom:
		if r.CustomDays < MinCustomDays {
			return time.Time{}, fmt.Errorf("%w: custom_days must be positive", domain.ErrInvalidInput)
		}
		return from.AddDate(0, 0, r.CustomDays), nil
	default:
		return time.Time{}, fmt.Errorf("%w: unknown frequency %q", domain.ErrInvalidInput, r.Frequency)
	}
}

// Project aplica Next count veces a partir de from sin incluir from.
// count se ajusta al rango 1..MaxProjectionLength.
func (r Rule) Project(from time.Time, count int) ([]time.Time, error) {
	count = ClampCount(count)
	out := make([]time.Time, 0, count)
	cur := from
	for i := 0; i < count; i++ {
		next, err := r.Next(cur)
		if err != nil {
			return nil, err
		}
		out = append(out, next)
		cur = next
	}
	return out, nil
}

// ProjectFrom igual que Project pero incluye from como primera fecha: es la que se
// facturará en la próxima generación.
func (r Rule) ProjectFrom(from time.Time, count int) ([]time.Time, error) {
	count = ClampCount(count)
	if count == 1 {
		return []time.Time{from}, nil
	}
	rest, err := r.Project(from, count-1)
	if err != nil {
		return nil, err
	}
	return append([]time.Time{from}, rest...), nil
}

// ClampCount normaliza la cantidad pedida: <=0 usa el valor por defecto, >20 se recorta.
func ClampCount(count int) int {
	if count <= 0 {
		return DefaultProjection
	}
	if count > MaxProjectionLength {
		return MaxProjectionLength
	}
	return count
}

// DueDate vencimiento de una factura generada: issueDate + leadTimeDays si está definido,
// si no issueDate + netTermDays.
func DueDate(issueDate time.Time, leadTimeDays *int, netTermDays int) time.Time {
	if leadTimeDays != nil {
		return issueDate.AddDate(0, 0, *leadTimeDays)
	}
	if netTermDays <= 0 {
		netTermDays = DefaultNetTermDays
	}
	return issueDate.AddDate(0, 0, netTermDays)
}

// addMonths suma n meses manteniendo el día ancla y recortando al último día del mes destino
// (31 ene + 1 mes = 28/29 feb, no 3 mar).
func addMonths(from time.Time, n, anchorDay int) time.Time {
	if anchorDay <= 0 {
		anchorDay = from.Day()
	}
	y, m, _ := from.Date()
	// Día 1 evita que time.Date normalice hacia el mes siguiente.
	first := time.Date(y, m, 1, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
	target := first.AddDate(0, n, 0)
	day := anchorDay
	if last := daysIn(target.Year(), target.Month(), from.Location()); day > last {
		day = last
	}
	return time.Date(target.Year(), target.Month(), day, from.Hour(), from.Minute(), from.Second(), from.Nanosecond(), from.Location())
}

func anchorDay(start, next time.Time) int {
	anchor := start.Day()
	if next.IsZero() || next.Day() == anchor {
		return anchor
	}
	clamped := next.Day() < anchor && next.Day() == daysIn(next.Year(), next.Month(), next.Location())
	if clamped {
		return anchor
	}
	return next.Day()
}

func daysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// Truncate normaliza una fecha a medianoche UTC (las fechas de calendario se guardan como DATE).
func Truncate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
