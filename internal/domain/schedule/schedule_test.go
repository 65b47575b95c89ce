package schedule_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Cobranza-api/internal/domain"
	"github.com/jhoicas/Cobranza-api/internal/domain/entity"
	"github.com/jhoicas/Cobranza-api/internal/domain/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func intPtr(v int) *int { return &v }

func TestNext_FrecuenciasFijas(t *testing.T) {
	from := date(2025, 1, 15)
	tests := []struct {
		freq entity.Frequency
		want time.Time
	}{
		{entity.FrequencyWeekly, date(2025, 1, 22)},
		{entity.FrequencyBiweekly, date(2025, 1, 29)},
		{entity.FrequencyMonthly, date(2025, 2, 15)},
		{entity.FrequencyQuarterly, date(2025, 4, 15)},
		{entity.FrequencyAnnually, date(2026, 1, 15)},
	}
	for _, tt := range tests {
		t.Run(string(tt.freq), func(t *testing.T) {
			got, err := schedule.Rule{Frequency: tt.freq}.Next(from)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// 31 ene + 1 mes debe ser 28 feb (no 3 mar) y volver al 31 cuando el mes lo permite.
func TestNext_MensualRecortaFinDeMes(t *testing.T) {
	start := date(2025, 1, 31)
	rule := schedule.RuleFor(&entity.Order{Frequency: entity.FrequencyMonthly, StartDate: start})

	got, err := rule.Project(start, 4)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, 2, 28),
		date(2025, 3, 31),
		date(2025, 4, 30),
		date(2025, 5, 31),
	}, got)

	leap, err := rule.Next(date(2024, 1, 31))
	require.NoError(t, err)
	assert.Equal(t, date(2024, 2, 29), leap)
}

// Una próxima fecha fijada en otro día del mes pasa a ser el ancla; un recorte a fin de
// mes conserva el día de inicio.
func TestRuleFor_AnclaSegunProximaFecha(t *testing.T) {
	tests := []struct {
		name string
		next time.Time
		want []time.Time
	}{
		{"fijada el 15", date(2025, 2, 15), []time.Time{date(2025, 2, 15), date(2025, 3, 15), date(2025, 4, 15)}},
		{"recorte de fin de mes", date(2025, 2, 28), []time.Time{date(2025, 2, 28), date(2025, 3, 31), date(2025, 4, 30)}},
		{"mismo día de inicio", date(2025, 3, 31), []time.Time{date(2025, 3, 31), date(2025, 4, 30), date(2025, 5, 31)}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			o := &entity.Order{Frequency: entity.FrequencyMonthly, StartDate: date(2025, 1, 31), NextInvoiceDate: tt.next}
			got, err := schedule.RuleFor(o).ProjectFrom(o.NextInvoiceDate, 3)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNext_SinAnclaUsaDiaDeOrigen(t *testing.T) {
	got, err := schedule.Rule{Frequency: entity.FrequencyMonthly}.Next(date(2025, 2, 28))
	require.NoError(t, err)
	assert.Equal(t, date(2025, 3, 28), got)
}

func TestNext_TrimestralRecorta(t *testing.T) {
	got, err := schedule.Rule{Frequency: entity.FrequencyQuarterly}.Next(date(2025, 11, 30))
	require.NoError(t, err)
	assert.Equal(t, date(2026, 2, 28), got)
}

func TestNext_Anual29Feb(t *testing.T) {
	rule := schedule.Rule{Frequency: entity.FrequencyAnnually, AnchorDay: 29}
	got, err := rule.Project(date(2024, 2, 29), 4)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{
		date(2025, 2, 28),
		date(2026, 2, 28),
		date(2027, 2, 28),
		date(2028, 2, 29),
	}, got)
}

func TestNext_Custom45Dias(t *testing.T) {
	order := &entity.Order{Frequency: entity.FrequencyCustom, CustomDays: intPtr(45), StartDate: date(2025, 1, 1)}
	got, err := schedule.RuleFor(order).Next(order.StartDate)
	require.NoError(t, err)
	assert.Equal(t, date(2025, 2, 15), got)
}

func TestNext_CustomSinDias(t *testing.T) {
	_, err := schedule.Rule{Frequency: entity.FrequencyCustom}.Next(date(2025, 1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = schedule.Rule{Frequency: "DAILY"}.Next(date(2025, 1, 1))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		freq     entity.Frequency
		custom   *int
		leadTime *int
		ok       bool
	}{
		{"mensual", entity.FrequencyMonthly, nil, nil, true},
		{"mensual con lead time", entity.FrequencyMonthly, nil, intPtr(30), true},
		{"custom valido", entity.FrequencyCustom, intPtr(365), intPtr(0), true},
		{"custom sin dias", entity.FrequencyCustom, nil, nil, false},
		{"custom cero", entity.FrequencyCustom, intPtr(0), nil, false},
		{"custom excedido", entity.FrequencyCustom, intPtr(366), nil, false},
		{"dias en frecuencia fija", entity.FrequencyWeekly, intPtr(10), nil, false},
		{"lead time excedido", entity.FrequencyWeekly, nil, intPtr(31), false},
		{"lead time negativo", entity.FrequencyWeekly, nil, intPtr(-1), false},
		{"frecuencia desconocida", "DAILY", nil, nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := schedule.Validate(tt.freq, tt.custom, tt.leadTime)
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, domain.ErrInvalidInput)
			}
		})
	}
}

func TestProjectFrom_IncluyeFechaActualYRecorta(t *testing.T) {
	rule := schedule.Rule{Frequency: entity.FrequencyWeekly}
	from := date(2025, 1, 1)

	got, err := rule.ProjectFrom(from, 3)
	require.NoError(t, err)
	assert.Equal(t, []time.Time{date(2025, 1, 1), date(2025, 1, 8), date(2025, 1, 15)}, got)

	got, err = rule.ProjectFrom(from, 50)
	require.NoError(t, err)
	assert.Len(t, got, schedule.MaxProjectionLength)

	got, err = rule.ProjectFrom(from, 0)
	require.NoError(t, err)
	assert.Len(t, got, schedule.DefaultProjection)
}

func TestDueDate(t *testing.T) {
	issue := date(2025, 3, 1)
	assert.Equal(t, date(2025, 3, 31), schedule.DueDate(issue, nil, 30))
	assert.Equal(t, date(2025, 3, 11), schedule.DueDate(issue, intPtr(10), 30))
	assert.Equal(t, issue, schedule.DueDate(issue, intPtr(0), 30))
	assert.Equal(t, date(2025, 3, 31), schedule.DueDate(issue, nil, 0))
}

func TestTruncate(t *testing.T) {
	got := schedule.Truncate(time.Date(2025, 5, 6, 17, 45, 0, 0, time.UTC))
	assert.Equal(t, date(2025, 5, 6), got)
}
