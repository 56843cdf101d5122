package measurement_test

import (
	"encoding/json"
	"math"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/measurement"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var now = time.Date(2026, time.October, 18, 15, 0, 0, 0, time.UTC)

func validInput() map[string]any {
	return map[string]any{
		measurement.FieldWeight:           70.5,
		measurement.FieldHeight:           "1.80",
		measurement.FieldSittingHeight:    0.90,
		measurement.FieldWingspan:         json.Number("1.85"),
		measurement.FieldRegistrationDate: "2026-01-15",
	}
}

func with(overrides map[string]any) map[string]any {
	in := validInput()
	for k, v := range overrides {
		in[k] = v
	}
	return in
}

func messages(errs []shared.FieldError) []string {
	out := make([]string, 0, len(errs))
	for _, e := range errs {
		out = append(out, e.Message)
	}
	return out
}

func TestValidate_ValidInput(t *testing.T) {
	values, errs := measurement.Validate(validInput(), now)

	require.Empty(t, errs)
	assert.True(t, values.Weight.Equal(decimal.RequireFromString("70.5")))
	assert.True(t, values.Height.Equal(decimal.RequireFromString("1.8")))
	assert.Equal(t, "2026-01-15", values.RegistrationDate.Format(shared.DateLayout))
	assert.Equal(t, "21.76", values.BMI().String())
	assert.Equal(t, "50", values.CormicIndex().String())
}

func TestValidate_Weight(t *testing.T) {
	testCases := []struct {
		name    string
		weight  any
		wantErr string
	}{
		{"below minimum", 15, "El peso es demasiado bajo (mínimo 20 kg)"},
		{"zero", 0, "El peso debe ser mayor que 0"},
		{"negative", "-3", "El peso debe ser mayor que 0"},
		{"above maximum", 201, "El peso es demasiado alto (máximo 200 kg)"},
		{"not a number", "setenta", "valor numérico inválido (peso)"},
		{"boolean", true, "valor numérico inválido (peso)"},
		{"missing", nil, "El campo 'weight' es requerido"},
		{"lower bound", 20, ""},
		{"upper bound", "200.00", ""},
		{"decimal", 70.5, ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := measurement.Validate(with(map[string]any{measurement.FieldWeight: tc.weight}), now)
			if tc.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, measurement.FieldWeight, errs[0].Field)
			assert.Equal(t, tc.wantErr, errs[0].Message)
		})
	}
}

func TestValidate_Height(t *testing.T) {
	_, errs := measurement.Validate(with(map[string]any{
		measurement.FieldHeight:        "0.90",
		measurement.FieldSittingHeight: 0.5,
		measurement.FieldWingspan:      1.0,
	}), now)

	require.Len(t, errs, 1)
	assert.Equal(t, "La estatura es demasiado baja (mínimo 1.0 m)", errs[0].Message)
}

func TestValidate_SittingHeight(t *testing.T) {
	t.Run("greater than height", func(t *testing.T) {
		_, errs := measurement.Validate(with(map[string]any{
			measurement.FieldHeight:        1.80,
			measurement.FieldSittingHeight: 1.90,
		}), now)

		require.NotEmpty(t, errs)
		assert.Contains(t, messages(errs), "La altura sentado no puede ser mayor que la estatura")
		for _, e := range errs {
			assert.Equal(t, measurement.FieldSittingHeight, e.Field)
		}
	})

	t.Run("disproportionately low", func(t *testing.T) {
		_, errs := measurement.Validate(with(map[string]any{
			measurement.FieldHeight:        1.80,
			measurement.FieldSittingHeight: 0.60,
		}), now)

		require.Len(t, errs, 1)
		assert.Contains(t, errs[0].Message, "desproporcionadamente baja")
	})

	t.Run("exactly forty percent", func(t *testing.T) {
		_, errs := measurement.Validate(with(map[string]any{
			measurement.FieldHeight:        "2.00",
			measurement.FieldSittingHeight: "0.80",
			measurement.FieldWingspan:      "2.00",
		}), now)

		assert.Empty(t, errs)
	})

	t.Run("cross check skipped when height is unusable", func(t *testing.T) {
		_, errs := measurement.Validate(with(map[string]any{
			measurement.FieldHeight:        "abc",
			measurement.FieldSittingHeight: 1.2,
		}), now)

		require.Len(t, errs, 1)
		assert.Equal(t, measurement.FieldHeight, errs[0].Field)
	})
}

func TestValidate_WingspanRatio(t *testing.T) {
	testCases := []struct {
		name     string
		wingspan any
		wantErr  string
	}{
		{"too long", 2.70, "La proporción envergadura/estatura (1.5) está fuera del rango permitido (0.9 - 1.4)"},
		{"too short", 1.50, "La proporción envergadura/estatura (0.83) está fuera del rango permitido (0.9 - 1.4)"},
		{"upper ratio bound", "2.52", ""},
		{"lower ratio bound", "1.62", ""},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, errs := measurement.Validate(with(map[string]any{
				measurement.FieldHeight:   1.80,
				measurement.FieldWingspan: tc.wingspan,
			}), now)
			if tc.wantErr == "" {
				assert.Empty(t, errs)
				return
			}
			require.Len(t, errs, 1)
			assert.Equal(t, measurement.FieldWingspan, errs[0].Field)
			assert.Equal(t, tc.wantErr, errs[0].Message)
		})
	}
}

func TestValidate_RegistrationDate(t *testing.T) {
	testCases := []struct {
		name    string
		date    any
		want    string
		wantErr string
	}{
		{"tomorrow", "2026-10-19", "", "La fecha de registro no puede ser futura"},
		{"today late in the day", time.Date(2026, time.October, 18, 23, 59, 0, 0, time.UTC), "2026-10-18", ""},
		{"oldest allowed", "2016-10-18", "2016-10-18", ""},
		{"too old", "2016-10-17", "", "La fecha de registro no puede ser anterior a 10 años (mínimo 2016-10-18)"},
		{"rfc3339", "2025-03-01T10:00:00Z", "2025-03-01", ""},
		{"missing defaults to today", nil, "2026-10-18", ""},
		{"empty defaults to today", "", "2026-10-18", ""},
		{"malformed", "18/10/2026", "", "La fecha de registro tiene un formato de fecha inválido (use AAAA-MM-DD)"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			values, errs := measurement.Validate(with(map[string]any{measurement.FieldRegistrationDate: tc.date}), now)
			if tc.wantErr != "" {
				require.Len(t, errs, 1)
				assert.Equal(t, measurement.FieldRegistrationDate, errs[0].Field)
				assert.Equal(t, tc.wantErr, errs[0].Message)
				return
			}
			require.Empty(t, errs)
			assert.Equal(t, tc.want, values.RegistrationDate.Format(shared.DateLayout))
		})
	}
}

func TestValidate_AccumulatesInFieldOrder(t *testing.T) {
	_, errs := measurement.Validate(map[string]any{
		measurement.FieldWeight:           15,
		measurement.FieldHeight:           3,
		measurement.FieldWingspan:         "x",
		measurement.FieldRegistrationDate: "2030-01-01",
	}, now)

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, e.Field)
	}
	assert.Equal(t, []string{
		measurement.FieldWeight,
		measurement.FieldHeight,
		measurement.FieldSittingHeight,
		measurement.FieldWingspan,
		measurement.FieldRegistrationDate,
	}, fields)
}

func TestValues_Columns(t *testing.T) {
	values, errs := measurement.Validate(validInput(), now)
	require.Empty(t, errs)

	cols := values.Columns()
	assert.Equal(t, "21.76", cols[measurement.ColumnBMI].(decimal.Decimal).String())
	assert.Equal(t, "50", cols[measurement.ColumnCormicIndex].(decimal.Decimal).String())
	assert.Len(t, cols, 7)
}

func TestMeasurement_MergeRevalidates(t *testing.T) {
	stored := &measurement.Measurement{
		Weight:           decimal.RequireFromString("70.5"),
		Height:           decimal.RequireFromString("1.80"),
		SittingHeight:    decimal.RequireFromString("0.90"),
		Wingspan:         decimal.RequireFromString("1.85"),
		RegistrationDate: time.Date(2026, time.January, 15, 0, 0, 0, 0, time.UTC),
	}

	merged := stored.Merge(map[string]any{measurement.FieldHeight: "1.20", "notes": "ignored"})
	_, errs := measurement.Validate(merged, now)

	assert.NotContains(t, merged, "notes")
	require.NotEmpty(t, errs)
	assert.Contains(t, messages(errs), "La proporción envergadura/estatura (1.54) está fuera del rango permitido (0.9 - 1.4)")
}

func TestValidate_NonFiniteWeight(t *testing.T) {
	for _, weight := range []any{math.NaN(), math.Inf(1)} {
		_, errs := measurement.Validate(with(map[string]any{measurement.FieldWeight: weight}), now)

		require.Len(t, errs, 1)
		assert.Equal(t, measurement.FieldWeight, errs[0].Field)
		assert.Equal(t, "valor numérico inválido (peso)", errs[0].Message)
	}
}

func TestMeasurement_ValidateChangesKeepsStoredDate(t *testing.T) {
	stored := &measurement.Measurement{
		Weight:           decimal.RequireFromString("70.5"),
		Height:           decimal.RequireFromString("1.80"),
		SittingHeight:    decimal.RequireFromString("0.90"),
		Wingspan:         decimal.RequireFromString("1.85"),
		RegistrationDate: time.Date(2015, time.March, 2, 0, 0, 0, 0, time.UTC),
	}

	values, errs := stored.ValidateChanges(map[string]any{measurement.FieldWeight: 72}, now)
	require.Empty(t, errs)
	assert.Equal(t, stored.RegistrationDate, values.RegistrationDate)
	assert.Equal(t, "72", values.Weight.String())

	_, errs = stored.ValidateChanges(map[string]any{measurement.FieldRegistrationDate: "2015-03-02"}, now)
	require.Len(t, errs, 1)
	assert.Equal(t, measurement.FieldRegistrationDate, errs[0].Field)
}

func TestChartSeries_OrdersByDate(t *testing.T) {
	day := func(d int) time.Time { return time.Date(2026, time.March, d, 0, 0, 0, 0, time.UTC) }
	points := measurement.ChartSeries([]*measurement.Measurement{
		{ID: 3, RegistrationDate: day(10), BMI: decimal.NewFromInt(22)},
		{ID: 1, RegistrationDate: day(2), BMI: decimal.NewFromInt(20)},
		{ID: 2, RegistrationDate: day(10), BMI: decimal.NewFromInt(21)},
	})

	require.Len(t, points, 3)
	assert.Equal(t, "2026-03-02", points[0].Date)
	assert.True(t, points[1].BMI.Equal(decimal.NewFromInt(21)))
	assert.True(t, points[2].BMI.Equal(decimal.NewFromInt(22)))
}
