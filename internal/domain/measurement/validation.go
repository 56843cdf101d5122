package measurement

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

// Input keys accepted by Validate.
const (
	FieldWeight           = "weight"
	FieldHeight           = "height"
	FieldSittingHeight    = "sitting_height"
	FieldWingspan         = "wingspan"
	FieldRegistrationDate = "registration_date"
)

// RetentionYears bounds how far back a registration date may go.
const RetentionYears = 10

var (
	minWeight        = decimal.NewFromInt(20)
	maxWeight        = decimal.NewFromInt(200)
	minHeight        = decimal.NewFromInt(1)
	maxHeight        = decimal.RequireFromString("2.5")
	minSittingHeight = decimal.RequireFromString("0.5")
	maxSittingHeight = decimal.RequireFromString("1.5")
	minWingspan      = decimal.NewFromInt(1)
	maxWingspan      = decimal.NewFromInt(3)

	minSittingRatio  = decimal.RequireFromString("0.4")
	minWingspanRatio = decimal.RequireFromString("0.9")
	maxWingspanRatio = decimal.RequireFromString("1.4")

	hundred = decimal.NewFromInt(100)
)

// Values holds the coerced, validated inputs of a measurement.
type Values struct {
	Weight           decimal.Decimal
	Height           decimal.Decimal
	SittingHeight    decimal.Decimal
	Wingspan         decimal.Decimal
	RegistrationDate time.Time
}

// BMI returns weight / height², rounded to two places.
func (v Values) BMI() decimal.Decimal {
	if v.Height.IsZero() {
		return decimal.Zero
	}
	return v.Weight.Div(v.Height.Mul(v.Height)).Round(shared.DecimalPlaces)
}

// CormicIndex returns sitting height / height × 100, rounded to two places.
func (v Values) CormicIndex() decimal.Decimal {
	if v.Height.IsZero() {
		return decimal.Zero
	}
	return v.SittingHeight.Div(v.Height).Mul(hundred).Round(shared.DecimalPlaces)
}

type bound struct {
	field    string
	label    string
	article  string
	unit     string
	min, max decimal.Decimal
	// places is the precision used when quoting the limits.
	places int32
	// feminine selects "baja/alta" over "bajo/alto".
	feminine bool
}

var (
	weightBound        = bound{FieldWeight, "peso", "El", "kg", minWeight, maxWeight, 0, false}
	heightBound        = bound{FieldHeight, "estatura", "La", "m", minHeight, maxHeight, 1, true}
	sittingHeightBound = bound{FieldSittingHeight, "altura sentado", "La", "m", minSittingHeight, maxSittingHeight, 1, true}
	wingspanBound      = bound{FieldWingspan, "envergadura", "La", "m", minWingspan, maxWingspan, 1, true}
)

// Validate checks a raw measurement submission. Every single-field rule is
// evaluated; cross-field rules only run when their inputs are positive
// numbers, even out-of-range ones, so a sitting height above the stature is
// reported alongside its range error. The returned Values are meaningful
// only when no errors are returned.
func Validate(raw map[string]any, now time.Time) (Values, []shared.FieldError) {
	return validate(raw, now, true)
}

// ValidateChanges re-validates the stored record with changes applied. The
// registration date window is only checked when the date itself changes;
// otherwise the stored date is kept.
func (m *Measurement) ValidateChanges(changes map[string]any, now time.Time) (Values, []shared.FieldError) {
	_, dateChanged := changes[FieldRegistrationDate]
	values, errs := validate(m.Merge(changes), now, dateChanged)
	if !dateChanged {
		values.RegistrationDate = m.RegistrationDate
	}
	return values, errs
}

func validate(raw map[string]any, now time.Time, checkDate bool) (Values, []shared.FieldError) {
	var (
		values Values
		errs   []shared.FieldError
		ok     = map[string]bool{}
	)

	for _, b := range []bound{weightBound, heightBound, sittingHeightBound, wingspanBound} {
		d, fe := b.check(raw[b.field])
		if fe != nil {
			errs = append(errs, *fe)
		}
		// Out-of-range values still take part in the proportion checks;
		// missing, malformed or non-positive ones do not.
		ok[b.field] = d.IsPositive()
		switch b.field {
		case FieldWeight:
			values.Weight = d
		case FieldHeight:
			values.Height = d
		case FieldSittingHeight:
			values.SittingHeight = d
		case FieldWingspan:
			values.Wingspan = d
		}
	}

	if ok[FieldSittingHeight] && ok[FieldHeight] {
		if fe := checkSittingProportion(values.SittingHeight, values.Height); fe != nil {
			errs = append(errs, *fe)
		}
	}

	if ok[FieldWingspan] && ok[FieldHeight] {
		if fe := checkWingspanRatio(values.Wingspan, values.Height); fe != nil {
			errs = append(errs, *fe)
		}
	}

	if checkDate {
		date, fe := checkRegistrationDate(raw[FieldRegistrationDate], now)
		if fe != nil {
			errs = append(errs, *fe)
		} else {
			values.RegistrationDate = date
		}
	}

	return values, errs
}

func (b bound) check(raw any) (decimal.Decimal, *shared.FieldError) {
	if raw == nil {
		return decimal.Zero, &shared.FieldError{Field: b.field, Message: fmt.Sprintf("El campo '%s' es requerido", b.field)}
	}

	d, err := shared.CoerceDecimal(raw)
	if err != nil {
		return decimal.Zero, &shared.FieldError{Field: b.field, Message: fmt.Sprintf("%s (%s)", err.Error(), b.label)}
	}

	low, high := "bajo", "alto"
	if b.feminine {
		low, high = "baja", "alta"
	}

	switch {
	case !d.IsPositive():
		return d, &shared.FieldError{Field: b.field, Message: fmt.Sprintf("%s %s debe ser mayor que 0", b.article, b.label)}
	case d.LessThan(b.min):
		return d, &shared.FieldError{Field: b.field, Message: fmt.Sprintf("%s %s es demasiado %s (mínimo %s %s)", b.article, b.label, low, b.min.StringFixed(b.places), b.unit)}
	case d.GreaterThan(b.max):
		return d, &shared.FieldError{Field: b.field, Message: fmt.Sprintf("%s %s es demasiado %s (máximo %s %s)", b.article, b.label, high, b.max.StringFixed(b.places), b.unit)}
	}
	return d, nil
}

func checkSittingProportion(sitting, height decimal.Decimal) *shared.FieldError {
	if sitting.GreaterThan(height) {
		return &shared.FieldError{Field: FieldSittingHeight, Message: "La altura sentado no puede ser mayor que la estatura"}
	}
	if sitting.LessThan(height.Mul(minSittingRatio)) {
		return &shared.FieldError{
			Field:   FieldSittingHeight,
			Message: "La altura sentado es desproporcionadamente baja respecto a la estatura (mínimo 40% de la estatura)",
		}
	}
	return nil
}

func checkWingspanRatio(wingspan, height decimal.Decimal) *shared.FieldError {
	if wingspan.GreaterThanOrEqual(height.Mul(minWingspanRatio)) && wingspan.LessThanOrEqual(height.Mul(maxWingspanRatio)) {
		return nil
	}
	ratio := wingspan.Div(height).Round(shared.DecimalPlaces)
	return &shared.FieldError{
		Field: FieldWingspan,
		Message: fmt.Sprintf(
			"La proporción envergadura/estatura (%s) está fuera del rango permitido (%s - %s)",
			ratio.String(), minWingspanRatio.String(), maxWingspanRatio.String(),
		),
	}
}

func checkRegistrationDate(raw any, now time.Time) (time.Time, *shared.FieldError) {
	today := shared.DateOnly(now)
	if raw == nil {
		return today, nil
	}
	if s, isString := raw.(string); isString && s == "" {
		return today, nil
	}

	date, err := shared.CoerceDate(raw)
	if err != nil {
		return time.Time{}, &shared.FieldError{Field: FieldRegistrationDate, Message: "La fecha de registro tiene un " + err.Error()}
	}

	if date.After(today) {
		return time.Time{}, &shared.FieldError{Field: FieldRegistrationDate, Message: "La fecha de registro no puede ser futura"}
	}

	oldest := today.AddDate(-RetentionYears, 0, 0)
	if date.Before(oldest) {
		return time.Time{}, &shared.FieldError{
			Field: FieldRegistrationDate,
			Message: fmt.Sprintf(
				"La fecha de registro no puede ser anterior a %d años (mínimo %s)",
				RetentionYears, oldest.Format(shared.DateLayout),
			),
		}
	}
	return date, nil
}
