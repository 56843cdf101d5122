package shared

import (
	"encoding/json"
	"errors"
	"math"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DecimalPlaces is the fixed precision used for every measured quantity.
const DecimalPlaces = 2

// DateLayout is the wire format for calendar dates.
const DateLayout = "2006-01-02"

// Parsed numbers must stay within these limits before rounding.
const (
	maxExponent = 20
	maxBitLen   = 128
)

// ErrInvalidNumber is returned when a value cannot be read as a number.
var ErrInvalidNumber = errors.New("valor numérico inválido")

// ErrInvalidDate is returned when a value cannot be read as a calendar date.
var ErrInvalidDate = errors.New("formato de fecha inválido (use AAAA-MM-DD)")

// CoerceDecimal converts any accepted numeric representation to a decimal
// rounded to DecimalPlaces. Booleans, NaN, infinities and numbers with an
// exponent or magnitude beyond what a measurement can hold are rejected.
func CoerceDecimal(value any) (decimal.Decimal, error) {
	var d decimal.Decimal
	switch v := value.(type) {
	case decimal.Decimal:
		d = v
	case *decimal.Decimal:
		if v == nil {
			return decimal.Zero, ErrInvalidNumber
		}
		d = *v
	case int:
		d = decimal.NewFromInt(int64(v))
	case int32:
		d = decimal.NewFromInt32(v)
	case int64:
		d = decimal.NewFromInt(v)
	case float32:
		if !finite(float64(v)) {
			return decimal.Zero, ErrInvalidNumber
		}
		d = decimal.NewFromFloat32(v)
	case float64:
		if !finite(v) {
			return decimal.Zero, ErrInvalidNumber
		}
		d = decimal.NewFromFloat(v)
	case json.Number:
		parsed, err := decimal.NewFromString(v.String())
		if err != nil {
			return decimal.Zero, ErrInvalidNumber
		}
		d = parsed
	case string:
		parsed, err := decimal.NewFromString(strings.TrimSpace(v))
		if err != nil {
			return decimal.Zero, ErrInvalidNumber
		}
		d = parsed
	default:
		return decimal.Zero, ErrInvalidNumber
	}
	if !inRange(d) {
		return decimal.Zero, ErrInvalidNumber
	}
	return d.Round(DecimalPlaces), nil
}

func finite(f float64) bool {
	return !math.IsNaN(f) && !math.IsInf(f, 0)
}

func inRange(d decimal.Decimal) bool {
	exp := d.Exponent()
	return exp >= -maxExponent && exp <= maxExponent && d.Coefficient().BitLen() <= maxBitLen
}

// CoerceDate converts a time.Time, a YYYY-MM-DD string or an RFC 3339
// timestamp into a UTC calendar date (midnight).
func CoerceDate(value any) (time.Time, error) {
	switch v := value.(type) {
	case time.Time:
		return DateOnly(v), nil
	case *time.Time:
		if v == nil {
			return time.Time{}, ErrInvalidDate
		}
		return DateOnly(*v), nil
	case string:
		s := strings.TrimSpace(v)
		if t, err := time.Parse(DateLayout, s); err == nil {
			return t, nil
		}
		if t, err := time.Parse(time.RFC3339, s); err == nil {
			return DateOnly(t), nil
		}
		return time.Time{}, ErrInvalidDate
	default:
		return time.Time{}, ErrInvalidDate
	}
}

// DateOnly truncates t to its calendar date in t's own location, returned as UTC midnight.
func DateOnly(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// AgeOn returns the completed years between birth and the given day.
func AgeOn(birth, day time.Time) int {
	birth = DateOnly(birth)
	day = DateOnly(day)
	age := day.Year() - birth.Year()
	if day.Month() < birth.Month() || (day.Month() == birth.Month() && day.Day() < birth.Day()) {
		age--
	}
	if age < 0 {
		return 0
	}
	return age
}

// ErrInvalidID is returned when a value is not a positive integer id.
var ErrInvalidID = errors.New("identificador inválido")

// CoerceID converts a numeric value into a positive integer id.
func CoerceID(value any) (int64, error) {
	d, err := CoerceDecimal(value)
	if err != nil || !d.IsInteger() || !d.IsPositive() {
		return 0, ErrInvalidID
	}
	return d.IntPart(), nil
}
