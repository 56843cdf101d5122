package athlete_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/athlete"
	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

var now = time.Date(2026, time.October, 18, 9, 0, 0, 0, time.UTC)

func TestValidateNew_Valid(t *testing.T) {
	fields, errs := athlete.ValidateNew(map[string]any{
		"first_name": " Ana ",
		"last_name":  "Paredes",
		"dni":        "1104567890",
		"birth_date": "2010-05-20",
		"sex":        "f",
		"email":      "Ana@Mail.com",
		"is_active":  false,
	}, now)

	require.Empty(t, errs)
	assert.Equal(t, "Ana", fields["first_name"])
	assert.Equal(t, "F", fields["sex"])
	assert.Equal(t, "ana@mail.com", fields["email"])
	assert.Equal(t, time.Date(2010, time.May, 20, 0, 0, 0, 0, time.UTC), fields["birth_date"])
	assert.NotContains(t, fields, "is_active")
}

func TestValidateNew_Errors(t *testing.T) {
	testCases := []struct {
		name    string
		data    map[string]any
		field   string
		message string
	}{
		{"missing dni", map[string]any{"dni": ""}, "dni", "El campo 'dni' es requerido"},
		{"short dni", map[string]any{"dni": "12345"}, "dni", "El DNI debe tener 10 dígitos numéricos"},
		{"bad sex", map[string]any{"sex": "X"}, "sex", "El sexo debe ser M, F u O"},
		{"future birth", map[string]any{"birth_date": "2027-01-01"}, "birth_date", "La fecha de nacimiento no puede ser futura"},
		{"bad email", map[string]any{"email": "no-es-correo"}, "email", "El correo electrónico no es válido"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			data := map[string]any{
				"first_name": "Ana",
				"last_name":  "Paredes",
				"dni":        "1104567890",
				"birth_date": "2010-05-20",
				"sex":        "F",
			}
			for k, v := range tc.data {
				data[k] = v
			}

			_, errs := athlete.ValidateNew(data, now)
			require.Len(t, errs, 1)
			assert.Equal(t, shared.FieldError{Field: tc.field, Message: tc.message}, errs[0])
		})
	}
}

func TestValidateChanges_AllowList(t *testing.T) {
	fields, errs := athlete.ValidateChanges(map[string]any{
		"phone":     "0991234567",
		"dni":       "0000000000",
		"is_active": false,
	}, now)

	require.Empty(t, errs)
	assert.Equal(t, shared.Fields{"phone": "0991234567"}, fields)
}

func TestValidateChanges_RejectsBlankName(t *testing.T) {
	_, errs := athlete.ValidateChanges(map[string]any{"first_name": " "}, now)
	require.Len(t, errs, 1)
	assert.Equal(t, "first_name", errs[0].Field)
}

func TestAthlete_AgeOn(t *testing.T) {
	a := &athlete.Athlete{FirstName: "Ana", LastName: "Paredes", BirthDate: time.Date(2010, time.October, 19, 0, 0, 0, 0, time.UTC)}
	assert.Equal(t, 15, a.AgeOn(now))
	assert.Equal(t, "Ana Paredes", a.FullName())
}
