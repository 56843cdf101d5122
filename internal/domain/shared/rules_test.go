package shared_test

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/shared"
)

func TestRequiredFields(t *testing.T) {
	errs := shared.RequiredFields(map[string]any{
		"first_name": "Ana",
		"last_name":  "   ",
		"email":      nil,
	}, []string{"first_name", "last_name", "email", "dni"})

	assert.Equal(t, []shared.FieldError{
		{Field: "last_name", Message: "El campo 'last_name' es requerido"},
		{Field: "email", Message: "El campo 'email' es requerido"},
		{Field: "dni", Message: "El campo 'dni' es requerido"},
	}, errs)
}

func TestValidateDNI(t *testing.T) {
	testCases := []struct {
		input   string
		wantErr string
	}{
		{"1104567890", ""},
		{" 1104567890 ", ""},
		{"", "El DNI es obligatorio"},
		{"110456789", "El DNI debe tener 10 dígitos numéricos"},
		{"11045678901", "El DNI debe tener 10 dígitos numéricos"},
		{"11045A7890", "El DNI debe tener 10 dígitos numéricos"},
	}

	for _, tc := range testCases {
		t.Run(tc.input, func(t *testing.T) {
			fe := shared.ValidateDNI(tc.input)
			if tc.wantErr == "" {
				assert.Nil(t, fe)
				return
			}
			if assert.NotNil(t, fe) {
				assert.Equal(t, "dni", fe.Field)
				assert.Equal(t, tc.wantErr, fe.Message)
			}
		})
	}
}

func TestAllowedFields(t *testing.T) {
	got := shared.AllowedFields(map[string]any{
		"first_name": "Ana",
		"dni":        "1104567890",
		"is_active":  false,
	}, []string{"first_name", "last_name"})

	assert.Equal(t, shared.Fields{"first_name": "Ana"}, got)
}

func TestDuplicateConstraint(t *testing.T) {
	wrapped := fmt.Errorf("insert athlete: %w", &shared.DuplicateError{Constraint: "athletes_dni_key"})

	name, ok := shared.DuplicateConstraint(wrapped)
	assert.True(t, ok)
	assert.Equal(t, "athletes_dni_key", name)
	assert.ErrorIs(t, wrapped, shared.ErrDuplicate)

	_, ok = shared.DuplicateConstraint(errors.New("connection reset"))
	assert.False(t, ok)
}

func TestMessage(t *testing.T) {
	assert.Equal(t, "Atleta no encontrado", shared.Message(errors.New("atleta no encontrado")))
	assert.Equal(t, "Ésta", shared.Message(errors.New("ésta")))
	assert.Empty(t, shared.Message(nil))
}
