package coach_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AnderssonLeandro09/baloncesto-backend/internal/domain/coach"
)

func validPayload() map[string]any {
	return map[string]any{
		"first_name":    "Luis",
		"last_name":     "Jaramillo",
		"email":         " LJaramillo@UNL.edu.ec ",
		"dni":           "1101234567",
		"specialty":     "Preparación física",
		"assigned_club": "Club UNL",
	}
}

func TestRules_ValidateNew(t *testing.T) {
	fields, errs := coach.Rules{}.ValidateNew(validPayload())

	require.Empty(t, errs)
	assert.Equal(t, "ljaramillo@unl.edu.ec", fields["email"])
	assert.NotContains(t, fields, "persona_external")
}

func TestRules_ValidateNew_MissingFields(t *testing.T) {
	_, errs := coach.Rules{}.ValidateNew(map[string]any{"first_name": "Luis"})

	require.Len(t, errs, 5)
	assert.Equal(t, "last_name", errs[0].Field)
	assert.Equal(t, "El campo 'assigned_club' es requerido", errs[4].Message)
}

func TestRules_CheckEmail(t *testing.T) {
	testCases := []struct {
		name   string
		domain string
		email  string
		valid  bool
	}{
		{"default domain", "", "a@unl.edu.ec", true},
		{"other domain", "", "a@gmail.com", false},
		{"subdomain trick", "", "a@unl.edu.ec.evil.com", false},
		{"no local part", "", "@unl.edu.ec", false},
		{"configured domain", "@club.ec", "a@club.ec", true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			fe := coach.Rules{EmailDomain: tc.domain}.CheckEmail(tc.email)
			if tc.valid {
				assert.Nil(t, fe)
				return
			}
			require.NotNil(t, fe)
			assert.Contains(t, fe.Message, "dominio institucional")
		})
	}
}

func TestRules_ValidateChanges(t *testing.T) {
	fields, errs := coach.Rules{}.ValidateChanges(map[string]any{
		"specialty": " Táctica ",
		"dni":       "9999999999",
	})

	require.Empty(t, errs)
	assert.Len(t, fields, 1)
	assert.Equal(t, "Táctica", fields["specialty"])

	_, errs = coach.Rules{}.ValidateChanges(map[string]any{"email": "x@gmail.com"})
	require.Len(t, errs, 1)
	assert.Equal(t, "El correo debe pertenecer al dominio institucional @unl.edu.ec", errs[0].Message)
}

func TestCheckPhoto(t *testing.T) {
	testCases := []struct {
		name        string
		contentType string
		size        int64
		valid       bool
	}{
		{"jpeg", "image/jpeg", 1024, true},
		{"png upper case", "IMAGE/PNG", coach.MaxPhotoSize, true},
		{"webp", "image/webp", 10, true},
		{"gif", "image/gif", 1024, false},
		{"empty", "image/png", 0, false},
		{"too large", "image/png", coach.MaxPhotoSize + 1, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := coach.CheckPhoto(tc.contentType, tc.size)
			if tc.valid {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, coach.ErrInvalidPhoto)
			}
		})
	}
}
